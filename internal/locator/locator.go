// ABOUTME: Discovers the running Windsurf language server on the loopback interface
// ABOUTME: Matches the process signature, extracts the CSRF token, and probes candidate ports

package locator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// ErrNotFound is returned when no usable language server endpoint could be
// discovered. All discovery failure modes collapse into this error because the
// remedy is the same: make sure Windsurf is running with an open workspace.
var ErrNotFound = errors.New("windsurf language server not found")

// Wire constants shared with the metrics client. The probe hits the real
// GetUserStatus endpoint because the only proof that a candidate port is the
// right one is that it answers the intended API.
const (
	APIPath               = "/exa.language_server_pb.LanguageServerService/GetUserStatus"
	CsrfTokenHeader       = "X-Windsurf-Csrf-Token"
	ProtocolVersionHeader = "Connect-Protocol-Version"
	ProtocolVersion       = "1"
)

const (
	// DefaultProcessPattern matches the language server binary across
	// platforms (language_server_windows_x64.exe, language_server_linux, ...).
	DefaultProcessPattern = "language_server"

	tokenFlag           = "--csrf_token"
	defaultProbeTimeout = 3 * time.Second
)

var tokenPattern = regexp.MustCompile(tokenFlag + `\s+([A-Za-z0-9-]+)`)

// Endpoint identifies a language server that answered the probe successfully.
// It is discovered fresh for every fetch and never cached.
type Endpoint struct {
	PID   int32
	Port  int
	Token string
}

// Process is a running process as seen by a ProcessSource.
type Process struct {
	PID     int32
	Cmdline string
}

// ProcessSource enumerates processes and their listening sockets. The default
// implementation asks the operating system via gopsutil; tests substitute a
// fixture.
type ProcessSource interface {
	Processes(ctx context.Context) ([]Process, error)
	ListeningPorts(ctx context.Context, pid int32) ([]int, error)
}

// ProbeFunc checks whether a candidate port answers the target API. A nil
// error selects the port.
type ProbeFunc func(ctx context.Context, port int, token string) error

// Locator discovers the language server endpoint.
type Locator struct {
	source       ProcessSource
	probe        ProbeFunc
	pattern      string
	probeTimeout time.Duration
	httpClient   *http.Client
}

// Option configures a Locator.
type Option func(*Locator)

// WithSource replaces the OS-backed process source.
func WithSource(source ProcessSource) Option {
	return func(l *Locator) { l.source = source }
}

// WithProbe replaces the HTTP probe.
func WithProbe(probe ProbeFunc) Option {
	return func(l *Locator) { l.probe = probe }
}

// WithProcessPattern overrides the command-line signature to match.
func WithProcessPattern(pattern string) Option {
	return func(l *Locator) {
		if pattern != "" {
			l.pattern = pattern
		}
	}
}

// WithProbeTimeout overrides the per-port probe timeout.
func WithProbeTimeout(timeout time.Duration) Option {
	return func(l *Locator) {
		if timeout > 0 {
			l.probeTimeout = timeout
		}
	}
}

// New creates a Locator backed by the operating system.
func New(opts ...Option) *Locator {
	l := &Locator{
		source:       systemSource{},
		pattern:      DefaultProcessPattern,
		probeTimeout: defaultProbeTimeout,
		httpClient:   &http.Client{},
	}
	l.probe = l.httpProbe
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Locate finds the language server process, extracts its CSRF token, and
// probes its loopback listeners in enumeration order until one answers the
// API with HTTP 200. Every failure mode wraps ErrNotFound.
func (l *Locator) Locate(ctx context.Context) (*Endpoint, error) {
	procs, err := l.source.Processes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listing processes: %v", ErrNotFound, err)
	}

	proc := l.matchProcess(procs)
	if proc == nil {
		return nil, fmt.Errorf("%w: no process matching %q with a %s argument", ErrNotFound, l.pattern, tokenFlag)
	}

	token := extractToken(proc.Cmdline)
	if token == "" {
		return nil, fmt.Errorf("%w: process %d has no extractable csrf token", ErrNotFound, proc.PID)
	}

	ports, err := l.source.ListeningPorts(ctx, proc.PID)
	if err != nil {
		return nil, fmt.Errorf("%w: listing sockets for pid %d: %v", ErrNotFound, proc.PID, err)
	}
	if len(ports) == 0 {
		return nil, fmt.Errorf("%w: process %d has no loopback listeners", ErrNotFound, proc.PID)
	}

	for _, port := range ports {
		if err := l.probe(ctx, port, token); err != nil {
			log.Debugf("locator: probe failed (pid=%d port=%d): %v", proc.PID, port, err)
			continue
		}
		return &Endpoint{PID: proc.PID, Port: port, Token: token}, nil
	}
	return nil, fmt.Errorf("%w: none of %d candidate ports answered the probe", ErrNotFound, len(ports))
}

// matchProcess returns the first process whose command line carries both the
// signature and the token flag. When several match (multiple IDE windows) the
// first in enumeration order wins; this is a known limitation.
func (l *Locator) matchProcess(procs []Process) *Process {
	var match *Process
	extras := 0
	for i := range procs {
		p := &procs[i]
		if !strings.Contains(p.Cmdline, l.pattern) || !strings.Contains(p.Cmdline, tokenFlag) {
			continue
		}
		if match == nil {
			match = p
			continue
		}
		extras++
	}
	if extras > 0 {
		log.Debugf("locator: %d additional matching processes ignored (pid=%d selected)", extras, match.PID)
	}
	return match
}

// extractToken pulls the value following the csrf token flag. Tokens are
// alphanumerics and hyphens.
func extractToken(cmdline string) string {
	m := tokenPattern.FindStringSubmatch(cmdline)
	if len(m) != 2 {
		return ""
	}
	return m[1]
}

// httpProbe issues a minimal GetUserStatus call with an empty body. Only an
// HTTP 200 selects the port; connection errors and other statuses mean "try
// the next candidate".
func (l *Locator) httpProbe(ctx context.Context, port int, token string) error {
	probeCtx, cancel := context.WithTimeout(ctx, l.probeTimeout)
	defer cancel()

	url := fmt.Sprintf("http://127.0.0.1:%d%s", port, APIPath)
	req, err := http.NewRequestWithContext(probeCtx, http.MethodPost, url, strings.NewReader("{}"))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(CsrfTokenHeader, token)
	req.Header.Set(ProtocolVersionHeader, ProtocolVersion)

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}
