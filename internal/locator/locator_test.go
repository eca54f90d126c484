// ABOUTME: Tests for language server discovery
// ABOUTME: Uses a fixture process source and httptest servers as probe targets

package locator

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

type fakeSource struct {
	procs    []Process
	procsErr error
	ports    map[int32][]int
	portsErr error
}

func (f *fakeSource) Processes(ctx context.Context) ([]Process, error) {
	return f.procs, f.procsErr
}

func (f *fakeSource) ListeningPorts(ctx context.Context, pid int32) ([]int, error) {
	if f.portsErr != nil {
		return nil, f.portsErr
	}
	return f.ports[pid], nil
}

// probeRecorder tracks the order in which candidate ports are hit.
type probeRecorder struct {
	mu    sync.Mutex
	ports []int
}

func (r *probeRecorder) record(port int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ports = append(r.ports, port)
}

func (r *probeRecorder) seen() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.ports...)
}

func serverPort(t *testing.T, server *httptest.Server) int {
	t.Helper()
	addr, ok := server.Listener.Addr().(*net.TCPAddr)
	if !ok {
		t.Fatalf("unexpected listener address type %T", server.Listener.Addr())
	}
	return addr.Port
}

func recordingServer(t *testing.T, rec *probeRecorder, status int) *httptest.Server {
	t.Helper()
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.record(serverPort(t, server))
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)
	return server
}

func languageServerProcess(pid int32, token string) Process {
	return Process{
		PID:     pid,
		Cmdline: "/opt/windsurf/bin/language_server_linux_x64 --csrf_token " + token + " --workspace /home/ann/project",
	}
}

func TestLocate_ProbesPortsInOrder(t *testing.T) {
	rec := &probeRecorder{}
	miss1 := recordingServer(t, rec, http.StatusNotFound)
	miss2 := recordingServer(t, rec, http.StatusNotFound)
	hit := recordingServer(t, rec, http.StatusOK)

	candidates := []int{serverPort(t, miss1), serverPort(t, miss2), serverPort(t, hit)}
	source := &fakeSource{
		procs: []Process{languageServerProcess(42, "abc-123")},
		ports: map[int32][]int{42: candidates},
	}

	l := New(WithSource(source))
	ep, err := l.Locate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ep.Port != serverPort(t, hit) {
		t.Errorf("expected port %d, got %d", serverPort(t, hit), ep.Port)
	}
	if ep.PID != 42 {
		t.Errorf("expected pid 42, got %d", ep.PID)
	}
	if ep.Token != "abc-123" {
		t.Errorf("expected token abc-123, got %s", ep.Token)
	}

	seen := rec.seen()
	if len(seen) != 3 {
		t.Fatalf("expected 3 probes, got %d", len(seen))
	}
	for i, port := range candidates {
		if seen[i] != port {
			t.Errorf("probe %d: expected port %d, got %d", i, port, seen[i])
		}
	}
}

func TestLocate_StopsAtFirstSuccess(t *testing.T) {
	rec := &probeRecorder{}
	hit := recordingServer(t, rec, http.StatusOK)
	never := recordingServer(t, rec, http.StatusOK)

	source := &fakeSource{
		procs: []Process{languageServerProcess(7, "tok-1")},
		ports: map[int32][]int{7: {serverPort(t, hit), serverPort(t, never)}},
	}

	l := New(WithSource(source))
	ep, err := l.Locate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ep.Port != serverPort(t, hit) {
		t.Errorf("expected first port %d, got %d", serverPort(t, hit), ep.Port)
	}
	if seen := rec.seen(); len(seen) != 1 {
		t.Errorf("expected probing to stop after first success, got %d probes", len(seen))
	}
}

func TestLocate_ContinuesPastDeadPort(t *testing.T) {
	// A port that refuses connections must be treated as "try the next one".
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve port: %v", err)
	}
	deadPort := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	rec := &probeRecorder{}
	hit := recordingServer(t, rec, http.StatusOK)

	source := &fakeSource{
		procs: []Process{languageServerProcess(9, "tok-2")},
		ports: map[int32][]int{9: {deadPort, serverPort(t, hit)}},
	}

	l := New(WithSource(source))
	ep, err := l.Locate(context.Background())
	if err != nil {
		t.Fatalf("expected discovery to survive a dead candidate, got: %v", err)
	}
	if ep.Port != serverPort(t, hit) {
		t.Errorf("expected port %d, got %d", serverPort(t, hit), ep.Port)
	}
}

func TestLocate_NoMatchingProcess(t *testing.T) {
	source := &fakeSource{
		procs: []Process{
			{PID: 1, Cmdline: "/sbin/init"},
			{PID: 2, Cmdline: "/usr/bin/windsurf --no-sandbox"},
		},
	}

	l := New(WithSource(source))
	_, err := l.Locate(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLocate_TokenNotExtractable(t *testing.T) {
	// Signature and flag present, but no value follows the flag.
	source := &fakeSource{
		procs: []Process{{PID: 5, Cmdline: "/opt/windsurf/language_server_linux_x64 --csrf_token"}},
	}

	l := New(WithSource(source))
	_, err := l.Locate(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLocate_NoListeningPorts(t *testing.T) {
	source := &fakeSource{
		procs: []Process{languageServerProcess(11, "tok-3")},
		ports: map[int32][]int{},
	}

	l := New(WithSource(source))
	_, err := l.Locate(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLocate_NoPortAnswers(t *testing.T) {
	rec := &probeRecorder{}
	miss := recordingServer(t, rec, http.StatusInternalServerError)

	source := &fakeSource{
		procs: []Process{languageServerProcess(13, "tok-4")},
		ports: map[int32][]int{13: {serverPort(t, miss)}},
	}

	l := New(WithSource(source))
	_, err := l.Locate(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLocate_ProcessListingError(t *testing.T) {
	source := &fakeSource{procsErr: errors.New("proc filesystem unavailable")}

	l := New(WithSource(source))
	_, err := l.Locate(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLocate_FirstMatchingProcessWins(t *testing.T) {
	rec := &probeRecorder{}
	hit := recordingServer(t, rec, http.StatusOK)

	source := &fakeSource{
		procs: []Process{
			languageServerProcess(21, "first-token"),
			languageServerProcess(22, "second-token"),
		},
		ports: map[int32][]int{21: {serverPort(t, hit)}, 22: {1}},
	}

	l := New(WithSource(source))
	ep, err := l.Locate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ep.PID != 21 {
		t.Errorf("expected first matching pid 21, got %d", ep.PID)
	}
	if ep.Token != "first-token" {
		t.Errorf("expected first-token, got %s", ep.Token)
	}
}

func TestLocate_ProbeRequestShape(t *testing.T) {
	var gotPath, gotToken, gotProtocol, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get(CsrfTokenHeader)
		gotProtocol = r.Header.Get(ProtocolVersionHeader)
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	source := &fakeSource{
		procs: []Process{languageServerProcess(31, "probe-token")},
		ports: map[int32][]int{31: {serverPort(t, server)}},
	}

	l := New(WithSource(source))
	if _, err := l.Locate(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != APIPath {
		t.Errorf("expected path %s, got %s", APIPath, gotPath)
	}
	if gotToken != "probe-token" {
		t.Errorf("expected csrf token header probe-token, got %s", gotToken)
	}
	if gotProtocol != ProtocolVersion {
		t.Errorf("expected protocol version %s, got %s", ProtocolVersion, gotProtocol)
	}
	if gotBody != "{}" {
		t.Errorf("expected empty JSON probe body, got %s", gotBody)
	}
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name    string
		cmdline string
		want    string
	}{
		{
			name:    "standard launch arguments",
			cmdline: "language_server_windows_x64.exe --csrf_token 550e8400-e29b-41d4-a716-446655440000 --ide windsurf",
			want:    "550e8400-e29b-41d4-a716-446655440000",
		},
		{
			name:    "token at end of command line",
			cmdline: "language_server_linux --csrf_token abc-DEF-123",
			want:    "abc-DEF-123",
		},
		{
			name:    "flag without value",
			cmdline: "language_server_linux --csrf_token",
			want:    "",
		},
		{
			name:    "no flag at all",
			cmdline: "language_server_linux --port 0",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractToken(tt.cmdline); got != tt.want {
				t.Errorf("extractToken(%q) = %q, want %q", tt.cmdline, got, tt.want)
			}
		})
	}
}
