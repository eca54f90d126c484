// ABOUTME: Client for the language server's GetUserStatus API
// ABOUTME: Discovers the endpoint per call and parses the quota response

package windsurf

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/gitcoder27/windsurf-quota/internal/locator"
)

var (
	// ErrNetwork covers connection failures, non-200 statuses, and timeouts
	// during the metrics call.
	ErrNetwork = errors.New("language server request failed")
	// ErrParse means the response body did not deserialize into the expected
	// shape.
	ErrParse = errors.New("unexpected language server response")
)

const (
	ideName       = "windsurf"
	extensionName = "windsurf-quota"
	defaultLocale = "en"

	// The metrics call gets a longer budget than the discovery probe.
	defaultFetchTimeout = 10 * time.Second
)

// Finder discovers a language server endpoint. Satisfied by *locator.Locator.
type Finder interface {
	Locate(ctx context.Context) (*locator.Endpoint, error)
}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	Finder     Finder
	Timeout    time.Duration
	Locale     string
	HTTPClient *http.Client
}

// Client fetches quota snapshots from the discovered language server. It
// holds no connection state; every fetch re-runs discovery from scratch.
type Client struct {
	finder     Finder
	httpClient *http.Client
	timeout    time.Duration
	locale     string
}

// New creates a metrics client.
func New(opts Options) *Client {
	c := &Client{
		finder:     opts.Finder,
		httpClient: opts.HTTPClient,
		timeout:    opts.Timeout,
		locale:     opts.Locale,
	}
	if c.finder == nil {
		c.finder = locator.New()
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.timeout <= 0 {
		c.timeout = defaultFetchTimeout
	}
	if c.locale == "" {
		c.locale = defaultLocale
	}
	return c
}

// FetchUserStatus runs discovery, issues one GetUserStatus call, and returns
// the parsed snapshot. Locator failures propagate unchanged; network and
// parse failures wrap ErrNetwork and ErrParse respectively.
func (c *Client) FetchUserStatus(ctx context.Context) (*QuotaSnapshot, error) {
	ep, err := c.finder.Locate(ctx)
	if err != nil {
		return nil, err
	}
	log.Debugf("windsurf: fetching user status (pid=%d port=%d)", ep.PID, ep.Port)

	payload, err := json.Marshal(fetchRequest{
		Metadata: requestMetadata{
			IDEName:       ideName,
			ExtensionName: extensionName,
			Locale:        c.locale,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encoding request: %v", ErrNetwork, err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := fmt.Sprintf("http://127.0.0.1:%d%s", ep.Port, locator.APIPath)
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(locator.CsrfTokenHeader, ep.Token)
	req.Header.Set(locator.ProtocolVersionHeader, locator.ProtocolVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if reqCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: request timed out after %s", ErrNetwork, c.timeout)
		}
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: language server returned status %d", ErrNetwork, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrNetwork, err)
	}

	var parsed userStatusResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if parsed.UserStatus == nil {
		return nil, fmt.Errorf("%w: missing userStatus object", ErrParse)
	}

	return newSnapshot(parsed.UserStatus), nil
}
