package fetch

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vikin91/repotrace/internal/models"
)

const fetchTimeout = 60 * time.Second

// TLSPolicy controls certificate verification for remote metadata fetches.
// The zero value verifies certificates; Insecure must be requested
// explicitly by the caller and is never a process-wide default.
type TLSPolicy struct {
	Insecure bool
}

// Client fetches repository metadata over HTTP(S).
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a metadata fetch client with a bounded timeout and the
// given TLS trust policy.
func NewClient(policy TLSPolicy, userAgent string) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if policy.Insecure {
		logrus.Warn("TLS certificate verification is DISABLED")
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   fetchTimeout,
			Transport: transport,
		},
		userAgent: userAgent,
	}
}

// Get fetches a URL and returns the response body. HTTP-level and
// transport-level failures are both reported as Fetch errors; the caller
// may skip the affected repository and continue with others.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &models.TraceError{Type: models.ErrFetch, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	logrus.Debugf("Fetching: %s", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &models.TraceError{
			Type: models.ErrFetch,
			Err:  fmt.Errorf("request failed: %w", err),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &models.TraceError{
			Type: models.ErrFetch,
			Err:  fmt.Errorf("HTTP %d %s for %s", resp.StatusCode, http.StatusText(resp.StatusCode), url),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.TraceError{
			Type: models.ErrFetch,
			Err:  fmt.Errorf("reading response body: %w", err),
		}
	}

	logrus.Debugf("Fetched %d bytes from %s", len(body), url)
	return body, nil
}
