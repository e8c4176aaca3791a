// Package cnpja queries the open CNPJá office endpoint for per-state tax
// registrations (inscrições estaduais).
package cnpja

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/adapta-br/consulta-cnpj/internal/resilience"
	"github.com/adapta-br/consulta-cnpj/pkg/provider"
)

const defaultBaseURL = "https://open.cnpja.com"

// Client fetches state registrations by identifier.
type Client interface {
	Registrations(ctx context.Context, cnpj string) ([]Registration, error)
}

// Registration is one jurisdiction-level tax registration. A company
// legitimately may have none.
type Registration struct {
	State      string `json:"state"`
	Number     string `json:"number"`
	Enabled    bool   `json:"enabled"`
	StatusText string `json:"status_text"`
	TypeText   string `json:"type_text"`
}

// officeResponse mirrors the wire shape of GET /office/{cnpj}.
type officeResponse struct {
	Registrations []wireRegistration `json:"registrations"`
}

type wireRegistration struct {
	State   string `json:"state"`
	Number  string `json:"number"`
	Enabled bool   `json:"enabled"`
	Status  struct {
		Text string `json:"text"`
	} `json:"status"`
	Type struct {
		Text string `json:"text"`
	} `json:"type"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithTimeout overrides the default per-request deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		c.http.Timeout = d
	}
}

// WithRateLimiter bounds outgoing request rate against the public API.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(c *httpClient) {
		c.limiter = l
	}
}

// WithRetry overrides the rate-limit retry bounds: extra is the number of
// additional attempts after the first, baseDelay the linear backoff unit.
func WithRetry(extra int, baseDelay time.Duration) Option {
	return func(c *httpClient) {
		c.maxRetries = extra
		c.retryBase = baseDelay
	}
}

type httpClient struct {
	baseURL    string
	http       *http.Client
	limiter    *rate.Limiter
	maxRetries int
	retryBase  time.Duration
}

// NewClient creates a CNPJá client. By default a rate-limited response is
// retried twice with linearly increasing backoff (2s, then 4s).
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL:    defaultBaseURL,
		maxRetries: 2,
		retryBase:  2 * time.Second,
		http: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Registrations fetches the state-registration list for an identifier.
//
// Only 429 responses are retried; transport failures and server errors are
// terminal. A 404 means the company has no registrations and is returned as
// an empty success list, NOT as provider.ErrNotFound — callers depend on
// this asymmetry with the registry provider.
func (c *httpClient) Registrations(ctx context.Context, cnpj string) ([]Registration, error) {
	cfg := resilience.RetryConfig{
		MaxAttempts: c.maxRetries + 1,
		BaseDelay:   c.retryBase,
		Strategy:    resilience.BackoffLinear,
		ShouldRetry: func(err error) bool {
			return resilience.StatusCode(err) == http.StatusTooManyRequests
		},
		OnRetry: resilience.RetryLogger(provider.NameCNPJA, "registrations"),
	}

	regs, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) ([]Registration, error) {
		return c.fetch(ctx, cnpj)
	})
	if err != nil {
		// An exhausted rate-limit budget degrades to plain unavailability.
		if eris.Is(err, provider.ErrRateLimited) {
			return nil, eris.Wrap(provider.ErrUnavailable, "cnpja: rate limit retries exhausted")
		}
		return nil, err
	}
	return regs, nil
}

func (c *httpClient) fetch(ctx context.Context, cnpj string) ([]Registration, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(provider.ErrUnavailable, "cnpja: rate limiter")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/office/"+cnpj, nil)
	if err != nil {
		return nil, eris.Wrap(err, "cnpja: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrapf(provider.ErrUnavailable, "cnpja: %v", err)
	}
	defer resp.Body.Close()

	switch outcome := provider.ClassifyStatus(resp.StatusCode); {
	case outcome == nil:
		// fall through to parse
	case eris.Is(outcome, provider.ErrNotFound):
		return []Registration{}, nil
	case eris.Is(outcome, provider.ErrRateLimited):
		return nil, resilience.NewTransientError(
			eris.Wrapf(provider.ErrRateLimited, "cnpja: status %d", resp.StatusCode),
			resp.StatusCode,
		)
	default:
		return nil, eris.Wrapf(provider.ErrUnavailable, "cnpja: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(provider.ErrUnavailable, "cnpja: read body: %v", err)
	}

	var office officeResponse
	if err := json.Unmarshal(body, &office); err != nil {
		return nil, eris.Wrapf(provider.ErrUnavailable, "cnpja: parse body: %v", err)
	}

	regs := make([]Registration, 0, len(office.Registrations))
	for _, w := range office.Registrations {
		regs = append(regs, Registration{
			State:      w.State,
			Number:     w.Number,
			Enabled:    w.Enabled,
			StatusText: w.Status.Text,
			TypeText:   w.Type.Text,
		})
	}
	return regs, nil
}
