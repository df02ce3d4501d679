package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/roach88/moodflicks/internal/logging"
	"github.com/roach88/moodflicks/internal/metrics"
	"github.com/roach88/moodflicks/internal/mood"
)

// Defaults for Config.
const (
	DefaultBaseURL      = "https://api.themoviedb.org/3"
	DefaultImageBaseURL = "https://image.tmdb.org/t/p"
	DefaultTimeout      = 10 * time.Second
	DefaultRPS          = 4
	DefaultBurst        = 4

	// The breaker opens after this many consecutive failures and stays open
	// for breakerOpenFor before letting a trial request through.
	breakerFailures = 5
	breakerOpenFor  = 30 * time.Second

	// MaxResponseBytes caps a response body.
	MaxResponseBytes = 4 << 20
)

// Config configures a TMDB client.
type Config struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// Client is a rate-limited, circuit-broken TMDB v3 client.
//
// The breaker uses real time for its open interval; tests that need to
// observe recovery should construct a client per case.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	cb         *gobreaker.CircuitBreaker[[]byte]
	logger     zerolog.Logger
}

var _ Catalog = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithClientLogger sets the client logger.
func WithClientLogger(l zerolog.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a TMDB client. Zero config fields take the defaults.
func NewClient(cfg Config, opts ...ClientOption) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRPS
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultBurst
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:     logging.Component("catalog"),
	}
	for _, opt := range opts {
		opt(c)
	}

	metrics.SetCircuitState(stateValue(gobreaker.StateClosed))
	c.cb = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "tmdb",
		MaxRequests: 1,
		Timeout:     breakerOpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
			metrics.SetCircuitState(stateValue(to))
		},
	})
	return c
}

// MoviesByMood returns popular movies in the genres of m.
func (c *Client) MoviesByMood(ctx context.Context, m mood.Mood) ([]MovieSummary, error) {
	genres := mood.Genres(m)
	if len(genres) == 0 {
		return nil, fmt.Errorf("catalog discover: unknown mood %q", m)
	}
	ids := make([]string, len(genres))
	for i, g := range genres {
		ids[i] = strconv.Itoa(g)
	}

	q := url.Values{}
	q.Set("with_genres", strings.Join(ids, ","))
	q.Set("sort_by", "popularity.desc")
	q.Set("page", "1")

	var page struct {
		Results []MovieSummary `json:"results"`
	}
	if err := c.get(ctx, "discover", "/discover/movie", q, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// MovieDetail returns the full record for id.
func (c *Client) MovieDetail(ctx context.Context, id int64) (*MovieDetail, error) {
	var d MovieDetail
	if err := c.get(ctx, "detail", fmt.Sprintf("/movie/%d", id), nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Similar returns movies similar to id.
func (c *Client) Similar(ctx context.Context, id int64) ([]MovieSummary, error) {
	var page struct {
		Results []MovieSummary `json:"results"`
	}
	if err := c.get(ctx, "similar", fmt.Sprintf("/movie/%d/similar", id), nil, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// Credits returns the cast of id.
func (c *Client) Credits(ctx context.Context, id int64) (*Credits, error) {
	var cr Credits
	if err := c.get(ctx, "credits", fmt.Sprintf("/movie/%d/credits", id), nil, &cr); err != nil {
		return nil, err
	}
	return &cr, nil
}

// get performs one rate-limited, breaker-guarded GET and decodes the body
// into out.
func (c *Client) get(ctx context.Context, op, path string, q url.Values, out any) error {
	start := time.Now()

	if err := c.limiter.Wait(ctx); err != nil {
		metrics.RecordCatalogRequest(op, "error", time.Since(start))
		return &FetchError{Op: op, Err: err}
	}

	body, err := c.cb.Execute(func() ([]byte, error) {
		return c.do(ctx, op, path, q)
	})
	if err != nil {
		metrics.RecordCatalogRequest(op, outcome(err), time.Since(start))
		var fe *FetchError
		if errors.As(err, &fe) {
			return fe
		}
		return &FetchError{Op: op, Err: err}
	}

	if err := json.Unmarshal(body, out); err != nil {
		metrics.RecordCatalogRequest(op, "error", time.Since(start))
		return &FetchError{Op: op, Status: http.StatusOK, Err: fmt.Errorf("decode response: %w", err)}
	}
	metrics.RecordCatalogRequest(op, "ok", time.Since(start))
	return nil
}

func (c *Client) do(ctx context.Context, op, path string, q url.Values) ([]byte, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, &FetchError{Op: op, Err: err}
	}
	query := u.Query()
	for k, vs := range q {
		for _, v := range vs {
			query.Add(k, v)
		}
	}
	if c.apiKey != "" {
		query.Set("api_key", c.apiKey)
	}
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, &FetchError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes+1))
	if err != nil {
		return nil, &FetchError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	if len(body) > MaxResponseBytes {
		return nil, &FetchError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("response exceeds %d bytes", MaxResponseBytes)}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &FetchError{Op: op, Status: resp.StatusCode, Err: ErrNotFound}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		c.logger.Debug().Str("op", op).Int("status", resp.StatusCode).Msg("catalog request failed")
		return nil, &FetchError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("unexpected response: %s", snippet(body))}
	}
	return body, nil
}

// PosterURL returns the image URL for a poster path at the given size
// (e.g. "w500"), or "" when the movie has no poster.
func PosterURL(imageBase, path, size string) string {
	if path == "" {
		return ""
	}
	if imageBase == "" {
		imageBase = DefaultImageBaseURL
	}
	return strings.TrimSuffix(imageBase, "/") + "/" + size + path
}

func outcome(err error) string {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "open"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func stateValue(s gobreaker.State) int {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

func snippet(body []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		return s[:cut] + "..."
	}
	return s
}
