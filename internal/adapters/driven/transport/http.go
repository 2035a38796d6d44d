package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/invokers/internal/core/domain"
	"github.com/custodia-labs/invokers/internal/core/ports/driven"
	"github.com/custodia-labs/invokers/internal/failure"
)

const (
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 60 * time.Second

	// MaxBodySize caps the response body read into memory.
	MaxBodySize = 16 << 20
)

// Ensure HTTP implements the interface.
var _ driven.Transport = (*HTTP)(nil)

// Config configures an HTTP transport.
type Config struct {
	// TLS selects the TLS profile.
	TLS domain.TLSProfile

	// CAFile is an optional PEM bundle of extra roots.
	CAFile string

	// RateLimit caps requests per second. Zero disables limiting.
	RateLimit float64

	// Burst is the token bucket size.
	Burst int

	// Timeout bounds a single request. Defaults to DefaultTimeout.
	Timeout time.Duration

	// TokenSource, when set, authorises requests with a bearer token.
	TokenSource oauth2.TokenSource

	// MaxBodySize caps the reply body. Defaults to MaxBodySize.
	MaxBodySize int64
}

// ErrResponseTooLarge indicates a reply body over the configured cap.
var ErrResponseTooLarge = fmt.Errorf("transport: response body too large: %w", failure.ErrBadResponse)

// HTTP is a pooled net/http transport.
type HTTP struct {
	client  *http.Client
	limiter *RateLimiter
	maxBody int64
}

// New creates an HTTP transport.
func New(cfg Config) (*HTTP, error) {
	tlsCfg, err := TLSConfig(cfg.TLS, cfg.CAFile)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxBody := cfg.MaxBodySize
	if maxBody <= 0 {
		maxBody = MaxBodySize
	}

	var rt http.RoundTripper = &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		TLSClientConfig:     tlsCfg,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		ForceAttemptHTTP2:   true,
	}
	if cfg.TokenSource != nil {
		rt = &oauth2.Transport{Source: cfg.TokenSource, Base: rt}
	}

	return &HTTP{
		client:  &http.Client{Timeout: timeout, Transport: rt},
		limiter: NewRateLimiter(cfg.RateLimit, cfg.Burst),
		maxBody: maxBody,
	}, nil
}

// ForProfile builds the transport for an invoker profile.
// It satisfies driven.TransportBuilder.
func ForProfile(profile domain.Profile) (driven.Transport, error) {
	cfg := Config{
		TLS:       profile.TLS,
		CAFile:    profile.CAFile,
		RateLimit: profile.RateLimit,
	}
	if profile.BearerToken != "" {
		cfg.TokenSource = StaticToken(profile.BearerToken)
	}
	return New(cfg)
}

// Execute sends req and reads the whole response body.
func (t *HTTP) Execute(ctx context.Context, req *driven.Request) (*driven.Response, error) {
	httpReq, err := buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	if !t.limiter.Allow() {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	t.limiter.Observe(resp)

	body, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if int64(len(body)) > t.maxBody {
		return nil, fmt.Errorf("%w: more than %d bytes from %s", ErrResponseTooLarge, t.maxBody, req.URL)
	}

	return &driven.Response{
		StatusCode: resp.StatusCode,
		Body:       string(body),
		Header:     resp.Header,
	}, nil
}

func buildRequest(ctx context.Context, req *driven.Request) (*http.Request, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing url %q: %w: %w", req.URL, failure.ErrRequestBuild, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q: %w", u.Scheme, failure.ErrRequestBuild)
	}
	if len(req.Query) > 0 {
		q := u.Query()
		for k, vs := range req.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w: %w", failure.ErrRequestBuild, err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	for _, c := range req.Cookies {
		httpReq.AddCookie(c)
	}
	return httpReq, nil
}
