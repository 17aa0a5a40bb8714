package sensorapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nimdanitro/sensorview/pkg/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	scope = "github.com/nimdanitro/sensorview/pkg/sensorapi"

	// DefaultURLVar names the variable the base URL is read from.
	DefaultURLVar = "SENSORVIEW_API_URL"

	// DefaultMaxBodySize caps how much of a response body is read.
	DefaultMaxBodySize = 32 << 20
)

type Fetcher interface {
	Fetch(ctx context.Context) (*Result, error)
}

type Client struct {
	client    *http.Client
	transport http.RoundTripper
	limit     *rate.Limiter
	log       *zap.Logger
	tokens    TokenSource
	baseURL   string
	urlVar    string
	devices   bool
	timeout   time.Duration
	maxBody   int64
	metrics   *Metrics

	tracer  trace.Tracer
	fetches metric.Int64Counter
	records metric.Int64Gauge
}

type Option func(c *Client) error

func NewFetcher(opts ...Option) (*Client, error) {
	c := &Client{
		log:       zap.L(),
		limit:     rate.NewLimiter(rate.Every(time.Second), 4),
		transport: http.DefaultTransport,
		urlVar:    DefaultURLVar,
		devices:   true,
		timeout:   30 * time.Second,
		maxBody:   DefaultMaxBodySize,
	}

	// apply the options
	for _, o := range opts {
		err := o(c)
		if err != nil {
			return nil, err
		}
	}

	transport := c.transport
	if c.metrics != nil {
		transport = c.metrics.instrument(transport)
	}
	c.client = &http.Client{Transport: otelhttp.NewTransport(transport)}

	c.tracer = otel.Tracer(scope)
	meter := otel.Meter(scope)
	var err error
	c.fetches, err = meter.Int64Counter("sensorview.fetches",
		metric.WithDescription("Completed fetch attempts by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fetch counter: %w", err)
	}
	c.records, err = meter.Int64Gauge("sensorview.records",
		metric.WithDescription("Records returned by the last successful call"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating records gauge: %w", err)
	}

	return c, nil
}

// WithBaseURL sets the API root. An empty URL is accepted here and reported
// as a ConfigError by Fetch.
func WithBaseURL(u string) Option {
	return func(c *Client) error {
		c.baseURL = strings.TrimSpace(u)
		return nil
	}
}

// WithURLVar names the configuration variable quoted in ConfigError.
func WithURLVar(name string) Option {
	return func(c *Client) error {
		c.urlVar = name
		return nil
	}
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) error {
		c.tokens = ts
		return nil
	}
}

// WithDevices toggles the device registry call that follows the readings call.
func WithDevices(enabled bool) Option {
	return func(c *Client) error {
		c.devices = enabled
		return nil
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) error {
		c.log = l
		return nil
	}
}

// WithTimeout bounds each request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d < 0 {
			return fmt.Errorf("negative timeout %s", d)
		}
		c.timeout = d
		return nil
	}
}

func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) error {
		c.transport = rt
		return nil
	}
}

func WithRateLimit(every time.Duration, burst int) Option {
	return func(c *Client) error {
		if burst < 1 {
			return fmt.Errorf("rate limit burst must be positive, got %d", burst)
		}
		c.limit = rate.NewLimiter(rate.Every(every), burst)
		return nil
	}
}

// WithMaxBodySize caps the response body size. Larger bodies fail the call
// with ErrBodyTooLarge.
func WithMaxBodySize(n int64) Option {
	return func(c *Client) error {
		if n <= 0 {
			return fmt.Errorf("max body size must be positive, got %d", n)
		}
		c.maxBody = n
		return nil
	}
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) error {
		c.metrics = m
		return nil
	}
}

// Fetch obtains a token, then reads the readings collection and, when
// enabled, the device registry. The calls run one after the other and any
// failure fails the whole fetch.
func (c *Client) Fetch(ctx context.Context) (res *Result, err error) {
	ctx, span := c.tracer.Start(ctx, "sensorapi.Fetch")
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		c.fetches.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
		span.End()
	}()

	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	if c.baseURL == "" {
		return nil, &ConfigError{Var: c.urlVar}
	}

	res = &Result{}
	res.Readings, err = c.get(ctx, Readings, token)
	if err != nil {
		return nil, err
	}

	if c.devices {
		res.Devices, err = c.get(ctx, Sensors, token)
		if err != nil {
			return nil, err
		}
	}

	return res, nil
}

func (c *Client) token(ctx context.Context) (string, error) {
	if c.tokens == nil {
		return "", &AuthError{}
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		c.log.Error("cannot obtain identity token", zap.Error(err))
		return "", &AuthError{Err: err}
	}
	if strings.TrimSpace(token) == "" {
		return "", &AuthError{}
	}
	return token, nil
}

func (c *Client) get(ctx context.Context, ep Endpoint, token string) ([]*telemetry.Record, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	u, err := url.JoinPath(c.baseURL, ep.Path)
	if err != nil {
		return nil, &RequestError{Endpoint: ep.Name, Err: err}
	}

	c.log.Debug("fetching", zap.String("endpoint", ep.Name), zap.String("url", u))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		c.log.Error("cannot create request", zap.Error(err))
		return nil, &RequestError{Endpoint: ep.Name, Err: err}
	}
	req.Header.Set("Authorization", token)
	req.Header.Set("Accept", "application/json")

	// apply the ratelimit
	err = c.limit.Wait(ctx)
	if err != nil {
		c.log.Error("cannot await rate limit", zap.Error(err))
		return nil, &RequestError{Endpoint: ep.Name, Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Error("error fetching sensor data", zap.String("endpoint", ep.Name), zap.Error(err))
		return nil, &RequestError{Endpoint: ep.Name, Err: err}
	}
	defer resp.Body.Close()

	// read one byte past the cap to tell a full body from a cut one
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		c.log.Error("error reading response body", zap.String("endpoint", ep.Name), zap.Error(err))
		return nil, &RequestError{Endpoint: ep.Name, Err: err}
	}
	if int64(len(body)) > c.maxBody {
		c.log.Error("response body too large", zap.String("endpoint", ep.Name), zap.Int64("limit", c.maxBody))
		return nil, &RequestError{Endpoint: ep.Name, Err: fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, c.maxBody)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{Endpoint: ep.Name, StatusCode: resp.StatusCode, Body: string(body)}
	}

	records, skipped, err := telemetry.ParseList(body)
	switch {
	case errors.Is(err, telemetry.ErrNotList):
		c.log.Warn("response is not a list, treating it as empty",
			zap.String("endpoint", ep.Name),
			zap.Int("status", resp.StatusCode),
		)
		records = []*telemetry.Record{}
	case err != nil:
		c.log.Error("error decoding sensor data", zap.String("endpoint", ep.Name), zap.Error(err))
		return nil, &DecodeError{Endpoint: ep.Name, Err: err}
	case skipped > 0:
		c.log.Warn("dropped list elements that are not objects",
			zap.String("endpoint", ep.Name),
			zap.Int("skipped", skipped),
		)
	}

	c.records.Record(ctx, int64(len(records)), metric.WithAttributes(attribute.String("endpoint", ep.Name)))
	if c.metrics != nil {
		c.metrics.observeRecords(ep, len(records))
	}
	return records, nil
}
