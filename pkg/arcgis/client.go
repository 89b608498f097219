// Package arcgis queries ArcGIS feature services for GeoJSON feature
// collections filtered by bounding geometry and an attribute where clause.
package arcgis

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Options configures a Client.
type Options struct {
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
	RateLimit  rate.Limit
	HTTPClient *http.Client
}

// Client talks to a single feature-service layer query endpoint.
type Client struct {
	queryURL    string
	client      *http.Client
	limiter     *rate.Limiter
	opts        Options
	backoffBase time.Duration
}

// NewClient creates a client for the given layer query URL.
func NewClient(queryURL string, opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "firewatch-cli/1.0"
	}
	if opts.RateLimit == 0 {
		opts.RateLimit = 5
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		queryURL:    strings.TrimRight(queryURL, "/"),
		client:      client,
		limiter:     rate.NewLimiter(opts.RateLimit, int(opts.RateLimit)),
		opts:        opts,
		backoffBase: time.Second,
	}
}

// Query describes a feature-service query. Geometry is Esri JSON (rings for
// a polygon filter) and may be nil to query by attributes only.
type Query struct {
	Geometry     json.RawMessage
	GeometryType string
	Where        string
	OutFields    string
}

// serviceError is the error document some feature services embed in a 200
// response instead of returning a failing status code.
type serviceError struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// QueryFeatures runs the query with f=geojson and returns the raw feature
// collection bytes. Retries with exponential backoff on transport errors,
// 429s, and 5xx responses.
func (c *Client) QueryFeatures(ctx context.Context, q Query) ([]byte, error) {
	params := url.Values{}
	params.Set("f", "geojson")
	if len(q.Geometry) > 0 {
		params.Set("geometry", string(q.Geometry))
		gt := q.GeometryType
		if gt == "" {
			gt = "esriGeometryPolygon"
		}
		params.Set("geometryType", gt)
	}
	if q.Where != "" {
		params.Set("where", q.Where)
	}
	out := q.OutFields
	if out == "" {
		out = "*"
	}
	params.Set("outFields", out)

	reqURL := c.queryURL + "?" + params.Encode()
	body, err := c.getWithRetry(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	// The service reports some query failures inside a 200 body.
	var se serviceError
	if err := json.Unmarshal(body, &se); err == nil && se.Error != nil {
		return nil, eris.Errorf("arcgis: service error %d: %s", se.Error.Code, se.Error.Message)
	}
	return body, nil
}

func (c *Client) getWithRetry(ctx context.Context, reqURL string) ([]byte, error) {
	log := zap.L().With(zap.String("component", "arcgis"))

	var lastErr error
	for attempt := 0; attempt < c.opts.MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "arcgis: rate limiter wait")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, eris.Wrap(err, "arcgis: build request")
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			log.Warn("request failed, retrying", zap.Int("attempt", attempt+1), zap.Error(err))
			c.backoff(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			_ = resp.Body.Close()
			lastErr = eris.Errorf("arcgis: http %d from %s", resp.StatusCode, reqURL)
			log.Warn("retryable status, backing off",
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt+1),
			)
			c.backoff(ctx, attempt)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, eris.Errorf("arcgis: http %d from %s", resp.StatusCode, reqURL)
		}

		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, eris.Wrap(err, "arcgis: read response body")
		}
		return body, nil
	}

	return nil, eris.Wrap(lastErr, "arcgis: all retries exhausted")
}

func (c *Client) backoff(ctx context.Context, attempt int) {
	base := c.backoffBase
	maxBackoff := 30 * time.Second
	d := time.Duration(float64(base) * math.Pow(2, float64(attempt)))
	if d > maxBackoff {
		d = maxBackoff
	}
	d += time.Duration(rand.Int63n(int64(d) / 2))

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
