package pagarme

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aquiresolve/admin-api/internal/config"
	"github.com/aquiresolve/admin-api/internal/metrics"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// ErrCircuitOpen is returned while the breaker rejects calls to the gateway
var ErrCircuitOpen = errors.New("payment gateway temporarily unavailable")

// APIError is an error response returned by the gateway itself
type APIError struct {
	StatusCode int             `json:"-"`
	Message    string          `json:"message"`
	Errors     json.RawMessage `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("pagarme: status %d: %s", e.StatusCode, e.Message)
}

// Client talks to the Pagar.me core API v5
type Client struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
	breaker    *gobreaker.CircuitBreaker
	metrics    *metrics.Metrics
	logger     *logrus.Logger
}

// NewClient creates a new gateway client instance
func NewClient(cfg *config.PagarmeConfig, m *metrics.Metrics, logger *logrus.Logger) *Client {
	timeout := 30 * time.Second
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		secretKey: cfg.SecretKey,
		metrics:   m,
		logger:    logger,
	}

	if cfg.CircuitBreaker.Enabled {
		c.breaker = newBreaker(cfg.CircuitBreaker, logger)
	}

	return c
}

func newBreaker(cfg config.CircuitBreakerConfig, logger *logrus.Logger) *gobreaker.CircuitBreaker {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "pagarme",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// gateway-side validation errors say nothing about gateway health
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.StatusCode < http.StatusInternalServerError
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Payment gateway circuit breaker changed state")
		},
	})
}

// do sends one request and decodes a 2xx body into out. No retries are made.
func (c *Client) do(ctx context.Context, operation, method, path string, query url.Values, body interface{}, out interface{}) error {
	call := func() error {
		return c.send(ctx, operation, method, path, query, body, out)
	}

	if c.breaker == nil {
		return call()
	}

	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, call()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%s: %w", operation, ErrCircuitOpen)
	}
	return err
}

func (c *Client) send(ctx context.Context, operation, method, path string, query url.Values, body interface{}, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		var payload []byte
		switch b := body.(type) {
		case json.RawMessage:
			payload = b
		default:
			var err error
			payload, err = json.Marshal(body)
			if err != nil {
				return fmt.Errorf("failed to marshal request: %w", err)
			}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.SetBasicAuth(c.secretKey, "")
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if correlationID, ok := ctx.Value(CorrelationIDContextKey).(string); ok {
		req.Header.Set("X-Correlation-ID", correlationID)
	}

	c.logger.WithFields(logrus.Fields{
		"operation": operation,
		"method":    method,
		"path":      path,
	}).Debug("Calling payment gateway")

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	if err != nil {
		c.metrics.ObserveGatewayRequest(operation, "transport_error", duration.Seconds())
		c.logger.WithError(err).WithFields(logrus.Fields{
			"operation": operation,
			"duration":  duration,
		}).Error("Payment gateway call failed")
		return fmt.Errorf("payment gateway call failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.ObserveGatewayRequest(operation, "transport_error", duration.Seconds())
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"operation":  operation,
		"statusCode": resp.StatusCode,
		"duration":   duration,
	}).Debug("Payment gateway response received")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.ObserveGatewayRequest(operation, "api_error", duration.Seconds())
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(respBody, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		c.logger.WithFields(logrus.Fields{
			"operation":  operation,
			"statusCode": resp.StatusCode,
			"message":    apiErr.Message,
		}).Warn("Payment gateway returned non-success status")
		return apiErr
	}

	c.metrics.ObserveGatewayRequest(operation, "ok", duration.Seconds())

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

type contextKey string

// CorrelationIDContextKey carries the request correlation ID into outbound calls
const CorrelationIDContextKey contextKey = "correlationID"

func resourcePath(collection, id string, suffix ...string) string {
	parts := append([]string{"", collection, url.PathEscape(id)}, suffix...)
	return strings.Join(parts, "/")
}
