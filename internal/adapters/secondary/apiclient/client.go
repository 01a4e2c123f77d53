// Package apiclient calls the prediction API on behalf of the form UI.
package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
	gobreaker "github.com/sony/gobreaker/v2"

	"house-price-service/internal/core/domain"
)

const maxErrorBody = 4 << 10

// StatusError is a non-2xx answer from the API. It is distinct from a
// transport failure, which wraps domain.ErrUpstreamUnavailable.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d - %s", e.StatusCode, e.Body)
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	breaker    *gobreaker.CircuitBreaker[*http.Response]
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		breaker: gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
			Name:        "prediction-api",
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     15 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.WithFields(log.Fields{
					"breaker": name,
					"from":    from.String(),
					"to":      to.String(),
				}).Warn("circuit breaker state changed")
			},
		}),
	}
}

func (c *Client) Predict(ctx context.Context, req domain.PredictionRequest) (*domain.PredictionResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode prediction request: %w", err)
	}

	var out domain.PredictionResponse
	if err := c.do(ctx, http.MethodPost, "/predict", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Locations(ctx context.Context) ([]string, error) {
	var out struct {
		Locations []string `json:"locations"`
	}
	if err := c.do(ctx, http.MethodGet, "/locations", nil, &out); err != nil {
		return nil, err
	}
	return out.Locations, nil
}

// RawMetadata returns the metadata document without decoding it.
func (c *Client) RawMetadata(ctx context.Context) ([]byte, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/metadata", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out interface{}) error {
	url := c.baseURL + path

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")

		log.WithFields(log.Fields{
			"method": method,
			"url":    url,
		}).Debug("calling prediction API")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		// 5xx counts against the breaker; the body is still needed afterwards.
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, &StatusError{StatusCode: resp.StatusCode}
		}
		return resp, nil
	})

	var statusErr *StatusError
	switch {
	case errors.As(err, &statusErr):
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	case err != nil:
		return fmt.Errorf("%w: %s %s: %v", domain.ErrUpstreamUnavailable, method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
