package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/salesdash/salesdash/metrics"
)

const serviceName = "client"

// APIError is the single error type for every failed backend call. Status 0
// means the request never produced a response (DNS failure, connection
// refused, timeout, open circuit breaker); any other value is the HTTP
// status the backend answered with.
type APIError struct {
	Status  int
	Message string
	Errors  []string
}

func (e *APIError) Error() string {
	return e.Message
}

// errorBody is the error shape the backend returns for non-2xx responses
type errorBody struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

// Client wraps resty with bearer-token handling, uniform error translation
// and a circuit breaker. The token is instance state, set by the auth store
// on the injected client; there is no package-level client.
type Client struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker

	mu    sync.RWMutex
	token string
}

// NewClient creates a client for the backend at baseURL. Endpoints passed to
// the request methods are resolved relative to it.
func NewClient(baseURL string, timeout time.Duration) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(0) // failures are the circuit breaker's concern

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "backend",
		MaxRequests: 3,
		Interval:    15 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			state := float64(0)
			switch to {
			case gobreaker.StateOpen:
				state = 1
			case gobreaker.StateHalfOpen:
				state = 2
			}
			metrics.CircuitBreakerState.WithLabelValues(serviceName, name).Set(state)

			log.WithFields(log.Fields{
				"circuit": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Info("Circuit breaker state changed")
		},
	})
	metrics.CircuitBreakerState.WithLabelValues(serviceName, "backend").Set(0)

	return &Client{
		http:    httpClient,
		breaker: breaker,
	}
}

// SetToken sets the bearer token attached to subsequent requests
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken removes the bearer token
func (c *Client) ClearToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// Token returns the currently set bearer token, or "" when anonymous
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Get performs a GET request and decodes the response into out
func (c *Client) Get(endpoint string, out interface{}) error {
	return c.request(http.MethodGet, endpoint, nil, out)
}

// Post performs a POST request with an optional JSON body
func (c *Client) Post(endpoint string, body, out interface{}) error {
	return c.request(http.MethodPost, endpoint, body, out)
}

// Put performs a PUT request with an optional JSON body
func (c *Client) Put(endpoint string, body, out interface{}) error {
	return c.request(http.MethodPut, endpoint, body, out)
}

// Patch performs a PATCH request with an optional JSON body
func (c *Client) Patch(endpoint string, body, out interface{}) error {
	return c.request(http.MethodPatch, endpoint, body, out)
}

// Delete performs a DELETE request
func (c *Client) Delete(endpoint string, out interface{}) error {
	return c.request(http.MethodDelete, endpoint, nil, out)
}

// request performs a single HTTP exchange through the circuit breaker and
// translates every failure mode into *APIError. On 2xx the body is decoded
// into out when out is non-nil; a 204 or empty body leaves out untouched; a
// non-JSON body is handed over as raw text when out is a *string.
func (c *Client) request(method, endpoint string, body, out interface{}) error {
	requestID := uuid.New().String()
	start := time.Now()

	req := c.http.R().
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Request-ID", requestID)
	if token := c.Token(); token != "" {
		req.SetAuthToken(token)
	}
	if body != nil {
		req.SetBody(body)
	}

	var resp *resty.Response
	_, execErr := c.breaker.Execute(func() (interface{}, error) {
		var httpErr error
		resp, httpErr = req.Execute(method, endpoint)
		if httpErr != nil {
			return nil, httpErr
		}
		// Only backend-side failures count towards tripping the breaker;
		// 4xx responses are the caller's problem, not the backend's health.
		if resp.StatusCode() >= http.StatusInternalServerError {
			return nil, fmt.Errorf("server error: status %d", resp.StatusCode())
		}
		return resp, nil
	})

	status := 0
	if resp != nil {
		status = resp.StatusCode()
	}
	c.observe(method, endpoint, status, requestID, start)

	if execErr != nil {
		metrics.CircuitBreakerFailures.WithLabelValues(serviceName, "backend").Inc()
		if resp != nil && resp.StatusCode() >= http.StatusInternalServerError {
			return apiErrorFromResponse(resp)
		}
		if execErr == gobreaker.ErrOpenState || execErr == gobreaker.ErrTooManyRequests {
			return &APIError{Status: 0, Message: "backend unavailable (circuit breaker open)"}
		}
		return &APIError{Status: 0, Message: execErr.Error()}
	}

	if !resp.IsSuccess() {
		return apiErrorFromResponse(resp)
	}

	raw := resp.Body()
	if out == nil || resp.StatusCode() == http.StatusNoContent || len(raw) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		// Some endpoints answer with a bare text body
		if text, ok := out.(*string); ok {
			*text = string(raw)
			return nil
		}
		return &APIError{Status: 0, Message: fmt.Sprintf("failed to decode response: %v", err)}
	}
	return nil
}

// apiErrorFromResponse builds an APIError from a non-2xx response, pulling
// message/errors out of the body when it parses as JSON.
func apiErrorFromResponse(resp *resty.Response) *APIError {
	apiErr := &APIError{
		Status:  resp.StatusCode(),
		Message: fmt.Sprintf("HTTP error! status: %d", resp.StatusCode()),
	}

	var parsed errorBody
	if err := json.Unmarshal(resp.Body(), &parsed); err == nil {
		if parsed.Message != "" {
			apiErr.Message = parsed.Message
		}
		apiErr.Errors = parsed.Errors
	}
	return apiErr
}

func (c *Client) observe(method, endpoint string, status int, requestID string, start time.Time) {
	duration := time.Since(start)

	metrics.RequestsTotal.WithLabelValues(serviceName, method, endpoint, strconv.Itoa(status)).Inc()
	metrics.RequestDuration.WithLabelValues(serviceName, method, endpoint).Observe(duration.Seconds())

	log.WithFields(log.Fields{
		"request_id": requestID,
		"method":     method,
		"endpoint":   endpoint,
		"status":     status,
		"duration":   duration.String(),
	}).Debug("API request completed")
}
