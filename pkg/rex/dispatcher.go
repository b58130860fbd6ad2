package rex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"rex-crm-client/pkg/logger"
	"rex-crm-client/pkg/metrics"

	"github.com/google/uuid"
)

// DefaultBaseURL is the production Rex API root.
const DefaultBaseURL = "https://api.rexsoftware.com/v1/rex"

// envelope is the response wrapper used by every Rex endpoint.
type envelope struct {
	Result json.RawMessage `json:"result"`
	Error  *apiError       `json:"error"`
}

type apiError struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Code    interface{} `json:"code,omitempty"`
}

// Dispatcher sends calls to the Rex API. It keeps no per-call state; the only
// shared state it touches is a read of the token store at send time.
type Dispatcher struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
	userAgent  string
}

// NewDispatcher creates a dispatcher. A nil httpClient means a plain http.Client,
// leaving timeouts to the transport defaults.
func NewDispatcher(baseURL string, httpClient *http.Client, tokens TokenStore, userAgent string) *Dispatcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if tokens == nil {
		tokens = NewMemoryTokenStore()
	}
	return &Dispatcher{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		tokens:     tokens,
		userAgent:  userAgent,
	}
}

// BaseURL returns the API root calls are sent to.
func (d *Dispatcher) BaseURL() string {
	return d.baseURL
}

// Send calls <Service>/<method> with the current session token attached and
// decodes the result into out (which may be nil).
func (d *Dispatcher) Send(ctx context.Context, service, method string, params Params, out interface{}) error {
	return d.send(ctx, service, method, params, out, true)
}

// SendAnonymous is Send without the session token. Only the login call uses it.
func (d *Dispatcher) SendAnonymous(ctx context.Context, service, method string, params Params, out interface{}) error {
	return d.send(ctx, service, method, params, out, false)
}

func (d *Dispatcher) send(ctx context.Context, service, method string, params Params, out interface{}, authenticated bool) error {
	op := service + "/" + method
	requestID := uuid.NewString()
	start := time.Now()

	err := d.roundTrip(ctx, op, requestID, params, out, authenticated)

	metrics.RexRequestDuration.WithLabelValues(service, method).Observe(time.Since(start).Seconds())
	outcome := "ok"
	if err != nil {
		outcome = "error"
		logger.GlobalLogger.Errorf("Rex call failed: op=%s, request_id=%s, error=%v", op, requestID, err)
	} else {
		logger.GlobalLogger.Debugf("Rex call succeeded: op=%s, request_id=%s, duration=%s", op, requestID, time.Since(start))
	}
	metrics.RexRequestsTotal.WithLabelValues(service, method, outcome).Inc()
	return err
}

func (d *Dispatcher) roundTrip(ctx context.Context, op, requestID string, params Params, out interface{}, authenticated bool) error {
	if params == nil {
		params = Params{}
	}
	body, err := json.Marshal(params)
	if err != nil {
		return newRequestError(op, 0, "", "failed to encode request body", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/"+op, bytes.NewReader(body))
	if err != nil {
		return newRequestError(op, 0, "", "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}
	if authenticated {
		if token, ok := d.tokens.Get(); ok && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return newRequestError(op, 0, "", "failed to send request", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return newRequestError(op, resp.StatusCode, "", "failed to read response body", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		remoteType, message := "", strings.TrimSpace(string(raw))
		if decodeErr == nil && env.Error != nil {
			remoteType, message = env.Error.Type, env.Error.Message
		}
		if message == "" {
			message = resp.Status
		}
		return newRequestError(op, resp.StatusCode, remoteType, message, fmt.Errorf("unexpected status %s", resp.Status))
	}

	if decodeErr != nil {
		return newRequestError(op, resp.StatusCode, "", "failed to decode response", decodeErr)
	}
	if env.Error != nil {
		return newRequestError(op, resp.StatusCode, env.Error.Type, env.Error.Message, nil)
	}

	if out == nil || len(env.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return newRequestError(op, resp.StatusCode, "", "failed to decode result", err)
	}
	return nil
}
