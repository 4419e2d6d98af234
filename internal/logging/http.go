package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const redacted = "[REDACTED]"

// DefaultMaxBody caps how much of a body is logged at trace level
const DefaultMaxBody = 10000

// Transport logs provider round trips. Request and response lines are
// written at debug level and share a request_id; bodies are added only
// when the logger is at trace level.
type Transport struct {
	Base    http.RoundTripper
	Logger  *Logger
	MaxBody int
}

// NewTransport wraps base (http.DefaultTransport when nil)
func NewTransport(base http.RoundTripper, logger *Logger) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{Base: base, Logger: logger, MaxBody: DefaultMaxBody}
}

// RoundTrip implements http.RoundTripper
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	log := t.Logger.With(Fields{"request_id": uuid.NewString()})
	bodies := t.Logger.Enabled(LevelTrace)

	reqFields := Fields{
		"method":  req.Method,
		"url":     req.URL.Redacted(),
		"headers": redactHeaders(req.Header),
	}
	if bodies && req.Body != nil {
		body, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, err
		}
		req.Body = io.NopCloser(bytes.NewReader(body))
		reqFields["body"] = t.renderBody(body, true)
	}
	log.Debug("Provider request", reqFields)

	start := time.Now()
	resp, err := t.Base.RoundTrip(req)
	elapsed := time.Since(start)
	if err != nil {
		log.Error("Provider request failed", err, Fields{"duration_ms": elapsed.Milliseconds()})
		return nil, err
	}

	respFields := Fields{
		"status":      resp.StatusCode,
		"duration_ms": elapsed.Milliseconds(),
	}
	if bodies && resp.Body != nil {
		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, err
		}
		resp.Body = io.NopCloser(bytes.NewReader(body))
		respFields["body"] = t.renderBody(body, false)
	}
	log.Debug("Provider response", respFields)
	return resp, nil
}

// renderBody decodes JSON bodies so credentials can be masked; anything
// else is logged as clipped text
func (t *Transport) renderBody(body []byte, redact bool) interface{} {
	if len(body) <= t.MaxBody {
		var v interface{}
		if json.Unmarshal(body, &v) == nil {
			if redact {
				return redactJSON(v)
			}
			return v
		}
	}
	return clip(body, t.MaxBody)
}

var sensitiveHeaders = map[string]bool{
	"authorization":       true,
	"api-key":             true,
	"x-api-key":           true,
	"openai-organization": true,
	"cookie":              true,
	"set-cookie":          true,
}

func redactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		switch {
		case sensitiveHeaders[strings.ToLower(k)]:
			out[k] = redacted
		case len(v) > 0:
			out[k] = strings.Join(v, ", ")
		}
	}
	return out
}

func clip(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n]) + "...[truncated]"
}

// sensitiveKey reports whether a JSON key holds a credential. Token
// budgets such as max_tokens are not credentials.
func sensitiveKey(key string) bool {
	k := strings.ToLower(key)
	switch k {
	case "api_key", "apikey", "api-key", "password", "secret", "token",
		"access_token", "refresh_token", "authorization", "auth":
		return true
	}
	for _, suffix := range []string{"_key", "_secret", "_password"} {
		if strings.HasSuffix(k, suffix) {
			return true
		}
	}
	return false
}

func redactJSON(v interface{}) interface{} {
	switch v := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, val := range v {
			if sensitiveKey(k) {
				out[k] = redacted
			} else {
				out[k] = redactJSON(val)
			}
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = redactJSON(item)
		}
		return out
	}
	return v
}
