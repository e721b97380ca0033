package client

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Error response from an XRPC endpoint: any non-2xx HTTP status.
//
// Name is the atproto 'error' field (eg, "InvalidRequest", "ExpiredToken"), and may be empty if the body could not be parsed.
type APIError struct {
	StatusCode int
	Name       string
	Message    string
	Ratelimit  *RatelimitInfo
}

// Parsed "ratelimit-*" response headers.
type RatelimitInfo struct {
	Limit     int
	Remaining int
	Policy    string
	Reset     time.Time
}

func (ae *APIError) Error() string {
	var msg string
	if ae.StatusCode > 0 {
		if ae.Name != "" && ae.Message != "" {
			msg = fmt.Sprintf("API request failed (HTTP %d): %s: %s", ae.StatusCode, ae.Name, ae.Message)
		} else if ae.Name != "" {
			msg = fmt.Sprintf("API request failed (HTTP %d): %s", ae.StatusCode, ae.Name)
		} else {
			msg = fmt.Sprintf("API request failed (HTTP %d)", ae.StatusCode)
		}
	} else {
		msg = "API request failed"
	}
	if ae.IsThrottled() && ae.Ratelimit != nil && !ae.Ratelimit.Reset.IsZero() {
		msg += fmt.Sprintf(" (throttled until %s)", ae.Ratelimit.Reset.Local())
	}
	return msg
}

func (ae *APIError) IsThrottled() bool {
	return ae.StatusCode == http.StatusTooManyRequests
}

type ErrorBody struct {
	Name    string `json:"error"`
	Message string `json:"message,omitempty"`
}

func (eb *ErrorBody) APIError(resp *http.Response) *APIError {
	ae := &APIError{
		StatusCode: resp.StatusCode,
		Name:       eb.Name,
		Message:    eb.Message,
	}
	ae.Ratelimit = parseRatelimit(resp.Header)
	return ae
}

func parseRatelimit(hdr http.Header) *RatelimitInfo {
	if hdr.Get("ratelimit-limit") == "" {
		return nil
	}
	info := RatelimitInfo{
		Policy: hdr.Get("ratelimit-policy"),
	}
	if n, err := strconv.ParseInt(hdr.Get("ratelimit-reset"), 10, 64); err == nil {
		info.Reset = time.Unix(n, 0)
	}
	if n, err := strconv.Atoi(hdr.Get("ratelimit-limit")); err == nil {
		info.Limit = n
	}
	if n, err := strconv.Atoi(hdr.Get("ratelimit-remaining")); err == nil {
		info.Remaining = n
	}
	return &info
}
