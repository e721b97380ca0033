package util

import (
	"context"
	"net/http"
)

const (
	Query     = http.MethodGet
	Procedure = http.MethodPost
)

// API client interface used by the typed endpoint helpers in api/atproto and api/bsky.
//
// 'method' is the HTTP method ([Query] or [Procedure]). 'inputEncoding' is the Content-Type of bodyData for Procedure calls. 'params' become query parameters. 'bodyData' is nil, an [io.Reader], or something which marshals to JSON. 'out', if not nil, is a pointer which the JSON response body is decoded in to.
type LexClient interface {
	LexDo(ctx context.Context, method string, inputEncoding string, endpoint string, params map[string]any, bodyData any, out any) error
}
