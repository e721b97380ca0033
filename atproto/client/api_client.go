package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bluesky-social/earmuffs/atproto/syntax"

	"github.com/carlmjohnson/versioninfo"
	"golang.org/x/time/rate"
)

type APIClient struct {
	// Inner HTTP client. If nil, [http.DefaultClient] is used; [NewAPIClient] sets up a [RobustHTTPClient].
	HTTPClient *http.Client

	// Host URL prefix: scheme, hostname, and optional port (eg "https://bsky.social")
	Host string

	// Optional auth method. Unauthenticated if nil.
	Auth AuthMethod

	// Client-level default headers, sent with every request.
	Headers http.Header

	// Optional client-side throttle for Procedure (write) requests. Query requests are not throttled.
	WriteLimiter *rate.Limiter

	// DID of the authenticated account, if any.
	AccountDID *syntax.DID
}

func NewAPIClient(host string) *APIClient {
	return &APIClient{
		HTTPClient: RobustHTTPClient(nil),
		Host:       strings.TrimSuffix(host, "/"),
		Headers: http.Header{
			"User-Agent": []string{"earmuffs/" + versioninfo.Short()},
		},
	}
}

// Simple helper for JSON "Query" API calls. If 'out' is nil the response body is discarded.
func (c *APIClient) Get(ctx context.Context, endpoint syntax.NSID, params map[string]any, out any) error {
	req := NewAPIRequest(MethodQuery, endpoint, nil)
	req.Headers.Set("Accept", "application/json")
	if params != nil {
		qp, err := ParseParams(params)
		if err != nil {
			return err
		}
		req.QueryParams = qp
	}
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

// Simple helper for JSON-to-JSON "Procedure" API calls. If 'out' is nil the response body is discarded.
func (c *APIClient) Post(ctx context.Context, endpoint syntax.NSID, body any, out any) error {
	bodyJSON, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req := NewAPIRequest(MethodProcedure, endpoint, bytes.NewReader(bodyJSON))
	req.Headers.Set("Accept", "application/json")
	req.Headers.Set("Content-Type", "application/json")
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

// Full-power method for atproto API requests. The caller is responsible for closing the response body, and for checking the status code.
func (c *APIClient) Do(ctx context.Context, req *APIRequest) (*http.Response, error) {
	if req.Method == MethodProcedure && c.WriteLimiter != nil {
		if err := c.WriteLimiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	httpReq, err := req.HTTPRequest(ctx, c.Host, c.Headers)
	if err != nil {
		return nil, err
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if c.Auth != nil {
		return c.Auth.DoWithAuth(ctx, httpReq, httpClient)
	}
	return httpClient.Do(httpReq)
}

// Implements the [github.com/bluesky-social/earmuffs/lex/util.LexClient] interface, for use with the typed API helpers.
func (c *APIClient) LexDo(ctx context.Context, method string, inputEncoding string, endpoint string, params map[string]any, bodyData any, out any) error {
	nsid, err := syntax.ParseNSID(endpoint)
	if err != nil {
		return err
	}

	var body io.Reader
	if bodyData != nil {
		if rr, ok := bodyData.(io.Reader); ok {
			body = rr
		} else {
			b, err := json.Marshal(bodyData)
			if err != nil {
				return err
			}
			body = bytes.NewReader(b)
		}
	}

	req := NewAPIRequest(method, nsid, body)
	req.Headers.Set("Accept", "application/json")
	if bodyData != nil && inputEncoding != "" {
		req.Headers.Set("Content-Type", inputEncoding)
	}
	if params != nil {
		qp, err := ParseParams(params)
		if err != nil {
			return err
		}
		req.QueryParams = qp
	}

	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

// Returns the DID of the authenticated account, or empty string.
func (c *APIClient) AuthDID() syntax.DID {
	if c.AccountDID != nil {
		return *c.AccountDID
	}
	return ""
}

func decodeResponse(resp *http.Response, out any) error {
	if !(resp.StatusCode >= 200 && resp.StatusCode < 300) {
		return errorFromResponse(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed decoding JSON response body: %w", err)
	}
	return nil
}

func errorFromResponse(resp *http.Response) *APIError {
	var eb ErrorBody
	if err := json.NewDecoder(resp.Body).Decode(&eb); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Ratelimit: parseRatelimit(resp.Header)}
	}
	return eb.APIError(resp)
}
