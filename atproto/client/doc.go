/*
Package client is a small atproto "XRPC" HTTP API client, covering what earmuffs needs to talk to a PDS and, through it, the Bluesky AppView.

[APIClient] wraps an [http.Client] and sends "Query" (GET) and "Procedure" (POST) requests. It implements the [github.com/bluesky-social/earmuffs/lex/util.LexClient] interface, so it can be passed to the typed helpers in the api/atproto and api/bsky packages.

Authentication is pluggable through [AuthMethod]. [PasswordAuth] is the only implementation: an account session created with a handle (or DID) and an app password, which transparently refreshes its access token when the server reports "ExpiredToken".

Non-2xx responses are returned as [*APIError], including any rate-limit headers the server sent. By default the client uses [RobustHTTPClient], which retries connection errors, 5xx responses, and 429 responses with backoff. Write requests can additionally be throttled client-side with [APIClient.WriteLimiter].
*/
package client
