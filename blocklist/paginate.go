package blocklist

import (
	"context"
	"errors"
)

var errCursorRepeated = errors.New("server returned the same cursor it was given")

// Requests pages in cursor order until the server returns an empty cursor, calling visit for every item. Fails on the first page error; the caller must discard anything visited so far.
func paginate[T any](ctx context.Context, endpoint, subject string, fetch func(ctx context.Context, cursor string) (*Page[T], error), visit func(T)) error {
	cursor := ""
	for {
		if err := ctx.Err(); err != nil {
			return &FetchError{Endpoint: endpoint, Subject: subject, Cursor: cursor, Err: err}
		}
		page, err := fetch(ctx, cursor)
		if err != nil {
			fetchErrors.WithLabelValues(endpoint).Inc()
			return &FetchError{Endpoint: endpoint, Subject: subject, Cursor: cursor, Err: err}
		}
		pagesFetched.WithLabelValues(endpoint).Inc()
		for _, item := range page.Items {
			visit(item)
		}
		if page.Cursor == "" {
			return nil
		}
		if page.Cursor == cursor {
			fetchErrors.WithLabelValues(endpoint).Inc()
			return &FetchError{Endpoint: endpoint, Subject: subject, Cursor: cursor, Err: errCursorRepeated}
		}
		cursor = page.Cursor
	}
}
