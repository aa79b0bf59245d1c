package ports

import "context"

// UpstreamRequest is one outbound call to the backend API. Path is relative
// to the configured base URL.
type UpstreamRequest struct {
	Method string
	Path   string
	Token  string // forwarded as "Authorization: Bearer <token>" when non-empty
	Body   []byte
}

// UpstreamResponse is the raw backend answer; nothing has been parsed yet.
type UpstreamResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Upstream is the transport to the backend.
type Upstream interface {
	Do(ctx context.Context, req UpstreamRequest) (*UpstreamResponse, error)
	// Ping succeeds when the backend answers with any HTTP status.
	Ping(ctx context.Context) error
}
