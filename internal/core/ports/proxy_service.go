package ports

import "context"

// ProxyCall describes one browser request relayed to the backend.
type ProxyCall struct {
	Route  string // stable label used for logs and metrics, e.g. "partner.update"
	Method string
	Path   string
	Token  string
	Body   []byte
}

// ProxyResult is a successful (2xx) upstream answer. Body is always valid
// JSON; an empty upstream body becomes "{}".
type ProxyResult struct {
	StatusCode int
	Body       []byte
}

// ProxyService relays calls and normalizes every failure into a
// *domain.GatewayError.
type ProxyService interface {
	Forward(ctx context.Context, call ProxyCall) (*ProxyResult, error)
	// LicensePath selects the upstream license collection for a role and tenant.
	LicensePath(role, partnerID string) string
}
