package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is the machine-readable code carried in every error envelope.
type ErrorKind string

const (
	KindAuthMissing         ErrorKind = "AUTH_MISSING"
	KindValidation          ErrorKind = "VALIDATION_FAILED"
	KindUpstreamUnreachable ErrorKind = "UPSTREAM_UNREACHABLE"
	KindUpstreamTimeout     ErrorKind = "UPSTREAM_TIMEOUT"
	KindBadContentType      ErrorKind = "UPSTREAM_BAD_CONTENT_TYPE"
	KindMalformedJSON       ErrorKind = "UPSTREAM_MALFORMED_JSON"
	KindUpstreamError       ErrorKind = "UPSTREAM_ERROR"
)

// GatewayError is a failure that the HTTP boundary renders as the
// normalized error envelope. StatusCode is the status sent to the caller.
type GatewayError struct {
	Kind           ErrorKind
	StatusCode     int
	Message        string
	Cause          string
	Details        any
	UpstreamStatus int
}

func (e *GatewayError) Error() string {
	if e.Cause != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// IsKind reports whether err is a GatewayError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ge *GatewayError
	return errors.As(err, &ge) && ge.Kind == kind
}
