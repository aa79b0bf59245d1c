package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/licensehub/console-gateway/internal/core/domain"
)

// ErrorResponse is the canonical error envelope for all API errors.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Error   string `json:"error,omitempty"`
	Details any    `json:"details,omitempty"`
	Status  int    `json:"status,omitempty"`
}

const codeInternal = "INTERNAL_ERROR"

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Renders *domain.GatewayError with its own status and kind.
//   - Renders echo's errors (unknown route, bad method, bind failures) in the same envelope.
//   - Logs anything else internally and answers 500 without leaking details.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, ErrorResponse) {
	var ge *domain.GatewayError
	if errors.As(err, &ge) {
		return ge.StatusCode, ErrorResponse{
			Message: ge.Message,
			Code:    string(ge.Kind),
			Error:   ge.Cause,
			Details: ge.Details,
			Status:  ge.UpstreamStatus,
		}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, ErrorResponse{
			Message: fmt.Sprintf("%v", he.Message),
			Code:    httpErrorCode(he.Code),
		}
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, ErrorResponse{
		Message: "internal server error",
		Code:    codeInternal,
	}
}

func httpErrorCode(status int) string {
	switch status {
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusUnauthorized:
		return string(domain.KindAuthMissing)
	case http.StatusBadRequest:
		return string(domain.KindValidation)
	}
	if status >= 500 {
		return codeInternal
	}
	return "HTTP_ERROR"
}
