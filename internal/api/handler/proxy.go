package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/licensehub/console-gateway/internal/api/middleware"
	"github.com/licensehub/console-gateway/internal/core/domain"
	"github.com/licensehub/console-gateway/internal/core/ports"
)

const maxRequestBytes = 1 << 20

// readValidated reads the raw request body, decodes it into dst and runs the
// echo validator. The raw bytes are returned for forwarding.
func readValidated(c echo.Context, dst any) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(c.Request().Body, maxRequestBytes))
	if err != nil {
		return nil, invalidPayload(err.Error())
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return nil, invalidPayload(err.Error())
	}
	if err := c.Validate(dst); err != nil {
		return nil, &domain.GatewayError{
			Kind:       domain.KindValidation,
			StatusCode: http.StatusBadRequest,
			Message:    "Missing required fields",
			Cause:      err.Error(),
		}
	}
	return raw, nil
}

func invalidPayload(cause string) *domain.GatewayError {
	return &domain.GatewayError{
		Kind:       domain.KindValidation,
		StatusCode: http.StatusBadRequest,
		Message:    "invalid payload",
		Cause:      cause,
	}
}

// forward relays one call with the caller's bearer token.
func forward(c echo.Context, svc ports.ProxyService, route, method, path string, body []byte) (*ports.ProxyResult, error) {
	return svc.Forward(c.Request().Context(), ports.ProxyCall{
		Route:  route,
		Method: method,
		Path:   path,
		Token:  middleware.Token(c),
		Body:   body,
	})
}

// passthrough answers with the backend body and status untouched.
func passthrough(c echo.Context, res *ports.ProxyResult) error {
	return c.Blob(res.StatusCode, echo.MIMEApplicationJSON, res.Body)
}

// wrap answers with the success envelope. A 204 becomes 200 since a body is sent.
func wrap(c echo.Context, res *ports.ProxyResult, message string) error {
	var data any
	if err := json.Unmarshal(res.Body, &data); err != nil {
		return err
	}
	status := res.StatusCode
	if status == http.StatusNoContent {
		status = http.StatusOK
	}
	return c.JSON(status, successResponse{Success: true, Message: message, Data: data})
}
