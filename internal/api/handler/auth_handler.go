package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/licensehub/console-gateway/internal/core/ports"
)

type AuthHandler struct {
	proxy ports.ProxyService
}

func NewAuthHandler(proxy ports.ProxyService) *AuthHandler {
	return &AuthHandler{proxy: proxy}
}

// Login relays credentials to the backend and returns its answer verbatim.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  domain.LoginResponse
// @Failure      400   {object}  api.ErrorResponse
// @Failure      401   {object}  api.ErrorResponse
// @Failure      502   {object}  api.ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	body, err := readValidated(c, &req)
	if err != nil {
		return err
	}

	res, err := forward(c, h.proxy, "auth.login", http.MethodPost, "/auth/login", body)
	if err != nil {
		return err
	}
	return passthrough(c, res)
}
