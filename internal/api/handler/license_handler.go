package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/licensehub/console-gateway/internal/api/middleware"
	"github.com/licensehub/console-gateway/internal/core/ports"
)

type LicenseHandler struct {
	proxy ports.ProxyService
}

func NewLicenseHandler(proxy ports.ProxyService) *LicenseHandler {
	return &LicenseHandler{proxy: proxy}
}

// List returns licenses visible to the caller. Platform admins and callers
// without a role get the full collection; partner roles with a tenant id get
// their own licenses.
//
// @Summary      List licenses
// @Tags         license
// @Produce      json
// @Security     BearerAuth
// @Param        X-User-Role        header    string  false  "Caller role"
// @Param        X-User-Partner-Id  header    string  false  "Caller tenant id"
// @Success      200  {array}   domain.License
// @Failure      401  {object}  api.ErrorResponse
// @Failure      502  {object}  api.ErrorResponse
// @Failure      504  {object}  api.ErrorResponse
// @Router       /license [get]
func (h *LicenseHandler) List(c echo.Context) error {
	role, partnerID := middleware.TenantHints(c)
	path := h.proxy.LicensePath(role, partnerID)

	res, err := forward(c, h.proxy, "license.list", http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return passthrough(c, res)
}
