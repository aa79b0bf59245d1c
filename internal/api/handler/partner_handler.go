package handler

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/licensehub/console-gateway/internal/core/ports"
)

type PartnerHandler struct {
	proxy ports.ProxyService
}

func NewPartnerHandler(proxy ports.ProxyService) *PartnerHandler {
	return &PartnerHandler{proxy: proxy}
}

func partnerPath(c echo.Context) string {
	return "/partner/" + url.PathEscape(c.Param("id"))
}

// List returns every partner.
//
// @Summary      List partners
// @Tags         partner
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Partner
// @Failure      401  {object}  api.ErrorResponse
// @Failure      502  {object}  api.ErrorResponse
// @Failure      504  {object}  api.ErrorResponse
// @Router       /partner [get]
func (h *PartnerHandler) List(c echo.Context) error {
	res, err := forward(c, h.proxy, "partner.list", http.MethodGet, "/partner", nil)
	if err != nil {
		return err
	}
	return passthrough(c, res)
}

// Get returns a single partner.
//
// @Summary      Get partner
// @Tags         partner
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Partner ID"
// @Success      200  {object}  domain.Partner
// @Failure      401  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /partner/{id} [get]
func (h *PartnerHandler) Get(c echo.Context) error {
	res, err := forward(c, h.proxy, "partner.get", http.MethodGet, partnerPath(c), nil)
	if err != nil {
		return err
	}
	return passthrough(c, res)
}

// Create registers a partner.
//
// @Summary      Create partner
// @Tags         partner
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      partnerRequest  true  "Partner details"
// @Success      201   {object}  domain.Partner
// @Failure      400   {object}  api.ErrorResponse
// @Failure      401   {object}  api.ErrorResponse
// @Router       /partner [post]
func (h *PartnerHandler) Create(c echo.Context) error {
	var req partnerRequest
	body, err := readValidated(c, &req)
	if err != nil {
		return err
	}

	res, err := forward(c, h.proxy, "partner.create", http.MethodPost, "/partner", body)
	if err != nil {
		return err
	}
	return passthrough(c, res)
}

// Update replaces a partner's business details.
//
// @Summary      Update partner
// @Tags         partner
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Partner ID"
// @Param        body  body      partnerRequest  true  "Partner details"
// @Success      200   {object}  successResponse
// @Failure      400   {object}  api.ErrorResponse
// @Failure      401   {object}  api.ErrorResponse
// @Failure      404   {object}  api.ErrorResponse
// @Router       /partner/{id} [put]
func (h *PartnerHandler) Update(c echo.Context) error {
	var req partnerRequest
	body, err := readValidated(c, &req)
	if err != nil {
		return err
	}

	res, err := forward(c, h.proxy, "partner.update", http.MethodPut, partnerPath(c), body)
	if err != nil {
		return err
	}
	return wrap(c, res, "Partner updated successfully")
}

// Delete suspends a partner. The backend keeps the record.
//
// @Summary      Suspend partner
// @Tags         partner
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Partner ID"
// @Success      200  {object}  successResponse
// @Failure      401  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /partner/{id} [delete]
func (h *PartnerHandler) Delete(c echo.Context) error {
	res, err := forward(c, h.proxy, "partner.delete", http.MethodDelete, partnerPath(c), nil)
	if err != nil {
		return err
	}
	return wrap(c, res, "Partner suspended successfully")
}
