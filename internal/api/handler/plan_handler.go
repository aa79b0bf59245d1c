package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/licensehub/console-gateway/internal/core/ports"
)

type PlanHandler struct {
	proxy ports.ProxyService
}

func NewPlanHandler(proxy ports.ProxyService) *PlanHandler {
	return &PlanHandler{proxy: proxy}
}

// List returns every subscription plan.
//
// @Summary      List subscription plans
// @Tags         subscription-plan
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.SubscriptionPlan
// @Failure      401  {object}  api.ErrorResponse
// @Failure      502  {object}  api.ErrorResponse
// @Router       /subscription-plan [get]
func (h *PlanHandler) List(c echo.Context) error {
	res, err := forward(c, h.proxy, "plan.list", http.MethodGet, "/subscription-plan", nil)
	if err != nil {
		return err
	}
	return passthrough(c, res)
}

// Create adds a subscription plan.
//
// @Summary      Create subscription plan
// @Tags         subscription-plan
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      planRequest  true  "Plan details"
// @Success      201   {object}  domain.SubscriptionPlan
// @Failure      400   {object}  api.ErrorResponse
// @Failure      401   {object}  api.ErrorResponse
// @Router       /subscription-plan [post]
func (h *PlanHandler) Create(c echo.Context) error {
	var req planRequest
	body, err := readValidated(c, &req)
	if err != nil {
		return err
	}

	res, err := forward(c, h.proxy, "plan.create", http.MethodPost, "/subscription-plan", body)
	if err != nil {
		return err
	}
	return passthrough(c, res)
}
