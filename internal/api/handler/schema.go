package handler

import "encoding/json"

// Request schemas are decoded only to check required fields. The bytes the
// browser sent are what the backend receives.

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type partnerRequest struct {
	BusinessName  string `json:"business_name"  validate:"required"`
	BusinessEmail string `json:"business_email" validate:"required"`
	BusinessPhone string `json:"business_phone" validate:"required"`
	Status        string `json:"status,omitempty"`
}

// Numeric fields are pointers so that an explicit 0 counts as present.
// json.Number also accepts numeric strings, which the console form may send.
type planRequest struct {
	PlanName    string       `json:"plan_name"    validate:"required"`
	Price       *json.Number `json:"price"        validate:"required"`
	BranchLimit *json.Number `json:"branch_limit" validate:"required"`
	DeviceLimit *json.Number `json:"device_limit" validate:"required"`
	Description string       `json:"description,omitempty"`
}

// successResponse wraps update and delete answers.
type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}
