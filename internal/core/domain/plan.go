package domain

import "encoding/json"

// SubscriptionPlan describes a sellable plan. Price is kept as json.Number
// because the backend serialises decimals as strings.
type SubscriptionPlan struct {
	ID          string      `json:"plan_id"`
	PlanName    string      `json:"plan_name"`
	Price       json.Number `json:"price"`
	BranchLimit int         `json:"branch_limit"`
	DeviceLimit int         `json:"device_limit"`
	Description string      `json:"description"`
	CreatedAt   string      `json:"created_at,omitempty"`
}

// PlanInput is the write payload for plan creation.
type PlanInput struct {
	PlanName    string  `json:"plan_name"`
	Price       float64 `json:"price"`
	BranchLimit int     `json:"branch_limit"`
	DeviceLimit int     `json:"device_limit"`
	Description string  `json:"description"`
}
