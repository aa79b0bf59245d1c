package domain

// LicenseStatus values observed from the backend. Other values pass through untouched.
const (
	LicenseActive  = "Active"
	LicensePending = "Pending"
)

// License is read-only through the gateway.
type License struct {
	ID             string  `json:"license_id"`
	ActivationCode string  `json:"activation_code"`
	PartnerID      string  `json:"partner_id"`
	BranchID       *string `json:"branch_id,omitempty"`
	DeviceID       *string `json:"device_id,omitempty"`
	DeviceName     *string `json:"device_name,omitempty"`
	Status         string  `json:"license_status"`
	PartnerName    string  `json:"partner_name,omitempty"`
	PlanID         string  `json:"plan_id,omitempty"`
	PlanName       string  `json:"plan_name,omitempty"`
	Price          string  `json:"price,omitempty"`
	ExpiryDate     string  `json:"expiry_date,omitempty"`
	CreatedAt      string  `json:"created_at,omitempty"`
}
