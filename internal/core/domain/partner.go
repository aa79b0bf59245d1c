package domain

// PartnerStatus is the lifecycle state of a partner as reported by the backend.
type PartnerStatus string

const (
	PartnerActive    PartnerStatus = "Active"
	PartnerSuspended PartnerStatus = "Suspended"
)

// Partner is a tenant organisation on the platform. The gateway never
// mutates it; every change goes through the backend.
type Partner struct {
	ID            string        `json:"partner_id"`
	BusinessName  string        `json:"business_name"`
	BusinessEmail string        `json:"business_email"`
	BusinessPhone string        `json:"business_phone"`
	Status        PartnerStatus `json:"status"`
	JoinedDate    string        `json:"joined_date,omitempty"`
}

// PartnerInput is the write payload for partner create and update.
type PartnerInput struct {
	BusinessName  string        `json:"business_name"`
	BusinessEmail string        `json:"business_email"`
	BusinessPhone string        `json:"business_phone"`
	Status        PartnerStatus `json:"status,omitempty"`
}
