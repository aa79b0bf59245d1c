package domain

// Roles recognised by the license routing policy. The backend may send
// compound values (e.g. "partner_owner"), so matching is by substring.
const (
	RolePlatformAdmin = "admin_platform"
	RolePartnerAdmin  = "admin_mitra"
	RolePartner       = "partner"
)

// Credentials are only ever forwarded to the backend.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// User is the identity returned by the backend on login.
type User struct {
	ID        string `json:"user_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role"`
	PartnerID string `json:"partner_id,omitempty"`
}

// LoginResponse is the backend's answer to POST /auth/login.
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}
