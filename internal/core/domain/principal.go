package domain

import "time"

const (
	RoleAdmin    = "ADMIN"
	RoleAgent    = "AGENT"
	RoleCustomer = "CUSTOMER"
)

// Principal models an authenticated identity, independent of any token.
type Principal struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// Sanitized returns a copy safe to serialize to clients: the password hash
// never leaves the credential layer.
func (p *Principal) Sanitized() *Principal {
	if p == nil {
		return nil
	}
	clone := *p
	clone.PasswordHash = ""
	return &clone
}

// AdminRole reports whether the role may reach admin-tier routes.
func AdminRole(role string) bool {
	return role == RoleAdmin || role == RoleAgent
}
