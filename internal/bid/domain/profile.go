package domain

import "github.com/google/uuid"

// Role as supplied by the identity collaborator, trusted per request
type Role string

const (
	RoleRequester Role = "requester"
	RoleVendor    Role = "vendor"
	RoleAdmin     Role = "admin"
)

// Profile is the read-only view of a marketplace user. The engine consumes
// it for eligibility checks and category scoping, never mutates it.
type Profile struct {
	ID              uuid.UUID
	Role            Role
	Location        string
	IsVerified      bool
	ExperienceYears int
	Categories      []string
}
