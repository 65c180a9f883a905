package model

import "time"

// Role is a member's role inside a single project.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// IsUser reports whether r is the restricted "user" role.
// Every other role is treated as privileged.
func (r Role) IsUser() bool {
	return r == RoleUser
}

// ProjectUser is a membership row linking one user to one project.
type ProjectUser struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	ProjectID string    `json:"projectId"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
