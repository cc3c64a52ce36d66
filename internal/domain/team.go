package domain

import "time"

type Team struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	// Role of the requesting user, filled on list queries only.
	Role Role `json:"role,omitempty"`
}

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

func ValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleMember
}

type Membership struct {
	ID     int64 `json:"id"`
	TeamID int64 `json:"team_id"`
	UserID int64 `json:"user_id"`
	Role   Role  `json:"role"`
}

// Member is a membership joined with the user it points at,
// the shape returned by the team members listing.
type Member struct {
	Membership
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
}
