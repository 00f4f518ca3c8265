package domain

import (
	"encoding/json"
	"strings"
)

// Role is the permission level the backend issues for a session.
type Role string

const (
	RoleOperator Role = "operator"
	RoleManager  Role = "manager"
)

// UnmarshalJSON accepts the backend's Italian spelling ("operatore") as an alias.
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = ParseRole(s)
	return nil
}

// ParseRole normalises a role string. Unknown values fall back to operator,
// the least privileged role.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "manager":
		return RoleManager
	default:
		return RoleOperator
	}
}

// User models the authenticated actor. Immutable for the lifetime of a session.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username,omitempty"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
}

// IsManager reports whether the user may see cross-apartment views.
func (u *User) IsManager() bool {
	return u != nil && u.Role == RoleManager
}

// Apartment is the property a checklist and inventory belong to.
type Apartment struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
