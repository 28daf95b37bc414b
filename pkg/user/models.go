package user

import (
	"fmt"
	"time"
)

// Role is the account type of a platform user. The set is closed: every
// switch over Role must handle all three values.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleLearner Role = "learner"
	RoleSchool  Role = "school"
)

// ParseRole converts a stored role string into a Role
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleLearner, RoleSchool:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role: %q", s)
	}
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// Status represents the account status
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

// DefaultLanguage is used when a user has no language preference stored
const DefaultLanguage = "en"

// User is a platform account record as stored in the user store
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         Role
	Status       Status
	FirstName    string
	LastName     string
	Phone        string
	Language     string
	CreatedAt    time.Time
}

// IsActive reports whether the account may authenticate
func (u User) IsActive() bool {
	return u.Status == StatusActive
}
