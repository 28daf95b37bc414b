package session

import (
	"time"

	"github.com/jinzhu/copier"

	"github.com/trafficlearn/platform-auth/pkg/user"
)

// Principal is the authenticated identity bound to a session
type Principal struct {
	UserID    int64     `json:"user_id" copier:"ID"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      user.Role `json:"role"`
	Language  string    `json:"language"`
}

// NewPrincipal builds a Principal from a user record
func NewPrincipal(u user.User) (Principal, error) {
	var p Principal
	if err := copier.Copy(&p, &u); err != nil {
		return Principal{}, err
	}
	if p.Language == "" {
		p.Language = user.DefaultLanguage
	}
	return p, nil
}

// FlashType classifies a flash notice
type FlashType string

const (
	FlashSuccess FlashType = "success"
	FlashError   FlashType = "error"
	FlashWarning FlashType = "warning"
	FlashInfo    FlashType = "info"
)

// Flash is a one-shot notice stored in the session and cleared on read
type Flash struct {
	Type    FlashType `json:"type"`
	Message string    `json:"message"`
}

// Record is the server-side session state keyed by an opaque identifier.
// It holds at most one Principal plus the CSRF token state and a transient
// flash notice.
type Record struct {
	ID           string     `json:"id"`
	Principal    *Principal `json:"principal,omitempty"`
	LoginTime    time.Time  `json:"login_time"`
	CsrfToken    string     `json:"csrf_token,omitempty"`
	CsrfIssuedAt time.Time  `json:"csrf_issued_at"`
	Flash        *Flash     `json:"flash,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
