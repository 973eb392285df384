package models

import "time"

// User roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is an account row keyed by the external auth subject (open_id).
// Rows are created and refreshed by upsert on each successful sign-in and
// are never deleted by this service.
type User struct {
	ID           int64      `json:"id"`
	OpenID       string     `json:"openId"`
	Name         *string    `json:"name"`
	Email        *string    `json:"email"`
	LoginMethod  *string    `json:"loginMethod"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	LastSignedIn *time.Time `json:"lastSignedIn"`
}
