package models

import "github.com/golang-jwt/jwt/v5"

// Claims is the JWT claims structure issued by the session service.
// The subject claim carries the external auth subject (open_id); uid is the
// numeric user id assigned at first sign-in. This service trusts the
// identity in a verified token without re-checking credentials.
type Claims struct {
	jwt.RegisteredClaims
	UserID      int64  `json:"uid"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	LoginMethod string `json:"login_method"`
	Role        string `json:"role"`
}

// OpenID returns the external auth subject for the authenticated caller.
func (c *Claims) OpenID() string {
	return c.Subject
}
