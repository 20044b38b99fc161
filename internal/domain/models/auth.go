package models

// TokenClaims is the decoded part of a bearer token before the admin lookup.
type TokenClaims struct {
	UserID      string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"name"`
	IssuedAt    int64  `json:"iat"`
	ExpiresAt   int64  `json:"exp"`
}

func (c TokenClaims) User() User {
	return User{
		ID:          c.UserID,
		Email:       c.Email,
		DisplayName: c.DisplayName,
	}
}
