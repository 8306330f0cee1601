package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims are the JWT claims carried by an access token. The subject is
// always the account email; Role is the plain role string with no prefix.
type TokenClaims struct {
	Role   string `json:"role"`
	UserID int64  `json:"userId"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}
