package models

import "github.com/golang-jwt/jwt/v5"

// Principal is the authenticated caller attached to a request.
type Principal struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
	Role  Role   `json:"role"`
}

// JWTClaims are the claims carried by locally signed service tokens.
type JWTClaims struct {
	UserID string `json:"uid"`
	Email  string `json:"email,omitempty"`
	Role   Role   `json:"role"`
	jwt.RegisteredClaims
}
