package models

import "github.com/golang-jwt/jwt/v5"

// UserRole enumerates the roles recognised by the API. Token issuance lives in
// the identity service; this API only validates bearer tokens.
type UserRole string

const (
	RoleSuperAdmin UserRole = "SUPER_ADMIN"
	RoleAdmin      UserRole = "ADMIN"
	RoleTeacher    UserRole = "TEACHER"
)

// JWTClaims carries the authenticated identity extracted from a bearer token.
type JWTClaims struct {
	UserID string   `json:"user_id"`
	Role   UserRole `json:"role"`
	jwt.RegisteredClaims
}
