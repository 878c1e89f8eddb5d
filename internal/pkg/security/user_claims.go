package security

import (
	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenIssuer   = "kol-bd-tool"
	TokenAudience = "kol-bd-tool-users"
)

// UserClaims Token 中携带的用户身份
type UserClaims struct {
	UserID uint64 `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
