package tokens

import "github.com/golang-jwt/jwt/v5"

const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

type AccessClaims struct {
	Kind string `json:"typ"`
	jwt.RegisteredClaims
}

// RefreshClaims carry a random jti so every refresh token is unique,
// even two minted for the same admin within one second.
type RefreshClaims struct {
	Kind string `json:"typ"`
	jwt.RegisteredClaims
}
