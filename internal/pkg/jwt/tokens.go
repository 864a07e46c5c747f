package jwt

import (
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	ClaimsContextKey = "bridge_claims"
)

type TokenIssuer interface {
	IssueToken(secret []byte, subject string, permissions []string, timeLimit time.Duration) (string, error)
}

type TokenParser interface {
	ParseToken(secret []byte, tokenString string) (*Claims, error)
}

// Claims identify the caller of the bridge API. Subject is the host adapter or player the
// token was issued to; Permissions are the command nodes it may use.
type Claims struct {
	Permissions []string `json:"perms"`
	jwt.RegisteredClaims
}

func (c *Claims) HasPermission(node string) bool {
	return slices.Contains(c.Permissions, node)
}

type JWTTokenIssuer struct {
}

func NewJWTTokenIssuer() *JWTTokenIssuer {
	return &JWTTokenIssuer{}
}

// IssueToken signs a token; a zero timeLimit issues a token without expiry, which host
// adapters use for their long-lived service credential.
func (ti *JWTTokenIssuer) IssueToken(secret []byte, subject string, permissions []string, timeLimit time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		Permissions: permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  subject,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if timeLimit != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(timeLimit))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

type JWTTokenParser struct {
}

func NewJWTTokenParser() *JWTTokenParser {
	return &JWTTokenParser{}
}

func (tp *JWTTokenParser) ParseToken(secret []byte, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}

		return secret, nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}
