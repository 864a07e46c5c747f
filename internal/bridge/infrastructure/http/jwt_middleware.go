package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/turiddu25/cobble-economy/internal/pkg/jwt"
	"github.com/turiddu25/cobble-economy/internal/pkg/logging"
)

const (
	authHeaderName = "Authorization"
)

// NewAuthMiddleware verifies the Bearer token and stores its claims under jwt.ClaimsContextKey.
func NewAuthMiddleware(secretKey string, tokenParser jwt.TokenParser, logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(authHeaderName)
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"errors": "missing authorization header"})
			return
		}

		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"errors": "invalid auth header"})
			return
		}

		claims, err := tokenParser.ParseToken([]byte(secretKey), parts[1])
		if err != nil {
			logger.Warn("failed to parse token", "error", err.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"errors": "invalid token"})
			return
		}

		c.Set(jwt.ClaimsContextKey, claims)
		c.Next()
	}
}

func claimsFrom(c *gin.Context) (*jwt.Claims, bool) {
	value, ok := c.Get(jwt.ClaimsContextKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*jwt.Claims)
	return claims, ok
}
