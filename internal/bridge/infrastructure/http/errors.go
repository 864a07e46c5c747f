package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turiddu25/cobble-economy/internal/bridge/domain"
)

func handleDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, &domain.PermissionDeniedError{}):
		c.JSON(http.StatusForbidden, gin.H{"errors": err.Error()})
	case domain.IsValidation(err), errors.Is(err, &domain.NoRuleMatchedError{}):
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
	case domain.IsTransient(err):
		c.JSON(http.StatusServiceUnavailable, gin.H{"errors": "economy service unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"errors": "internal server error"})
	}
}
