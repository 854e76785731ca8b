package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/airtrips/internal/domain"
	"github.com/Domenick1991/airtrips/internal/service/auth"
	"github.com/gin-gonic/gin"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case auth.IsAuthError(err):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrConflictRetryExhausted),
		errors.Is(err, domain.ErrStoreUnavailable),
		errors.Is(err, domain.ErrCatalogUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
