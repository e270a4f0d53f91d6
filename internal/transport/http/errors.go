package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AbdihakiimGedi/Rent-management-system-sub002/internal/domain"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrCodeMismatch),
		errors.Is(err, domain.ErrCodeExpired),
		errors.Is(err, domain.ErrNotYetEligible):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrAlreadyResolved),
		errors.Is(err, domain.ErrLedgerInconsistency):
		return http.StatusConflict
	case errors.Is(err, domain.ErrGatewayFailure):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
