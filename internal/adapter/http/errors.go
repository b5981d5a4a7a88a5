package http

import (
	"errors"
	"net/http"

	domain "github.com/DarshanKumarGP/MEAL-MATE/internal/entity"
	"github.com/DarshanKumarGP/MEAL-MATE/internal/usecase"
	"github.com/gin-gonic/gin"
)

// respondErr translates use case errors into HTTP statuses. Upstream
// errors pass their status through so the browser sees what the backend
// said; everything unmatched is a 500 with the message withheld.
func respondErr(c *gin.Context, err error) {
	var ue *usecase.UpstreamError
	if errors.As(err, &ue) {
		c.JSON(ue.Status, gin.H{"error": ue.Message})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, usecase.ErrSessionExpired):
		status = http.StatusUnauthorized
	case errors.Is(err, usecase.ErrNotOwner):
		status = http.StatusForbidden
	case errors.Is(err, usecase.ErrNoWorkflow),
		errors.Is(err, usecase.ErrLineNotFound):
		status = http.StatusNotFound
	case errors.Is(err, usecase.ErrBadStage),
		errors.Is(err, usecase.ErrSubmitInFlight),
		errors.Is(err, usecase.ErrNotAwaitingPayment):
		status = http.StatusConflict
	case errors.Is(err, usecase.ErrNoAddress),
		errors.Is(err, usecase.ErrNoPayment),
		errors.Is(err, usecase.ErrUnknownAddress),
		errors.Is(err, usecase.ErrEmptyCart),
		errors.Is(err, usecase.ErrBadRating),
		errors.Is(err, domain.ErrInvalidPromo),
		errors.Is(err, domain.ErrIllegalTransition),
		errors.Is(err, domain.ErrBadAmount):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": "internal_error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
