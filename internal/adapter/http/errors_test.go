package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	domain "github.com/DarshanKumarGP/MEAL-MATE/internal/entity"
	"github.com/DarshanKumarGP/MEAL-MATE/internal/usecase"
	"github.com/gin-gonic/gin"
)

func TestRespondErrMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err  error
		want int
	}{
		{usecase.ErrSessionExpired, http.StatusUnauthorized},
		{usecase.ErrNotOwner, http.StatusForbidden},
		{usecase.ErrNoWorkflow, http.StatusNotFound},
		{usecase.ErrBadStage, http.StatusConflict},
		{usecase.ErrSubmitInFlight, http.StatusConflict},
		{usecase.ErrNotAwaitingPayment, http.StatusConflict},
		{usecase.ErrEmptyCart, http.StatusBadRequest},
		{usecase.ErrUnknownAddress, http.StatusBadRequest},
		{domain.ErrInvalidPromo, http.StatusBadRequest},
		{domain.ErrIllegalTransition, http.StatusBadRequest},
		{fmt.Errorf("wrap: %w", usecase.ErrNoAddress), http.StatusBadRequest},
		{&usecase.UpstreamError{Status: 503, Message: "backend down"}, http.StatusServiceUnavailable},
		{fmt.Errorf("something else"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		respondErr(ctx, c.err)
		if w.Code != c.want {
			t.Errorf("respondErr(%v) = %d, want %d", c.err, w.Code, c.want)
		}
	}
}
