package http

import (
	"net/http"
	"time"

	"github.com/DarshanKumarGP/MEAL-MATE/internal/adapter/http/middleware"
	"github.com/DarshanKumarGP/MEAL-MATE/internal/usecase"
	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orders  usecase.OrderGateway
	tracker *usecase.Tracker
}

func NewOrderHandler(orders usecase.OrderGateway, tracker *usecase.Tracker) *OrderHandler {
	return &OrderHandler{orders: orders, tracker: tracker}
}

// List returns the session user's orders, newest first as the upstream
// delivers them.
func (h *OrderHandler) List(c *gin.Context) {
	sess := middleware.Session(c)
	ctx, cancel := reqCtx(c, 10*time.Second)
	defer cancel()

	list, err := h.orders.ListOrders(ctx, sess.Credentials(), usecase.OrderQuery{})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": list})
}

// Get returns one tracking snapshot: order, items, timeline and hero
// presentation. The browser polls this or upgrades to the stream.
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		return
	}
	sess := middleware.Session(c)
	ctx, cancel := reqCtx(c, 10*time.Second)
	defer cancel()

	snap, err := h.tracker.Snapshot(ctx, sess.Credentials(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}
