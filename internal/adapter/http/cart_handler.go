package http

import (
	"net/http"
	"time"

	"github.com/DarshanKumarGP/MEAL-MATE/internal/adapter/http/middleware"
	"github.com/DarshanKumarGP/MEAL-MATE/internal/usecase"
	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	cart *usecase.Cart
}

func NewCartHandler(cart *usecase.Cart) *CartHandler {
	return &CartHandler{cart: cart}
}

func (h *CartHandler) View(c *gin.Context) {
	sess := middleware.Session(c)
	ctx, cancel := reqCtx(c, 10*time.Second)
	defer cancel()

	view, err := h.cart.View(ctx, sess.Credentials())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CartHandler) Count(c *gin.Context) {
	sess := middleware.Session(c)
	ctx, cancel := reqCtx(c, 5*time.Second)
	defer cancel()

	n, err := h.cart.Count(ctx, sess.Credentials())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

type addItemReq struct {
	MenuItemID int64 `json:"menu_item_id" binding:"required"`
	Quantity   int   `json:"quantity"`
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	sess := middleware.Session(c)
	ctx, cancel := reqCtx(c, 10*time.Second)
	defer cancel()

	view, err := h.cart.AddItem(ctx, sess.Credentials(), req.MenuItemID, req.Quantity)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type setQtyReq struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) SetQuantity(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		return
	}
	var req setQtyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	sess := middleware.Session(c)
	ctx, cancel := reqCtx(c, 10*time.Second)
	defer cancel()

	view, err := h.cart.SetQuantity(ctx, sess.Credentials(), id, req.Quantity)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CartHandler) RemoveLine(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		return
	}
	sess := middleware.Session(c)
	ctx, cancel := reqCtx(c, 10*time.Second)
	defer cancel()

	view, err := h.cart.RemoveLine(ctx, sess.Credentials(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type promoReq struct {
	Code string `json:"code" binding:"required"`
}

func (h *CartHandler) ApplyPromo(c *gin.Context) {
	var req promoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	sess := middleware.Session(c)
	ctx, cancel := reqCtx(c, 10*time.Second)
	defer cancel()

	view, err := h.cart.ApplyPromo(ctx, sess.Credentials(), req.Code)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
