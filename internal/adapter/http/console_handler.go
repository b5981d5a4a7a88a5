package http

import (
	"net/http"
	"time"

	"github.com/DarshanKumarGP/MEAL-MATE/internal/adapter/http/middleware"
	domain "github.com/DarshanKumarGP/MEAL-MATE/internal/entity"
	"github.com/DarshanKumarGP/MEAL-MATE/internal/usecase"
	"github.com/gin-gonic/gin"
)

type ConsoleHandler struct {
	console *usecase.Console
}

func NewConsoleHandler(console *usecase.Console) *ConsoleHandler {
	return &ConsoleHandler{console: console}
}

func (h *ConsoleHandler) Overview(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		return
	}
	sess := middleware.Session(c)
	ctx, cancel := reqCtx(c, 15*time.Second)
	defer cancel()

	ov, err := h.console.Overview(ctx, sess.Credentials(), sess, id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, ov)
}

func (h *ConsoleHandler) Orders(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		return
	}
	sess := middleware.Session(c)
	ctx, cancel := reqCtx(c, 10*time.Second)
	defer cancel()

	orders, err := h.console.Orders(ctx, sess.Credentials(), sess, id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

type advanceReq struct {
	Status string `json:"status" binding:"required"`
}

func (h *ConsoleHandler) AdvanceOrder(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		return
	}
	orderID, err := pathID(c, "orderID")
	if err != nil {
		return
	}
	var req advanceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	sess := middleware.Session(c)
	ctx, cancel := reqCtx(c, 10*time.Second)
	defer cancel()

	order, err := h.console.AdvanceOrder(ctx, sess.Credentials(), sess, id, orderID, domain.Status(req.Status))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *ConsoleHandler) Menu(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		return
	}
	sess := middleware.Session(c)
	ctx, cancel := reqCtx(c, 10*time.Second)
	defer cancel()

	menu, err := h.console.Menu(ctx, sess.Credentials(), sess, id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"menu": menu})
}

type menuItemReq struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       string `json:"price" binding:"required"`
	Category    string `json:"category"`
	IsVeg       bool   `json:"is_veg"`
}

func (h *ConsoleHandler) AddMenuItem(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		return
	}
	var req menuItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	price, err := domain.ParseMoney(req.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_price"})
		return
	}
	sess := middleware.Session(c)
	ctx, cancel := reqCtx(c, 10*time.Second)
	defer cancel()

	item, err := h.console.AddMenuItem(ctx, sess.Credentials(), sess, usecase.MenuItemInput{
		RestaurantID: id,
		Name:         req.Name,
		Description:  req.Description,
		Price:        price,
		Category:     req.Category,
		IsVeg:        req.IsVeg,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *ConsoleHandler) Reviews(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		return
	}
	sess := middleware.Session(c)
	ctx, cancel := reqCtx(c, 10*time.Second)
	defer cancel()

	summary, err := h.console.Reviews(ctx, sess.Credentials(), sess, id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
