package http

import (
	"context"
	"net/http"
	"time"

	"github.com/DarshanKumarGP/MEAL-MATE/internal/adapter/http/middleware"
	domain "github.com/DarshanKumarGP/MEAL-MATE/internal/entity"
	"github.com/DarshanKumarGP/MEAL-MATE/internal/usecase"
	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessions  *usecase.Sessions
	addresses usecase.AddressGateway
	notify    *usecase.Notifier
}

func NewSessionHandler(sessions *usecase.Sessions, addresses usecase.AddressGateway, notify *usecase.Notifier) *SessionHandler {
	return &SessionHandler{sessions: sessions, addresses: addresses, notify: notify}
}

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *SessionHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	ctx, cancel := reqCtx(c, 10*time.Second)
	defer cancel()

	out, err := h.sessions.Login(ctx, req.Email, req.Password)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

type registerReq struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Phone     string `json:"phone"`
}

func (h *SessionHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	ctx, cancel := reqCtx(c, 10*time.Second)
	defer cancel()

	out, err := h.sessions.Register(ctx, usecase.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *SessionHandler) Logout(c *gin.Context) {
	sess := middleware.Session(c)
	ctx, cancel := reqCtx(c, 5*time.Second)
	defer cancel()

	if err := h.sessions.Logout(ctx, sess); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) Me(c *gin.Context) {
	sess := middleware.Session(c)
	ctx, cancel := reqCtx(c, 5*time.Second)
	defer cancel()

	user, err := h.sessions.Me(ctx, sess)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *SessionHandler) ListAddresses(c *gin.Context) {
	sess := middleware.Session(c)
	ctx, cancel := reqCtx(c, 5*time.Second)
	defer cancel()

	list, err := h.addresses.ListAddresses(ctx, sess.Credentials())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"addresses": list})
}

type addressReq struct {
	Line1      string `json:"address_line_1" binding:"required"`
	Line2      string `json:"address_line_2"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
	Label      string `json:"address_type"`
	IsDefault  bool   `json:"is_default"`
}

func (h *SessionHandler) CreateAddress(c *gin.Context) {
	var req addressReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	sess := middleware.Session(c)
	ctx, cancel := reqCtx(c, 5*time.Second)
	defer cancel()

	addr, err := h.addresses.CreateAddress(ctx, sess.Credentials(), domain.Address{
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Label:      req.Label,
		IsDefault:  req.IsDefault,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, addr)
}

// Notifications drains the session's pending toast queue.
func (h *SessionHandler) Notifications(c *gin.Context) {
	sess := middleware.Session(c)
	ctx, cancel := reqCtx(c, 5*time.Second)
	defer cancel()

	toasts, err := h.notify.Drain(ctx, sess.ID)
	if err != nil {
		respondErr(c, err)
		return
	}
	if toasts == nil {
		toasts = []usecase.Toast{}
	}
	c.JSON(http.StatusOK, gin.H{"notifications": toasts})
}

func reqCtx(c *gin.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), d)
}
