package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/DarshanKumarGP/MEAL-MATE/internal/adapter/http/middleware"
	domain "github.com/DarshanKumarGP/MEAL-MATE/internal/entity"
	"github.com/DarshanKumarGP/MEAL-MATE/internal/observ"
	"github.com/DarshanKumarGP/MEAL-MATE/internal/payment"
	"github.com/DarshanKumarGP/MEAL-MATE/internal/usecase"
	"github.com/gin-gonic/gin"
)

// CheckoutHandler drives the checkout workflow over HTTP. A submission
// that suspends for payment carries the widget options in the response;
// the browser opens razorpay with them and reports back through the
// confirm/dismiss endpoints.
type CheckoutHandler struct {
	checkout *usecase.Checkout
	razorpay *payment.Razorpay
}

func NewCheckoutHandler(checkout *usecase.Checkout, razorpay *payment.Razorpay) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, razorpay: razorpay}
}

func (h *CheckoutHandler) Begin(c *gin.Context) {
	sess := middleware.Session(c)
	ctx, cancel := reqCtx(c, 5*time.Second)
	defer cancel()

	wf, err := h.checkout.Begin(ctx, sess.Credentials())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, wf)
}

func (h *CheckoutHandler) Current(c *gin.Context) {
	sess := middleware.Session(c)
	ctx, cancel := reqCtx(c, 5*time.Second)
	defer cancel()

	wf, err := h.checkout.Current(ctx, sess.Credentials())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, wf)
}

type selectAddressReq struct {
	AddressID int64 `json:"address_id" binding:"required"`
}

func (h *CheckoutHandler) SelectAddress(c *gin.Context) {
	var req selectAddressReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	sess := middleware.Session(c)
	ctx, cancel := reqCtx(c, 10*time.Second)
	defer cancel()

	wf, err := h.checkout.SelectAddress(ctx, sess.Credentials(), req.AddressID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, wf)
}

type selectPaymentReq struct {
	Method string `json:"method" binding:"required"`
}

func (h *CheckoutHandler) SelectPayment(c *gin.Context) {
	var req selectPaymentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	sess := middleware.Session(c)
	ctx, cancel := reqCtx(c, 5*time.Second)
	defer cancel()

	wf, err := h.checkout.SelectPayment(ctx, sess.Credentials(), domain.PaymentMethod(req.Method))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, wf)
}

func (h *CheckoutHandler) Back(c *gin.Context) {
	sess := middleware.Session(c)
	ctx, cancel := reqCtx(c, 5*time.Second)
	defer cancel()

	wf, err := h.checkout.Back(ctx, sess.Credentials())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, wf)
}

// submitResp wraps the use case result with the widget options when the
// workflow suspended for payment.
type submitResp struct {
	*usecase.SubmitResult
	Razorpay *payment.CheckoutOptions `json:"razorpay,omitempty"`
}

func (h *CheckoutHandler) Submit(c *gin.Context) {
	sess := middleware.Session(c)
	// the submission fans out several upstream writes; give it room
	ctx, cancel := reqCtx(c, 30*time.Second)
	defer cancel()

	res, err := h.checkout.Submit(ctx, sess.Credentials(), sess.PromoCode, sess.PromoPct)
	if err != nil {
		h.countFailure(err)
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, h.withWidget(res, sess))
}

type confirmPaymentReq struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

func (h *CheckoutHandler) ConfirmPayment(c *gin.Context) {
	var req confirmPaymentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	proof := domain.PaymentProof{
		RazorpayOrderID:   req.RazorpayOrderID,
		RazorpayPaymentID: req.RazorpayPaymentID,
		RazorpaySignature: req.RazorpaySignature,
	}
	// reject an obviously forged proof before it travels upstream
	if err := h.razorpay.CheckProof(proof); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess := middleware.Session(c)
	ctx, cancel := reqCtx(c, 30*time.Second)
	defer cancel()

	res, err := h.checkout.ConfirmPayment(ctx, sess.Credentials(), proof)
	if err != nil {
		h.countFailure(err)
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, h.withWidget(res, sess))
}

func (h *CheckoutHandler) DismissPayment(c *gin.Context) {
	sess := middleware.Session(c)
	ctx, cancel := reqCtx(c, 5*time.Second)
	defer cancel()

	wf, err := h.checkout.DismissPayment(ctx, sess.Credentials())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, wf)
}

func (h *CheckoutHandler) Retry(c *gin.Context) {
	sess := middleware.Session(c)
	ctx, cancel := reqCtx(c, 30*time.Second)
	defer cancel()

	res, err := h.checkout.Retry(ctx, sess.Credentials())
	if err != nil {
		h.countFailure(err)
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, h.withWidget(res, sess))
}

func (h *CheckoutHandler) Abandon(c *gin.Context) {
	sess := middleware.Session(c)
	ctx, cancel := reqCtx(c, 5*time.Second)
	defer cancel()

	if err := h.checkout.Abandon(ctx, sess.Credentials()); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// countFailure records genuinely failed submissions; precondition
// rejections never started a sequence and are not counted.
func (h *CheckoutHandler) countFailure(err error) {
	for _, sentinel := range []error{
		usecase.ErrNoWorkflow, usecase.ErrBadStage, usecase.ErrNoAddress,
		usecase.ErrNoPayment, usecase.ErrEmptyCart, usecase.ErrSubmitInFlight,
		usecase.ErrNotAwaitingPayment,
	} {
		if errors.Is(err, sentinel) {
			return
		}
	}
	observ.CheckoutOutcomes.WithLabelValues("failed").Inc()
}

func (h *CheckoutHandler) withWidget(res *usecase.SubmitResult, sess *usecase.Session) submitResp {
	switch {
	case res.AwaitingPayment:
		observ.CheckoutOutcomes.WithLabelValues("awaiting_payment").Inc()
	case res.Workflow.Stage == usecase.StageDone:
		observ.CheckoutOutcomes.WithLabelValues("done").Inc()
	}
	out := submitResp{SubmitResult: res}
	if res.AwaitingPayment && res.Intent != nil {
		opts := h.razorpay.Options(res.Intent, sess.User)
		out.Razorpay = &opts
	}
	return out
}
