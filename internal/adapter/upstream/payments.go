package upstream

import (
	"context"
	"fmt"
	"net/http"

	domain "github.com/DarshanKumarGP/MEAL-MATE/internal/entity"
	"github.com/DarshanKumarGP/MEAL-MATE/internal/usecase"
)

// CreateIntent asks the backend for a razorpay order covering the given
// amount. Amount goes up in rupees, comes back in paise.
func (c *Client) CreateIntent(ctx context.Context, cr usecase.Credentials, orderID int64, amount domain.Money) (*domain.PaymentIntent, error) {
	var resp struct {
		KeyID           string `json:"key_id"`
		Amount          int64  `json:"amount"`
		Currency        string `json:"currency"`
		RazorpayOrderID string `json:"razorpay_order_id"`
	}
	err := c.do(ctx, cr, call{
		method: http.MethodPost,
		path:   "/payments/payments/create_razorpay_order/",
		body: map[string]any{
			"order_id": orderID,
			"amount":   amount.String(),
		},
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.RazorpayOrderID == "" {
		return nil, fmt.Errorf("%w: payment intent response", ErrUnexpectedShape)
	}
	return &domain.PaymentIntent{
		KeyID:           resp.KeyID,
		AmountPaise:     resp.Amount,
		Currency:        resp.Currency,
		RazorpayOrderID: resp.RazorpayOrderID,
	}, nil
}

func (c *Client) VerifyPayment(ctx context.Context, cr usecase.Credentials, proof domain.PaymentProof) error {
	return c.do(ctx, cr, call{
		method: http.MethodPost,
		path:   "/payments/payments/verify_payment/",
		body: map[string]string{
			"razorpay_order_id":   proof.RazorpayOrderID,
			"razorpay_payment_id": proof.RazorpayPaymentID,
			"razorpay_signature":  proof.RazorpaySignature,
		},
	}, nil)
}

var _ usecase.PaymentGateway = (*Client)(nil)
