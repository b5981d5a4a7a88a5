// Package payment adapts the razorpay checkout widget: building the
// options the browser hands to checkout.js, and verifying the signature
// the widget returns before the proof is forwarded upstream.
package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	domain "github.com/DarshanKumarGP/MEAL-MATE/internal/entity"
)

// DefaultCheckoutScriptURL is razorpay's hosted widget, loaded by the
// browser at checkout time.
const DefaultCheckoutScriptURL = "https://checkout.razorpay.com/v1/checkout.js"

var ErrBadSignature = errors.New("razorpay signature mismatch")

type Config struct {
	CheckoutScriptURL string
	// KeySecret enables local signature verification before the proof is
	// sent upstream. Empty skips the local check and trusts the backend's
	// verification alone.
	KeySecret string
}

type Razorpay struct {
	cfg Config
}

func New(cfg Config) *Razorpay {
	if cfg.CheckoutScriptURL == "" {
		cfg.CheckoutScriptURL = DefaultCheckoutScriptURL
	}
	return &Razorpay{cfg: cfg}
}

// CheckoutOptions is everything the browser needs to open the widget for
// a payment intent.
type CheckoutOptions struct {
	ScriptURL string `json:"script_url"`
	Key       string `json:"key"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	OrderID   string `json:"order_id"`
	Name      string `json:"name"`
	Prefill   struct {
		Name  string `json:"name,omitempty"`
		Email string `json:"email,omitempty"`
		Phone string `json:"contact,omitempty"`
	} `json:"prefill"`
}

func (r *Razorpay) Options(intent *domain.PaymentIntent, user *domain.User) CheckoutOptions {
	opts := CheckoutOptions{
		ScriptURL: r.cfg.CheckoutScriptURL,
		Key:       intent.KeyID,
		Amount:    intent.AmountPaise,
		Currency:  intent.Currency,
		OrderID:   intent.RazorpayOrderID,
		Name:      "MealMate",
	}
	if user != nil {
		opts.Prefill.Name = user.FirstName + " " + user.LastName
		opts.Prefill.Email = user.Email
		opts.Prefill.Phone = user.Phone
	}
	return opts
}

// CheckProof verifies the widget's signature: HMAC-SHA256 over
// "<razorpay_order_id>|<razorpay_payment_id>" under the key secret. With
// no secret configured the check is skipped.
func (r *Razorpay) CheckProof(proof domain.PaymentProof) error {
	if r.cfg.KeySecret == "" {
		return nil
	}
	mac := hmac.New(sha256.New, []byte(r.cfg.KeySecret))
	mac.Write([]byte(proof.RazorpayOrderID + "|" + proof.RazorpayPaymentID))
	want := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(want), []byte(proof.RazorpaySignature)) {
		return ErrBadSignature
	}
	return nil
}
