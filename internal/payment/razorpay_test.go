package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	domain "github.com/DarshanKumarGP/MEAL-MATE/internal/entity"
)

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCheckProof(t *testing.T) {
	rz := New(Config{KeySecret: "secret"})
	proof := domain.PaymentProof{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_xyz",
		RazorpaySignature: sign("secret", "order_abc", "pay_xyz"),
	}
	if err := rz.CheckProof(proof); err != nil {
		t.Fatalf("valid proof rejected: %v", err)
	}

	proof.RazorpaySignature = sign("secret", "order_abc", "pay_other")
	if err := rz.CheckProof(proof); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("err = %v, want ErrBadSignature", err)
	}

	proof.RazorpaySignature = "junk"
	if err := rz.CheckProof(proof); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("err = %v, want ErrBadSignature", err)
	}
}

func TestCheckProofSkippedWithoutSecret(t *testing.T) {
	rz := New(Config{})
	if err := rz.CheckProof(domain.PaymentProof{RazorpaySignature: "anything"}); err != nil {
		t.Fatalf("no-secret check should pass: %v", err)
	}
}

func TestOptionsPrefill(t *testing.T) {
	rz := New(Config{})
	intent := &domain.PaymentIntent{
		KeyID:           "rzp_test_key",
		AmountPaise:     42000,
		Currency:        "INR",
		RazorpayOrderID: "order_abc",
	}
	user := &domain.User{FirstName: "Ana", LastName: "Rao", Email: "ana@example.com", Phone: "9999999999"}

	opts := rz.Options(intent, user)
	if opts.ScriptURL != DefaultCheckoutScriptURL {
		t.Errorf("script url = %q", opts.ScriptURL)
	}
	if opts.Amount != 42000 || opts.Currency != "INR" || opts.OrderID != "order_abc" {
		t.Errorf("opts = %+v", opts)
	}
	if opts.Prefill.Name != "Ana Rao" || opts.Prefill.Email != "ana@example.com" {
		t.Errorf("prefill = %+v", opts.Prefill)
	}

	anon := rz.Options(intent, nil)
	if anon.Prefill.Name != "" {
		t.Error("nil user must leave prefill empty")
	}
}
