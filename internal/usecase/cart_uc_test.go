package usecase

import (
	"context"
	"errors"
	"testing"

	domain "github.com/DarshanKumarGP/MEAL-MATE/internal/entity"
)

type cartFixture struct {
	gw       *fakeCart
	sessions *memSessions
	toasts   *memToasts
	uc       *Cart
	cr       Credentials
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()
	f := &cartFixture{
		gw: newFakeCart(
			domain.CartLine{ID: 1, MenuItemID: 10, Quantity: 1, UnitPrice: domain.MustMoney("99.00"), DeliveryFee: domain.MustMoney("25.00")},
		),
		sessions: newMemSessions(),
		toasts:   newMemToasts(),
		cr:       Credentials{SessionID: "sess-cart"},
	}
	_ = f.sessions.Put(context.Background(), &Session{ID: "sess-cart"})
	f.uc = NewCart(f.gw, f.sessions, NewNotifier(f.toasts))
	return f
}

func TestCartViewTotals(t *testing.T) {
	f := newCartFixture(t)
	view, err := f.uc.View(context.Background(), f.cr)
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if got, want := view.Totals.Subtotal, domain.MustMoney("99.00"); got != want {
		t.Errorf("subtotal = %s, want %s", got, want)
	}
	if got, want := view.Totals.DeliveryFee, domain.MustMoney("25.00"); got != want {
		t.Errorf("delivery fee = %s, want %s", got, want)
	}
}

func TestCartDecrementAtOneRemovesLine(t *testing.T) {
	f := newCartFixture(t)
	view, err := f.uc.SetQuantity(context.Background(), f.cr, 1, 0)
	if err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}
	if len(view.Lines) != 0 {
		t.Fatalf("lines = %d, want 0 after removing via zero quantity", len(view.Lines))
	}
	if f.gw.deleted[1] != 1 {
		t.Error("line should be deleted, not updated to zero")
	}
}

func TestCartCount(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	if _, err := f.uc.AddItem(ctx, f.cr, 20, 3); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	n, err := f.uc.Count(ctx, f.cr)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 4 {
		t.Errorf("count = %d, want 4 (sum of quantities)", n)
	}
}

func TestCartApplyPromo(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	view, err := f.uc.ApplyPromo(ctx, f.cr, "SAVE10")
	if err != nil {
		t.Fatalf("ApplyPromo: %v", err)
	}
	if view.Totals.Discount == 0 {
		t.Error("valid promo applied no discount")
	}
	sess, _ := f.sessions.Get(ctx, "sess-cart")
	if sess.PromoCode != "SAVE10" || sess.PromoPct != 10 {
		t.Errorf("promo not persisted on session: %+v", sess)
	}

	if _, err := f.uc.ApplyPromo(ctx, f.cr, "NOPE"); !errors.Is(err, domain.ErrInvalidPromo) {
		t.Fatalf("err = %v, want ErrInvalidPromo", err)
	}
	sess, _ = f.sessions.Get(ctx, "sess-cart")
	if sess.PromoCode != "" || sess.PromoPct != 0 {
		t.Error("invalid promo must reset the stored discount")
	}
}
