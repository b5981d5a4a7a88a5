package usecase

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/DarshanKumarGP/MEAL-MATE/internal/entity"
)

var ErrLineNotFound = errors.New("cart line not found")

// Cart is the cart aggregate seen by the session: the upstream owns the
// lines, the gateway computes totals. Every mutation is write-then-refetch,
// no optimistic state.
type Cart struct {
	gw       CartGateway
	sessions SessionStore
	notify   *Notifier
}

func NewCart(gw CartGateway, sessions SessionStore, notify *Notifier) *Cart {
	return &Cart{gw: gw, sessions: sessions, notify: notify}
}

// CartView is one consistent snapshot of lines plus derived totals.
type CartView struct {
	Lines  []domain.CartLine `json:"lines"`
	Totals domain.CartTotals `json:"totals"`
}

func (uc *Cart) View(ctx context.Context, cr Credentials) (*CartView, error) {
	lines, err := uc.gw.ListCartLines(ctx, cr)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	code, pct := uc.promo(ctx, cr)
	return &CartView{
		Lines:  lines,
		Totals: domain.ComputeTotals(lines, domain.CartFee(lines), code, pct),
	}, nil
}

// Count is the badge number: total quantity across lines.
func (uc *Cart) Count(ctx context.Context, cr Credentials) (int, error) {
	lines, err := uc.gw.ListCartLines(ctx, cr)
	if err != nil {
		return 0, fmt.Errorf("list cart: %w", err)
	}
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n, nil
}

func (uc *Cart) AddItem(ctx context.Context, cr Credentials, menuItemID int64, qty int) (*CartView, error) {
	if qty < 1 {
		qty = 1
	}
	if err := uc.gw.AddCartLine(ctx, cr, menuItemID, qty); err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}
	uc.notify.Success(ctx, cr.SessionID, "Added to cart")
	return uc.View(ctx, cr)
}

// SetQuantity moves a line to the given quantity. Zero or less removes the
// line; a zero-quantity line is never written upstream.
func (uc *Cart) SetQuantity(ctx context.Context, cr Credentials, lineID int64, qty int) (*CartView, error) {
	if qty <= 0 {
		return uc.RemoveLine(ctx, cr, lineID)
	}
	if err := uc.gw.UpdateCartLine(ctx, cr, lineID, qty); err != nil {
		return nil, fmt.Errorf("update quantity: %w", err)
	}
	return uc.View(ctx, cr)
}

func (uc *Cart) RemoveLine(ctx context.Context, cr Credentials, lineID int64) (*CartView, error) {
	if err := uc.gw.DeleteCartLine(ctx, cr, lineID); err != nil {
		return nil, fmt.Errorf("remove line: %w", err)
	}
	uc.notify.Info(ctx, cr.SessionID, "Item removed from cart")
	return uc.View(ctx, cr)
}

// ApplyPromo validates the code against the static table and stores it on
// the session so every subsequent totals computation sees it. An invalid
// code resets the discount and surfaces the error.
func (uc *Cart) ApplyPromo(ctx context.Context, cr Credentials, code string) (*CartView, error) {
	sess, err := uc.sessions.Get(ctx, cr.SessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	pct, perr := domain.PromoPercent(code)
	if perr != nil {
		sess.PromoCode, sess.PromoPct = "", 0
		_ = uc.sessions.Put(ctx, sess)
		uc.notify.Error(ctx, cr.SessionID, "Invalid promo code")
		return nil, perr
	}
	sess.PromoCode, sess.PromoPct = code, pct
	if err := uc.sessions.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	uc.notify.Success(ctx, cr.SessionID, fmt.Sprintf("%d%% discount applied!", pct))
	return uc.View(ctx, cr)
}

func (uc *Cart) promo(ctx context.Context, cr Credentials) (string, int) {
	sess, err := uc.sessions.Get(ctx, cr.SessionID)
	if err != nil || sess == nil {
		return "", 0
	}
	return sess.PromoCode, sess.PromoPct
}
