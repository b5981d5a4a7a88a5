package domain

import (
	"errors"
	"strings"
)

// CartLine is one (menu item, quantity, price) tuple of the session's
// in-progress order. Restaurant fields are denormalized off the menu item
// so the delivery fee is known without another fetch.
type CartLine struct {
	ID           int64  `json:"id"`
	MenuItemID   int64  `json:"menu_item_id"`
	MenuItemName string `json:"menu_item_name"`
	Quantity     int    `json:"quantity"`
	UnitPrice    Money  `json:"unit_price"`
	RestaurantID int64  `json:"restaurant_id"`
	DeliveryFee  Money  `json:"delivery_fee"`
}

func (l CartLine) LineTotal() Money { return l.UnitPrice.MulQty(l.Quantity) }

const (
	DefaultDeliveryFee = Money(3000) // 30.00
	TaxPercent         = 5
)

var ErrInvalidPromo = errors.New("invalid promo code")

// promoTable is the static client-recognized promo set.
var promoTable = map[string]int{
	"SAVE10":    10,
	"FIRST20":   20,
	"WELCOME15": 15,
}

// PromoPercent validates a promo code and returns its percentage discount.
func PromoPercent(code string) (int, error) {
	pct, ok := promoTable[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return 0, ErrInvalidPromo
	}
	return pct, nil
}

type CartTotals struct {
	Subtotal     Money  `json:"subtotal"`
	DeliveryFee  Money  `json:"delivery_fee"`
	Tax          Money  `json:"tax"`
	Discount     Money  `json:"discount"`
	Total        Money  `json:"total"`
	PromoCode    string `json:"promo_code,omitempty"`
	PromoPercent int    `json:"promo_percent,omitempty"`
}

// CartFee picks the delivery fee for a set of lines: the owning
// restaurant's fee off the first line, the platform default otherwise.
// An empty cart carries no fee.
func CartFee(lines []CartLine) Money {
	if len(lines) == 0 {
		return 0
	}
	if fee := lines[0].DeliveryFee; fee > 0 {
		return fee
	}
	return DefaultDeliveryFee
}

// ComputeTotals applies the pricing rules: subtotal over the lines, flat
// delivery fee, 5% tax on the subtotal, percentage promo discount on the
// subtotal. total = subtotal + fee + tax - discount.
func ComputeTotals(lines []CartLine, fee Money, promoCode string, promoPct int) CartTotals {
	var sub Money
	for _, l := range lines {
		sub += l.LineTotal()
	}
	t := CartTotals{
		Subtotal:     sub,
		DeliveryFee:  fee,
		Tax:          sub.Percent(TaxPercent),
		PromoCode:    promoCode,
		PromoPercent: promoPct,
	}
	if promoPct > 0 {
		t.Discount = sub.Percent(promoPct)
	}
	t.Total = t.Subtotal + t.DeliveryFee + t.Tax - t.Discount
	return t
}
