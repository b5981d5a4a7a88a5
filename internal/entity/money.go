package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Money is an amount in paise. The upstream API speaks decimal strings
// ("240.00"); everything internal stays integral so totals are exact.
type Money int64

var ErrBadAmount = errors.New("malformed decimal amount")

// ParseMoney converts a decimal string like "123.45" into paise.
// Anything that is not a plain decimal with at most two fraction digits
// is rejected.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrBadAmount
	}
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" || len(frac) > 2 {
		return 0, fmt.Errorf("%w: %q", ErrBadAmount, s)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadAmount, s)
	}
	var f int64
	if frac != "00" {
		if f, err = strconv.ParseInt(frac, 10, 64); err != nil {
			return 0, fmt.Errorf("%w: %q", ErrBadAmount, s)
		}
	}
	m := Money(w*100 + f)
	if neg {
		m = -m
	}
	return m, nil
}

// MustMoney is for constants and tests.
func MustMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// String renders the amount back as a two-decimal string, the format the
// upstream API expects on order creation.
func (m Money) String() string {
	v := int64(m)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Paise returns the raw integral value, the unit the payment gateway wants.
func (m Money) Paise() int64 { return int64(m) }

func (m Money) MulQty(qty int) Money { return m * Money(qty) }

// Percent returns pct% of the amount, rounded half-up to the paise.
func (m Money) Percent(pct int) Money {
	v := int64(m)*int64(pct) + 50
	return Money(v / 100)
}
