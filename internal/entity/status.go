package domain

import "errors"

type Status string

const (
	StatusPending        Status = "PENDING"
	StatusConfirmed      Status = "CONFIRMED"
	StatusPreparing      Status = "PREPARING"
	StatusReady          Status = "READY"
	StatusOutForDelivery Status = "OUT_FOR_DELIVERY"
	StatusDelivered      Status = "DELIVERED"
	StatusCancelled      Status = "CANCELLED"
	StatusRefunded       Status = "REFUNDED"
)

// StatusFlow is the happy-path progression rendered by the tracking
// timeline. CANCELLED and REFUNDED sit outside it.
var StatusFlow = []Status{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusReady,
	StatusOutForDelivery,
	StatusDelivered,
}

var ErrIllegalTransition = errors.New("illegal status transition")

// transitions is the full relation. The upstream drives every transition;
// the gateway only uses this to validate console actions and to let
// rendering code assert its assumptions.
var transitions = map[Status][]Status{
	StatusPending:        {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusPreparing, StatusCancelled},
	StatusPreparing:      {StatusReady, StatusCancelled},
	StatusReady:          {StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered, StatusCancelled},
	StatusDelivered:      {StatusRefunded},
	StatusCancelled:      {StatusRefunded},
	StatusRefunded:       {},
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// FlowIndex returns the position of s in StatusFlow, or -1 for the
// absorbing states.
func (s Status) FlowIndex() int {
	for i, f := range StatusFlow {
		if f == s {
			return i
		}
	}
	return -1
}

// IsTerminal reports whether polling an order in this status can ever
// observe further progress worth rendering.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled || s == StatusRefunded
}

func (s Status) CanTransition(to Status) bool {
	for _, t := range transitions[s] {
		if t == to {
			return true
		}
	}
	return false
}

// NextStatus is the single legal happy-path successor, used by the
// console's advance button. DELIVERED and the absorbing states have none.
func (s Status) NextStatus() (Status, bool) {
	i := s.FlowIndex()
	if i < 0 || i == len(StatusFlow)-1 {
		return "", false
	}
	return StatusFlow[i+1], true
}

// Presentation is the static status -> hero card table.
type Presentation struct {
	Icon    string `json:"icon"`
	Color   string `json:"color"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

var presentations = map[Status]Presentation{
	StatusPending:        {"✓", "#4CAF50", "Order Placed", "Your order has been received"},
	StatusConfirmed:      {"🎉", "#2196F3", "Order Confirmed", "Restaurant accepted your order"},
	StatusPreparing:      {"👨‍🍳", "#FF9800", "Preparing", "Your food is being prepared"},
	StatusReady:          {"📦", "#9C27B0", "Ready", "Your order is ready"},
	StatusOutForDelivery: {"🏍️", "#FF6B35", "On the Way", "Order is on the way"},
	StatusDelivered:      {"🎊", "#4CAF50", "Delivered", "Order delivered successfully"},
	StatusCancelled:      {"❌", "#F44336", "Cancelled", "Order was cancelled"},
	StatusRefunded:       {"↩️", "#607D8B", "Refunded", "Order was refunded"},
}

func (s Status) Presentation() Presentation {
	if p, ok := presentations[s]; ok {
		return p
	}
	return Presentation{Icon: "•", Color: "#9E9E9E", Title: string(s), Message: string(s)}
}

// estimateMinutes is cosmetic, not computed from logistics data.
var estimateMinutes = map[Status]int{
	StatusPending:        5,
	StatusConfirmed:      20,
	StatusPreparing:      15,
	StatusReady:          10,
	StatusOutForDelivery: 15,
}

func (s Status) EstimateMinutes() int {
	if m, ok := estimateMinutes[s]; ok {
		return m
	}
	return 15
}

type PaymentMethod string

const (
	PayRazorpay PaymentMethod = "RAZORPAY"
	PayCOD      PaymentMethod = "COD"
)

func (p PaymentMethod) Valid() bool { return p == PayRazorpay || p == PayCOD }

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)
