package domain

import (
	"errors"
	"time"
)

// Address is copied by value into an order at checkout; the order keeps a
// denormalized snapshot, not a reference.
type Address struct {
	ID         int64  `json:"id"`
	Line1      string `json:"address_line_1"`
	Line2      string `json:"address_line_2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Label      string `json:"address_type"`
	IsDefault  bool   `json:"is_default"`
}

type Order struct {
	ID              int64         `json:"id"`
	OrderNumber     string        `json:"order_number"`
	Status          Status        `json:"status"`
	TotalAmount     Money         `json:"total_amount"`
	DeliveryFee     Money         `json:"delivery_fee"`
	TaxAmount       Money         `json:"tax_amount"`
	DiscountAmount  Money         `json:"discount_amount"`
	FinalAmount     Money         `json:"final_amount"`
	DeliveryAddress Address       `json:"delivery_address"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	RestaurantID    int64         `json:"restaurant_id,omitempty"`
	Items           []OrderItem   `json:"items,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

var ErrAmountMismatch = errors.New("final amount does not equal subtotal + fee + tax - discount")

// CheckAmounts enforces the pricing invariant before an order is submitted.
func (o *Order) CheckAmounts() error {
	if o.FinalAmount != o.TotalAmount+o.DeliveryFee+o.TaxAmount-o.DiscountAmount {
		return ErrAmountMismatch
	}
	return nil
}

type OrderItem struct {
	ID         int64  `json:"id"`
	OrderID    int64  `json:"order_id"`
	MenuItemID int64  `json:"menu_item_id"`
	Name       string `json:"name,omitempty"`
	Quantity   int    `json:"quantity"`
	UnitPrice  Money  `json:"unit_price"`
	Subtotal   Money  `json:"subtotal"`
}

// StatusHistoryEntry is one line of the append-only status log, used only
// to timestamp the timeline.
type StatusHistoryEntry struct {
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	Notes     string    `json:"notes,omitempty"`
}

type TimelineStep struct {
	Status    Status `json:"status"`
	Icon      string `json:"icon"`
	Title     string `json:"title"`
	Complete  bool   `json:"complete"`
	Active    bool   `json:"active"`
	Timestamp string `json:"timestamp"`
}

// BuildTimeline derives the vertical progress timeline for a status:
// every flow step at or before the current one is complete, timestamps
// come from history when a matching entry exists, the active step without
// one reads "Just now" and future steps read a dash. Statuses outside the
// flow (CANCELLED, REFUNDED) have no meaningful progress and yield nil.
func BuildTimeline(status Status, history []StatusHistoryEntry) []TimelineStep {
	cur := status.FlowIndex()
	if cur < 0 {
		return nil
	}
	steps := make([]TimelineStep, 0, len(StatusFlow))
	for i, s := range StatusFlow {
		p := s.Presentation()
		step := TimelineStep{
			Status:    s,
			Icon:      p.Icon,
			Title:     p.Title,
			Complete:  i <= cur,
			Active:    i == cur,
			Timestamp: "—",
		}
		if i <= cur {
			if e, ok := historyFor(history, s); ok {
				step.Timestamp = e.CreatedAt.Format("15:04")
			} else {
				step.Timestamp = "Just now"
			}
		}
		steps = append(steps, step)
	}
	return steps
}

func historyFor(history []StatusHistoryEntry, s Status) (StatusHistoryEntry, bool) {
	for _, e := range history {
		if e.Status == s {
			return e, true
		}
	}
	return StatusHistoryEntry{}, false
}
