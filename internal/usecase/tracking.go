package usecase

import (
	"context"
	"fmt"
	"time"

	domain "github.com/DarshanKumarGP/MEAL-MATE/internal/entity"
	"github.com/DarshanKumarGP/MEAL-MATE/internal/logging"
)

// Snapshot is one rendered view of an order's progress: the order, its
// items, the derived timeline, and the hero presentation for the current
// status.
type Snapshot struct {
	Order      *domain.Order               `json:"order"`
	Items      []domain.OrderItem          `json:"items"`
	History    []domain.StatusHistoryEntry `json:"history,omitempty"`
	Timeline   []domain.TimelineStep       `json:"timeline,omitempty"`
	Hero       domain.Presentation         `json:"hero"`
	ETAMinutes int                         `json:"eta_minutes"`
	Terminal   bool                        `json:"terminal"`
}

// Tracker watches orders: one immediate fetch plus interval polling with
// exponential backoff on consecutive failures, stopping on its own once a
// terminal status is observed.
type Tracker struct {
	orders     OrderGateway
	interval   time.Duration
	maxBackoff time.Duration
}

type TrackerOption func(*Tracker)

func WithInterval(d time.Duration) TrackerOption {
	return func(t *Tracker) { t.interval = d }
}

func WithMaxBackoff(d time.Duration) TrackerOption {
	return func(t *Tracker) { t.maxBackoff = d }
}

// NewTracker constructs a Tracker. Defaults: interval=8s, maxBackoff=2m.
func NewTracker(orders OrderGateway, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		orders:     orders,
		interval:   8 * time.Second,
		maxBackoff: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Snapshot fetches order and items once, history best-effort: a history
// failure degrades to blank timestamps instead of failing the view.
func (t *Tracker) Snapshot(ctx context.Context, cr Credentials, orderID int64) (*Snapshot, error) {
	order, err := t.orders.GetOrder(ctx, cr, orderID)
	if err != nil {
		return nil, fmt.Errorf("fetch order: %w", err)
	}
	items, err := t.orders.ListOrderItems(ctx, cr, orderID)
	if err != nil {
		return nil, fmt.Errorf("fetch order items: %w", err)
	}
	history, err := t.orders.StatusHistory(ctx, cr, orderID)
	if err != nil {
		logging.FromCtx(ctx).Warn("status history unavailable", "order_id", orderID, "error", err)
		history = nil
	}
	return &Snapshot{
		Order:      order,
		Items:      items,
		History:    history,
		Timeline:   domain.BuildTimeline(order.Status, history),
		Hero:       order.Status.Presentation(),
		ETAMinutes: order.Status.EstimateMinutes(),
		Terminal:   order.Status.IsTerminal(),
	}, nil
}

// Watch starts a polling subscription for the order. The returned channel
// delivers snapshots until a terminal status is observed or ctx is
// cancelled, then closes. Poll failures are logged and retried with the
// interval doubled per consecutive failure, capped at maxBackoff and reset
// by the next success.
func (t *Tracker) Watch(ctx context.Context, cr Credentials, orderID int64) <-chan Snapshot {
	out := make(chan Snapshot, 1)
	go t.poll(ctx, cr, orderID, out)
	return out
}

func (t *Tracker) poll(ctx context.Context, cr Credentials, orderID int64, out chan<- Snapshot) {
	defer close(out)
	log := logging.FromCtx(ctx)

	wait := t.interval
	failures := 0
	for {
		snap, err := t.Snapshot(ctx, cr, orderID)
		switch {
		case err != nil:
			failures++
			wait = t.backoff(failures)
			log.Warn("order poll failed", "order_id", orderID, "attempt", failures, "retry_in", wait, "error", err)
		default:
			failures = 0
			wait = t.interval
			select {
			case out <- *snap:
			case <-ctx.Done():
				return
			}
			if snap.Terminal {
				return
			}
		}

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return
		}
	}
}

func (t *Tracker) backoff(failures int) time.Duration {
	wait := t.interval
	for i := 1; i < failures; i++ {
		wait *= 2
		if wait >= t.maxBackoff {
			return t.maxBackoff
		}
	}
	if wait > t.maxBackoff {
		wait = t.maxBackoff
	}
	return wait
}
