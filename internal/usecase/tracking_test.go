package usecase

import (
	"context"
	"testing"
	"time"

	domain "github.com/DarshanKumarGP/MEAL-MATE/internal/entity"
)

func seedOrder(f *fakeOrders, status domain.Status) int64 {
	o, _ := f.CreateOrder(context.Background(), Credentials{}, "k", OrderDraft{
		RestaurantID:  7,
		PaymentMethod: domain.PayCOD,
	})
	f.setStatus(o.ID, status)
	return o.ID
}

func TestTrackerSnapshot(t *testing.T) {
	orders := newFakeOrders()
	id := seedOrder(orders, domain.StatusPreparing)
	tr := NewTracker(orders)

	snap, err := tr.Snapshot(context.Background(), Credentials{}, id)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.Order.Status != domain.StatusPreparing {
		t.Errorf("status = %s", snap.Order.Status)
	}
	if snap.Terminal {
		t.Error("PREPARING is not terminal")
	}
	if snap.ETAMinutes != 15 {
		t.Errorf("eta = %d, want 15 for PREPARING", snap.ETAMinutes)
	}
	if len(snap.Timeline) != len(domain.StatusFlow) {
		t.Errorf("timeline steps = %d, want %d", len(snap.Timeline), len(domain.StatusFlow))
	}
}

func TestTrackerSnapshotHistoryBestEffort(t *testing.T) {
	orders := newFakeOrders()
	id := seedOrder(orders, domain.StatusConfirmed)
	orders.historyErr = &UpstreamError{Status: 500, Message: "history down"}
	tr := NewTracker(orders)

	snap, err := tr.Snapshot(context.Background(), Credentials{}, id)
	if err != nil {
		t.Fatalf("history failure must not fail the snapshot: %v", err)
	}
	if snap.History != nil {
		t.Error("history should be empty when unavailable")
	}
	if snap.Timeline == nil {
		t.Error("timeline should still render without history")
	}
}

func TestTrackerWatchStopsAtTerminal(t *testing.T) {
	orders := newFakeOrders()
	id := seedOrder(orders, domain.StatusOutForDelivery)
	tr := NewTracker(orders, WithInterval(time.Millisecond), WithMaxBackoff(5*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ch := tr.Watch(ctx, Credentials{}, id)

	first, ok := <-ch
	if !ok {
		t.Fatal("channel closed before first snapshot")
	}
	if first.Order.Status != domain.StatusOutForDelivery {
		t.Fatalf("first status = %s", first.Order.Status)
	}

	orders.setStatus(id, domain.StatusDelivered)

	var last Snapshot
	for snap := range ch {
		last = snap
	}
	if last.Order.Status != domain.StatusDelivered || !last.Terminal {
		t.Fatalf("last snapshot = %s terminal=%v, want DELIVERED terminal", last.Order.Status, last.Terminal)
	}
}

func TestTrackerWatchHonorsCancel(t *testing.T) {
	orders := newFakeOrders()
	id := seedOrder(orders, domain.StatusPending)
	tr := NewTracker(orders, WithInterval(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	ch := tr.Watch(ctx, Credentials{}, id)
	<-ch
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel did not close after cancel")
		}
	}
}

func TestTrackerBackoff(t *testing.T) {
	tr := NewTracker(newFakeOrders(), WithInterval(8*time.Second), WithMaxBackoff(2*time.Minute))
	cases := []struct {
		failures int
		want     time.Duration
	}{
		{1, 8 * time.Second},
		{2, 16 * time.Second},
		{3, 32 * time.Second},
		{4, 64 * time.Second},
		{5, 2 * time.Minute},
		{10, 2 * time.Minute},
	}
	for _, c := range cases {
		if got := tr.backoff(c.failures); got != c.want {
			t.Errorf("backoff(%d) = %s, want %s", c.failures, got, c.want)
		}
	}
}
