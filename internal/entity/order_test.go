package domain

import (
	"testing"
	"time"
)

func TestStatusTransitions(t *testing.T) {
	legal := []struct{ from, to Status }{
		{StatusPending, StatusConfirmed},
		{StatusConfirmed, StatusPreparing},
		{StatusPreparing, StatusReady},
		{StatusReady, StatusOutForDelivery},
		{StatusOutForDelivery, StatusDelivered},
		{StatusPending, StatusCancelled},
		{StatusOutForDelivery, StatusCancelled},
		{StatusDelivered, StatusRefunded},
		{StatusCancelled, StatusRefunded},
	}
	for _, c := range legal {
		if !c.from.CanTransition(c.to) {
			t.Errorf("%s -> %s should be legal", c.from, c.to)
		}
	}
	illegal := []struct{ from, to Status }{
		{StatusPending, StatusPreparing},
		{StatusPending, StatusDelivered},
		{StatusDelivered, StatusPending},
		{StatusRefunded, StatusPending},
		{StatusConfirmed, StatusReady},
	}
	for _, c := range illegal {
		if c.from.CanTransition(c.to) {
			t.Errorf("%s -> %s should be illegal", c.from, c.to)
		}
	}
}

func TestNextStatus(t *testing.T) {
	for i := 0; i < len(StatusFlow)-1; i++ {
		next, ok := StatusFlow[i].NextStatus()
		if !ok || next != StatusFlow[i+1] {
			t.Errorf("NextStatus(%s) = %s, %v", StatusFlow[i], next, ok)
		}
	}
	for _, s := range []Status{StatusDelivered, StatusCancelled, StatusRefunded} {
		if _, ok := s.NextStatus(); ok {
			t.Errorf("NextStatus(%s) should not exist", s)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for _, s := range []Status{StatusDelivered, StatusCancelled, StatusRefunded} {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusOutForDelivery} {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestBuildTimelineCompletion(t *testing.T) {
	for i, s := range StatusFlow {
		steps := BuildTimeline(s, nil)
		if len(steps) != len(StatusFlow) {
			t.Fatalf("%s: %d steps", s, len(steps))
		}
		for j, step := range steps {
			if step.Complete != (j <= i) {
				t.Errorf("%s: step %d complete = %v", s, j, step.Complete)
			}
			if step.Active != (j == i) {
				t.Errorf("%s: step %d active = %v", s, j, step.Active)
			}
		}
	}
}

func TestBuildTimelineOutForDelivery(t *testing.T) {
	steps := BuildTimeline(StatusOutForDelivery, nil)
	complete := 0
	for _, s := range steps {
		if s.Complete {
			complete++
		}
	}
	if complete != 5 || len(steps) != 6 {
		t.Errorf("OUT_FOR_DELIVERY: %d of %d complete", complete, len(steps))
	}
}

func TestBuildTimelineCancelledSuppressed(t *testing.T) {
	if steps := BuildTimeline(StatusCancelled, nil); steps != nil {
		t.Errorf("cancelled order rendered a timeline: %v", steps)
	}
	if steps := BuildTimeline(StatusRefunded, nil); steps != nil {
		t.Errorf("refunded order rendered a timeline: %v", steps)
	}
}

func TestBuildTimelineTimestamps(t *testing.T) {
	at := time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)
	history := []StatusHistoryEntry{
		{Status: StatusPending, CreatedAt: at},
	}
	steps := BuildTimeline(StatusConfirmed, history)
	if steps[0].Timestamp != "14:30" {
		t.Errorf("pending step timestamp = %q", steps[0].Timestamp)
	}
	if steps[1].Timestamp != "Just now" {
		t.Errorf("active step timestamp = %q", steps[1].Timestamp)
	}
	if steps[2].Timestamp != "—" {
		t.Errorf("future step timestamp = %q", steps[2].Timestamp)
	}
}

func TestCheckAmounts(t *testing.T) {
	o := &Order{
		TotalAmount:    MustMoney("200.00"),
		DeliveryFee:    MustMoney("30.00"),
		TaxAmount:      MustMoney("10.00"),
		DiscountAmount: MustMoney("20.00"),
		FinalAmount:    MustMoney("220.00"),
	}
	if err := o.CheckAmounts(); err != nil {
		t.Errorf("amounts should balance: %v", err)
	}
	o.FinalAmount = MustMoney("221.00")
	if err := o.CheckAmounts(); err == nil {
		t.Error("mismatch not caught")
	}
}

func TestEstimateMinutes(t *testing.T) {
	if m := StatusPending.EstimateMinutes(); m != 5 {
		t.Errorf("PENDING = %d", m)
	}
	if m := StatusConfirmed.EstimateMinutes(); m != 20 {
		t.Errorf("CONFIRMED = %d", m)
	}
	if m := StatusDelivered.EstimateMinutes(); m != 15 {
		t.Errorf("default = %d", m)
	}
}
