package models

import (
	"errors"
	"testing"
	"time"
)

func allStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusPending,
		OrderStatusPaid,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusCompleted,
		OrderStatusCancelled,
		OrderStatusRefunded,
	}
}

func TestCanTransitionToMatchesTable(t *testing.T) {
	allowed := map[OrderStatus][]OrderStatus{
		OrderStatusPending:    {OrderStatusPaid, OrderStatusCancelled},
		OrderStatusPaid:       {OrderStatusProcessing, OrderStatusCancelled, OrderStatusRefunded},
		OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
		OrderStatusShipped:    {OrderStatusCompleted},
		OrderStatusCompleted:  {OrderStatusRefunded},
		OrderStatusCancelled:  {},
		OrderStatusRefunded:   {},
	}

	for _, from := range allStatuses() {
		for _, to := range allStatuses() {
			want := false
			for _, next := range allowed[from] {
				if next == to {
					want = true
				}
			}
			if got := from.CanTransitionTo(to); got != want {
				t.Fatalf("%s -> %s: expected %v, got %v", from, to, want, got)
			}
		}
	}
}

func TestTransitionRejectedLeavesOrderUnchanged(t *testing.T) {
	for _, from := range allStatuses() {
		for _, to := range allStatuses() {
			if from.CanTransitionTo(to) {
				continue
			}

			order := Order{Status: from, PaymentStatus: PaymentStatusPending}

			err := order.Transition(to, time.Now())
			var invalid InvalidTransitionError
			if !errors.As(err, &invalid) {
				t.Fatalf("%s -> %s: expected InvalidTransitionError, got %v", from, to, err)
			}
			if invalid.From != from || invalid.To != to {
				t.Fatalf("error carries wrong states: %+v", invalid)
			}
			if order.Status != from || order.PaymentStatus != PaymentStatusPending {
				t.Fatalf("%s -> %s: rejected transition mutated the order", from, to)
			}
			if order.PaidAt != nil || order.ShippedAt != nil || order.CompletedAt != nil || order.CancelledAt != nil {
				t.Fatalf("%s -> %s: rejected transition set a timestamp", from, to)
			}
		}
	}
}

func TestTransitionSameStatusIsRejected(t *testing.T) {
	order := Order{Status: OrderStatusPaid}
	if err := order.Transition(OrderStatusPaid, time.Now()); err == nil {
		t.Fatal("expected paid -> paid to fail, not silently succeed")
	}
}

func TestTransitionStampsTimestampsOnce(t *testing.T) {
	now := time.Now()
	order := Order{Status: OrderStatusPending, PaymentStatus: PaymentStatusPending}

	steps := []OrderStatus{
		OrderStatusPaid,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusCompleted,
	}
	for i, next := range steps {
		stamp := now.Add(time.Duration(i) * time.Minute)
		if err := order.Transition(next, stamp); err != nil {
			t.Fatalf("transition to %s failed: %v", next, err)
		}
	}

	if order.PaidAt == nil || !order.PaidAt.Equal(now) {
		t.Fatalf("expected paidAt %v, got %v", now, order.PaidAt)
	}
	if order.ShippedAt == nil || !order.ShippedAt.Equal(now.Add(2*time.Minute)) {
		t.Fatalf("unexpected shippedAt %v", order.ShippedAt)
	}
	if order.CompletedAt == nil || !order.CompletedAt.Equal(now.Add(3*time.Minute)) {
		t.Fatalf("unexpected completedAt %v", order.CompletedAt)
	}
	if order.PaymentStatus != PaymentStatusPaid {
		t.Fatalf("expected paymentStatus paid, got %s", order.PaymentStatus)
	}
	if order.CancelledAt != nil {
		t.Fatal("cancelledAt must stay unset on the happy path")
	}
}

func TestTransitionShippedToPaidRejected(t *testing.T) {
	order := Order{Status: OrderStatusShipped}
	err := order.Transition(OrderStatusPaid, time.Now())
	var invalid InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if order.Status != OrderStatusShipped || order.PaidAt != nil {
		t.Fatal("rejected transition must not change status or timestamps")
	}
}

func TestTransitionCancelSetsCancelledAt(t *testing.T) {
	now := time.Now()
	order := Order{Status: OrderStatusPending}
	if err := order.Transition(OrderStatusCancelled, now); err != nil {
		t.Fatalf("pending -> cancelled failed: %v", err)
	}
	if order.CancelledAt == nil || !order.CancelledAt.Equal(now) {
		t.Fatalf("unexpected cancelledAt %v", order.CancelledAt)
	}
	if !order.Status.IsTerminal() {
		t.Fatal("cancelled must be terminal")
	}
}

func TestTransitionRefundFlipsPaymentStatus(t *testing.T) {
	order := Order{Status: OrderStatusPaid, PaymentStatus: PaymentStatusPaid}
	if err := order.Transition(OrderStatusRefunded, time.Now()); err != nil {
		t.Fatalf("paid -> refunded failed: %v", err)
	}
	if order.PaymentStatus != PaymentStatusRefunded {
		t.Fatalf("expected paymentStatus refunded, got %s", order.PaymentStatus)
	}
}

func TestCustomerCanCancel(t *testing.T) {
	cancellable := map[OrderStatus]bool{
		OrderStatusPending: true,
		OrderStatusPaid:    true,
	}
	for _, status := range allStatuses() {
		order := Order{Status: status}
		if got := order.CustomerCanCancel(); got != cancellable[status] {
			t.Fatalf("CustomerCanCancel from %s: expected %v, got %v", status, cancellable[status], got)
		}
	}
}

func TestOrderStatusValid(t *testing.T) {
	for _, status := range allStatuses() {
		if !status.Valid() {
			t.Fatalf("expected %s to be valid", status)
		}
	}
	if OrderStatus("delivered").Valid() {
		t.Fatal("unknown status must not be valid")
	}
}

func TestPaymentMethodValid(t *testing.T) {
	for _, method := range []PaymentMethod{PaymentLinePay, PaymentBankTransfer, PaymentCOD} {
		if !method.Valid() {
			t.Fatalf("expected %s to be valid", method)
		}
	}
	if PaymentMethod("credit_card").Valid() {
		t.Fatal("unsupported payment method must not be valid")
	}
}
