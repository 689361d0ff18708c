package handlers

import (
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseCartItemsRejectsBadInput(t *testing.T) {
	valid := primitive.NewObjectID().Hex()

	tests := []struct {
		name  string
		items []cartItemRequest
	}{
		{"empty cart", nil},
		{"invalid id", []cartItemRequest{{ProductID: "not-an-id", Quantity: 1}}},
		{"zero quantity", []cartItemRequest{{ProductID: valid, Quantity: 0}}},
		{"negative quantity", []cartItemRequest{{ProductID: valid, Quantity: -2}}},
		{"duplicate product", []cartItemRequest{
			{ProductID: valid, Quantity: 1},
			{ProductID: valid, Quantity: 2},
		}},
	}

	for _, tt := range tests {
		if _, err := parseCartItems(tt.items); err == nil {
			t.Fatalf("%s: expected error", tt.name)
		}
	}
}

func TestParseCartItemsKeepsOrder(t *testing.T) {
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()

	parsed, err := parseCartItems([]cartItemRequest{
		{ProductID: first.Hex(), Quantity: 2},
		{ProductID: second.Hex(), Quantity: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(parsed) != 2 || parsed[0].ProductID != first || parsed[1].ProductID != second {
		t.Fatalf("unexpected parse result: %+v", parsed)
	}
}

func TestNewOrderNumberFormat(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	number, err := newOrderNumber(now)
	if err != nil {
		t.Fatalf("newOrderNumber failed: %v", err)
	}
	if !strings.HasPrefix(number, "TS20260901-") {
		t.Fatalf("unexpected order number prefix: %s", number)
	}
	if len(number) != len("TS20260901-")+6 {
		t.Fatalf("unexpected order number length: %s", number)
	}
}

func TestNewOrderNumberVaries(t *testing.T) {
	now := time.Now()
	seen := map[string]struct{}{}
	for i := 0; i < 50; i++ {
		number, err := newOrderNumber(now)
		if err != nil {
			t.Fatalf("newOrderNumber failed: %v", err)
		}
		if _, dup := seen[number]; dup {
			t.Fatalf("duplicate order number generated: %s", number)
		}
		seen[number] = struct{}{}
	}
}
