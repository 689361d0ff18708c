package handlers

import (
	"testing"

	"backend/internal/models"
)

func TestPriceCartBelowThresholdChargesShipping(t *testing.T) {
	lines := []cartLine{{Price: 100, Quantity: 2}}
	cfg := shippingConfig{FlatFee: 100, FreeThreshold: 1500}

	got := priceCart(lines, cfg, nil)
	if got.Subtotal != 200 {
		t.Fatalf("expected subtotal 200, got %v", got.Subtotal)
	}
	if got.ShippingFee != 100 {
		t.Fatalf("expected shipping 100, got %v", got.ShippingFee)
	}
	if got.Total != 300 {
		t.Fatalf("expected total 300, got %v", got.Total)
	}
}

func TestPriceCartAtThresholdWaivesShipping(t *testing.T) {
	lines := []cartLine{{Price: 750, Quantity: 2}}
	cfg := shippingConfig{FlatFee: 100, FreeThreshold: 1500}

	got := priceCart(lines, cfg, nil)
	if got.ShippingFee != 0 {
		t.Fatalf("expected free shipping at threshold, got %v", got.ShippingFee)
	}
	if got.Total != 1500 {
		t.Fatalf("expected total 1500, got %v", got.Total)
	}
}

func TestPriceCartZeroThresholdNeverWaives(t *testing.T) {
	lines := []cartLine{{Price: 5000, Quantity: 1}}
	cfg := shippingConfig{FlatFee: 80, FreeThreshold: 0}

	if got := priceCart(lines, cfg, nil); got.ShippingFee != 80 {
		t.Fatalf("expected shipping 80 when threshold disabled, got %v", got.ShippingFee)
	}
}

func TestPriceCartPercentageCoupon(t *testing.T) {
	lines := []cartLine{{Price: 100, Quantity: 2}}
	cfg := shippingConfig{FlatFee: 100, FreeThreshold: 1500}
	coupon := &models.Coupon{DiscountType: models.DiscountPercentage, Value: 25}

	got := priceCart(lines, cfg, coupon)
	if got.Discount != 50 {
		t.Fatalf("expected discount 50 for 25%% of 200, got %v", got.Discount)
	}
	if got.Total != 250 {
		t.Fatalf("expected total 250, got %v", got.Total)
	}
}

func TestPriceCartFixedCoupon(t *testing.T) {
	lines := []cartLine{{Price: 100, Quantity: 2}}
	cfg := shippingConfig{FlatFee: 100, FreeThreshold: 1500}
	coupon := &models.Coupon{DiscountType: models.DiscountFixed, Value: 50}

	got := priceCart(lines, cfg, coupon)
	if got.Discount != 50 || got.Total != 250 {
		t.Fatalf("expected discount 50 / total 250, got %v / %v", got.Discount, got.Total)
	}
}

func TestPriceCartFreeShippingCouponIgnoresThreshold(t *testing.T) {
	lines := []cartLine{{Price: 100, Quantity: 1}}
	cfg := shippingConfig{FlatFee: 100, FreeThreshold: 1500}
	coupon := &models.Coupon{DiscountType: models.DiscountFreeShipping}

	got := priceCart(lines, cfg, coupon)
	if got.ShippingFee != 0 {
		t.Fatalf("expected free shipping, got %v", got.ShippingFee)
	}
	if got.Discount != 0 {
		t.Fatalf("free shipping coupon must not discount the subtotal, got %v", got.Discount)
	}
	if got.Total != 100 {
		t.Fatalf("expected total 100, got %v", got.Total)
	}
}

func TestPriceCartDiscountClampedSoTotalStaysNonNegative(t *testing.T) {
	lines := []cartLine{{Price: 30, Quantity: 1}}
	cfg := shippingConfig{FlatFee: 60, FreeThreshold: 0}
	coupon := &models.Coupon{DiscountType: models.DiscountFixed, Value: 500}

	got := priceCart(lines, cfg, coupon)
	if got.Discount != 90 {
		t.Fatalf("expected discount clamped to 90, got %v", got.Discount)
	}
	if got.Total != 0 {
		t.Fatalf("expected total 0, got %v", got.Total)
	}
	if got.Total < 0 {
		t.Fatal("total must never be negative")
	}
}

func TestPriceCartTotalIdentityHolds(t *testing.T) {
	carts := [][]cartLine{
		{{Price: 199, Quantity: 3}},
		{{Price: 45, Quantity: 1}, {Price: 1200, Quantity: 2}},
		{{Price: 880, Quantity: 1}, {Price: 35, Quantity: 4}},
	}
	cfg := shippingConfig{FlatFee: 100, FreeThreshold: 1500}
	coupon := &models.Coupon{DiscountType: models.DiscountPercentage, Value: 10}

	for _, lines := range carts {
		got := priceCart(lines, cfg, coupon)
		if got.Total != got.Subtotal-got.Discount+got.ShippingFee {
			t.Fatalf("total identity broken: %+v", got)
		}
		if got.Total < 0 {
			t.Fatalf("negative total: %+v", got)
		}
	}
}
