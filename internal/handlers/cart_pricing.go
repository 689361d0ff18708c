package handlers

import (
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

type cartLine struct {
	ProductID primitive.ObjectID
	Price     float64
	Quantity  int
}

type shippingConfig struct {
	FlatFee       float64
	FreeThreshold float64
}

type pricingBreakdown struct {
	Subtotal    float64
	ShippingFee float64
	Discount    float64
	Total       float64
}

// resolveShippingFee waives the flat fee once the subtotal reaches the
// free-shipping threshold. A zero threshold disables the waiver.
func resolveShippingFee(subtotal float64, cfg shippingConfig) float64 {
	if cfg.FreeThreshold > 0 && subtotal >= cfg.FreeThreshold {
		return 0
	}
	return cfg.FlatFee
}

// discountAmount converts a coupon into money off the subtotal. Percentage
// values are percent of subtotal, rounded to whole dollars (TWD has no cents).
func discountAmount(coupon *models.Coupon, subtotal float64) float64 {
	if coupon == nil {
		return 0
	}
	switch coupon.DiscountType {
	case models.DiscountPercentage:
		return math.Round(subtotal * coupon.Value / 100)
	case models.DiscountFixed:
		return coupon.Value
	}
	return 0
}

// priceCart is the authoritative checkout computation. It only ever works
// from server-side product prices; client totals are never an input.
func priceCart(lines []cartLine, cfg shippingConfig, coupon *models.Coupon) pricingBreakdown {
	var subtotal float64
	for _, line := range lines {
		subtotal += line.Price * float64(line.Quantity)
	}

	shipping := resolveShippingFee(subtotal, cfg)
	if coupon != nil && coupon.DiscountType == models.DiscountFreeShipping {
		shipping = 0
	}

	discount := discountAmount(coupon, subtotal)
	if ceiling := subtotal + shipping; discount > ceiling {
		discount = ceiling
	}

	return pricingBreakdown{
		Subtotal:    subtotal,
		ShippingFee: shipping,
		Discount:    discount,
		Total:       subtotal - discount + shipping,
	}
}
