package handlers

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

const (
	couponReasonNotFound          = "not-found"
	couponReasonExpired           = "expired"
	couponReasonBelowMinimum      = "below-minimum"
	couponReasonProductIneligible = "product-ineligible"
)

// couponRejection carries the reason code surfaced to the caller.
type couponRejection struct {
	Reason  string
	Message string
}

func (e couponRejection) Error() string {
	return e.Message
}

// validateCoupon applies the rejection rules in a fixed order; the first
// failing rule determines the response, rules are never merged. Inactive or
// exhausted coupons are indistinguishable from unknown codes on purpose.
// Validation is stateless: redemption only happens at order creation.
func validateCoupon(coupon models.Coupon, subtotal float64, productIDs []primitive.ObjectID, now time.Time) error {
	if !coupon.IsActive || coupon.Exhausted() {
		return couponRejection{Reason: couponReasonNotFound, Message: "coupon not found"}
	}
	if coupon.StartsAt != nil && now.Before(*coupon.StartsAt) {
		return couponRejection{Reason: couponReasonExpired, Message: "coupon is not active yet"}
	}
	if coupon.ExpiresAt != nil && now.After(*coupon.ExpiresAt) {
		return couponRejection{Reason: couponReasonExpired, Message: "coupon has expired"}
	}
	if subtotal < coupon.MinSubtotal {
		return couponRejection{
			Reason:  couponReasonBelowMinimum,
			Message: fmt.Sprintf("subtotal must be at least %.0f to use this coupon", coupon.MinSubtotal),
		}
	}
	if coupon.Scoped() {
		eligible := false
		for _, id := range productIDs {
			if coupon.AppliesTo(id) {
				eligible = true
				break
			}
		}
		if !eligible {
			return couponRejection{
				Reason:  couponReasonProductIneligible,
				Message: "coupon does not apply to the products in this cart",
			}
		}
	}
	return nil
}
