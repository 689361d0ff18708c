package handlers

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

func activeCoupon() models.Coupon {
	return models.Coupon{
		Code:         "WELCOME",
		DiscountType: models.DiscountFixed,
		Value:        50,
		IsActive:     true,
	}
}

func rejectionReason(t *testing.T, err error) string {
	t.Helper()
	var rejection couponRejection
	if !errors.As(err, &rejection) {
		t.Fatalf("expected couponRejection, got %v", err)
	}
	return rejection.Reason
}

func TestValidateCouponAccepts(t *testing.T) {
	if err := validateCoupon(activeCoupon(), 200, nil, time.Now()); err != nil {
		t.Fatalf("expected coupon to validate, got %v", err)
	}
}

func TestValidateCouponInactiveReportsNotFound(t *testing.T) {
	coupon := activeCoupon()
	coupon.IsActive = false

	err := validateCoupon(coupon, 200, nil, time.Now())
	if reason := rejectionReason(t, err); reason != couponReasonNotFound {
		t.Fatalf("expected not-found, got %s", reason)
	}
}

func TestValidateCouponExhaustedReportsNotFound(t *testing.T) {
	coupon := activeCoupon()
	coupon.UsageLimit = 5
	coupon.UsedCount = 5

	err := validateCoupon(coupon, 200, nil, time.Now())
	if reason := rejectionReason(t, err); reason != couponReasonNotFound {
		t.Fatalf("expected not-found, got %s", reason)
	}
}

func TestValidateCouponExpired(t *testing.T) {
	expired := time.Now().Add(-time.Hour)
	coupon := activeCoupon()
	coupon.ExpiresAt = &expired

	err := validateCoupon(coupon, 200, nil, time.Now())
	if reason := rejectionReason(t, err); reason != couponReasonExpired {
		t.Fatalf("expected expired, got %s", reason)
	}
}

func TestValidateCouponNotYetStarted(t *testing.T) {
	starts := time.Now().Add(time.Hour)
	coupon := activeCoupon()
	coupon.StartsAt = &starts

	err := validateCoupon(coupon, 200, nil, time.Now())
	if reason := rejectionReason(t, err); reason != couponReasonExpired {
		t.Fatalf("expected expired, got %s", reason)
	}
}

func TestValidateCouponBelowMinimum(t *testing.T) {
	coupon := activeCoupon()
	coupon.MinSubtotal = 500

	err := validateCoupon(coupon, 499, nil, time.Now())
	if reason := rejectionReason(t, err); reason != couponReasonBelowMinimum {
		t.Fatalf("expected below-minimum, got %s", reason)
	}
}

func TestValidateCouponProductIneligible(t *testing.T) {
	scopeID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()
	coupon := activeCoupon()
	coupon.ProductIDs = []primitive.ObjectID{scopeID}

	err := validateCoupon(coupon, 200, []primitive.ObjectID{otherID}, time.Now())
	if reason := rejectionReason(t, err); reason != couponReasonProductIneligible {
		t.Fatalf("expected product-ineligible, got %s", reason)
	}

	if err := validateCoupon(coupon, 200, []primitive.ObjectID{otherID, scopeID}, time.Now()); err != nil {
		t.Fatalf("expected eligible cart to validate, got %v", err)
	}
}

func TestValidateCouponFirstFailingRuleWins(t *testing.T) {
	// Expired AND below minimum: the expiry rule runs first.
	expired := time.Now().Add(-time.Hour)
	coupon := activeCoupon()
	coupon.ExpiresAt = &expired
	coupon.MinSubtotal = 1000

	err := validateCoupon(coupon, 10, nil, time.Now())
	if reason := rejectionReason(t, err); reason != couponReasonExpired {
		t.Fatalf("expected expired to win, got %s", reason)
	}
}
