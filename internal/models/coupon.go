package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DiscountType string

const (
	DiscountPercentage   DiscountType = "percentage"
	DiscountFixed        DiscountType = "fixed"
	DiscountFreeShipping DiscountType = "free_shipping"
)

func (t DiscountType) Valid() bool {
	switch t {
	case DiscountPercentage, DiscountFixed, DiscountFreeShipping:
		return true
	}
	return false
}

// Coupon defines a discount rule. Validation is stateless; usedCount is only
// incremented at order creation (redemption), never at validation.
type Coupon struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Code         string               `bson:"code" json:"code"`
	Description  string               `bson:"description,omitempty" json:"description,omitempty"`
	DiscountType DiscountType         `bson:"discountType" json:"discountType"`
	Value        float64              `bson:"value" json:"value"`
	MinSubtotal  float64              `bson:"minSubtotal" json:"minSubtotal"`
	ProductIDs   []primitive.ObjectID `bson:"productIds,omitempty" json:"productIds,omitempty"`
	StartsAt     *time.Time           `bson:"startsAt,omitempty" json:"startsAt,omitempty"`
	ExpiresAt    *time.Time           `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
	UsageLimit   int                  `bson:"usageLimit" json:"usageLimit"`
	UsedCount    int                  `bson:"usedCount" json:"usedCount"`
	IsActive     bool                 `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
}

// Scoped reports whether the coupon is restricted to specific products.
func (c Coupon) Scoped() bool {
	return len(c.ProductIDs) > 0
}

// AppliesTo checks product eligibility. Unscoped coupons apply storewide.
func (c Coupon) AppliesTo(productID primitive.ObjectID) bool {
	if !c.Scoped() {
		return true
	}
	for _, id := range c.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}

// Exhausted reports whether a usage limit exists and has been reached.
func (c Coupon) Exhausted() bool {
	return c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit
}
