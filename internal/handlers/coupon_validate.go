package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/cache"
	"backend/internal/models"
)

type cartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type validateCouponRequest struct {
	Code  string            `json:"code" binding:"required"`
	Items []cartItemRequest `json:"items" binding:"required"`
}

// cartLinesFromRequest resolves cart items against product rows so the
// pricing preview uses server-side prices only.
func cartLinesFromRequest(ctx context.Context, db *mongo.Database, items []cartItemRequest) ([]cartLine, error) {
	requested, err := parseCartItems(items)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(requested))
	quantities := make(map[primitive.ObjectID]int, len(requested))
	for _, item := range requested {
		ids = append(ids, item.ProductID)
		quantities[item.ProductID] = item.Quantity
	}

	cursor, err := db.Collection("products").Find(ctx, bson.M{
		"_id":       bson.M{"$in": ids},
		"isActive":  bson.M{"$ne": false},
		"isDeleted": bson.M{"$ne": true},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products, err := decodeProducts(ctx, cursor)
	if err != nil {
		return nil, err
	}
	if len(products) != len(ids) {
		return nil, errors.New("product not found")
	}

	lines := make([]cartLine, 0, len(ids))
	for _, product := range products {
		lines = append(lines, cartLine{
			ProductID: product.ID,
			Price:     effectiveProductPrice(product.Price, product.SaleEnabled, product.SalePrice),
			Quantity:  quantities[product.ID],
		})
	}
	return lines, nil
}

/*
POST /coupons/validate
- Stateless: never touches usedCount. Redemption happens in CreateOrder, so a
  shopper who validates but never checks out spends nothing.
*/
func ValidateCoupon(db *mongo.Database, store cache.Cache, cacheTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /coupons/validate"
		defer handlePanic(c, route)

		var req validateCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		lines, err := cartLinesFromRequest(ctx, db, req.Items)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		code := strings.ToUpper(strings.TrimSpace(req.Code))
		var coupon models.Coupon
		if err := db.Collection("coupons").FindOne(ctx, bson.M{"code": code}).Decode(&coupon); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusBadRequest, gin.H{"error": "coupon not found", "reason": couponReasonNotFound})
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		productIDs := make([]primitive.ObjectID, 0, len(lines))
		var subtotal float64
		for _, line := range lines {
			productIDs = append(productIDs, line.ProductID)
			subtotal += line.Price * float64(line.Quantity)
		}

		if err := validateCoupon(coupon, subtotal, productIDs, time.Now()); err != nil {
			var rejection couponRejection
			if errors.As(err, &rejection) {
				c.JSON(http.StatusBadRequest, gin.H{"error": rejection.Message, "reason": rejection.Reason})
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		settings, err := loadStoreSettings(ctx, db, store, cacheTTL)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		pricing := priceCart(lines, shippingConfig{
			FlatFee:       settings.ShippingFee,
			FreeThreshold: settings.FreeShippingThreshold,
		}, &coupon)

		c.JSON(http.StatusOK, gin.H{
			"valid": true,
			"coupon": gin.H{
				"code":         coupon.Code,
				"discountType": coupon.DiscountType,
				"value":        coupon.Value,
				"description":  coupon.Description,
			},
			"pricing": gin.H{
				"subtotal":    pricing.Subtotal,
				"shippingFee": pricing.ShippingFee,
				"discount":    pricing.Discount,
				"total":       pricing.Total,
			},
		})
	}
}
