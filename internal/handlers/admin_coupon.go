package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/models"
)

type CouponCreateRequest struct {
	Code         string     `json:"code" binding:"required"`
	Description  string     `json:"description"`
	DiscountType string     `json:"discountType" binding:"required"`
	Value        float64    `json:"value"`
	MinSubtotal  float64    `json:"minSubtotal"`
	ProductIDs   []string   `json:"productIds"`
	StartsAt     *time.Time `json:"startsAt"`
	ExpiresAt    *time.Time `json:"expiresAt"`
	UsageLimit   int        `json:"usageLimit"`
	IsActive     *bool      `json:"isActive"`
}

type CouponUpdateRequest struct {
	Description *string    `json:"description"`
	Value       *float64   `json:"value"`
	MinSubtotal *float64   `json:"minSubtotal"`
	ProductIDs  *[]string  `json:"productIds"`
	StartsAt    *time.Time `json:"startsAt"`
	ExpiresAt   *time.Time `json:"expiresAt"`
	UsageLimit  *int       `json:"usageLimit"`
	IsActive    *bool      `json:"isActive"`
}

func parseCouponProductIDs(values []string) ([]primitive.ObjectID, error) {
	seen := map[primitive.ObjectID]struct{}{}
	out := make([]primitive.ObjectID, 0, len(values))
	for _, raw := range values {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		objectID, err := primitive.ObjectIDFromHex(value)
		if err != nil {
			return nil, fmt.Errorf("invalid productId: %s", value)
		}
		if _, ok := seen[objectID]; ok {
			continue
		}
		seen[objectID] = struct{}{}
		out = append(out, objectID)
	}
	return out, nil
}

func validateCouponValue(discountType models.DiscountType, value float64) error {
	switch discountType {
	case models.DiscountPercentage:
		if value <= 0 || value > 100 {
			return fmt.Errorf("percentage value must be between 0 and 100")
		}
	case models.DiscountFixed:
		if value <= 0 {
			return fmt.Errorf("fixed value must be greater than 0")
		}
	case models.DiscountFreeShipping:
		// value unused
	}
	return nil
}

func GetAllCoupons(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/coupons"
		defer handlePanic(c, route)

		filter := bson.M{}
		if v := strings.TrimSpace(c.Query("isActive")); v != "" {
			filter["isActive"] = v == "true"
		}

		opts := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("coupons").Find(ctx, filter, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		coupons := make([]models.Coupon, 0)
		if err := cursor.All(ctx, &coupons); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": coupons})
	}
}

func CreateCoupon(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/coupons"
		defer handlePanic(c, route)

		var req CouponCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		code := strings.ToUpper(strings.TrimSpace(req.Code))
		if code == "" {
			respondWithError(c, http.StatusBadRequest, route, "code required")
			return
		}

		discountType := models.DiscountType(strings.TrimSpace(req.DiscountType))
		if !discountType.Valid() {
			respondWithError(c, http.StatusBadRequest, route, "unknown discountType")
			return
		}
		if err := validateCouponValue(discountType, req.Value); err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}
		if req.MinSubtotal < 0 || req.UsageLimit < 0 {
			respondWithError(c, http.StatusBadRequest, route, "minSubtotal and usageLimit must not be negative")
			return
		}
		if req.StartsAt != nil && req.ExpiresAt != nil && req.ExpiresAt.Before(*req.StartsAt) {
			respondWithError(c, http.StatusBadRequest, route, "expiresAt must be after startsAt")
			return
		}

		productIDs, err := parseCouponProductIDs(req.ProductIDs)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}

		coupon := models.Coupon{
			Code:         code,
			Description:  strings.TrimSpace(req.Description),
			DiscountType: discountType,
			Value:        req.Value,
			MinSubtotal:  req.MinSubtotal,
			ProductIDs:   productIDs,
			StartsAt:     req.StartsAt,
			ExpiresAt:    req.ExpiresAt,
			UsageLimit:   req.UsageLimit,
			UsedCount:    0,
			IsActive:     isActive,
			CreatedAt:    time.Now(),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("coupons").InsertOne(ctx, coupon)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondWithError(c, http.StatusConflict, route, "coupon code already exists")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			coupon.ID = id
		}

		c.JSON(http.StatusCreated, coupon)
	}
}

func UpdateCoupon(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/coupons/:id"
		defer handlePanic(c, route)

		couponID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req CouponUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var existing models.Coupon
		err = db.Collection("coupons").FindOne(ctx, bson.M{"_id": couponID}).Decode(&existing)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "coupon not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		set := bson.M{}
		if req.Description != nil {
			set["description"] = strings.TrimSpace(*req.Description)
		}
		if req.Value != nil {
			if err := validateCouponValue(existing.DiscountType, *req.Value); err != nil {
				respondWithError(c, http.StatusBadRequest, route, err.Error())
				return
			}
			set["value"] = *req.Value
		}
		if req.MinSubtotal != nil {
			if *req.MinSubtotal < 0 {
				respondWithError(c, http.StatusBadRequest, route, "minSubtotal must not be negative")
				return
			}
			set["minSubtotal"] = *req.MinSubtotal
		}
		if req.ProductIDs != nil {
			productIDs, err := parseCouponProductIDs(*req.ProductIDs)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, err.Error())
				return
			}
			set["productIds"] = productIDs
		}
		if req.StartsAt != nil {
			set["startsAt"] = req.StartsAt
		}
		if req.ExpiresAt != nil {
			set["expiresAt"] = req.ExpiresAt
		}
		if req.UsageLimit != nil {
			if *req.UsageLimit < 0 {
				respondWithError(c, http.StatusBadRequest, route, "usageLimit must not be negative")
				return
			}
			set["usageLimit"] = *req.UsageLimit
		}
		if req.IsActive != nil {
			set["isActive"] = *req.IsActive
		}

		if len(set) == 0 {
			respondWithError(c, http.StatusBadRequest, route, "no fields to update")
			return
		}

		if _, err := db.Collection("coupons").UpdateByID(ctx, couponID, bson.M{"$set": set}); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		var updated models.Coupon
		if err := db.Collection("coupons").FindOne(ctx, bson.M{"_id": couponID}).Decode(&updated); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

func DeleteCoupon(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/coupons/:id"
		defer handlePanic(c, route)

		couponID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("coupons").DeleteOne(ctx, bson.M{"_id": couponID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if result.DeletedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "coupon not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "coupon deleted"})
	}
}
