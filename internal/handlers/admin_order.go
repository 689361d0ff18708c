package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/cache"
	"backend/internal/models"
)

type orderStatusUpdateRequest struct {
	Status         string `json:"status" binding:"required"`
	TrackingNumber string `json:"trackingNumber"`
	CancelReason   string `json:"cancelReason"`
}

/*
GET /admin/api/orders
- ?status=... filter, ?search= order number, optional page+limit
*/
func GetAllOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/orders"
		defer handlePanic(c, route)

		filter := bson.M{}
		if status := strings.TrimSpace(c.Query("status")); status != "" {
			filter["status"] = status
		}
		if search := strings.TrimSpace(c.Query("search")); search != "" {
			filter["orderNumber"] = bson.M{"$regex": search, "$options": "i"}
		}

		findOptions := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		pageStr := c.Query("page")
		limitStr := c.Query("limit")
		if pageStr != "" && limitStr != "" {
			page, limit, err := parsePaginationParams(pageStr, limitStr)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid pagination params")
				return
			}
			findOptions.
				SetSkip((page - 1) * limit).
				SetLimit(limit)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		total, err := db.Collection("orders").CountDocuments(ctx, filter)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		cursor, err := db.Collection("orders").Find(ctx, filter, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data":  orders,
			"total": total,
		})
	}
}

func GetOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/orders/:id"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		err = db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

/*
PUT /admin/api/orders/:id
Admin status transition. The transition table is enforced by the order model;
the write is guarded on the previous status so concurrent updates lose cleanly
instead of overwriting each other.
*/
func UpdateOrderStatus(db *mongo.Database, store cache.Cache, cacheTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/orders/:id"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req orderStatusUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		next := models.OrderStatus(strings.TrimSpace(req.Status))
		if !next.Valid() {
			respondWithError(c, http.StatusBadRequest, route, "unknown status")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		err = db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		reason := strings.TrimSpace(req.CancelReason)
		if next == models.OrderStatusCancelled {
			settings, err := loadStoreSettings(ctx, db, store, cacheTTL)
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			// Customer cancellations always need a reason; for admins it is
			// a store policy toggle.
			if settings.RequireCancelReason && reason == "" {
				respondWithError(c, http.StatusBadRequest, route, "cancel reason is required")
				return
			}
		}

		previous := order.Status
		if err := order.Transition(next, time.Now()); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}

		set := bson.M{
			"status":        order.Status,
			"paymentStatus": order.PaymentStatus,
		}
		switch next {
		case models.OrderStatusPaid:
			set["paidAt"] = order.PaidAt
		case models.OrderStatusShipped:
			set["shippedAt"] = order.ShippedAt
			if tracking := strings.TrimSpace(req.TrackingNumber); tracking != "" {
				order.TrackingNumber = tracking
				set["trackingNumber"] = tracking
			}
		case models.OrderStatusCompleted:
			set["completedAt"] = order.CompletedAt
		case models.OrderStatusCancelled:
			set["cancelledAt"] = order.CancelledAt
			if reason != "" {
				order.CancelReason = reason
				set["cancelReason"] = reason
			}
		}

		res, err := db.Collection("orders").UpdateOne(
			ctx,
			bson.M{"_id": order.ID, "status": previous},
			bson.M{"$set": set},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "order status changed, reload and retry"})
			return
		}

		log.Printf("[%s] order %s: %s -> %s", route, order.OrderNumber, previous, order.Status)
		c.JSON(http.StatusOK, order)
	}
}
