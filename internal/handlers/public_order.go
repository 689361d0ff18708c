package handlers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
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
	"backend/internal/taiwan"
)

/* =========================
   REQUEST DTOs
========================= */

type shippingAddressRequest struct {
	Recipient  string `json:"recipient" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	PostalCode string `json:"postalCode"`
	City       string `json:"city" binding:"required"`
	District   string `json:"district" binding:"required"`
	Line1      string `json:"line1" binding:"required"`
	Line2      string `json:"line2"`
}

type createOrderRequest struct {
	Items         []cartItemRequest       `json:"items" binding:"required"`
	AddressID     string                  `json:"addressId"`
	Address       *shippingAddressRequest `json:"address"`
	PaymentMethod string                  `json:"paymentMethod" binding:"required"`
	CouponCode    string                  `json:"couponCode"`
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

type requestedItem struct {
	ProductID primitive.ObjectID
	Quantity  int
}

func parseCartItems(items []cartItemRequest) ([]requestedItem, error) {
	if len(items) == 0 {
		return nil, errors.New("at least one item is required")
	}

	seen := map[primitive.ObjectID]struct{}{}
	parsed := make([]requestedItem, 0, len(items))
	for _, item := range items {
		productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(item.ProductID))
		if err != nil {
			return nil, errors.New("invalid productId")
		}
		if item.Quantity <= 0 {
			return nil, errors.New("quantity must be greater than zero")
		}
		if _, dup := seen[productID]; dup {
			return nil, errors.New("duplicate productId in cart")
		}
		seen[productID] = struct{}{}
		parsed = append(parsed, requestedItem{ProductID: productID, Quantity: item.Quantity})
	}
	return parsed, nil
}

// newOrderNumber builds the customer-facing order number. The unique index on
// orderNumber catches the (unlikely) collision; CreateOrder retries once.
func newOrderNumber(now time.Time) (string, error) {
	suffix := make([]byte, 3)
	if _, err := rand.Read(suffix); err != nil {
		return "", err
	}
	return fmt.Sprintf("TS%s-%s", now.Format("20060102"), strings.ToUpper(hex.EncodeToString(suffix))), nil
}

// resolveOrderAddress turns the request into an address snapshot, either from
// the user's saved addresses or an inline address checked against the zipcode
// table.
func resolveOrderAddress(ctx context.Context, db *mongo.Database, userID primitive.ObjectID, req createOrderRequest) (models.ShippingAddress, error) {
	if addressID := strings.TrimSpace(req.AddressID); addressID != "" {
		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			return models.ShippingAddress{}, errors.New("user not found")
		}
		for _, address := range user.Addresses {
			if address.ID == addressID {
				return models.ShippingAddress{
					Recipient:  address.Recipient,
					Phone:      address.Phone,
					PostalCode: address.PostalCode,
					City:       address.City,
					District:   address.District,
					Line1:      address.Line1,
					Line2:      address.Line2,
				}, nil
			}
		}
		return models.ShippingAddress{}, errors.New("address not found")
	}

	if req.Address == nil {
		return models.ShippingAddress{}, errors.New("addressId or address is required")
	}

	city := strings.TrimSpace(req.Address.City)
	district := strings.TrimSpace(req.Address.District)
	postalCode := strings.TrimSpace(req.Address.PostalCode)

	if postalCode == "" {
		postalCode = taiwan.ToCode(city, district)
		if postalCode == "" {
			return models.ShippingAddress{}, errors.New("unknown city/district")
		}
	} else if !taiwan.ValidLocation(postalCode, city, district) {
		return models.ShippingAddress{}, errors.New("postal code does not match city/district")
	}

	return models.ShippingAddress{
		Recipient:  strings.TrimSpace(req.Address.Recipient),
		Phone:      strings.TrimSpace(req.Address.Phone),
		PostalCode: postalCode,
		City:       city,
		District:   district,
		Line1:      strings.TrimSpace(req.Address.Line1),
		Line2:      strings.TrimSpace(req.Address.Line2),
	}, nil
}

type outOfStockError struct {
	ProductID primitive.ObjectID
	Available int
	Requested int
}

func (e outOfStockError) Error() string {
	return "product out of stock"
}

type productNotFoundError struct {
	ProductID primitive.ObjectID
}

func (e productNotFoundError) Error() string {
	return "product not found"
}

/* =========================
   CREATE ORDER
========================= */

/*
POST /orders (authenticated)
Stock re-validation, coupon redemption, pricing and the order insert run in
one session transaction: either everything commits or nothing does. The stock
decrement is a conditional update so two simultaneous checkouts of the last
unit cannot both pass.
*/
func CreateOrder(db *mongo.Database, store cache.Cache, cacheTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		paymentMethod := models.PaymentMethod(strings.TrimSpace(req.PaymentMethod))
		if !paymentMethod.Valid() {
			respondWithError(c, http.StatusBadRequest, route, "invalid payment method")
			return
		}

		requested, err := parseCartItems(req.Items)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		address, err := resolveOrderAddress(ctx, db, userID, req)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		settings, err := loadStoreSettings(ctx, db, store, cacheTTL)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		couponCode := strings.ToUpper(strings.TrimSpace(req.CouponCode))
		now := time.Now()

		session, err := db.Client().StartSession()
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer session.EndSession(ctx)

		var created models.Order
		_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			lines := make([]cartLine, 0, len(requested))
			items := make([]models.OrderItem, 0, len(requested))

			for _, item := range requested {
				var product models.Product
				err := db.Collection("products").FindOne(
					sessCtx,
					bson.M{
						"_id":       item.ProductID,
						"isActive":  bson.M{"$ne": false},
						"isDeleted": bson.M{"$ne": true},
					},
				).Decode(&product)
				if err == mongo.ErrNoDocuments {
					return nil, productNotFoundError{ProductID: item.ProductID}
				}
				if err != nil {
					return nil, err
				}

				// Conditional decrement closes the gap between cart
				// validation and commit; a plain re-read would not.
				filter := bson.M{
					"_id":       item.ProductID,
					"isDeleted": bson.M{"$ne": true},
					"stock":     bson.M{"$gte": item.Quantity},
				}
				update := bson.M{"$inc": bson.M{"stock": -item.Quantity}}

				res, err := db.Collection("products").UpdateOne(sessCtx, filter, update)
				if err != nil {
					return nil, err
				}
				if res.MatchedCount == 0 {
					return nil, outOfStockError{
						ProductID: item.ProductID,
						Available: product.Stock,
						Requested: item.Quantity,
					}
				}

				unitPrice := effectiveProductPrice(product.Price, product.SaleEnabled, product.SalePrice)
				lines = append(lines, cartLine{
					ProductID: item.ProductID,
					Price:     unitPrice,
					Quantity:  item.Quantity,
				})
				items = append(items, models.OrderItem{
					ProductID: item.ProductID,
					Name:      product.Name,
					Image:     product.ImagePath,
					Price:     unitPrice,
					Quantity:  item.Quantity,
					Subtotal:  unitPrice * float64(item.Quantity),
				})
			}

			var coupon *models.Coupon
			if couponCode != "" {
				var found models.Coupon
				err := db.Collection("coupons").FindOne(sessCtx, bson.M{"code": couponCode}).Decode(&found)
				if err == mongo.ErrNoDocuments {
					return nil, couponRejection{Reason: couponReasonNotFound, Message: "coupon not found"}
				}
				if err != nil {
					return nil, err
				}

				var subtotal float64
				productIDs := make([]primitive.ObjectID, 0, len(lines))
				for _, line := range lines {
					subtotal += line.Price * float64(line.Quantity)
					productIDs = append(productIDs, line.ProductID)
				}
				if err := validateCoupon(found, subtotal, productIDs, now); err != nil {
					return nil, err
				}

				// Redemption: guarded increment so a usage limit cannot be
				// oversubscribed by concurrent checkouts.
				redeemFilter := bson.M{"_id": found.ID}
				if found.UsageLimit > 0 {
					redeemFilter["usedCount"] = bson.M{"$lt": found.UsageLimit}
				}
				res, err := db.Collection("coupons").UpdateOne(sessCtx, redeemFilter, bson.M{"$inc": bson.M{"usedCount": 1}})
				if err != nil {
					return nil, err
				}
				if res.MatchedCount == 0 {
					return nil, couponRejection{Reason: couponReasonNotFound, Message: "coupon not found"}
				}
				coupon = &found
			}

			pricing := priceCart(lines, shippingConfig{
				FlatFee:       settings.ShippingFee,
				FreeThreshold: settings.FreeShippingThreshold,
			}, coupon)

			order := models.Order{
				UserID:          userID,
				Items:           items,
				Subtotal:        pricing.Subtotal,
				ShippingFee:     pricing.ShippingFee,
				Discount:        pricing.Discount,
				Total:           pricing.Total,
				CouponCode:      couponCode,
				Status:          models.OrderStatusPending,
				PaymentMethod:   paymentMethod,
				PaymentStatus:   models.PaymentStatusPending,
				ShippingAddress: address,
				CreatedAt:       now,
			}

			for attempt := 0; attempt < 2; attempt++ {
				number, err := newOrderNumber(now)
				if err != nil {
					return nil, err
				}
				order.OrderNumber = number

				res, err := db.Collection("orders").InsertOne(sessCtx, order)
				if err == nil {
					if id, ok := res.InsertedID.(primitive.ObjectID); ok {
						order.ID = id
					}
					created = order
					return nil, nil
				}
				if !mongo.IsDuplicateKeyError(err) {
					return nil, err
				}
			}
			return nil, errors.New("order number collision")
		})
		if err != nil {
			var stockErr outOfStockError
			if errors.As(err, &stockErr) {
				c.JSON(http.StatusConflict, gin.H{
					"error":     "stock unavailable",
					"productId": stockErr.ProductID.Hex(),
					"available": stockErr.Available,
					"requested": stockErr.Requested,
				})
				return
			}
			var notFoundErr productNotFoundError
			if errors.As(err, &notFoundErr) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":     "product not found",
					"productId": notFoundErr.ProductID.Hex(),
				})
				return
			}
			var rejection couponRejection
			if errors.As(err, &rejection) {
				c.JSON(http.StatusBadRequest, gin.H{"error": rejection.Message, "reason": rejection.Reason})
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] order %s created for user %s", route, created.OrderNumber, userID.Hex())
		c.JSON(http.StatusCreated, gin.H{"order": created})
	}
}

/* =========================
   LIST / GET / CANCEL
========================= */

func GetMyOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		filter := bson.M{"userId": userID}
		if status := strings.TrimSpace(c.Query("status")); status != "" {
			filter["status"] = status
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

		c.JSON(http.StatusOK, orders)
	}
}

func GetMyOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/:id"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		err = db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID, "userId": userID}).Decode(&order)
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
PUT /orders/:id
Customer-initiated cancellation. Customers may only cancel pending or paid
orders and must always give a reason; every other transition is admin-only.
*/
func CancelOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /orders/:id"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req cancelOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}
		reason := strings.TrimSpace(req.Reason)
		if reason == "" {
			respondWithError(c, http.StatusBadRequest, route, "cancel reason is required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		err = db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID, "userId": userID}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if !order.CustomerCanCancel() {
			c.JSON(http.StatusConflict, gin.H{
				"error": models.InvalidTransitionError{From: order.Status, To: models.OrderStatusCancelled}.Error(),
			})
			return
		}

		previous := order.Status
		if err := order.Transition(models.OrderStatusCancelled, time.Now()); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		order.CancelReason = reason

		// Guard on the previous status so a concurrent admin transition
		// cannot be overwritten.
		res, err := db.Collection("orders").UpdateOne(
			ctx,
			bson.M{"_id": order.ID, "userId": userID, "status": previous},
			bson.M{"$set": bson.M{
				"status":       order.Status,
				"cancelReason": order.CancelReason,
				"cancelledAt":  order.CancelledAt,
			}},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "order status changed, reload and retry"})
			return
		}

		log.Printf("[%s] order %s cancelled by customer", route, order.OrderNumber)
		c.JSON(http.StatusOK, order)
	}
}
