package handlers

import (
	"context"
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

type ProductCreateRequest struct {
	Name        string   `json:"name" binding:"required"`
	Price       float64  `json:"price" binding:"required"`
	SaleEnabled bool     `json:"saleEnabled"`
	SalePrice   float64  `json:"salePrice"`
	Category    []string `json:"category" binding:"required"`
	Description string   `json:"description"`
	Barcode     string   `json:"barcode"`
	Brand       string   `json:"brand"`
	ImagePath   string   `json:"imagePath"`
	Stock       *int     `json:"stock" binding:"required"`
	IsActive    *bool    `json:"isActive"`
	IsCampaign  bool     `json:"isCampaign"`
}

type ProductUpdateRequest struct {
	Name        *string   `json:"name"`
	Price       *float64  `json:"price"`
	SaleEnabled *bool     `json:"saleEnabled"`
	SalePrice   *float64  `json:"salePrice"`
	Category    *[]string `json:"category"`
	Description *string   `json:"description"`
	Barcode     *string   `json:"barcode"`
	Brand       *string   `json:"brand"`
	ImagePath   *string   `json:"imagePath"`
	Stock       *int      `json:"stock"`
	IsActive    *bool     `json:"isActive"`
	IsCampaign  *bool     `json:"isCampaign"`
}

func normalizeCategories(values []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0)

	for _, v := range values {
		name := strings.TrimSpace(v)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

/*
GET /admin/api/products
- Admin listing includes inactive products; ?includeDeleted=true also shows
  soft-deleted ones.
*/
func GetAllProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/products"
		defer handlePanic(c, route)

		filter := bson.M{}
		if c.Query("includeDeleted") != "true" {
			filter["isDeleted"] = bson.M{"$ne": true}
		}
		if category := strings.TrimSpace(c.Query("category")); category != "" {
			filter["category"] = bson.M{"$in": []string{category}}
		}
		if search := strings.TrimSpace(c.Query("search")); search != "" {
			filter["name"] = bson.M{"$regex": search, "$options": "i"}
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

		total, err := db.Collection("products").CountDocuments(ctx, filter)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		cursor, err := db.Collection("products").Find(ctx, filter, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		products, err := decodeProducts(ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data":  products,
			"total": total,
		})
	}
}

func CreateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/products"
		defer handlePanic(c, route)

		var req ProductCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if req.Price <= 0 {
			respondWithError(c, http.StatusBadRequest, route, "price must be greater than 0")
			return
		}
		if *req.Stock < 0 {
			respondWithError(c, http.StatusBadRequest, route, "stock must not be negative")
			return
		}
		if err := validateSaleFields(req.Price, req.SaleEnabled, req.SalePrice, req.SalePrice > 0); err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		category := normalizeCategories(req.Category)
		if len(category) == 0 {
			respondWithError(c, http.StatusBadRequest, route, "category required")
			return
		}

		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}

		product := models.Product{
			Name:        strings.TrimSpace(req.Name),
			Price:       req.Price,
			SaleEnabled: req.SaleEnabled,
			SalePrice:   req.SalePrice,
			Category:    category,
			Description: strings.TrimSpace(req.Description),
			Barcode:     strings.TrimSpace(req.Barcode),
			Brand:       strings.TrimSpace(req.Brand),
			ImagePath:   strings.TrimSpace(req.ImagePath),
			Stock:       *req.Stock,
			IsActive:    isActive,
			IsCampaign:  req.IsCampaign,
			CreatedAt:   time.Now(),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondWithError(c, http.StatusConflict, route, "barcode already exists")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			product.ID = id
		}
		product.InStock = product.Stock > 0
		product.IsOnSale = isProductOnSale(product.Price, product.SaleEnabled, product.SalePrice)

		c.JSON(http.StatusCreated, product)
	}
}

func UpdateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/products/:id"
		defer handlePanic(c, route)

		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req ProductUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var existing models.Product
		err = db.Collection("products").FindOne(ctx, bson.M{
			"_id":       productID,
			"isDeleted": bson.M{"$ne": true},
		}).Decode(&existing)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		sale, err := resolveSaleUpdate(existing.Price, existing.SaleEnabled, existing.SalePrice, saleUpdateInput{
			Price:       req.Price,
			SaleEnabled: req.SaleEnabled,
			SalePrice:   req.SalePrice,
		})
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		set := bson.M{}
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				respondWithError(c, http.StatusBadRequest, route, "name must not be empty")
				return
			}
			set["name"] = name
		}
		if req.Price != nil {
			if *req.Price <= 0 {
				respondWithError(c, http.StatusBadRequest, route, "price must be greater than 0")
				return
			}
			set["price"] = sale.Price
		}
		if sale.SetSaleEnabled {
			set["saleEnabled"] = sale.SaleEnabled
		}
		if sale.SetSalePrice {
			set["salePrice"] = sale.SalePrice
		}
		if req.Category != nil {
			category := normalizeCategories(*req.Category)
			if len(category) == 0 {
				respondWithError(c, http.StatusBadRequest, route, "category required")
				return
			}
			set["category"] = category
		}
		if req.Description != nil {
			set["description"] = strings.TrimSpace(*req.Description)
		}
		if req.Barcode != nil {
			set["barcode"] = strings.TrimSpace(*req.Barcode)
		}
		if req.Brand != nil {
			set["brand"] = strings.TrimSpace(*req.Brand)
		}
		if req.ImagePath != nil {
			set["imagePath"] = strings.TrimSpace(*req.ImagePath)
		}
		if req.Stock != nil {
			if *req.Stock < 0 {
				respondWithError(c, http.StatusBadRequest, route, "stock must not be negative")
				return
			}
			set["stock"] = *req.Stock
		}
		if req.IsActive != nil {
			set["isActive"] = *req.IsActive
		}
		if req.IsCampaign != nil {
			set["isCampaign"] = *req.IsCampaign
		}

		if len(set) == 0 {
			respondWithError(c, http.StatusBadRequest, route, "no fields to update")
			return
		}

		if _, err := db.Collection("products").UpdateByID(ctx, productID, bson.M{"$set": set}); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondWithError(c, http.StatusConflict, route, "barcode already exists")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		var raw bson.M
		if err := db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&raw); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		product, err := normalizeProductDocument(raw)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

/*
DELETE /admin/api/products/:id
- Soft delete: order items keep their snapshots, so products are never
  removed outright.
*/
func DeleteProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/products/:id"
		defer handlePanic(c, route)

		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		now := time.Now()
		res, err := db.Collection("products").UpdateOne(
			ctx,
			bson.M{"_id": productID, "isDeleted": bson.M{"$ne": true}},
			bson.M{"$set": bson.M{
				"isDeleted": true,
				"isActive":  false,
				"deletedAt": now,
			}},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
	}
}
