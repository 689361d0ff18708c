package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/cache"
	"backend/internal/models"
)

type settingsUpdateRequest struct {
	StoreName             string             `json:"storeName" binding:"required"`
	Currency              string             `json:"currency" binding:"required"`
	ShippingFee           *float64           `json:"shippingFee" binding:"required"`
	FreeShippingThreshold *float64           `json:"freeShippingThreshold" binding:"required"`
	RequireCancelReason   bool               `json:"requireCancelReason"`
	MenuItems             []models.MenuItem  `json:"menuItems"`
	HeroSlides            []models.HeroSlide `json:"heroSlides"`
	Banners               []models.Banner    `json:"banners"`
}

// loadStoreSettings reads the settings document, going through the optional
// Redis cache first. Cache entries are written best-effort; a cache failure
// never fails the request.
func loadStoreSettings(ctx context.Context, db *mongo.Database, store cache.Cache, ttl time.Duration) (models.StoreSettings, error) {
	var key string
	if store != nil {
		key = store.GenerateKey("settings", "store")
		if raw, err := store.Get(ctx, key); err == nil && raw != "" {
			var settings models.StoreSettings
			if err := json.Unmarshal([]byte(raw), &settings); err == nil {
				return settings, nil
			}
		}
	}

	var settings models.StoreSettings
	err := db.Collection("settings").FindOne(ctx, bson.M{}).Decode(&settings)
	if err == mongo.ErrNoDocuments {
		settings = models.DefaultStoreSettings()
	} else if err != nil {
		return models.StoreSettings{}, err
	}

	if store != nil {
		if raw, err := json.Marshal(settings); err == nil {
			if err := store.Set(ctx, key, raw, ttl); err != nil {
				log.Println("[SETTINGS] [WARN] cache write failed:", err)
			}
		}
	}

	return settings, nil
}

// invalidateSettingsCache drops the cached document after an admin write.
func invalidateSettingsCache(ctx context.Context, store cache.Cache) {
	if store == nil {
		return
	}
	if err := store.Del(ctx, store.GenerateKey("settings", "store")); err != nil {
		log.Println("[SETTINGS] [WARN] cache invalidation failed:", err)
	}
}

func GetSettings(db *mongo.Database, store cache.Cache, cacheTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /settings"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		settings, err := loadStoreSettings(ctx, db, store, cacheTTL)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, settings)
	}
}

func UpdateSettings(db *mongo.Database, store cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/settings"
		defer handlePanic(c, route)

		var req settingsUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		settings := models.StoreSettings{
			StoreName:             req.StoreName,
			Currency:              req.Currency,
			ShippingFee:           *req.ShippingFee,
			FreeShippingThreshold: *req.FreeShippingThreshold,
			RequireCancelReason:   req.RequireCancelReason,
			MenuItems:             req.MenuItems,
			HeroSlides:            req.HeroSlides,
			Banners:               req.Banners,
			UpdatedAt:             time.Now(),
		}
		if settings.MenuItems == nil {
			settings.MenuItems = []models.MenuItem{}
		}
		if settings.HeroSlides == nil {
			settings.HeroSlides = []models.HeroSlide{}
		}
		if settings.Banners == nil {
			settings.Banners = []models.Banner{}
		}

		// Content blocks are validated here, at the write boundary, so reads
		// never have to re-parse or fall back.
		if err := settings.Validate(); err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		update := bson.M{"$set": bson.M{
			"storeName":             settings.StoreName,
			"currency":              settings.Currency,
			"shippingFee":           settings.ShippingFee,
			"freeShippingThreshold": settings.FreeShippingThreshold,
			"requireCancelReason":   settings.RequireCancelReason,
			"menuItems":             settings.MenuItems,
			"heroSlides":            settings.HeroSlides,
			"banners":               settings.Banners,
			"updatedAt":             settings.UpdatedAt,
		}}
		opts := options.Update().SetUpsert(true)
		if _, err := db.Collection("settings").UpdateOne(ctx, bson.M{}, update, opts); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		invalidateSettingsCache(ctx, store)

		log.Printf("[%s] store settings updated", route)
		c.JSON(http.StatusOK, settings)
	}
}
