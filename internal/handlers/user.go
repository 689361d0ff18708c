package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/models"
	"backend/internal/taiwan"
)

type addressRequest struct {
	Label      string `json:"label" binding:"required"`
	Recipient  string `json:"recipient" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	PostalCode string `json:"postalCode"`
	City       string `json:"city" binding:"required"`
	District   string `json:"district" binding:"required"`
	Line1      string `json:"line1" binding:"required"`
	Line2      string `json:"line2"`
	IsDefault  bool   `json:"isDefault"`
}

// addressFromRequest validates the location against the zipcode table and
// fills the postal code when the client omits it.
func addressFromRequest(req addressRequest) (models.Address, error) {
	city := strings.TrimSpace(req.City)
	district := strings.TrimSpace(req.District)
	postalCode := strings.TrimSpace(req.PostalCode)

	if postalCode == "" {
		postalCode = taiwan.ToCode(city, district)
		if postalCode == "" {
			return models.Address{}, errors.New("unknown city/district")
		}
	} else if !taiwan.ValidLocation(postalCode, city, district) {
		return models.Address{}, errors.New("postal code does not match city/district")
	}

	return models.Address{
		Label:      strings.TrimSpace(req.Label),
		Recipient:  strings.TrimSpace(req.Recipient),
		Phone:      strings.TrimSpace(req.Phone),
		PostalCode: postalCode,
		City:       city,
		District:   district,
		Line1:      strings.TrimSpace(req.Line1),
		Line2:      strings.TrimSpace(req.Line2),
		IsDefault:  req.IsDefault,
	}, nil
}

func GetMe(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromContext(c)
		if !ok {
			log.Println("[AUTH] [ERROR] userId missing in context")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			log.Println("[AUTH] [ERROR] get me failed:", err)
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":        user.ID.Hex(),
			"email":     user.Email,
			"name":      user.Name,
			"phone":     user.Phone,
			"addresses": user.Addresses,
			"createdAt": user.CreatedAt,
			"updatedAt": user.UpdatedAt,
		})
	}
}

func GetUserAddresses(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			log.Println("[ADDRESS] [ERROR] get addresses failed:", err)
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"addresses": user.Addresses})
	}
}

func CreateUserAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		address, err := addressFromRequest(req)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		address.ID = uuid.NewString()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		// The first address always becomes the default.
		if len(user.Addresses) == 0 {
			address.IsDefault = true
		}
		if address.IsDefault {
			for i := range user.Addresses {
				user.Addresses[i].IsDefault = false
			}
		}

		user.Addresses = append(user.Addresses, address)
		user.UpdatedAt = time.Now()

		_, err = db.Collection("users").UpdateByID(ctx, userID, bson.M{
			"$set": bson.M{
				"addresses": user.Addresses,
				"updatedAt": user.UpdatedAt,
			},
		})
		if err != nil {
			log.Println("[ADDRESS] [ERROR] create address failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"address": address})
	}
}

func UpdateUserAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		addressID := strings.TrimSpace(c.Param("id"))
		if addressID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		updated, err := addressFromRequest(req)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		updated.ID = addressID

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		found := false
		for i := range user.Addresses {
			if user.Addresses[i].ID == addressID {
				user.Addresses[i] = updated
				found = true
				continue
			}
			if updated.IsDefault {
				user.Addresses[i].IsDefault = false
			}
		}
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "address not found"})
			return
		}

		user.UpdatedAt = time.Now()
		_, err = db.Collection("users").UpdateByID(ctx, userID, bson.M{
			"$set": bson.M{
				"addresses": user.Addresses,
				"updatedAt": user.UpdatedAt,
			},
		})
		if err != nil {
			log.Println("[ADDRESS] [ERROR] update address failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"address": updated})
	}
}

func DeleteUserAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		addressID := strings.TrimSpace(c.Param("id"))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		remaining := make([]models.Address, 0, len(user.Addresses))
		removed := false
		for _, address := range user.Addresses {
			if address.ID == addressID {
				removed = true
				continue
			}
			remaining = append(remaining, address)
		}
		if !removed {
			c.JSON(http.StatusNotFound, gin.H{"error": "address not found"})
			return
		}

		user.UpdatedAt = time.Now()
		_, err := db.Collection("users").UpdateByID(ctx, userID, bson.M{
			"$set": bson.M{
				"addresses": remaining,
				"updatedAt": user.UpdatedAt,
			},
		})
		if err != nil {
			log.Println("[ADDRESS] [ERROR] delete address failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "address deleted"})
	}
}
