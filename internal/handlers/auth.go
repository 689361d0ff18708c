package handlers

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"backend/internal/models"
)

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func issueUserToken(userID primitive.ObjectID, email, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID.Hex(),
		"email":  email,
		"exp":    time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func newRefreshToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

// Only the hash of a refresh token is persisted.
func hashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func storeRefreshToken(ctx context.Context, db *mongo.Database, userID primitive.ObjectID, token string, ttl time.Duration) error {
	record := models.RefreshToken{
		UserID:    userID,
		TokenHash: hashRefreshToken(token),
		ExpiresAt: time.Now().Add(ttl),
		CreatedAt: time.Now(),
	}
	_, err := db.Collection("refresh_tokens").InsertOne(ctx, record)
	return err
}

func Register(db *mongo.Database, jwtSecret string, accessTTL, refreshTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/register"
		defer handlePanic(c, route)

		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "password hashing failed")
			return
		}

		now := time.Now()
		user := models.User{
			Email:        email,
			PasswordHash: string(hash),
			Name:         strings.TrimSpace(req.Name),
			Phone:        strings.TrimSpace(req.Phone),
			Addresses:    []models.Address{},
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("users").InsertOne(ctx, user)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondWithError(c, http.StatusConflict, route, "email already registered")
				return
			}
			log.Println("[AUTH] [ERROR] register insert failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		userID, _ := res.InsertedID.(primitive.ObjectID)

		accessToken, err := issueUserToken(userID, email, jwtSecret, accessTTL)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "token generation failed")
			return
		}
		refreshToken, err := newRefreshToken()
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "token generation failed")
			return
		}
		if err := storeRefreshToken(ctx, db, userID, refreshToken, refreshTTL); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Println("[AUTH] [INFO] user registered:", email)
		c.JSON(http.StatusCreated, gin.H{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
			"user": gin.H{
				"id":    userID.Hex(),
				"name":  user.Name,
				"email": user.Email,
			},
		})
	}
}

func Login(db *mongo.Database, jwtSecret string, accessTTL, refreshTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/login"
		defer handlePanic(c, route)

		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		if email == "" || strings.TrimSpace(req.Password) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		if err != nil {
			log.Println("[AUTH] [ERROR] login user lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			log.Println("[AUTH] [ERROR] login invalid credentials for user")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		accessToken, err := issueUserToken(user.ID, user.Email, jwtSecret, accessTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
			return
		}
		refreshToken, err := newRefreshToken()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
			return
		}
		if err := storeRefreshToken(ctx, db, user.ID, refreshToken, refreshTTL); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		log.Println("[AUTH] [INFO] user login succeeded:", user.Email)
		c.JSON(http.StatusOK, gin.H{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
			"user": gin.H{
				"id":    user.ID.Hex(),
				"name":  user.Name,
				"email": user.Email,
			},
		})
	}
}

/*
POST /auth/refresh
Rotation: the presented token is revoked and replaced in the same request.
*/
func Refresh(db *mongo.Database, jwtSecret string, accessTTL, refreshTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/refresh"
		defer handlePanic(c, route)

		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		tokenHash := hashRefreshToken(strings.TrimSpace(req.RefreshToken))

		var record models.RefreshToken
		err := db.Collection("refresh_tokens").FindOne(ctx, bson.M{
			"tokenHash": tokenHash,
			"revoked":   false,
			"expiresAt": bson.M{"$gt": time.Now()},
		}).Decode(&record)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": record.UserID}).Decode(&user); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}

		newToken, err := newRefreshToken()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
			return
		}
		newRecord := models.RefreshToken{
			UserID:    user.ID,
			TokenHash: hashRefreshToken(newToken),
			ExpiresAt: time.Now().Add(refreshTTL),
			CreatedAt: time.Now(),
		}
		res, err := db.Collection("refresh_tokens").InsertOne(ctx, newRecord)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		newID, _ := res.InsertedID.(primitive.ObjectID)

		_, err = db.Collection("refresh_tokens").UpdateByID(ctx, record.ID, bson.M{
			"$set": bson.M{
				"revoked":         true,
				"replacedByToken": newID,
			},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		accessToken, err := issueUserToken(user.ID, user.Email, jwtSecret, accessTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"accessToken":  accessToken,
			"refreshToken": newToken,
		})
	}
}

func Logout(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/logout"
		defer handlePanic(c, route)

		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		tokenHash := hashRefreshToken(strings.TrimSpace(req.RefreshToken))
		_, err := db.Collection("refresh_tokens").UpdateOne(
			ctx,
			bson.M{"tokenHash": tokenHash, "revoked": false},
			bson.M{"$set": bson.M{"revoked": true}},
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
	}
}
