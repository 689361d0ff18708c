package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/models"
)

// EnsureStoreSettings seeds the single settings document on first boot so the
// storefront never renders without shipping configuration.
func EnsureStoreSettings(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := db.Collection("settings").CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	settings := models.DefaultStoreSettings()
	settings.UpdatedAt = time.Now()

	log.Println("EnsureStoreSettings: seeding default store settings")
	_, err = db.Collection("settings").InsertOne(ctx, settings)
	return err
}
