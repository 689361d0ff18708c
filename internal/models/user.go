package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address is a saved delivery address. PostalCode/City/District follow the
// Taiwan zipcode table; at most one address per user has IsDefault set.
type Address struct {
	ID         string `bson:"id" json:"id"`
	Label      string `bson:"label" json:"label"`
	Recipient  string `bson:"recipient" json:"recipient"`
	Phone      string `bson:"phone" json:"phone"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
	City       string `bson:"city" json:"city"`
	District   string `bson:"district" json:"district"`
	Line1      string `bson:"line1" json:"line1"`
	Line2      string `bson:"line2,omitempty" json:"line2,omitempty"`
	IsDefault  bool   `bson:"isDefault" json:"isDefault"`
}

// User represents a customer account. Identity is carried as the user id in
// signed JWT claims; handlers never trust ids from request bodies.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Name         string             `bson:"name" json:"name"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Addresses    []Address          `bson:"addresses" json:"addresses"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
