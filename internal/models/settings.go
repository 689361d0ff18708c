package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MenuItem is a storefront navigation entry.
type MenuItem struct {
	Label string `bson:"label" json:"label"`
	URL   string `bson:"url" json:"url"`
}

// HeroSlide is one slide of the storefront hero carousel.
type HeroSlide struct {
	Title    string `bson:"title" json:"title"`
	Subtitle string `bson:"subtitle,omitempty" json:"subtitle,omitempty"`
	Image    string `bson:"image" json:"image"`
	Link     string `bson:"link,omitempty" json:"link,omitempty"`
}

// Banner is an announcement strip shown above the storefront.
type Banner struct {
	Text    string `bson:"text" json:"text"`
	Link    string `bson:"link,omitempty" json:"link,omitempty"`
	Enabled bool   `bson:"enabled" json:"enabled"`
}

// StoreSettings is the single settings document driving the storefront.
// Content blocks are typed and validated when written, not parsed per render.
type StoreSettings struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	StoreName             string             `bson:"storeName" json:"storeName"`
	Currency              string             `bson:"currency" json:"currency"`
	ShippingFee           float64            `bson:"shippingFee" json:"shippingFee"`
	FreeShippingThreshold float64            `bson:"freeShippingThreshold" json:"freeShippingThreshold"`
	RequireCancelReason   bool               `bson:"requireCancelReason" json:"requireCancelReason"`
	MenuItems             []MenuItem         `bson:"menuItems" json:"menuItems"`
	HeroSlides            []HeroSlide        `bson:"heroSlides" json:"heroSlides"`
	Banners               []Banner           `bson:"banners" json:"banners"`
	UpdatedAt             time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DefaultStoreSettings seeds the settings document on first boot.
func DefaultStoreSettings() StoreSettings {
	return StoreSettings{
		StoreName:             "線上商店",
		Currency:              "TWD",
		ShippingFee:           100,
		FreeShippingThreshold: 1500,
		RequireCancelReason:   false,
		MenuItems:             []MenuItem{},
		HeroSlides:            []HeroSlide{},
		Banners:               []Banner{},
	}
}

// Validate enforces the settings-write boundary.
func (s StoreSettings) Validate() error {
	if strings.TrimSpace(s.StoreName) == "" {
		return fmt.Errorf("storeName is required")
	}
	if len(s.Currency) != 3 {
		return fmt.Errorf("currency must be a 3-letter code")
	}
	if s.ShippingFee < 0 {
		return fmt.Errorf("shippingFee must not be negative")
	}
	if s.FreeShippingThreshold < 0 {
		return fmt.Errorf("freeShippingThreshold must not be negative")
	}
	for i, item := range s.MenuItems {
		if strings.TrimSpace(item.Label) == "" || strings.TrimSpace(item.URL) == "" {
			return fmt.Errorf("menuItems[%d]: label and url are required", i)
		}
	}
	for i, slide := range s.HeroSlides {
		if strings.TrimSpace(slide.Title) == "" || strings.TrimSpace(slide.Image) == "" {
			return fmt.Errorf("heroSlides[%d]: title and image are required", i)
		}
	}
	for i, banner := range s.Banners {
		if strings.TrimSpace(banner.Text) == "" {
			return fmt.Errorf("banners[%d]: text is required", i)
		}
	}
	return nil
}
