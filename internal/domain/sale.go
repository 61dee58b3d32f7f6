package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed_amount"
)

type Sale struct {
	ID                   primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name                 string               `json:"name" bson:"name" binding:"required"`
	DiscountType         DiscountType         `json:"discount_type" bson:"discount_type" binding:"required"`
	DiscountValue        float64              `json:"discount_value" bson:"discount_value" binding:"required,gt=0"`
	IsActive             bool                 `json:"is_active" bson:"is_active"`
	StartDate            time.Time            `json:"start_date" bson:"start_date"`
	EndDate              time.Time            `json:"end_date" bson:"end_date"`
	ApplicableProducts   []primitive.ObjectID `json:"applicable_products" bson:"applicable_products"`
	ApplicableCategories []primitive.ObjectID `json:"applicable_categories" bson:"applicable_categories"`
	CreatedAt            time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at" bson:"updated_at"`
}

// AppliesAt reports whether the sale discounts prices at the given time.
// A sale only applies while it is active and now falls within
// [StartDate, EndDate].
func (s *Sale) AppliesAt(now time.Time) bool {
	if s == nil || !s.IsActive {
		return false
	}
	return !now.Before(s.StartDate) && !now.After(s.EndDate)
}

// Covers reports whether the sale's scoping lists include the given
// product or its category. Empty scoping lists mean the sale is global.
func (s *Sale) Covers(productID, categoryID primitive.ObjectID) bool {
	if s == nil {
		return false
	}
	if len(s.ApplicableProducts) == 0 && len(s.ApplicableCategories) == 0 {
		return true
	}
	for _, id := range s.ApplicableProducts {
		if id == productID {
			return true
		}
	}
	for _, id := range s.ApplicableCategories {
		if id == categoryID {
			return true
		}
	}
	return false
}
