package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SizeQuantity struct {
	Size     string `json:"size" bson:"size" binding:"required"`
	Quantity int    `json:"quantity" bson:"quantity" binding:"gte=0"`
}

// Stock is owned 1:1 by a Product and holds per-size availability
// counters. Quantities never go negative; the repository enforces that
// with a conditional decrement rather than a read-then-write.
type Stock struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProductID primitive.ObjectID `json:"product_id" bson:"product_id"`
	Sizes     []SizeQuantity     `json:"sizes" bson:"sizes"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// QuantityFor returns the available quantity for a size, or 0 when the
// size is not carried.
func (s *Stock) QuantityFor(size string) int {
	for _, sq := range s.Sizes {
		if sq.Size == size {
			return sq.Quantity
		}
	}
	return 0
}
