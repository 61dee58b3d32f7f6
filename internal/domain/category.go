package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Category struct {
	ID              primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name            string               `json:"name" bson:"name" binding:"required"`
	Slug            string               `json:"slug" bson:"slug"`
	Section         string               `json:"section" bson:"section"`
	Icon            Image                `json:"icon" bson:"icon"`
	ApplicableTypes []primitive.ObjectID `json:"applicable_types" bson:"applicable_types"`
	CreatedAt       time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at" bson:"updated_at"`
}

// Type belongs to exactly one Category and is created together with it,
// carrying the parent's id as a back-reference.
type Type struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name       string             `json:"name" bson:"name" binding:"required"`
	Slug       string             `json:"slug" bson:"slug"`
	CategoryID primitive.ObjectID `json:"category_id" bson:"category_id"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}
