package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

type User struct {
	ID        primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name      string               `json:"name" bson:"name"`
	Email     string               `json:"email" bson:"email" binding:"required,email"`
	Role      string               `json:"role" bson:"role"`
	Wishlist  []primitive.ObjectID `json:"wishlist" bson:"wishlist"`
	CartID    *primitive.ObjectID  `json:"cart_id,omitempty" bson:"cart_id,omitempty"`
	CreatedAt time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time            `json:"updated_at" bson:"updated_at"`
}

type CartItem struct {
	ProductID primitive.ObjectID `json:"product_id" bson:"product_id" binding:"required"`
	Size      string             `json:"size" bson:"size" binding:"required"`
	Quantity  int                `json:"quantity" bson:"quantity" binding:"required,gt=0"`
}

// Cart is the server-side cart of an authenticated user. Guest carts live
// entirely on the client with the same item shape.
type Cart struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    string             `json:"user_id" bson:"user_id"`
	Items     []CartItem         `json:"items" bson:"items"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}
