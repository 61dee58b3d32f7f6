package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Image is a reference to an asset hosted on the image CDN.
type Image struct {
	PublicID  string `json:"public_id" bson:"public_id"`
	SecureURL string `json:"secure_url" bson:"secure_url"`
}

type Product struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Name        string              `json:"name" bson:"name" binding:"required"`
	Slug        string              `json:"slug" bson:"slug"`
	SKU         string              `json:"sku" bson:"sku"`
	Barcode     string              `json:"barcode" bson:"barcode"`
	Description string              `json:"description" bson:"description"`
	Brand       string              `json:"brand" bson:"brand"`
	Section     string              `json:"section" bson:"section"`
	RetailPrice float64             `json:"retail_price" bson:"retail_price" binding:"required,gt=0"`
	SaleID      *primitive.ObjectID `json:"sale_id,omitempty" bson:"sale_id,omitempty"`
	StockID     primitive.ObjectID  `json:"stock_id" bson:"stock_id,omitempty"`
	CategoryID  primitive.ObjectID  `json:"category_id" bson:"category_id"`
	TypeID      primitive.ObjectID  `json:"type_id" bson:"type_id,omitempty"`
	Images      []Image             `json:"images" bson:"images"`
	CreatedAt   time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at" bson:"updated_at"`

	// SalePrice is derived from RetailPrice and the linked Sale at read
	// time. It is never persisted.
	SalePrice float64 `json:"sale_price,omitempty" bson:"-"`
}
