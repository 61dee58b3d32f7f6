package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentMethod string

const (
	PaymentCMI      PaymentMethod = "cmi"
	PaymentDelivery PaymentMethod = "delivery"
	PaymentPickup   PaymentMethod = "pickup"
)

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
)

type DeliveryStatus string

const (
	DeliveryProcessing DeliveryStatus = "processing"
	DeliveryShipped    DeliveryStatus = "shipped"
	DeliveryDelivered  DeliveryStatus = "delivered"
	DeliveryCancelled  DeliveryStatus = "cancelled"
)

// PaymentStatusFor derives the initial payment status from the chosen
// method: card payments through CMI are captured up front, everything
// else is settled later.
func PaymentStatusFor(method PaymentMethod) PaymentStatus {
	if method == PaymentCMI {
		return PaymentPaid
	}
	return PaymentPending
}

// OrderItem is a snapshot of one cart line at order-creation time. Unit
// and total prices are server-computed and authoritative from the moment
// the order commits.
type OrderItem struct {
	ProductID  primitive.ObjectID `json:"product_id" bson:"product_id"`
	Name       string             `json:"name" bson:"name"`
	Slug       string             `json:"slug" bson:"slug"`
	Size       string             `json:"size" bson:"size"`
	Quantity   int                `json:"quantity" bson:"quantity"`
	UnitPrice  float64            `json:"unit_price" bson:"unit_price"`
	TotalPrice float64            `json:"total_price" bson:"total_price"`
}

type DeliveryInformation struct {
	FullName        string `json:"full_name" bson:"full_name" binding:"required"`
	PhoneNumber     string `json:"phone_number" bson:"phone_number" binding:"required"`
	Email           string `json:"email" bson:"email"`
	City            string `json:"city" bson:"city" binding:"required"`
	Address         string `json:"address" bson:"address" binding:"required"`
	Zipcode         string `json:"zipcode" bson:"zipcode"`
	ExtraDirections string `json:"extra_directions" bson:"extra_directions"`
}

type Order struct {
	ID                  primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	UserID              string              `json:"user_id" bson:"user_id"`
	Products            []OrderItem         `json:"products" bson:"products"`
	DeliveryFee         float64             `json:"delivery_fee" bson:"delivery_fee"`
	OrderTotalPrice     float64             `json:"order_total_price" bson:"order_total_price"`
	PaymentMethod       PaymentMethod       `json:"payment_method" bson:"payment_method"`
	PaymentStatus       PaymentStatus       `json:"payment_status" bson:"payment_status"`
	DeliveryStatus      DeliveryStatus      `json:"delivery_status" bson:"delivery_status"`
	TrackingNumber      string              `json:"tracking_number" bson:"tracking_number"`
	DeliveryInformation DeliveryInformation `json:"delivery_information" bson:"delivery_information"`
	Notes               string              `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt           time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at" bson:"updated_at"`
}

// NewTrackingNumber generates a customer-facing tracking identifier.
func NewTrackingNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "MTS-" + suffix[:12]
}
