package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStock_QuantityFor(t *testing.T) {
	stock := &Stock{Sizes: []SizeQuantity{
		{Size: "M", Quantity: 3},
		{Size: "L", Quantity: 0},
	}}

	assert.Equal(t, 3, stock.QuantityFor("M"))
	assert.Equal(t, 0, stock.QuantityFor("L"))
	assert.Equal(t, 0, stock.QuantityFor("XXL"))
}

func TestPaymentStatusFor(t *testing.T) {
	assert.Equal(t, PaymentPaid, PaymentStatusFor(PaymentCMI))
	assert.Equal(t, PaymentPending, PaymentStatusFor(PaymentDelivery))
	assert.Equal(t, PaymentPending, PaymentStatusFor(PaymentPickup))
}

func TestNewTrackingNumber(t *testing.T) {
	first := NewTrackingNumber()
	second := NewTrackingNumber()

	assert.True(t, strings.HasPrefix(first, "MTS-"))
	assert.Len(t, first, len("MTS-")+12)
	assert.Equal(t, strings.ToUpper(first), first)
	assert.NotEqual(t, first, second)
}

func TestSale_Covers(t *testing.T) {
	productID := primitive.NewObjectID()
	categoryID := primitive.NewObjectID()

	global := &Sale{}
	assert.True(t, global.Covers(productID, categoryID))

	scoped := &Sale{ApplicableProducts: []primitive.ObjectID{productID}}
	assert.True(t, scoped.Covers(productID, categoryID))
	assert.False(t, scoped.Covers(primitive.NewObjectID(), categoryID))

	byCategory := &Sale{ApplicableCategories: []primitive.ObjectID{categoryID}}
	assert.True(t, byCategory.Covers(productID, categoryID))
	assert.False(t, byCategory.Covers(productID, primitive.NewObjectID()))
}

func TestSale_AppliesAt(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sale := &Sale{
		IsActive:  true,
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(time.Hour),
	}

	assert.True(t, sale.AppliesAt(now))
	assert.False(t, sale.AppliesAt(now.Add(2*time.Hour)))

	sale.IsActive = false
	assert.False(t, sale.AppliesAt(now))

	var nilSale *Sale
	assert.False(t, nilSale.AppliesAt(now))
}
