package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Houssam-Chakir/motoshop-backend/internal/domain"
)

const stockCollectionName = "stocks"

var ErrStockNotFound = errors.New("stock not found")

type MongoStockStore struct {
	collection *mongo.Collection
}

func NewMongoStockStore(db *mongo.Database) *MongoStockStore {
	return &MongoStockStore{collection: db.Collection(stockCollectionName)}
}

func (s *MongoStockStore) Create(ctx context.Context, stock *domain.Stock) error {
	stock.CreatedAt = time.Now()
	stock.UpdatedAt = time.Now()

	result, err := s.collection.InsertOne(ctx, stock)
	if err != nil {
		return fmt.Errorf("failed to insert stock: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		stock.ID = oid
	}
	log.Printf("Inserted stock with ID: %v for product %s", result.InsertedID, stock.ProductID.Hex())
	return nil
}

func (s *MongoStockStore) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Stock, error) {
	var stock domain.Stock
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&stock)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrStockNotFound
		}
		return nil, fmt.Errorf("failed to find stock: %w", err)
	}
	return &stock, nil
}

func (s *MongoStockStore) GetByProductID(ctx context.Context, productID primitive.ObjectID) (*domain.Stock, error) {
	var stock domain.Stock
	err := s.collection.FindOne(ctx, bson.M{"product_id": productID}).Decode(&stock)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrStockNotFound
		}
		return nil, fmt.Errorf("failed to find stock for product: %w", err)
	}
	return &stock, nil
}

// reserveFilter matches the stock document only while the requested size
// still carries at least the requested quantity. The filter doubles as
// the overselling guard; there is no separate read-then-write.
func reserveFilter(stockID primitive.ObjectID, size string, quantity int) bson.M {
	return bson.M{
		"_id": stockID,
		"sizes": bson.M{
			"$elemMatch": bson.M{
				"size":     size,
				"quantity": bson.M{"$gte": quantity},
			},
		},
	}
}

// reserveUpdate decrements the matched size's counter in place.
func reserveUpdate(quantity int) bson.M {
	return bson.M{
		"$inc": bson.M{"sizes.$.quantity": -quantity},
		"$set": bson.M{"updated_at": time.Now()},
	}
}

// Reserve atomically decrements quantity units of one size. It reports
// false, with no effect on the document, when the size does not carry
// enough units. Concurrent reservations racing for the last units are
// serialized by the conditional update itself.
func (s *MongoStockStore) Reserve(ctx context.Context, stockID primitive.ObjectID, size string, quantity int) (bool, error) {
	if quantity <= 0 {
		return false, fmt.Errorf("invalid reservation quantity: %d", quantity)
	}

	result, err := s.collection.UpdateOne(ctx, reserveFilter(stockID, size, quantity), reserveUpdate(quantity))
	if err != nil {
		return false, fmt.Errorf("failed to reserve stock: %w", err)
	}
	if result.ModifiedCount == 0 {
		log.Printf("Reservation rejected for stock %s size %s qty %d", stockID.Hex(), size, quantity)
		return false, nil
	}
	return true, nil
}

// SetSizes replaces the per-size counters wholesale (admin absolute set).
func (s *MongoStockStore) SetSizes(ctx context.Context, stockID primitive.ObjectID, sizes []domain.SizeQuantity) error {
	for _, sq := range sizes {
		if sq.Quantity < 0 {
			return fmt.Errorf("negative quantity for size %q", sq.Size)
		}
	}

	update := bson.M{"$set": bson.M{"sizes": sizes, "updated_at": time.Now()}}
	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": stockID}, update)
	if err != nil {
		return fmt.Errorf("failed to set stock sizes: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrStockNotFound
	}
	return nil
}

func (s *MongoStockStore) DeleteByProductID(ctx context.Context, productID primitive.ObjectID) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{"product_id": productID})
	if err != nil {
		return fmt.Errorf("failed to delete stock: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrStockNotFound
	}
	log.Printf("Deleted stock for product %s", productID.Hex())
	return nil
}
