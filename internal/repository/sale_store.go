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

const saleCollectionName = "sales"

var ErrSaleNotFound = errors.New("sale not found")

type MongoSaleStore struct {
	collection *mongo.Collection
}

func NewMongoSaleStore(db *mongo.Database) *MongoSaleStore {
	return &MongoSaleStore{collection: db.Collection(saleCollectionName)}
}

func (s *MongoSaleStore) Create(ctx context.Context, sale *domain.Sale) error {
	sale.CreatedAt = time.Now()
	sale.UpdatedAt = time.Now()

	result, err := s.collection.InsertOne(ctx, sale)
	if err != nil {
		return fmt.Errorf("failed to insert sale: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		sale.ID = oid
	}
	log.Printf("Inserted sale with ID: %v", result.InsertedID)
	return nil
}

// GetByID returns the sale regardless of its window; callers decide
// applicability through Sale.AppliesAt.
func (s *MongoSaleStore) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Sale, error) {
	var sale domain.Sale
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&sale)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to find sale: %w", err)
	}
	return &sale, nil
}

func (s *MongoSaleStore) Update(ctx context.Context, id string, sale *domain.Sale) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid id format: %w", err)
	}

	update := bson.M{
		"$set": bson.M{
			"name":                  sale.Name,
			"discount_type":         sale.DiscountType,
			"discount_value":        sale.DiscountValue,
			"is_active":             sale.IsActive,
			"start_date":            sale.StartDate,
			"end_date":              sale.EndDate,
			"applicable_products":   sale.ApplicableProducts,
			"applicable_categories": sale.ApplicableCategories,
			"updated_at":            time.Now(),
		},
	}

	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return fmt.Errorf("failed to update sale: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrSaleNotFound
	}
	return nil
}

// ListActive returns sales whose window contains now and which are
// flagged active. Used by the storefront's sale banners.
func (s *MongoSaleStore) ListActive(ctx context.Context, now time.Time) ([]*domain.Sale, error) {
	filter := bson.M{
		"is_active":  true,
		"start_date": bson.M{"$lte": now},
		"end_date":   bson.M{"$gte": now},
	}

	cursor, err := s.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list active sales: %w", err)
	}
	defer cursor.Close(ctx)

	var sales []*domain.Sale
	if err = cursor.All(ctx, &sales); err != nil {
		return nil, fmt.Errorf("failed to decode sales: %w", err)
	}
	if sales == nil {
		sales = []*domain.Sale{}
	}
	return sales, nil
}

func (s *MongoSaleStore) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid id format: %w", err)
	}

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrSaleNotFound
	}
	return nil
}
