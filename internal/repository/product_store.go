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
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Houssam-Chakir/motoshop-backend/internal/domain"
)

const productCollectionName = "products"

var ErrProductNotFound = errors.New("product not found")

type MongoProductStore struct {
	collection *mongo.Collection
}

func NewMongoProductStore(db *mongo.Database) *MongoProductStore {
	return &MongoProductStore{collection: db.Collection(productCollectionName)}
}

func (s *MongoProductStore) Create(ctx context.Context, product *domain.Product) error {
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	result, err := s.collection.InsertOne(ctx, product)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		product.ID = oid
	}
	log.Printf("Inserted product with ID: %v", result.InsertedID)
	return nil
}

func (s *MongoProductStore) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid id format: %w", err)
	}

	var product domain.Product
	err = s.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &product, nil
}

func (s *MongoProductStore) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	var product domain.Product
	err := s.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by slug: %w", err)
	}
	return &product, nil
}

func (s *MongoProductStore) Update(ctx context.Context, id string, product *domain.Product) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid id format: %w", err)
	}

	update := bson.M{
		"$set": bson.M{
			"name":         product.Name,
			"slug":         product.Slug,
			"sku":          product.SKU,
			"barcode":      product.Barcode,
			"description":  product.Description,
			"brand":        product.Brand,
			"section":      product.Section,
			"retail_price": product.RetailPrice,
			"sale_id":      product.SaleID,
			"category_id":  product.CategoryID,
			"type_id":      product.TypeID,
			"images":       product.Images,
			"updated_at":   time.Now(),
		},
	}

	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrProductNotFound
	}
	log.Printf("Updated product ID: %s, Matched: %d, Modified: %d", id, result.MatchedCount, result.ModifiedCount)
	return nil
}

// LinkStock sets the product's 1:1 stock reference after the stock
// document has been created.
func (s *MongoProductStore) LinkStock(ctx context.Context, productID, stockID primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"stock_id": stockID, "updated_at": time.Now()}}
	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": productID}, update)
	if err != nil {
		return fmt.Errorf("failed to link stock to product: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (s *MongoProductStore) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid id format: %w", err)
	}

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrProductNotFound
	}
	log.Printf("Deleted product ID: %s", id)
	return nil
}

// ProductQuery captures the storefront filter widget state.
type ProductQuery struct {
	Search     string
	CategoryID string
	TypeID     string
	Brand      string
	Section    string
	MinPrice   float64
	MaxPrice   float64
}

// buildProductFilter translates a ProductQuery into a mongo filter
// document. Kept as a pure function so the query shapes are unit
// testable without a live database.
func buildProductFilter(q ProductQuery) bson.M {
	filter := bson.M{}

	if q.Search != "" {
		regex := primitive.Regex{Pattern: q.Search, Options: "i"}
		filter["$or"] = []bson.M{
			{"name": regex},
			{"slug": regex},
			{"brand": regex},
		}
	}
	if q.CategoryID != "" {
		if objID, err := primitive.ObjectIDFromHex(q.CategoryID); err == nil {
			filter["category_id"] = objID
		}
	}
	if q.TypeID != "" {
		if objID, err := primitive.ObjectIDFromHex(q.TypeID); err == nil {
			filter["type_id"] = objID
		}
	}
	if q.Brand != "" {
		filter["brand"] = q.Brand
	}
	if q.Section != "" {
		filter["section"] = q.Section
	}

	price := bson.M{}
	if q.MinPrice > 0 {
		price["$gte"] = q.MinPrice
	}
	if q.MaxPrice > 0 {
		price["$lte"] = q.MaxPrice
	}
	if len(price) > 0 {
		filter["retail_price"] = price
	}

	return filter
}

func (s *MongoProductStore) List(ctx context.Context, q ProductQuery, limit, offset int64) ([]*domain.Product, int64, error) {
	filter := buildProductFilter(q)

	findOptions := options.Find()
	if limit > 0 {
		findOptions.SetLimit(limit)
	}
	if offset > 0 {
		findOptions.SetSkip(offset)
	}
	findOptions.SetSort(bson.D{{Key: "created_at", Value: -1}})

	totalCount, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	cursor, err := s.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []*domain.Product
	if err = cursor.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("failed to decode products: %w", err)
	}

	if products == nil {
		products = []*domain.Product{}
	}
	return products, totalCount, nil
}
