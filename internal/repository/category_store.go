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

const (
	categoryCollectionName = "categories"
	typeCollectionName     = "types"
)

var (
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryAlreadyExists = errors.New("category with this name already exists")
	ErrTypeNotFound          = errors.New("type not found")
)

type MongoCategoryStore struct {
	collection *mongo.Collection
}

func NewMongoCategoryStore(db *mongo.Database) *MongoCategoryStore {
	return &MongoCategoryStore{collection: db.Collection(categoryCollectionName)}
}

func (s *MongoCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	category.CreatedAt = time.Now()
	category.UpdatedAt = time.Now()

	result, err := s.collection.InsertOne(ctx, category)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrCategoryAlreadyExists
		}
		return fmt.Errorf("failed to insert category: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		category.ID = oid
	}
	log.Printf("Inserted category with ID: %v", result.InsertedID)
	return nil
}

func (s *MongoCategoryStore) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid id format: %w", err)
	}

	var category domain.Category
	err = s.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return &category, nil
}

func (s *MongoCategoryStore) Update(ctx context.Context, id string, category *domain.Category) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid id format: %w", err)
	}

	update := bson.M{
		"$set": bson.M{
			"name":       category.Name,
			"slug":       category.Slug,
			"section":    category.Section,
			"icon":       category.Icon,
			"updated_at": time.Now(),
		},
	}

	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrCategoryAlreadyExists
		}
		return fmt.Errorf("failed to update category: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrCategoryNotFound
	}
	log.Printf("Updated category ID: %s, Matched: %d, Modified: %d", id, result.MatchedCount, result.ModifiedCount)
	return nil
}

// SetApplicableTypes rewrites the category's owned type references after
// its Type documents have been written.
func (s *MongoCategoryStore) SetApplicableTypes(ctx context.Context, categoryID primitive.ObjectID, typeIDs []primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"applicable_types": typeIDs, "updated_at": time.Now()}}
	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": categoryID}, update)
	if err != nil {
		return fmt.Errorf("failed to set applicable types: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (s *MongoCategoryStore) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid id format: %w", err)
	}

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrCategoryNotFound
	}
	log.Printf("Deleted category ID: %s", id)
	return nil
}

func (s *MongoCategoryStore) List(ctx context.Context) ([]*domain.Category, error) {
	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer cursor.Close(ctx)

	var categories []*domain.Category
	if err = cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	if categories == nil {
		categories = []*domain.Category{}
	}
	return categories, nil
}

type MongoTypeStore struct {
	collection *mongo.Collection
}

func NewMongoTypeStore(db *mongo.Database) *MongoTypeStore {
	return &MongoTypeStore{collection: db.Collection(typeCollectionName)}
}

func (s *MongoTypeStore) Create(ctx context.Context, t *domain.Type) error {
	if t.CategoryID.IsZero() {
		return fmt.Errorf("type %q is missing its parent category id", t.Name)
	}
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()

	result, err := s.collection.InsertOne(ctx, t)
	if err != nil {
		return fmt.Errorf("failed to insert type: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		t.ID = oid
	}
	return nil
}

func (s *MongoTypeStore) Update(ctx context.Context, t *domain.Type) error {
	update := bson.M{"$set": bson.M{"name": t.Name, "slug": t.Slug, "updated_at": time.Now()}}
	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": t.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update type: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrTypeNotFound
	}
	return nil
}

func (s *MongoTypeStore) ListByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]*domain.Type, error) {
	cursor, err := s.collection.Find(ctx, bson.M{"category_id": categoryID})
	if err != nil {
		return nil, fmt.Errorf("failed to list types: %w", err)
	}
	defer cursor.Close(ctx)

	var types []*domain.Type
	if err = cursor.All(ctx, &types); err != nil {
		return nil, fmt.Errorf("failed to decode types: %w", err)
	}
	if types == nil {
		types = []*domain.Type{}
	}
	return types, nil
}

func (s *MongoTypeStore) DeleteByCategory(ctx context.Context, categoryID primitive.ObjectID) error {
	_, err := s.collection.DeleteMany(ctx, bson.M{"category_id": categoryID})
	if err != nil {
		return fmt.Errorf("failed to delete types for category: %w", err)
	}
	return nil
}

func (s *MongoTypeStore) DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return fmt.Errorf("failed to delete types: %w", err)
	}
	return nil
}
