package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Houssam-Chakir/motoshop-backend/internal/domain"
)

const (
	userCollectionName = "users"
	cartCollectionName = "carts"
)

var ErrUserNotFound = errors.New("user not found")

type MongoUserStore struct {
	collection *mongo.Collection
}

func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{collection: db.Collection(userCollectionName)}
}

func (s *MongoUserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid id format: %w", err)
	}

	var user domain.User
	err = s.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// AddToWishlist inserts the product reference once; re-adding an already
// wishlisted product is a no-op.
func (s *MongoUserStore) AddToWishlist(ctx context.Context, userID string, productID primitive.ObjectID) error {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("invalid id format: %w", err)
	}

	update := bson.M{
		"$addToSet": bson.M{"wishlist": productID},
		"$set":      bson.M{"updated_at": time.Now()},
	}
	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return fmt.Errorf("failed to add to wishlist: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *MongoUserStore) RemoveFromWishlist(ctx context.Context, userID string, productID primitive.ObjectID) error {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("invalid id format: %w", err)
	}

	update := bson.M{
		"$pull": bson.M{"wishlist": productID},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return fmt.Errorf("failed to remove from wishlist: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

type MongoCartStore struct {
	collection *mongo.Collection
}

func NewMongoCartStore(db *mongo.Database) *MongoCartStore {
	return &MongoCartStore{collection: db.Collection(cartCollectionName)}
}

func (s *MongoCartStore) GetByUserID(ctx context.Context, userID string) (*domain.Cart, error) {
	var cart domain.Cart
	err := s.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &domain.Cart{UserID: userID, Items: []domain.CartItem{}}, nil
		}
		return nil, fmt.Errorf("failed to find cart: %w", err)
	}
	return &cart, nil
}

// Replace overwrites the user's cart with the submitted items, creating
// the cart document on first use. The client-held guest cart is merged
// this way at login.
func (s *MongoCartStore) Replace(ctx context.Context, userID string, items []domain.CartItem) error {
	update := bson.M{
		"$set": bson.M{
			"items":      items,
			"updated_at": time.Now(),
		},
		"$setOnInsert": bson.M{
			"user_id":    userID,
			"created_at": time.Now(),
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := s.collection.UpdateOne(ctx, bson.M{"user_id": userID}, update, opts)
	if err != nil {
		return fmt.Errorf("failed to replace cart: %w", err)
	}
	return nil
}

func (s *MongoCartStore) Clear(ctx context.Context, userID string) error {
	update := bson.M{"$set": bson.M{"items": []domain.CartItem{}, "updated_at": time.Now()}}
	_, err := s.collection.UpdateOne(ctx, bson.M{"user_id": userID}, update)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
