// Package catalog implements the admin mutation workflows: categories
// with their owned types and icon, products with their owned stock
// document and images. Database writes run in one transaction; asset
// uploads sit outside it and are compensated manually when the
// transaction aborts. An old asset is only ever deleted after the new
// database state has committed.
package catalog

import (
	"context"
	"errors"
	"io"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Houssam-Chakir/motoshop-backend/internal/assets"
	"github.com/Houssam-Chakir/motoshop-backend/internal/domain"
	"github.com/Houssam-Chakir/motoshop-backend/internal/repository"
)

const (
	categoryAssetFolder = "motoshop/categories"
	productAssetFolder  = "motoshop/products"
)

type ErrorCode string

const (
	CodeUnauthorized ErrorCode = "unauthorized"
	CodeValidation   ErrorCode = "validation"
	CodeNotFound     ErrorCode = "not_found"
	CodeUploadFailed ErrorCode = "upload_failed"
	CodeServerError  ErrorCode = "server_error"
)

// Result is the tagged outcome of a mutation. Code distinguishes the
// failure classes so the UI can show a specific message.
type Result struct {
	Success bool      `json:"success"`
	ID      string    `json:"id,omitempty"`
	Code    ErrorCode `json:"code,omitempty"`
	Message string    `json:"message,omitempty"`
}

func ok(id string) Result {
	return Result{Success: true, ID: id}
}

func failure(code ErrorCode, message string) Result {
	return Result{Success: false, Code: code, Message: message}
}

// Actor identifies who is attempting the mutation. Role is checked
// before any side effect.
type Actor struct {
	ID   string
	Role string
}

func (a Actor) isAdmin() bool {
	return a.Role == domain.RoleAdmin
}

type CategoryStore interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	Update(ctx context.Context, id string, category *domain.Category) error
	SetApplicableTypes(ctx context.Context, categoryID primitive.ObjectID, typeIDs []primitive.ObjectID) error
	Delete(ctx context.Context, id string) error
}

type TypeStore interface {
	Create(ctx context.Context, t *domain.Type) error
	Update(ctx context.Context, t *domain.Type) error
	DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) error
	DeleteByCategory(ctx context.Context, categoryID primitive.ObjectID) error
}

type ProductStore interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Update(ctx context.Context, id string, product *domain.Product) error
	LinkStock(ctx context.Context, productID, stockID primitive.ObjectID) error
	Delete(ctx context.Context, id string) error
}

type StockStore interface {
	Create(ctx context.Context, stock *domain.Stock) error
	SetSizes(ctx context.Context, stockID primitive.ObjectID, sizes []domain.SizeQuantity) error
	DeleteByProductID(ctx context.Context, productID primitive.ObjectID) error
}

type Service struct {
	txn        repository.TxnRunner
	categories CategoryStore
	types      TypeStore
	products   ProductStore
	stocks     StockStore
	assets     assets.Store
}

func NewService(txn repository.TxnRunner, categories CategoryStore, types TypeStore, products ProductStore, stocks StockStore, assetStore assets.Store) *Service {
	return &Service{
		txn:        txn,
		categories: categories,
		types:      types,
		products:   products,
		stocks:     stocks,
		assets:     assetStore,
	}
}

// TypeInput is one owned type in a category payload. A present ID marks
// an existing type to keep; an empty ID marks a new one.
type TypeInput struct {
	ID   string `json:"id"`
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug"`
}

type CategoryInput struct {
	Name    string      `json:"name"`
	Slug    string      `json:"slug"`
	Section string      `json:"section"`
	Types   []TypeInput `json:"types"`

	// IconFile is a newly uploaded icon; ExistingIcon reuses an asset
	// already hosted. Exactly one is expected on create.
	IconFile     io.Reader     `json:"-"`
	ExistingIcon *domain.Image `json:"existing_icon,omitempty"`
}

// CreateCategory uploads the icon, then writes the category and its
// owned types in one transaction. If any write fails the transaction is
// aborted and the uploaded icon is deleted best-effort.
func (s *Service) CreateCategory(ctx context.Context, actor Actor, input CategoryInput) Result {
	if !actor.isAdmin() {
		return failure(CodeUnauthorized, "admin role required")
	}
	if input.Name == "" {
		return failure(CodeValidation, "category name is required")
	}
	if input.IconFile == nil && input.ExistingIcon == nil {
		return failure(CodeValidation, "category icon is required")
	}

	var comp saga

	icon, res := s.resolveAsset(ctx, &comp, input.IconFile, input.ExistingIcon, categoryAssetFolder)
	if res != nil {
		return *res
	}

	category := &domain.Category{
		Name:    input.Name,
		Slug:    input.Slug,
		Section: input.Section,
		Icon:    icon,
	}

	err := s.txn.Run(ctx, func(ctx context.Context) error {
		if err := s.categories.Create(ctx, category); err != nil {
			return err
		}
		typeIDs := make([]primitive.ObjectID, 0, len(input.Types))
		for _, ti := range input.Types {
			t := &domain.Type{Name: ti.Name, Slug: ti.Slug, CategoryID: category.ID}
			if err := s.types.Create(ctx, t); err != nil {
				return err
			}
			typeIDs = append(typeIDs, t.ID)
		}
		return s.categories.SetApplicableTypes(ctx, category.ID, typeIDs)
	})
	if err != nil {
		log.Printf("Category creation failed, compensating: %v", err)
		comp.compensate(ctx)
		if errors.Is(err, repository.ErrCategoryAlreadyExists) {
			return failure(CodeValidation, err.Error())
		}
		return failure(CodeServerError, "failed to create category")
	}

	return ok(category.ID.Hex())
}

// UpdateCategory replaces the category's fields, reconciles its owned
// types and optionally swaps the icon. A new icon is uploaded before the
// database write; the old icon is deleted only after the transaction
// commits, so the persisted record always resolves to a live asset.
func (s *Service) UpdateCategory(ctx context.Context, actor Actor, id string, input CategoryInput) Result {
	if !actor.isAdmin() {
		return failure(CodeUnauthorized, "admin role required")
	}
	if input.Name == "" {
		return failure(CodeValidation, "category name is required")
	}

	existing, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return failure(CodeNotFound, "category not found")
		}
		return failure(CodeServerError, "failed to load category")
	}

	var comp saga
	icon := existing.Icon
	replacingIcon := false

	if input.IconFile != nil {
		uploaded, err := s.assets.Upload(ctx, input.IconFile, categoryAssetFolder, "")
		if err != nil {
			log.Printf("Icon upload failed for category %s: %v", id, err)
			return failure(CodeUploadFailed, "failed to upload category icon")
		}
		comp.push("delete new icon "+uploaded.PublicID, func(ctx context.Context) error {
			_, err := s.assets.Delete(ctx, uploaded.PublicID)
			return err
		})
		icon = domain.Image{PublicID: uploaded.PublicID, SecureURL: uploaded.SecureURL}
		replacingIcon = true
	}

	updated := &domain.Category{
		Name:    input.Name,
		Slug:    input.Slug,
		Section: input.Section,
		Icon:    icon,
	}

	err = s.txn.Run(ctx, func(ctx context.Context) error {
		if err := s.categories.Update(ctx, id, updated); err != nil {
			return err
		}

		kept := make(map[primitive.ObjectID]bool)
		typeIDs := make([]primitive.ObjectID, 0, len(input.Types))
		for _, ti := range input.Types {
			if ti.ID != "" {
				objID, err := primitive.ObjectIDFromHex(ti.ID)
				if err != nil {
					return err
				}
				t := &domain.Type{ID: objID, Name: ti.Name, Slug: ti.Slug, CategoryID: existing.ID}
				if err := s.types.Update(ctx, t); err != nil {
					return err
				}
				kept[objID] = true
				typeIDs = append(typeIDs, objID)
				continue
			}
			t := &domain.Type{Name: ti.Name, Slug: ti.Slug, CategoryID: existing.ID}
			if err := s.types.Create(ctx, t); err != nil {
				return err
			}
			typeIDs = append(typeIDs, t.ID)
		}

		var removed []primitive.ObjectID
		for _, tid := range existing.ApplicableTypes {
			if !kept[tid] {
				removed = append(removed, tid)
			}
		}
		if err := s.types.DeleteByIDs(ctx, removed); err != nil {
			return err
		}

		return s.categories.SetApplicableTypes(ctx, existing.ID, typeIDs)
	})
	if err != nil {
		log.Printf("Category update failed, compensating: %v", err)
		comp.compensate(ctx)
		switch {
		case errors.Is(err, repository.ErrCategoryAlreadyExists):
			return failure(CodeValidation, err.Error())
		case errors.Is(err, repository.ErrTypeNotFound):
			return failure(CodeNotFound, "category type not found")
		default:
			return failure(CodeServerError, "failed to update category")
		}
	}

	if replacingIcon && existing.Icon.PublicID != "" && existing.Icon.PublicID != icon.PublicID {
		if _, err := s.assets.Delete(ctx, existing.Icon.PublicID); err != nil {
			log.Printf("Failed to delete replaced icon %s: %v", existing.Icon.PublicID, err)
		}
	}

	return ok(id)
}

// DeleteCategory removes the category and its owned types, then deletes
// the icon asset best-effort after the transaction commits.
func (s *Service) DeleteCategory(ctx context.Context, actor Actor, id string) Result {
	if !actor.isAdmin() {
		return failure(CodeUnauthorized, "admin role required")
	}

	existing, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return failure(CodeNotFound, "category not found")
		}
		return failure(CodeServerError, "failed to load category")
	}

	err = s.txn.Run(ctx, func(ctx context.Context) error {
		if err := s.types.DeleteByCategory(ctx, existing.ID); err != nil {
			return err
		}
		return s.categories.Delete(ctx, id)
	})
	if err != nil {
		log.Printf("Category deletion failed: %v", err)
		return failure(CodeServerError, "failed to delete category")
	}

	if existing.Icon.PublicID != "" {
		if _, err := s.assets.Delete(ctx, existing.Icon.PublicID); err != nil {
			log.Printf("Failed to delete icon %s of removed category %s: %v", existing.Icon.PublicID, id, err)
		}
	}

	return ok(id)
}

// resolveAsset uploads a new file when provided, registering its
// compensation, or falls back to the supplied existing reference.
func (s *Service) resolveAsset(ctx context.Context, comp *saga, file io.Reader, existing *domain.Image, folder string) (domain.Image, *Result) {
	if file == nil {
		return *existing, nil
	}

	uploaded, err := s.assets.Upload(ctx, file, folder, "")
	if err != nil {
		log.Printf("Asset upload failed: %v", err)
		res := failure(CodeUploadFailed, "failed to upload asset")
		return domain.Image{}, &res
	}
	comp.push("delete uploaded asset "+uploaded.PublicID, func(ctx context.Context) error {
		_, err := s.assets.Delete(ctx, uploaded.PublicID)
		return err
	})
	return domain.Image{PublicID: uploaded.PublicID, SecureURL: uploaded.SecureURL}, nil
}
