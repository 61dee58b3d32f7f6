package catalog

import (
	"context"
	"errors"
	"io"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Houssam-Chakir/motoshop-backend/internal/domain"
	"github.com/Houssam-Chakir/motoshop-backend/internal/repository"
)

type ProductInput struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	SKU         string  `json:"sku"`
	Barcode     string  `json:"barcode"`
	Description string  `json:"description"`
	Brand       string  `json:"brand"`
	Section     string  `json:"section"`
	RetailPrice float64 `json:"retail_price"`
	CategoryID  string  `json:"category_id"`
	TypeID      string  `json:"type_id"`
	SaleID      string  `json:"sale_id"`

	Sizes []domain.SizeQuantity `json:"sizes"`

	// ImageFile is a newly uploaded product image; ExistingImages keeps
	// already hosted assets.
	ImageFile      io.Reader      `json:"-"`
	ExistingImages []domain.Image `json:"existing_images,omitempty"`
}

func (in ProductInput) validate() string {
	if in.Name == "" {
		return "product name is required"
	}
	if in.RetailPrice <= 0 {
		return "retail price must be positive"
	}
	if in.CategoryID == "" {
		return "product category is required"
	}
	for _, sq := range in.Sizes {
		if sq.Size == "" || sq.Quantity < 0 {
			return "invalid stock size entry"
		}
	}
	return ""
}

func (in ProductInput) toDomain() (*domain.Product, error) {
	categoryID, err := primitive.ObjectIDFromHex(in.CategoryID)
	if err != nil {
		return nil, err
	}

	product := &domain.Product{
		Name:        in.Name,
		Slug:        in.Slug,
		SKU:         in.SKU,
		Barcode:     in.Barcode,
		Description: in.Description,
		Brand:       in.Brand,
		Section:     in.Section,
		RetailPrice: in.RetailPrice,
		CategoryID:  categoryID,
		Images:      in.ExistingImages,
	}
	if in.TypeID != "" {
		typeID, err := primitive.ObjectIDFromHex(in.TypeID)
		if err != nil {
			return nil, err
		}
		product.TypeID = typeID
	}
	if in.SaleID != "" {
		saleID, err := primitive.ObjectIDFromHex(in.SaleID)
		if err != nil {
			return nil, err
		}
		product.SaleID = &saleID
	}
	return product, nil
}

// CreateProduct uploads the product image, then inserts the product, its
// owned stock document and the stock back-reference in one transaction.
// The uploaded image is deleted best-effort when the transaction aborts.
func (s *Service) CreateProduct(ctx context.Context, actor Actor, input ProductInput) Result {
	if !actor.isAdmin() {
		return failure(CodeUnauthorized, "admin role required")
	}
	if msg := input.validate(); msg != "" {
		return failure(CodeValidation, msg)
	}

	product, err := input.toDomain()
	if err != nil {
		return failure(CodeValidation, "malformed reference id")
	}

	var comp saga

	if input.ImageFile != nil {
		uploaded, err := s.assets.Upload(ctx, input.ImageFile, productAssetFolder, "")
		if err != nil {
			log.Printf("Product image upload failed: %v", err)
			return failure(CodeUploadFailed, "failed to upload product image")
		}
		comp.push("delete uploaded image "+uploaded.PublicID, func(ctx context.Context) error {
			_, err := s.assets.Delete(ctx, uploaded.PublicID)
			return err
		})
		product.Images = append(product.Images, domain.Image{PublicID: uploaded.PublicID, SecureURL: uploaded.SecureURL})
	}

	err = s.txn.Run(ctx, func(ctx context.Context) error {
		if err := s.products.Create(ctx, product); err != nil {
			return err
		}
		stock := &domain.Stock{ProductID: product.ID, Sizes: input.Sizes}
		if err := s.stocks.Create(ctx, stock); err != nil {
			return err
		}
		// the back-reference is what makes the stock reachable from the
		// order path; a failure here must sink the whole creation
		if err := s.products.LinkStock(ctx, product.ID, stock.ID); err != nil {
			return err
		}
		product.StockID = stock.ID
		return nil
	})
	if err != nil {
		log.Printf("Product creation failed, compensating: %v", err)
		comp.compensate(ctx)
		return failure(CodeServerError, "failed to create product")
	}

	return ok(product.ID.Hex())
}

// UpdateProduct rewrites the product's fields and sets its stock
// counters absolutely. Image replacement follows the same ordering as
// category icons: upload first, delete the old copy only after commit.
func (s *Service) UpdateProduct(ctx context.Context, actor Actor, id string, input ProductInput) Result {
	if !actor.isAdmin() {
		return failure(CodeUnauthorized, "admin role required")
	}
	if msg := input.validate(); msg != "" {
		return failure(CodeValidation, msg)
	}

	existing, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return failure(CodeNotFound, "product not found")
		}
		return failure(CodeServerError, "failed to load product")
	}

	product, err := input.toDomain()
	if err != nil {
		return failure(CodeValidation, "malformed reference id")
	}

	var comp saga
	var newImage *domain.Image

	if input.ImageFile != nil {
		uploaded, err := s.assets.Upload(ctx, input.ImageFile, productAssetFolder, "")
		if err != nil {
			log.Printf("Product image upload failed for %s: %v", id, err)
			return failure(CodeUploadFailed, "failed to upload product image")
		}
		comp.push("delete new image "+uploaded.PublicID, func(ctx context.Context) error {
			_, err := s.assets.Delete(ctx, uploaded.PublicID)
			return err
		})
		newImage = &domain.Image{PublicID: uploaded.PublicID, SecureURL: uploaded.SecureURL}
		product.Images = append(product.Images, *newImage)
	}

	err = s.txn.Run(ctx, func(ctx context.Context) error {
		if err := s.products.Update(ctx, id, product); err != nil {
			return err
		}
		if len(input.Sizes) == 0 {
			return nil
		}
		if existing.StockID.IsZero() {
			// legacy product without a stock document: create and link
			stock := &domain.Stock{ProductID: existing.ID, Sizes: input.Sizes}
			if err := s.stocks.Create(ctx, stock); err != nil {
				return err
			}
			return s.products.LinkStock(ctx, existing.ID, stock.ID)
		}
		return s.stocks.SetSizes(ctx, existing.StockID, input.Sizes)
	})
	if err != nil {
		log.Printf("Product update failed, compensating: %v", err)
		comp.compensate(ctx)
		if errors.Is(err, repository.ErrStockNotFound) {
			return failure(CodeNotFound, "product stock not found")
		}
		return failure(CodeServerError, "failed to update product")
	}

	// only after commit: remove images the update dropped, whether or
	// not a new one replaced them
	kept := make(map[string]bool, len(product.Images))
	for _, img := range product.Images {
		kept[img.PublicID] = true
	}
	for _, img := range existing.Images {
		if img.PublicID != "" && !kept[img.PublicID] {
			if _, err := s.assets.Delete(ctx, img.PublicID); err != nil {
				log.Printf("Failed to delete dropped image %s: %v", img.PublicID, err)
			}
		}
	}

	return ok(id)
}

// DeleteProduct removes the product and its stock document, then deletes
// its hosted images best-effort.
func (s *Service) DeleteProduct(ctx context.Context, actor Actor, id string) Result {
	if !actor.isAdmin() {
		return failure(CodeUnauthorized, "admin role required")
	}

	existing, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return failure(CodeNotFound, "product not found")
		}
		return failure(CodeServerError, "failed to load product")
	}

	err = s.txn.Run(ctx, func(ctx context.Context) error {
		if err := s.stocks.DeleteByProductID(ctx, existing.ID); err != nil && !errors.Is(err, repository.ErrStockNotFound) {
			return err
		}
		return s.products.Delete(ctx, id)
	})
	if err != nil {
		log.Printf("Product deletion failed: %v", err)
		return failure(CodeServerError, "failed to delete product")
	}

	for _, img := range existing.Images {
		if img.PublicID == "" {
			continue
		}
		if _, err := s.assets.Delete(ctx, img.PublicID); err != nil {
			log.Printf("Failed to delete image %s of removed product %s: %v", img.PublicID, id, err)
		}
	}

	return ok(id)
}
