package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Houssam-Chakir/motoshop-backend/internal/catalog"
	"github.com/Houssam-Chakir/motoshop-backend/internal/clock"
	"github.com/Houssam-Chakir/motoshop-backend/internal/domain"
	"github.com/Houssam-Chakir/motoshop-backend/internal/pricing"
	"github.com/Houssam-Chakir/motoshop-backend/internal/repository"
)

type ProductHandler struct {
	products *repository.MongoProductStore
	stocks   *repository.MongoStockStore
	sales    *repository.MongoSaleStore
	catalog  *catalog.Service
	auth     AuthConfig
	clk      clock.Clock
}

func NewProductHandler(products *repository.MongoProductStore, stocks *repository.MongoStockStore, sales *repository.MongoSaleStore, catalogSvc *catalog.Service, auth AuthConfig, clk clock.Clock) *ProductHandler {
	return &ProductHandler{
		products: products,
		stocks:   stocks,
		sales:    sales,
		catalog:  catalogSvc,
		auth:     auth,
		clk:      clk,
	}
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "20")
	offsetStr := c.DefaultQuery("offset", "0")
	limit, errL := strconv.ParseInt(limitStr, 10, 64)
	offset, errO := strconv.ParseInt(offsetStr, 10, 64)
	if errL != nil || errO != nil || limit <= 0 || offset < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pagination parameters"})
		return
	}
	if limit > 100 {
		limit = 100
	}

	minPrice, _ := strconv.ParseFloat(c.Query("min_price"), 64)
	maxPrice, _ := strconv.ParseFloat(c.Query("max_price"), 64)

	query := repository.ProductQuery{
		Search:     c.Query("search"),
		CategoryID: c.Query("category_id"),
		TypeID:     c.Query("type_id"),
		Brand:      c.Query("brand"),
		Section:    c.Query("section"),
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
	}

	products, total, err := h.products.List(c.Request.Context(), query, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list products: " + err.Error()})
		return
	}

	h.attachSalePrices(c, products)

	c.JSON(http.StatusOK, gin.H{
		"data": products,
		"pagination": gin.H{
			"total":  total,
			"limit":  limit,
			"offset": offset,
		},
	})
}

// attachSalePrices fills the derived SalePrice on the display path. This
// is the approximate resolver call; the order transaction recomputes
// authoritatively from its own snapshot.
func (h *ProductHandler) attachSalePrices(c *gin.Context, products []*domain.Product) {
	now := h.clk.Now()
	salesByID := map[string]*domain.Sale{}
	for _, p := range products {
		if p.SaleID == nil {
			continue
		}
		sale, seen := salesByID[p.SaleID.Hex()]
		if !seen {
			var err error
			sale, err = h.sales.GetByID(c.Request.Context(), *p.SaleID)
			if err != nil {
				continue
			}
			salesByID[p.SaleID.Hex()] = sale
		}
		if sale.AppliesAt(now) && sale.Covers(p.ID, p.CategoryID) {
			p.SalePrice = pricing.EffectivePrice(p.RetailPrice, sale, now)
		}
	}
}

func (h *ProductHandler) GetProductByID(c *gin.Context) {
	id := c.Param("id")
	product, err := h.products.GetByID(c.Request.Context(), id)
	if isInvalidID(err) {
		// product pages link by slug as well as by id
		product, err = h.products.GetBySlug(c.Request.Context(), id)
	}
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product: " + err.Error()})
		}
		return
	}

	h.attachSalePrices(c, []*domain.Product{product})

	var stock *domain.Stock
	if !product.StockID.IsZero() {
		stock, err = h.stocks.GetByID(c.Request.Context(), product.StockID)
	} else {
		// older products may predate the back-reference
		stock, err = h.stocks.GetByProductID(c.Request.Context(), product.ID)
	}
	if err != nil {
		if !errors.Is(err, repository.ErrStockNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve stock: " + err.Error()})
			return
		}
		stock = nil
	}

	c.JSON(http.StatusOK, gin.H{"product": product, "stock": stock})
}

// bindProductInput reads the admin multipart payload. Scalar fields come
// as form values, sizes and existing images as JSON-encoded fields, the
// new image under the "image" file key.
func bindProductInput(c *gin.Context) (catalog.ProductInput, bool) {
	if err := c.Request.ParseMultipartForm(20 << 20); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form: " + err.Error()})
		return catalog.ProductInput{}, false
	}

	retailPrice, _ := strconv.ParseFloat(c.PostForm("retail_price"), 64)
	input := catalog.ProductInput{
		Name:        c.PostForm("name"),
		Slug:        c.PostForm("slug"),
		SKU:         c.PostForm("sku"),
		Barcode:     c.PostForm("barcode"),
		Description: c.PostForm("description"),
		Brand:       c.PostForm("brand"),
		Section:     c.PostForm("section"),
		RetailPrice: retailPrice,
		CategoryID:  c.PostForm("category_id"),
		TypeID:      c.PostForm("type_id"),
		SaleID:      c.PostForm("sale_id"),
	}

	if sizesJSON := c.PostForm("sizes"); sizesJSON != "" {
		if err := json.Unmarshal([]byte(sizesJSON), &input.Sizes); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sizes payload: " + err.Error()})
			return catalog.ProductInput{}, false
		}
	}
	if imagesJSON := c.PostForm("existing_images"); imagesJSON != "" {
		if err := json.Unmarshal([]byte(imagesJSON), &input.ExistingImages); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid images payload: " + err.Error()})
			return catalog.ProductInput{}, false
		}
	}

	if file, _, err := c.Request.FormFile("image"); err == nil {
		input.ImageFile = file
	}
	return input, true
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	input, bound := bindProductInput(c)
	if !bound {
		return
	}

	res := h.catalog.CreateProduct(c.Request.Context(), h.auth.Actor(c), input)
	writeMutationResult(c, res, http.StatusCreated)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	input, bound := bindProductInput(c)
	if !bound {
		return
	}

	res := h.catalog.UpdateProduct(c.Request.Context(), h.auth.Actor(c), c.Param("id"), input)
	writeMutationResult(c, res, http.StatusOK)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	res := h.catalog.DeleteProduct(c.Request.Context(), h.auth.Actor(c), c.Param("id"))
	writeMutationResult(c, res, http.StatusOK)
}

// writeMutationResult maps a catalog result's error code onto the HTTP
// status space.
func writeMutationResult(c *gin.Context, res catalog.Result, successStatus int) {
	if res.Success {
		c.JSON(successStatus, res)
		return
	}

	status := http.StatusInternalServerError
	switch res.Code {
	case catalog.CodeUnauthorized:
		status = http.StatusUnauthorized
	case catalog.CodeValidation:
		status = http.StatusBadRequest
	case catalog.CodeNotFound:
		status = http.StatusNotFound
	case catalog.CodeUploadFailed:
		status = http.StatusBadGateway
	}
	c.JSON(status, res)
}
