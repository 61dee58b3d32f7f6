package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Houssam-Chakir/motoshop-backend/internal/catalog"
	"github.com/Houssam-Chakir/motoshop-backend/internal/repository"
)

type CategoryHandler struct {
	categories *repository.MongoCategoryStore
	types      *repository.MongoTypeStore
	catalog    *catalog.Service
	auth       AuthConfig
}

func NewCategoryHandler(categories *repository.MongoCategoryStore, types *repository.MongoTypeStore, catalogSvc *catalog.Service, auth AuthConfig) *CategoryHandler {
	return &CategoryHandler{categories: categories, types: types, catalog: catalogSvc, auth: auth}
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list categories: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": categories})
}

func (h *CategoryHandler) GetCategoryByID(c *gin.Context) {
	id := c.Param("id")
	category, err := h.categories.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) || isInvalidID(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve category: " + err.Error()})
		}
		return
	}

	types, err := h.types.ListByCategory(c.Request.Context(), category.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve category types: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category, "types": types})
}

// bindCategoryInput reads the admin multipart payload: scalar form
// values, owned types as a JSON-encoded field (present id = existing
// type), the new icon under the "icon" file key.
func bindCategoryInput(c *gin.Context) (catalog.CategoryInput, bool) {
	if err := c.Request.ParseMultipartForm(10 << 20); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form: " + err.Error()})
		return catalog.CategoryInput{}, false
	}

	input := catalog.CategoryInput{
		Name:    c.PostForm("name"),
		Slug:    c.PostForm("slug"),
		Section: c.PostForm("section"),
	}

	if typesJSON := c.PostForm("types"); typesJSON != "" {
		if err := json.Unmarshal([]byte(typesJSON), &input.Types); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid types payload: " + err.Error()})
			return catalog.CategoryInput{}, false
		}
	}
	if iconJSON := c.PostForm("existing_icon"); iconJSON != "" {
		if err := json.Unmarshal([]byte(iconJSON), &input.ExistingIcon); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid icon payload: " + err.Error()})
			return catalog.CategoryInput{}, false
		}
	}

	if file, _, err := c.Request.FormFile("icon"); err == nil {
		input.IconFile = file
	}
	return input, true
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	input, bound := bindCategoryInput(c)
	if !bound {
		return
	}

	res := h.catalog.CreateCategory(c.Request.Context(), h.auth.Actor(c), input)
	writeMutationResult(c, res, http.StatusCreated)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	input, bound := bindCategoryInput(c)
	if !bound {
		return
	}

	res := h.catalog.UpdateCategory(c.Request.Context(), h.auth.Actor(c), c.Param("id"), input)
	writeMutationResult(c, res, http.StatusOK)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	res := h.catalog.DeleteCategory(c.Request.Context(), h.auth.Actor(c), c.Param("id"))
	writeMutationResult(c, res, http.StatusOK)
}
