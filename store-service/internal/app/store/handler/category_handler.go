package handler

import (
	"errors"
	"net/http"

	"ministore/pkg/logger"
	"ministore/pkg/metrics"
	"ministore/store-service/internal/app/store/entity"
	"ministore/store-service/internal/app/store/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// CategoryHandler обрабатывает HTTP запросы для категорий
type CategoryHandler struct {
	categoryService service.CategoryServiceInterface
	validator       *validator.Validate
}

// NewCategoryHandler создает новый обработчик категорий
func NewCategoryHandler(categoryService service.CategoryServiceInterface) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		validator:       validator.New(),
	}
}

// GetAll обрабатывает GET /api/categories (с кешированием)
func (h *CategoryHandler) GetAll(c *gin.Context) {
	categories, err := h.categoryService.GetAll(c.Request.Context())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to get categories")
		respondError(c, http.StatusInternalServerError, "Failed to get categories")
		return
	}

	c.JSON(http.StatusOK, categories)
}

// GetByID обрабатывает GET /api/categories/:id
func (h *CategoryHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "category")
	if !ok {
		return
	}

	category, err := h.categoryService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			respondError(c, http.StatusNotFound, "Category not found")
			return
		}
		logger.Error().Err(err).Uint("category_id", id).Msg("Failed to get category")
		respondError(c, http.StatusInternalServerError, "Failed to get category")
		return
	}

	c.JSON(http.StatusOK, category)
}

// Create обрабатывает POST /api/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req entity.CreateCategoryRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), &req)
	if err != nil {
		logger.Error().Err(err).Str("name", req.Name).Msg("Failed to create category")
		respondError(c, http.StatusInternalServerError, "Failed to create category")
		return
	}

	metrics.CatalogMutations.WithLabelValues("category", "create").Inc()
	logger.Info().Uint("category_id", category.ID).Str("name", category.Name).Msg("Category created")

	c.Header("Location", resourceLocation("categories", category.ID))
	c.JSON(http.StatusCreated, category)
}

// Update обрабатывает PUT /api/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "category")
	if !ok {
		return
	}

	var req entity.UpdateCategoryRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			respondError(c, http.StatusNotFound, "Category not found")
			return
		}
		logger.Error().Err(err).Uint("category_id", id).Msg("Failed to update category")
		respondError(c, http.StatusInternalServerError, "Failed to update category")
		return
	}

	metrics.CatalogMutations.WithLabelValues("category", "update").Inc()
	c.JSON(http.StatusOK, category)
}

// Delete обрабатывает DELETE /api/categories/:id
// Категорию с товарами удалить нельзя (409)
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "category")
	if !ok {
		return
	}

	if err := h.categoryService.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			respondError(c, http.StatusNotFound, "Category not found")
		case errors.Is(err, service.ErrCategoryHasProducts):
			respondError(c, http.StatusConflict, "Cannot delete category with existing products")
		default:
			logger.Error().Err(err).Uint("category_id", id).Msg("Failed to delete category")
			respondError(c, http.StatusInternalServerError, "Failed to delete category")
		}
		return
	}

	metrics.CatalogMutations.WithLabelValues("category", "delete").Inc()
	logger.Info().Uint("category_id", id).Msg("Category deleted")

	c.Status(http.StatusNoContent)
}
