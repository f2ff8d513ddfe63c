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

// ProductHandler обрабатывает HTTP запросы для товаров
type ProductHandler struct {
	productService service.ProductServiceInterface
	validator      *validator.Validate
}

// NewProductHandler создает новый обработчик товаров
func NewProductHandler(productService service.ProductServiceInterface) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		validator:      validator.New(),
	}
}

// GetAll обрабатывает GET /api/products
func (h *ProductHandler) GetAll(c *gin.Context) {
	logger.Info().Msg("Retrieving products")

	products, err := h.productService.GetAll(c.Request.Context())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to get products")
		respondError(c, http.StatusInternalServerError, "Failed to get products")
		return
	}

	logger.Info().Int("count", len(products)).Msg("Retrieved products")
	c.JSON(http.StatusOK, products)
}

// GetByID обрабатывает GET /api/products/:id
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "product")
	if !ok {
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			logger.Warn().Uint("product_id", id).Msg("Product not found")
			respondError(c, http.StatusNotFound, "Product not found")
			return
		}
		logger.Error().Err(err).Uint("product_id", id).Msg("Failed to get product")
		respondError(c, http.StatusInternalServerError, "Failed to get product")
		return
	}

	c.JSON(http.StatusOK, product)
}

// Create обрабатывает POST /api/products (требует JWT)
func (h *ProductHandler) Create(c *gin.Context) {
	var req entity.CreateProductRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	logger.Info().
		Str("name", req.Name).
		Str("price", req.Price.String()).
		Msg("Creating product")

	product, err := h.productService.Create(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			respondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrCategoryNotFound):
			respondError(c, http.StatusBadRequest, "Category not found")
		default:
			logger.Error().Err(err).Str("name", req.Name).Msg("Failed to create product")
			respondError(c, http.StatusInternalServerError, "Failed to create product")
		}
		return
	}

	metrics.CatalogMutations.WithLabelValues("product", "create").Inc()
	logger.Info().Uint("product_id", product.ID).Msg("Product created")

	c.Header("Location", resourceLocation("products", product.ID))
	c.JSON(http.StatusCreated, product)
}

// Update обрабатывает PUT /api/products/:id (требует JWT)
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "product")
	if !ok {
		return
	}

	var req entity.UpdateProductRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	logger.Info().Uint("product_id", id).Str("name", req.Name).Msg("Updating product")

	product, err := h.productService.Update(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			respondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrProductNotFound):
			logger.Warn().Uint("product_id", id).Msg("Product not found for update")
			respondError(c, http.StatusNotFound, "Product not found")
		case errors.Is(err, service.ErrCategoryNotFound):
			respondError(c, http.StatusBadRequest, "Category not found")
		default:
			logger.Error().Err(err).Uint("product_id", id).Msg("Failed to update product")
			respondError(c, http.StatusInternalServerError, "Failed to update product")
		}
		return
	}

	metrics.CatalogMutations.WithLabelValues("product", "update").Inc()
	c.JSON(http.StatusOK, product)
}

// Delete обрабатывает DELETE /api/products/:id (требует JWT)
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "product")
	if !ok {
		return
	}

	logger.Info().Uint("product_id", id).Msg("Deleting product")

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			logger.Warn().Uint("product_id", id).Msg("Product not found for deletion")
			respondError(c, http.StatusNotFound, "Product not found")
		case errors.Is(err, service.ErrProductHasOrders):
			respondError(c, http.StatusConflict, "Cannot delete product referenced by orders")
		default:
			logger.Error().Err(err).Uint("product_id", id).Msg("Failed to delete product")
			respondError(c, http.StatusInternalServerError, "Failed to delete product")
		}
		return
	}

	metrics.CatalogMutations.WithLabelValues("product", "delete").Inc()
	c.Status(http.StatusNoContent)
}
