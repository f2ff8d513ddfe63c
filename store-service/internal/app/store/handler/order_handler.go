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

// OrderHandler обрабатывает HTTP запросы для заказов с использованием Gin
type OrderHandler struct {
	orderService service.OrderServiceInterface
	validator    *validator.Validate
}

// NewOrderHandler создает новый обработчик заказов
func NewOrderHandler(orderService service.OrderServiceInterface) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		validator:    validator.New(),
	}
}

// GetAll обрабатывает GET /api/orders
func (h *OrderHandler) GetAll(c *gin.Context) {
	orders, err := h.orderService.GetAll(c.Request.Context())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to get orders")
		respondError(c, http.StatusInternalServerError, "Failed to get orders")
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetByID обрабатывает GET /api/orders/:id
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "order")
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, http.StatusNotFound, "Order not found")
			return
		}
		logger.Error().Err(err).Uint("order_id", id).Msg("Failed to get order")
		respondError(c, http.StatusInternalServerError, "Failed to get order")
		return
	}

	c.JSON(http.StatusOK, order)
}

// Create обрабатывает POST /api/orders
// Неизвестный товар дает 400, нехватка остатка 409
func (h *OrderHandler) Create(c *gin.Context) {
	var req entity.CreateOrderRequest
	if !bindAndValidate(c, h.validator, &req) {
		metrics.OrdersRejected.WithLabelValues("validation").Inc()
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			metrics.OrdersRejected.WithLabelValues("validation").Inc()
			respondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrProductNotFound):
			metrics.OrdersRejected.WithLabelValues("product_not_found").Inc()
			respondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrInsufficientStock):
			metrics.OrdersRejected.WithLabelValues("insufficient_stock").Inc()
			respondError(c, http.StatusConflict, err.Error())
		default:
			logger.Error().Err(err).Str("customer_email", req.CustomerEmail).Msg("Failed to create order")
			respondError(c, http.StatusInternalServerError, "Failed to create order")
		}
		return
	}

	metrics.OrdersCreated.Inc()
	metrics.OrdersTotal.Add(order.TotalAmount.InexactFloat64())

	logger.Info().
		Uint("order_id", order.ID).
		Str("total_amount", order.TotalAmount.String()).
		Int("items_count", len(order.OrderItems)).
		Msg("Order created")

	c.Header("Location", resourceLocation("orders", order.ID))
	c.JSON(http.StatusCreated, order)
}

// UpdateStatus обрабатывает PUT /api/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "order")
	if !ok {
		return
	}

	var req entity.UpdateOrderStatusRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			respondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, http.StatusNotFound, "Order not found")
		default:
			logger.Error().Err(err).Uint("order_id", id).Msg("Failed to update order status")
			respondError(c, http.StatusInternalServerError, "Failed to update order status")
		}
		return
	}

	logger.Info().Uint("order_id", id).Str("status", order.Status).Msg("Order status updated")
	c.JSON(http.StatusOK, order)
}
