package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"ministore/store-service/internal/app/store/entity"
	"ministore/store-service/internal/app/store/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newOrderRouter(svc *MockOrderService) *gin.Engine {
	h := NewOrderHandler(svc)
	router := gin.New()
	router.GET("/api/orders", h.GetAll)
	router.GET("/api/orders/:id", h.GetByID)
	router.POST("/api/orders", h.Create)
	router.PUT("/api/orders/:id/status", h.UpdateStatus)
	return router
}

const validOrderBody = `{
	"customerName": "John Doe",
	"customerEmail": "john@example.com",
	"orderItems": [
		{"productId": 1, "quantity": 2},
		{"productId": 3, "quantity": 1}
	]
}`

func TestOrderHandler_Create_Success(t *testing.T) {
	// Arrange
	svc := new(MockOrderService)
	svc.On("CreateOrder", mock.Anything, mock.MatchedBy(func(req *entity.CreateOrderRequest) bool {
		return len(req.OrderItems) == 2 && req.OrderItems[0].Quantity == 2
	})).Return(&entity.OrderResponse{
		ID:            1,
		CustomerName:  "John Doe",
		CustomerEmail: "john@example.com",
		TotalAmount:   decimal.RequireFromString("2799.97"),
		Status:        entity.OrderStatusPending,
		CreatedAt:     time.Now().UTC(),
		OrderItems: []entity.OrderItemResponse{
			{ID: 1, ProductID: 1, ProductName: "iPhone 15", Quantity: 2, UnitPrice: decimal.RequireFromString("999.99")},
			{ID: 2, ProductID: 3, ProductName: "iPad Pro", Quantity: 1, UnitPrice: decimal.RequireFromString("799.99")},
		},
	}, nil)
	router := newOrderRouter(svc)

	// Act
	rec := performRequest(router, http.MethodPost, "/api/orders", validOrderBody)

	// Assert
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/orders/1", rec.Header().Get("Location"))

	var body entity.OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, decimal.RequireFromString("2799.97").Equal(body.TotalAmount))
	assert.Equal(t, "Pending", body.Status)
	assert.Len(t, body.OrderItems, 2)
}

func TestOrderHandler_Create_InsufficientStock(t *testing.T) {
	// Arrange
	svc := new(MockOrderService)
	svc.On("CreateOrder", mock.Anything, mock.Anything).Return(nil, &service.InsufficientStockError{
		ProductName: "iPad Pro",
		Available:   1,
		Requested:   2,
	})
	router := newOrderRouter(svc)

	// Act
	rec := performRequest(router, http.MethodPost, "/api/orders", validOrderBody)

	// Assert
	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeError(rec)
	assert.Equal(t, "Conflict", body["error"])
	assert.Equal(t, "Insufficient stock for product 'iPad Pro'. Available: 1, Requested: 2", body["message"])
}

func TestOrderHandler_Create_UnknownProduct(t *testing.T) {
	// Arrange
	svc := new(MockOrderService)
	svc.On("CreateOrder", mock.Anything, mock.Anything).Return(nil, &service.ProductNotFoundError{ProductID: 3})
	router := newOrderRouter(svc)

	// Act
	rec := performRequest(router, http.MethodPost, "/api/orders", validOrderBody)

	// Assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Product with ID 3 not found", decodeError(rec)["message"])
}

func TestOrderHandler_Create_InvalidRequest(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"customerName":`},
		{"missing email", `{"customerName":"John","orderItems":[]}`},
		{"invalid email", `{"customerName":"John","customerEmail":"not-an-email"}`},
		{"zero quantity", `{"customerName":"John","customerEmail":"john@example.com","orderItems":[{"productId":1,"quantity":0}]}`},
		{"missing product", `{"customerName":"John","customerEmail":"john@example.com","orderItems":[{"quantity":1}]}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			svc := new(MockOrderService)
			router := newOrderRouter(svc)

			// Act
			rec := performRequest(router, http.MethodPost, "/api/orders", tc.body)

			// Assert
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decodeError(rec)["message"])
			svc.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
		})
	}
}

func TestOrderHandler_GetAll(t *testing.T) {
	// Arrange
	svc := new(MockOrderService)
	svc.On("GetAll", mock.Anything).Return([]entity.OrderResponse{}, nil)
	router := newOrderRouter(svc)

	// Act
	rec := performRequest(router, http.MethodGet, "/api/orders", nil)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestOrderHandler_GetByID_NotFound(t *testing.T) {
	// Arrange
	svc := new(MockOrderService)
	svc.On("GetByID", mock.Anything, uint(999)).Return(nil, service.ErrOrderNotFound)
	router := newOrderRouter(svc)

	// Act
	rec := performRequest(router, http.MethodGet, "/api/orders/999", nil)

	// Assert
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	testCases := []struct {
		name       string
		path       string
		body       string
		setup      func(svc *MockOrderService)
		wantStatus int
	}{
		{
			name: "success",
			path: "/api/orders/1/status",
			body: `{"status":"Completed"}`,
			setup: func(svc *MockOrderService) {
				svc.On("UpdateStatus", mock.Anything, uint(1), "Completed").
					Return(&entity.OrderResponse{ID: 1, Status: "Completed"}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "not found",
			path: "/api/orders/999/status",
			body: `{"status":"Completed"}`,
			setup: func(svc *MockOrderService) {
				svc.On("UpdateStatus", mock.Anything, uint(999), "Completed").Return(nil, service.ErrOrderNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "missing status",
			path:       "/api/orders/1/status",
			body:       `{}`,
			setup:      func(svc *MockOrderService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid id",
			path:       "/api/orders/0/status",
			body:       `{"status":"Completed"}`,
			setup:      func(svc *MockOrderService) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			svc := new(MockOrderService)
			tc.setup(svc)
			router := newOrderRouter(svc)

			// Act
			rec := performRequest(router, http.MethodPut, tc.path, tc.body)

			// Assert
			assert.Equal(t, tc.wantStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}
