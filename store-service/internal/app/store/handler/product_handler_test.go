package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"ministore/store-service/internal/app/store/entity"
	"ministore/store-service/internal/app/store/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newProductRouter(svc *MockProductService) *gin.Engine {
	h := NewProductHandler(svc)
	router := gin.New()
	router.GET("/api/products", h.GetAll)
	router.GET("/api/products/:id", h.GetByID)
	router.POST("/api/products", h.Create)
	router.PUT("/api/products/:id", h.Update)
	router.DELETE("/api/products/:id", h.Delete)
	return router
}

func TestProductHandler_Create(t *testing.T) {
	// Arrange
	svc := new(MockProductService)
	svc.On("Create", mock.Anything, mock.MatchedBy(func(req *entity.CreateProductRequest) bool {
		return req.Name == "iPhone 15" && req.Price.Equal(decimal.RequireFromString("999.99")) && req.CategoryID == 1
	})).Return(&entity.ProductResponse{
		ID:           10,
		Name:         "iPhone 15",
		Price:        decimal.RequireFromString("999.99"),
		Stock:        10,
		CategoryID:   1,
		CategoryName: "Electronics",
	}, nil)
	router := newProductRouter(svc)

	// Act
	rec := performRequest(router, http.MethodPost, "/api/products",
		`{"name":"iPhone 15","price":999.99,"stock":10,"categoryId":1}`)

	// Assert
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/products/10", rec.Header().Get("Location"))

	var body entity.ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Electronics", body.CategoryName)
	assert.True(t, decimal.RequireFromString("999.99").Equal(body.Price))
}

func TestProductHandler_Create_Errors(t *testing.T) {
	testCases := []struct {
		name        string
		serviceErr  error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "negative price",
			serviceErr:  fmt.Errorf("%w: price must not be negative", service.ErrValidation),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "validation error: price must not be negative",
		},
		{
			name:        "unknown category",
			serviceErr:  service.ErrCategoryNotFound,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Category not found",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			svc := new(MockProductService)
			svc.On("Create", mock.Anything, mock.Anything).Return(nil, tc.serviceErr)
			router := newProductRouter(svc)

			// Act
			rec := performRequest(router, http.MethodPost, "/api/products",
				`{"name":"Broken","price":-1,"stock":1,"categoryId":1}`)

			// Assert
			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantMessage, decodeError(rec)["message"])
		})
	}
}

func TestProductHandler_Create_MissingCategory(t *testing.T) {
	// Arrange
	svc := new(MockProductService)
	router := newProductRouter(svc)

	// Act
	rec := performRequest(router, http.MethodPost, "/api/products", `{"name":"iPhone 15","price":1,"stock":1}`)

	// Assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "CategoryID is required", decodeError(rec)["message"])
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductHandler_GetByID_NotFound(t *testing.T) {
	// Arrange
	svc := new(MockProductService)
	svc.On("GetByID", mock.Anything, uint(42)).Return(nil, service.ErrProductNotFound)
	router := newProductRouter(svc)

	// Act
	rec := performRequest(router, http.MethodGet, "/api/products/42", nil)

	// Assert
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", decodeError(rec)["error"])
}

func TestProductHandler_Update(t *testing.T) {
	testCases := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"success", nil, http.StatusOK},
		{"not found", service.ErrProductNotFound, http.StatusNotFound},
		{"negative stock", fmt.Errorf("%w: stock must not be negative", service.ErrValidation), http.StatusBadRequest},
		{"unknown category", service.ErrCategoryNotFound, http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			svc := new(MockProductService)
			if tc.serviceErr == nil {
				svc.On("Update", mock.Anything, uint(1), mock.Anything).Return(&entity.ProductResponse{ID: 1, Name: "iPhone 15"}, nil)
			} else {
				svc.On("Update", mock.Anything, uint(1), mock.Anything).Return(nil, tc.serviceErr)
			}
			router := newProductRouter(svc)

			// Act
			rec := performRequest(router, http.MethodPut, "/api/products/1",
				`{"name":"iPhone 15","price":899.99,"stock":5,"categoryId":1}`)

			// Assert
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestProductHandler_Delete(t *testing.T) {
	testCases := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"success", nil, http.StatusNoContent},
		{"not found", service.ErrProductNotFound, http.StatusNotFound},
		{"referenced by orders", service.ErrProductHasOrders, http.StatusConflict},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			svc := new(MockProductService)
			svc.On("Delete", mock.Anything, uint(7)).Return(tc.serviceErr)
			router := newProductRouter(svc)

			// Act
			rec := performRequest(router, http.MethodDelete, "/api/products/7", nil)

			// Assert
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}
