package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// === CATEGORIES ===

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

type UpdateCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

type CategoryResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// === PRODUCTS ===

// Price и Stock проверяются в сервисе, validator не умеет работать с decimal
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=1000"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CategoryID  uint            `json:"categoryId" validate:"required"`
}

type UpdateProductRequest struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=1000"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CategoryID  uint            `json:"categoryId" validate:"required"`
}

type ProductResponse struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	CategoryID   uint            `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// === ORDERS ===

type CreateOrderItemRequest struct {
	ProductID uint `json:"productId" validate:"required"`
	Quantity  int  `json:"quantity" validate:"gt=0"`
}

type CreateOrderRequest struct {
	CustomerName  string                   `json:"customerName" validate:"required,max=200"`
	CustomerEmail string                   `json:"customerEmail" validate:"required,email,max=200"`
	OrderItems    []CreateOrderItemRequest `json:"orderItems" validate:"dive"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,max=50"`
}

type OrderItemResponse struct {
	ID          uint            `json:"id"`
	ProductID   uint            `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

type OrderResponse struct {
	ID            uint                `json:"id"`
	CustomerName  string              `json:"customerName"`
	CustomerEmail string              `json:"customerEmail"`
	TotalAmount   decimal.Decimal     `json:"totalAmount"`
	Status        string              `json:"status"`
	CreatedAt     time.Time           `json:"createdAt"`
	OrderItems    []OrderItemResponse `json:"orderItems"`
}

// === AUTH ===

type RegisterRequest struct {
	UserName string `json:"userName" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=200"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// AuthResponse возвращается при регистрации и входе
type AuthResponse struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	UserName     string    `json:"userName"`
	Email        string    `json:"email"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// TokenResponse возвращается при обновлении пары токенов
type TokenResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	UserName     string    `json:"userName"`
	Email        string    `json:"email"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
