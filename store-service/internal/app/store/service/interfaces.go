package service

import (
	"context"

	"ministore/store-service/internal/app/store/entity"
	"ministore/store-service/internal/app/store/util"
)

type CategoryServiceInterface interface {
	Create(ctx context.Context, req *entity.CreateCategoryRequest) (*entity.CategoryResponse, error)
	GetAll(ctx context.Context) ([]entity.CategoryResponse, error)
	GetByID(ctx context.Context, id uint) (*entity.CategoryResponse, error)
	Update(ctx context.Context, id uint, req *entity.UpdateCategoryRequest) (*entity.CategoryResponse, error)
	Delete(ctx context.Context, id uint) error
}

type ProductServiceInterface interface {
	Create(ctx context.Context, req *entity.CreateProductRequest) (*entity.ProductResponse, error)
	GetAll(ctx context.Context) ([]entity.ProductResponse, error)
	GetByID(ctx context.Context, id uint) (*entity.ProductResponse, error)
	Update(ctx context.Context, id uint, req *entity.UpdateProductRequest) (*entity.ProductResponse, error)
	Delete(ctx context.Context, id uint) error
}

type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, req *entity.CreateOrderRequest) (*entity.OrderResponse, error)
	GetAll(ctx context.Context) ([]entity.OrderResponse, error)
	GetByID(ctx context.Context, id uint) (*entity.OrderResponse, error)
	UpdateStatus(ctx context.Context, id uint, status string) (*entity.OrderResponse, error)
}

type AuthServiceInterface interface {
	Register(ctx context.Context, req *entity.RegisterRequest) (*entity.AuthResponse, error)
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*entity.TokenResponse, error)
	RevokeToken(ctx context.Context, refreshToken string) error
	ValidateAccessToken(accessToken string) (*util.JWTClaims, error)
}
