package repository

import (
	"context"
	"errors"

	"ministore/store-service/internal/app/store/entity"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategoryHasProducts  = errors.New("category has products")
	ErrProductNotFound      = errors.New("product not found")
	ErrProductHasOrders     = errors.New("product is referenced by orders")
	ErrOrderNotFound        = errors.New("order not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailTaken           = errors.New("email already registered")
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrStockConflict        = errors.New("not enough stock to reserve")
)

// Коды ошибок PostgreSQL
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id uint) (*entity.Category, error)
	GetAll(ctx context.Context) ([]entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id uint) error
}

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uint) (*entity.Product, error)
	GetAll(ctx context.Context) ([]entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uint) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	CreateReservingStock(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id uint) (*entity.Order, error)
	GetAll(ctx context.Context) ([]entity.Order, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uint) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}

type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, token *entity.RefreshToken) error
	GetRefreshToken(ctx context.Context, token string) (*entity.RefreshToken, error)
	// RevokeRefreshToken возвращает ErrRefreshTokenNotFound, если токен неизвестен или уже отозван
	RevokeRefreshToken(ctx context.Context, token string) error
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
