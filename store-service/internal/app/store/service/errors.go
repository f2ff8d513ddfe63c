package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation error")

	// NotFound
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrOrderNotFound    = errors.New("order not found")

	// Conflict
	ErrUserExists          = errors.New("user with this email already exists")
	ErrCategoryHasProducts = errors.New("cannot delete category with existing products")
	ErrProductHasOrders    = errors.New("cannot delete product referenced by orders")
	ErrInsufficientStock   = errors.New("insufficient stock")

	// Unauthorized
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// ProductNotFoundError возвращается при создании заказа с несуществующим товаром
type ProductNotFoundError struct {
	ProductID uint
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("Product with ID %d not found", e.ProductID)
}

func (e *ProductNotFoundError) Is(target error) bool {
	return target == ErrProductNotFound
}

// InsufficientStockError возвращается, когда запрошено больше товара, чем есть на складе
type InsufficientStockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for product '%s'. Available: %d, Requested: %d",
		e.ProductName, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

func validationError(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrValidation, field, reason)
}
