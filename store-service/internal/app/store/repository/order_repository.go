package repository

import (
	"context"
	"errors"
	"fmt"

	"ministore/store-service/internal/app/store/entity"

	"gorm.io/gorm"
)

// StockConflictError возвращается, когда остатка товара не хватило для списания
type StockConflictError struct {
	ProductID uint
}

func (e *StockConflictError) Error() string {
	return fmt.Sprintf("not enough stock to reserve for product %d", e.ProductID)
}

func (e *StockConflictError) Is(target error) bool {
	return target == ErrStockConflict
}

type orderRepository struct {
	db *gorm.DB // GORM DB для работы с PostgreSQL
}

// NewOrderRepository создает новый репозиторий заказов
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create сохраняет заказ вместе с позициями в одной транзакции
func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
}

// CreateReservingStock сохраняет заказ и списывает остатки товаров
// Если хотя бы одна позиция не может быть списана, транзакция откатывается
func (r *orderRepository) CreateReservingStock(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			result := tx.Model(&entity.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return &StockConflictError{ProductID: item.ProductID}
			}
		}

		return tx.Create(order).Error
	})
}

// GetByID получает заказ с позициями и товарами
func (r *orderRepository) GetByID(ctx context.Context, id uint) (*entity.Order, error) {
	var order entity.Order
	result := r.db.WithContext(ctx).
		Preload("Items.Product").
		First(&order, id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, result.Error
	}

	return &order, nil
}

// GetAll получает все заказы, новые первыми
func (r *orderRepository) GetAll(ctx context.Context) ([]entity.Order, error) {
	var orders []entity.Order
	result := r.db.WithContext(ctx).
		Preload("Items.Product").
		Order("created_at DESC").
		Find(&orders)

	if result.Error != nil {
		return nil, result.Error
	}

	return orders, nil
}

// UpdateStatus меняет статус заказа, остальные поля заказа неизменяемы
func (r *orderRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("id = ?", id).
		Update("status", status)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}
