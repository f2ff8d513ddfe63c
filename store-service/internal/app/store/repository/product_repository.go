package repository

import (
	"context"
	"errors"

	"ministore/store-service/internal/app/store/entity"

	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository создает новый репозиторий товаров
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create создает новый товар
func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	err := r.db.WithContext(ctx).Omit("Category").Create(product).Error
	if pgErrorCode(err) == pgForeignKeyViolation {
		return ErrCategoryNotFound
	}
	return err
}

// GetByID получает товар по ID вместе с категорией
func (r *productRepository) GetByID(ctx context.Context, id uint) (*entity.Product, error) {
	var product entity.Product
	result := r.db.WithContext(ctx).Preload("Category").First(&product, id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, result.Error
	}

	return &product, nil
}

// GetAll получает все товары вместе с категориями
func (r *productRepository) GetAll(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	if err := r.db.WithContext(ctx).Preload("Category").Order("id").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Update полностью заменяет изменяемые поля товара
func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	result := r.db.WithContext(ctx).Model(&entity.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"name":        product.Name,
			"description": product.Description,
			"price":       product.Price,
			"stock":       product.Stock,
			"category_id": product.CategoryID,
		})

	if result.Error != nil {
		if pgErrorCode(result.Error) == pgForeignKeyViolation {
			return ErrCategoryNotFound
		}
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete удаляет товар
// Товары, на которые ссылаются позиции заказов, удалить нельзя
func (r *productRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entity.Product{}, id)

	if result.Error != nil {
		if pgErrorCode(result.Error) == pgForeignKeyViolation {
			return ErrProductHasOrders
		}
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}
