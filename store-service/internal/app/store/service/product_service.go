package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ministore/store-service/internal/app/store/entity"
	"ministore/store-service/internal/app/store/infrastructure"
	"ministore/store-service/internal/app/store/repository"

	"github.com/shopspring/decimal"
)

// ProductService обрабатывает бизнес-логику товаров
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	publisher    infrastructure.MessagePublisher
}

// NewProductService создает новый сервис товаров
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	publisher infrastructure.MessagePublisher,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		publisher:    publisher,
	}
}

// Create создает товар в существующей категории
func (s *ProductService) Create(ctx context.Context, req *entity.CreateProductRequest) (*entity.ProductResponse, error) {
	if err := validatePriceAndStock(req.Price, req.Stock); err != nil {
		return nil, err
	}

	category, err := s.getCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	product := &entity.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       roundPrice(req.Price),
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	product.Category = category
	return toProductResponse(product), nil
}

// GetAll получает все товары с названиями категорий
func (s *ProductService) GetAll(ctx context.Context) ([]entity.ProductResponse, error) {
	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	result := make([]entity.ProductResponse, 0, len(products))
	for i := range products {
		result = append(result, *toProductResponse(&products[i]))
	}

	return result, nil
}

// GetByID получает товар по ID
func (s *ProductService) GetByID(ctx context.Context, id uint) (*entity.ProductResponse, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return toProductResponse(product), nil
}

// Update полностью заменяет изменяемые поля товара
// Отрицательные цена и остаток отклоняются до обращения к БД
// При изменении цены отправляется событие PRODUCT_UPDATED
func (s *ProductService) Update(ctx context.Context, id uint, req *entity.UpdateProductRequest) (*entity.ProductResponse, error) {
	if err := validatePriceAndStock(req.Price, req.Stock); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	category, err := s.getCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	oldPrice := product.Price

	product.Name = req.Name
	product.Description = req.Description
	product.Price = roundPrice(req.Price)
	product.Stock = req.Stock
	product.CategoryID = req.CategoryID
	product.Category = category

	if err := s.productRepo.Update(ctx, product); err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			return nil, ErrProductNotFound
		case errors.Is(err, repository.ErrCategoryNotFound):
			return nil, ErrCategoryNotFound
		default:
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	if !oldPrice.Equal(product.Price) {
		publishEvent(ctx, s.publisher, eventKey("product", product.ID), entity.ProductEvent{
			EventType: entity.EventProductUpdated,
			ProductID: product.ID,
			OldPrice:  oldPrice,
			NewPrice:  product.Price,
			Timestamp: time.Now().UTC(),
		})
	}

	return toProductResponse(product), nil
}

// Delete удаляет товар
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			return ErrProductNotFound
		case errors.Is(err, repository.ErrProductHasOrders):
			return ErrProductHasOrders
		default:
			return fmt.Errorf("failed to delete product: %w", err)
		}
	}

	publishEvent(ctx, s.publisher, eventKey("product", id), entity.ProductEvent{
		EventType: entity.EventProductDeleted,
		ProductID: id,
		Timestamp: time.Now().UTC(),
	})

	return nil
}

func (s *ProductService) getCategory(ctx context.Context, id uint) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

// Колонка price имеет тип numeric(18,2), цена округляется до копеек так же, как это сделает БД
const priceScale = 2

func roundPrice(price decimal.Decimal) decimal.Decimal {
	return price.Round(priceScale)
}

func validatePriceAndStock(price decimal.Decimal, stock int) error {
	if price.IsNegative() {
		return validationError("price", "must not be negative")
	}
	if stock < 0 {
		return validationError("stock", "must not be negative")
	}
	return nil
}
