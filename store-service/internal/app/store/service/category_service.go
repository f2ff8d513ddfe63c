package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ministore/pkg/logger"
	"ministore/store-service/internal/app/store/entity"
	"ministore/store-service/internal/app/store/infrastructure"
	"ministore/store-service/internal/app/store/repository"
)

// CategoryService обрабатывает бизнес-логику категорий
// Список категорий кешируется в Redis и инвалидируется при любом изменении
type CategoryService struct {
	categoryRepo repository.CategoryRepository
	cache        infrastructure.CategoryCache
	cacheTTL     time.Duration
}

// NewCategoryService создает новый сервис категорий
func NewCategoryService(
	categoryRepo repository.CategoryRepository,
	cache infrastructure.CategoryCache,
	cacheTTL time.Duration,
) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		cache:        cache,
		cacheTTL:     cacheTTL,
	}
}

// Create создает новую категорию и инвалидирует кеш
func (s *CategoryService) Create(ctx context.Context, req *entity.CreateCategoryRequest) (*entity.CategoryResponse, error) {
	category := &entity.Category{
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.invalidateCache(ctx)

	return toCategoryResponse(category), nil
}

// GetAll получает все категории, сначала из кеша
func (s *CategoryService) GetAll(ctx context.Context) ([]entity.CategoryResponse, error) {
	cached, err := s.cache.GetCategories(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to read categories cache")
	} else if cached != nil {
		return cached, nil
	}

	// Поколение читается до запроса к БД: инвалидация после этой точки отменит запись в кеш
	generation, genErr := s.cache.Generation(ctx)
	if genErr != nil {
		logger.Warn().Err(genErr).Msg("Failed to read categories cache generation")
	}

	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	result := make([]entity.CategoryResponse, 0, len(categories))
	for i := range categories {
		result = append(result, *toCategoryResponse(&categories[i]))
	}

	if genErr == nil {
		if err := s.cache.SetCategories(ctx, result, s.cacheTTL, generation); err != nil {
			logger.Warn().Err(err).Msg("Failed to cache categories")
		}
	}

	return result, nil
}

// GetByID получает категорию по ID
func (s *CategoryService) GetByID(ctx context.Context, id uint) (*entity.CategoryResponse, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return toCategoryResponse(category), nil
}

// Update заменяет название и описание категории
func (s *CategoryService) Update(ctx context.Context, id uint, req *entity.UpdateCategoryRequest) (*entity.CategoryResponse, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	category.Name = req.Name
	category.Description = req.Description

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	s.invalidateCache(ctx)

	return toCategoryResponse(category), nil
}

// Delete удаляет категорию без товаров
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrCategoryNotFound):
			return ErrCategoryNotFound
		case errors.Is(err, repository.ErrCategoryHasProducts):
			return ErrCategoryHasProducts
		default:
			return fmt.Errorf("failed to delete category: %w", err)
		}
	}

	s.invalidateCache(ctx)

	return nil
}

func (s *CategoryService) invalidateCache(ctx context.Context) {
	if err := s.cache.DeleteCategories(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate categories cache")
	}
}
