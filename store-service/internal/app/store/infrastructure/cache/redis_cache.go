package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ministore/pkg/metrics"
	"ministore/store-service/internal/app/store/entity"

	"github.com/redis/go-redis/v9"
)

const (
	metricsService          = "store-service"
	categoriesCacheKey      = "categories:all"
	categoriesGenerationKey = "categories:gen"
	categoriesPrefix        = "categories"
)

// RedisCategoryCache хранит список категорий в Redis одним JSON-значением
// Счетчик categories:gen растет при каждой инвалидации и защищает от записи устаревшего списка
type RedisCategoryCache struct {
	client *redis.Client
}

func NewRedisCategoryCache(client *redis.Client) *RedisCategoryCache {
	return &RedisCategoryCache{client: client}
}

// Generation возвращает текущее поколение кеша, 0 если инвалидаций еще не было
func (r *RedisCategoryCache) Generation(ctx context.Context) (int64, error) {
	call := metrics.StartRedisCall(metricsService, metrics.RedisOpGet)
	gen, err := r.client.Get(ctx, categoriesGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		call.Finish(nil)
		return 0, nil
	}
	call.Finish(err)
	if err != nil {
		return 0, fmt.Errorf("failed to get categories cache generation: %w", err)
	}
	return gen, nil
}

// SetCategories записывает список, если поколение все еще равно generation
// Проверка и запись идут под WATCH, поэтому инвалидация между ними отменяет запись
func (r *RedisCategoryCache) SetCategories(ctx context.Context, categories []entity.CategoryResponse, ttl time.Duration, generation int64) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("failed to marshal categories: %w", err)
	}

	call := metrics.StartRedisCall(metricsService, metrics.RedisOpSet)
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, categoriesGenerationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return redis.TxFailedErr
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, categoriesCacheKey, data, ttl)
			return nil
		})
		return err
	}, categoriesGenerationKey)

	// Список устарел, пропускаем запись
	if errors.Is(err, redis.TxFailedErr) {
		call.Finish(nil)
		return nil
	}
	call.Finish(err)
	if err != nil {
		return fmt.Errorf("failed to set categories in cache: %w", err)
	}

	return nil
}

func (r *RedisCategoryCache) GetCategories(ctx context.Context) ([]entity.CategoryResponse, error) {
	call := metrics.StartRedisCall(metricsService, metrics.RedisOpGet)
	data, err := r.client.Get(ctx, categoriesCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		call.Finish(nil)
		metrics.RecordCacheMiss(metricsService, categoriesPrefix)
		return nil, nil
	}
	call.Finish(err)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories from cache: %w", err)
	}

	var categories []entity.CategoryResponse
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("failed to unmarshal categories: %w", err)
	}

	metrics.RecordCacheHit(metricsService, categoriesPrefix)
	return categories, nil
}

// DeleteCategories увеличивает поколение и удаляет список в одной транзакции
func (r *RedisCategoryCache) DeleteCategories(ctx context.Context) error {
	call := metrics.StartRedisCall(metricsService, metrics.RedisOpDel)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, categoriesGenerationKey)
		pipe.Del(ctx, categoriesCacheKey)
		return nil
	})
	call.Finish(err)
	if err != nil {
		return fmt.Errorf("failed to delete categories from cache: %w", err)
	}
	return nil
}
