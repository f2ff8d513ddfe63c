package infrastructure

import (
	"context"
	"time"

	"ministore/store-service/internal/app/store/entity"
)

type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// CategoryCache кеширует список категорий
// Get возвращает nil, nil при промахе
// Каждая инвалидация увеличивает поколение кеша. SetCategories записывает список,
// только если поколение не изменилось с момента чтения Generation
type CategoryCache interface {
	GetCategories(ctx context.Context) ([]entity.CategoryResponse, error)
	Generation(ctx context.Context) (int64, error)
	SetCategories(ctx context.Context, categories []entity.CategoryResponse, ttl time.Duration, generation int64) error
	DeleteCategories(ctx context.Context) error
}
