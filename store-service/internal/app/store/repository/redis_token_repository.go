package repository

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
	metricsService       = "store-service"
	refreshTokenPrefix   = "refresh_token"
	refreshTokenKeyShape = refreshTokenPrefix + ":%s"
)

// redisRefreshToken - представление токена в Redis
type redisRefreshToken struct {
	UserID    uint      `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

type redisTokenRepository struct {
	client *redis.Client
}

// NewRedisTokenRepository создает новый Redis репозиторий для токенов
// Отозванный токен удаляется из Redis, поэтому флаг revoked не хранится
func NewRedisTokenRepository(client *redis.Client) TokenRepository {
	return &redisTokenRepository{client: client}
}

// SaveRefreshToken сохраняет refresh токен в Redis с TTL
func (r *redisTokenRepository) SaveRefreshToken(ctx context.Context, token *entity.RefreshToken) error {
	ttl := time.Until(token.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("token already expired")
	}

	data, err := json.Marshal(redisRefreshToken{
		UserID:    token.UserID,
		ExpiresAt: token.ExpiresAt,
		CreatedAt: token.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal refresh token: %w", err)
	}

	call := metrics.StartRedisCall(metricsService, metrics.RedisOpSet)
	err = r.client.Set(ctx, fmt.Sprintf(refreshTokenKeyShape, token.Token), data, ttl).Err()
	call.Finish(err)
	if err != nil {
		return fmt.Errorf("failed to save refresh token to Redis: %w", err)
	}

	return nil
}

// GetRefreshToken получает refresh токен из Redis
func (r *redisTokenRepository) GetRefreshToken(ctx context.Context, token string) (*entity.RefreshToken, error) {
	call := metrics.StartRedisCall(metricsService, metrics.RedisOpGet)
	data, err := r.client.Get(ctx, fmt.Sprintf(refreshTokenKeyShape, token)).Bytes()
	if errors.Is(err, redis.Nil) {
		call.Finish(nil)
		return nil, ErrRefreshTokenNotFound
	}
	call.Finish(err)
	if err != nil {
		return nil, fmt.Errorf("failed to get refresh token from Redis: %w", err)
	}

	var stored redisRefreshToken
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("invalid refresh token payload in Redis: %w", err)
	}

	return &entity.RefreshToken{
		Token:     token,
		UserID:    stored.UserID,
		ExpiresAt: stored.ExpiresAt,
		CreatedAt: stored.CreatedAt,
	}, nil
}

// RevokeRefreshToken удаляет токен, DEL атомарно сообщает, существовал ли он
func (r *redisTokenRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	call := metrics.StartRedisCall(metricsService, metrics.RedisOpDel)
	deleted, err := r.client.Del(ctx, fmt.Sprintf(refreshTokenKeyShape, token)).Result()
	call.Finish(err)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token in Redis: %w", err)
	}

	if deleted == 0 {
		return ErrRefreshTokenNotFound
	}

	return nil
}

// CleanupExpiredTokens - в Redis не нужно, истекшие ключи удаляются по TTL
func (r *redisTokenRepository) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	return 0, nil
}
