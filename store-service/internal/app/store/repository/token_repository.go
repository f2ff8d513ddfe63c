package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ministore/store-service/internal/app/store/entity"

	"gorm.io/gorm"
)

type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository создает PostgreSQL репозиторий refresh токенов
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

// SaveRefreshToken сохраняет refresh токен
func (r *tokenRepository) SaveRefreshToken(ctx context.Context, token *entity.RefreshToken) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(token).Error; err != nil {
		return fmt.Errorf("failed to save refresh token: %w", err)
	}
	return nil
}

// GetRefreshToken получает refresh токен, включая отозванные и истекшие
func (r *tokenRepository) GetRefreshToken(ctx context.Context, token string) (*entity.RefreshToken, error) {
	var stored entity.RefreshToken
	result := r.db.WithContext(ctx).Where("token = ?", token).First(&stored)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRefreshTokenNotFound
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", result.Error)
	}

	return &stored, nil
}

// RevokeRefreshToken помечает токен отозванным
// Условие revoked = false делает повторный отзыв неуспешным
func (r *tokenRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&entity.RefreshToken{}).
		Where("token = ? AND revoked = ?", token, false).
		Updates(map[string]interface{}{
			"revoked":    true,
			"revoked_at": now,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrRefreshTokenNotFound
	}

	return nil
}

// CleanupExpiredTokens удаляет истекшие и отозванные токены
func (r *tokenRepository) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ? OR revoked = ?", time.Now(), true).
		Delete(&entity.RefreshToken{})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to cleanup refresh tokens: %w", result.Error)
	}

	return result.RowsAffected, nil
}
