package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ministore/store-service/internal/app/store/entity"
	"ministore/store-service/internal/app/store/repository"
	"ministore/store-service/internal/app/store/util"
)

// AuthService обрабатывает регистрацию, вход и ротацию refresh токенов
type AuthService struct {
	userRepo   repository.UserRepository
	tokenRepo  repository.TokenRepository
	jwtManager *util.JWTManager
	hasher     *util.PasswordHasher
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	jwtManager *util.JWTManager,
	hasher *util.PasswordHasher,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtManager: jwtManager,
		hasher:     hasher,
	}
}

type tokenPair struct {
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

// Register регистрирует нового пользователя и выдает пару токенов
func (s *AuthService) Register(ctx context.Context, req *entity.RegisterRequest) (*entity.AuthResponse, error) {
	existingUser, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, ErrUserExists
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		UserName:     req.UserName,
		Email:        req.Email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Параллельная регистрация с тем же email
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.authResponse(ctx, user)
}

// Login выполняет вход пользователя
func (s *AuthService) Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.hasher.Check(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.authResponse(ctx, user)
}

// RefreshToken обменивает refresh токен на новую пару
// Использованный токен отзывается, повторно его применить нельзя
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*entity.TokenResponse, error) {
	storedToken, err := s.tokenRepo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	if !storedToken.IsActive(time.Now()) {
		return nil, ErrInvalidRefreshToken
	}

	if err := s.tokenRepo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		// Токен уже использован параллельным запросом
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, storedToken.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	pair, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	return &entity.TokenResponse{
		AccessToken:  pair.accessToken,
		RefreshToken: pair.refreshToken,
		UserName:     user.UserName,
		Email:        user.Email,
		ExpiresAt:    pair.expiresAt,
	}, nil
}

// RevokeToken отзывает refresh токен
func (s *AuthService) RevokeToken(ctx context.Context, refreshToken string) error {
	if err := s.tokenRepo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return ErrInvalidRefreshToken
		}
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// ValidateAccessToken проверяет access токен
func (s *AuthService) ValidateAccessToken(accessToken string) (*util.JWTClaims, error) {
	return s.jwtManager.ValidateToken(accessToken)
}

// CleanupExpiredTokens удаляет истекшие и отозванные refresh токены
func (s *AuthService) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	removed, err := s.tokenRepo.CleanupExpiredTokens(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup refresh tokens: %w", err)
	}
	return removed, nil
}

func (s *AuthService) authResponse(ctx context.Context, user *entity.User) (*entity.AuthResponse, error) {
	pair, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	return &entity.AuthResponse{
		Token:        pair.accessToken,
		RefreshToken: pair.refreshToken,
		UserName:     user.UserName,
		Email:        user.Email,
		ExpiresAt:    pair.expiresAt,
	}, nil
}

// generateTokenPair генерирует пару токенов (access + refresh)
func (s *AuthService) generateTokenPair(ctx context.Context, user *entity.User) (*tokenPair, error) {
	accessToken, expiresAt, err := s.jwtManager.GenerateAccessToken(user.ID, user.UserName, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	now := time.Now().UTC()
	if err := s.tokenRepo.SaveRefreshToken(ctx, &entity.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: now.Add(s.jwtManager.GetRefreshTokenDuration()),
		CreatedAt: now,
	}); err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}

	return &tokenPair{
		accessToken:  accessToken,
		refreshToken: refreshToken,
		expiresAt:    expiresAt,
	}, nil
}
