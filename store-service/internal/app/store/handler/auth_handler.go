package handler

import (
	"errors"
	"net/http"

	"ministore/pkg/logger"
	"ministore/pkg/metrics"
	"ministore/store-service/internal/app/store/entity"
	"ministore/store-service/internal/app/store/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type AuthHandler struct {
	authService service.AuthServiceInterface
	validator   *validator.Validate
}

func NewAuthHandler(authService service.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator.New(),
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req entity.RegisterRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserExists):
			respondError(c, http.StatusConflict, "User with this email already exists")
		default:
			logger.Error().Err(err).Str("email", req.Email).Msg("Failed to register user")
			respondError(c, http.StatusInternalServerError, "Failed to register user")
		}
		return
	}

	metrics.AuthRegistrations.Inc()
	metrics.AuthTokensIssued.WithLabelValues("access").Inc()
	metrics.AuthTokensIssued.WithLabelValues("refresh").Inc()

	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req entity.LoginRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			metrics.AuthLogins.WithLabelValues("failed").Inc()
			respondError(c, http.StatusUnauthorized, "Invalid email or password")
		default:
			logger.Error().Err(err).Str("email", req.Email).Msg("Failed to login")
			respondError(c, http.StatusInternalServerError, "Failed to login")
		}
		return
	}

	metrics.AuthLogins.WithLabelValues("success").Inc()
	metrics.AuthTokensIssued.WithLabelValues("access").Inc()
	metrics.AuthTokensIssued.WithLabelValues("refresh").Inc()

	c.JSON(http.StatusOK, resp)
}

// RefreshToken обменивает refresh токен на новую пару, старый токен отзывается
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req entity.RefreshTokenRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	tokens, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRefreshToken):
			respondError(c, http.StatusUnauthorized, "Invalid refresh token")
		default:
			logger.Error().Err(err).Msg("Failed to refresh token")
			respondError(c, http.StatusInternalServerError, "Failed to refresh token")
		}
		return
	}

	metrics.AuthTokensRevoked.Inc()
	metrics.AuthTokensIssued.WithLabelValues("access").Inc()
	metrics.AuthTokensIssued.WithLabelValues("refresh").Inc()

	c.JSON(http.StatusOK, tokens)
}

func (h *AuthHandler) RevokeToken(c *gin.Context) {
	var req entity.RefreshTokenRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	if err := h.authService.RevokeToken(c.Request.Context(), req.RefreshToken); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRefreshToken):
			respondError(c, http.StatusUnauthorized, "Invalid refresh token")
		default:
			logger.Error().Err(err).Msg("Failed to revoke token")
			respondError(c, http.StatusInternalServerError, "Failed to revoke token")
		}
		return
	}

	metrics.AuthTokensRevoked.Inc()

	c.JSON(http.StatusOK, entity.MessageResponse{
		Message: "Token revoked successfully",
	})
}
