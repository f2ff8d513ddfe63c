package handler

import (
	"errors"
	"net/http"
	"strings"

	"ministore/pkg/logger"
	"ministore/store-service/internal/app/store/service"
	"ministore/store-service/internal/app/store/util"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserName = "username"
	ctxEmail    = "email"
)

const (
	msgMissingAuthHeader = "Authorization header required"
	msgMalformedHeader   = "Invalid authorization header format"
)

// AuthMiddleware пропускает запрос дальше только с действующим access токеном
type AuthMiddleware struct {
	authService service.AuthServiceInterface
}

func NewAuthMiddleware(authService service.AuthServiceInterface) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, problem := bearerToken(c.GetHeader("Authorization"))
		if problem != "" {
			abortUnauthorized(c, problem)
			return
		}

		claims, err := m.authService.ValidateAccessToken(token)
		switch {
		case errors.Is(err, util.ErrExpiredToken):
			abortUnauthorized(c, "Token has expired")
			return
		case err != nil:
			abortUnauthorized(c, "Invalid token")
			return
		}

		c.Set(logger.UserIDKey, claims.UserID)
		c.Set(ctxUserName, claims.UserName)
		c.Set(ctxEmail, claims.Email)

		c.Next()
	}
}

// bearerToken достает токен из заголовка вида "Bearer <token>"
// Вторым значением возвращается текст ошибки для ответа 401
func bearerToken(header string) (string, string) {
	if header == "" {
		return "", msgMissingAuthHeader
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != "Bearer" || token == "" || strings.Contains(token, " ") {
		return "", msgMalformedHeader
	}

	return token, ""
}

func abortUnauthorized(c *gin.Context, message string) {
	respondError(c, http.StatusUnauthorized, message)
	c.Abort()
}
