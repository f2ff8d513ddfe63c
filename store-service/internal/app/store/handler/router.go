package handler

import (
	"net/http"

	"ministore/pkg/logger"
	"ministore/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const serviceName = "store-service"

// Handlers набор обработчиков, из которых собирается роутер
type Handlers struct {
	Auth     *AuthHandler
	Category *CategoryHandler
	Product  *ProductHandler
	Order    *OrderHandler
}

// SetupRoutes настраивает все маршруты приложения с использованием Gin
func SetupRoutes(h Handlers, authMiddleware *AuthMiddleware) *gin.Engine {
	router := gin.New()

	// Recovery middleware для обработки panic
	router.Use(gin.Recovery())

	// JSON logging middleware для HTTP-запросов (ELK Stack)
	router.Use(logger.GinLoggerMiddleware())

	// Prometheus metrics middleware
	router.Use(metrics.GinPrometheusMiddleware(serviceName))

	// CORS настройки
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowWildcard:    true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Location", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")

	// Публичные эндпоинты аутентификации
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh-token", h.Auth.RefreshToken)
		auth.POST("/revoke-token", h.Auth.RevokeToken)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", h.Category.GetAll)
		categories.GET("/:id", h.Category.GetByID)
		categories.POST("", h.Category.Create)
		categories.PUT("/:id", h.Category.Update)
		categories.DELETE("/:id", h.Category.Delete)
	}

	// Чтение товаров публичное, изменение требует JWT
	products := api.Group("/products")
	{
		products.GET("", h.Product.GetAll)
		products.GET("/:id", h.Product.GetByID)
		products.POST("", authMiddleware.Authenticate(), h.Product.Create)
		products.PUT("/:id", authMiddleware.Authenticate(), h.Product.Update)
		products.DELETE("/:id", authMiddleware.Authenticate(), h.Product.Delete)
	}

	orders := api.Group("/orders")
	{
		orders.GET("", h.Order.GetAll)
		orders.GET("/:id", h.Order.GetByID)
		orders.POST("", h.Order.Create)
		orders.PUT("/:id/status", h.Order.UpdateStatus)
	}

	return router
}
