package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// respondError отвечает JSON вида {"error": "<status text>", "message": "..."}
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"error":   http.StatusText(status),
		"message": message,
	})
}

// parseID читает числовой :id из пути, при ошибке сразу отвечает 400
func parseID(c *gin.Context, entityName string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "Invalid "+entityName+" ID")
		return 0, false
	}
	return uint(id), true
}

// bindAndValidate разбирает тело запроса и проверяет его validator-ом
func bindAndValidate(c *gin.Context, v *validator.Validate, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return false
	}

	// Валидация
	if err := v.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, formatValidationError(err))
		return false
	}

	return true
}

// formatValidationError форматирует ошибки валидации
func formatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			if fieldError.Param() != "" {
				return fieldError.Field() + " is " + fieldError.Tag() + "=" + fieldError.Param()
			}
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}

// resourceLocation строит значение заголовка Location для созданного ресурса
func resourceLocation(resource string, id uint) string {
	return fmt.Sprintf("/api/%s/%d", resource, id)
}
