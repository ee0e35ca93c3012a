package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/gigmarket-backend/internal/logger"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
)

// ErrorHandler обрабатывает ошибки централизованно.
// Маскирует внутренние ошибки и возвращает понятные сообщения клиенту.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last()

		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"error":  err.Error(),
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Error("Request error")
		}

		if appErr, ok := apperror.As(err.Err); ok {
			message := appErr.Message
			if appErr.Code == apperror.ErrCodeInternal {
				message = "внутренняя ошибка сервера"
			}
			c.JSON(appErr.HTTPStatus, gin.H{"error": message, "code": string(appErr.Code)})
			return
		}

		statusCode := http.StatusInternalServerError
		message := "внутренняя ошибка сервера"
		if errStr := err.Error(); errStr != "" && !containsInternalKeywords(errStr) {
			message = errStr
			if contains(errStr, "неверный") || contains(errStr, "невалид") {
				statusCode = http.StatusBadRequest
			} else if contains(errStr, "нет прав") || contains(errStr, "не авторизован") {
				statusCode = http.StatusForbidden
			}
		}
		c.JSON(statusCode, gin.H{"error": message})
	}
}

// containsInternalKeywords проверяет, содержит ли строка ключевые слова внутренних ошибок.
func containsInternalKeywords(s string) bool {
	keywords := []string{
		"sql:",
		"database",
		"connection",
		"timeout",
		"internal",
		"panic",
		"runtime",
	}

	for _, keyword := range keywords {
		if contains(s, keyword) {
			return true
		}
	}
	return false
}

// contains проверяет, содержит ли строка подстроку (case-insensitive).
func contains(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
