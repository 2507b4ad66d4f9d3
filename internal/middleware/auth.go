package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/cleberrangel/gantt-timeline-api/internal/logger"
	"github.com/cleberrangel/gantt-timeline-api/internal/model"
	"github.com/gin-gonic/gin"
)

// AuthConfig contém a configuração do middleware de autenticação
type AuthConfig struct {
	TokenAPI string
}

// BearerAuth retorna um middleware que valida o token Bearer
func BearerAuth(cfg AuthConfig) gin.HandlerFunc {
	expected := []byte(cfg.TokenAPI)

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" {
			unauthorized(c, "header Authorization ausente")
			return
		}

		// Extrai o token do formato "Bearer {token}"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			unauthorized(c, "formato inválido, esperado: Bearer {token}")
			return
		}

		token := strings.TrimSpace(parts[1])

		if len(expected) == 0 || subtle.ConstantTimeCompare([]byte(token), expected) != 1 {
			unauthorized(c, "token inválido")
			return
		}

		c.Next()
	}
}

func unauthorized(c *gin.Context, msg string) {
	logger.FromGin(c).Warn().
		Str("path", c.Request.URL.Path).
		Str("client_ip", c.ClientIP()).
		Msg("Requisição não autorizada")

	c.AbortWithStatusJSON(http.StatusUnauthorized, model.ErrorResponse{
		Success: false,
		Error:   msg,
	})
}
