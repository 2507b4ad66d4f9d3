package middleware

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBearerAuth(t *testing.T) {
	r := newRouter(BearerAuth(AuthConfig{TokenAPI: "segredo"}))

	tests := []struct {
		name   string
		header string
		want   int
		errMsg string
	}{
		{"valid token", "Bearer segredo", http.StatusOK, ""},
		{"scheme is case insensitive", "bearer segredo", http.StatusOK, ""},
		{"missing header", "", http.StatusUnauthorized, "header Authorization ausente"},
		{"wrong scheme", "Basic segredo", http.StatusUnauthorized, "formato inválido"},
		{"no token part", "Bearer", http.StatusUnauthorized, "formato inválido"},
		{"wrong token", "Bearer outro", http.StatusUnauthorized, "token inválido"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := map[string]string{}
			if tt.header != "" {
				header["Authorization"] = tt.header
			}
			w := do(r, http.MethodGet, "/ping", header)
			assert.Equal(t, tt.want, w.Code)
			if tt.errMsg != "" {
				assert.Contains(t, w.Body.String(), tt.errMsg)
				assert.Contains(t, w.Body.String(), `"success":false`)
			}
		})
	}
}

func TestBearerAuth_EmptyConfiguredToken(t *testing.T) {
	r := newRouter(BearerAuth(AuthConfig{}))

	w := do(r, http.MethodGet, "/ping", map[string]string{"Authorization": "Bearer "})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
