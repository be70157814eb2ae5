package tenant

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	valid bool
	err   error
}

func (v *stubValidator) ValidateTenant(tenantID string) (bool, error) {
	return v.valid, v.err
}

func setupRouter(validator TenantValidator) (*gin.Engine, *string) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(TenantMiddleware(validator))

	var captured string
	router.GET("/api/v1/quotes", func(c *gin.Context) {
		captured = GetTenantID(c)
		c.Status(http.StatusOK)
	})
	router.POST("/api/v1/auth/login", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router, &captured
}

func TestTenantMiddlewareTenantValido(t *testing.T) {
	router, captured := setupRouter(&stubValidator{valid: true})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotes", nil)
	req.Header.Set("tenant-id", "tenant-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tenant-1", *captured)
}

func TestTenantMiddlewareSemCabecalho(t *testing.T) {
	router, _ := setupRouter(&stubValidator{valid: true})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTenantMiddlewareTenantInvalido(t *testing.T) {
	router, _ := setupRouter(&stubValidator{valid: false})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotes", nil)
	req.Header.Set("tenant-id", "tenant-9")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTenantMiddlewareRotaPublica(t *testing.T) {
	router, _ := setupRouter(&stubValidator{valid: false})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Rotas públicas não exigem tenant
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetTenantIDFromContext(t *testing.T) {
	ctx := SetTenantIDContext(context.Background(), "tenant-1")
	assert.Equal(t, "tenant-1", GetTenantIDFromContext(ctx))
	assert.Empty(t, GetTenantIDFromContext(context.Background()))
}
