package routes

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/freshcatch/backend/services"
)

func TestRegister(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	Register(router, &Controllers{}, services.NewTokenService("test-secret", time.Hour))

	registered := make(map[string]bool)
	for _, r := range router.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	for _, route := range []string{
		"GET /health",
		"POST /api/v1/auth/register",
		"POST /api/v1/auth/logout",
		"GET /api/v1/products/:productId",
		"GET /api/v1/vendors/:vendorId/products",
		"POST /api/v1/cart/add",
		"PUT /api/v1/cart/sync-prices",
		"POST /api/v1/orders",
		"PATCH /api/v1/orders/:orderId/cancel",
		"GET /api/v1/orders/vendor/orders",
		"PATCH /api/v1/orders/vendor/:orderId/status",
		"PATCH /api/v1/vendor/toggle-open",
		"PATCH /api/v1/admin/vendors/:vendorId/verify",
	} {
		assert.True(t, registered[route], "missing route %s", route)
	}
}
