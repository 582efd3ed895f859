package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/crateyy/internal/container"
	"github.com/oksasatya/crateyy/internal/domain/entity"
	handlers "github.com/oksasatya/crateyy/internal/interface/http"
	"github.com/oksasatya/crateyy/internal/interface/middleware"
	"github.com/oksasatya/crateyy/pkg/helpers"
)

// ProductModule serves the catalog.
// Public: GET /api/products, GET /api/products/search
// Admin: POST /api/products, PUT /api/products/:id, DELETE /api/products/:id
type ProductModule struct {
	Handler *handlers.ProductHandler
	JWT     *helpers.JWTManager
}

func NewProductModule(h *handlers.ProductHandler, jwt *helpers.JWTManager) *ProductModule {
	return &ProductModule{Handler: h, JWT: jwt}
}

func (m *ProductModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	searchLimiter := middleware.Limit(rdb, middleware.SearchPolicy)

	rg.GET("/products", m.Handler.List)
	rg.GET("/products/search", searchLimiter, m.Handler.Search)

	admin := rg.Group("/products")
	admin.Use(
		middleware.Auth(rdb, m.JWT),
		middleware.RequireRole(string(entity.RoleAdmin)),
		middleware.Limit(rdb, middleware.AdminWritePolicy),
	)
	{
		admin.POST("", m.Handler.Create)
		admin.PUT("/:id", m.Handler.Update)
		admin.DELETE("/:id", m.Handler.Delete)
	}
}
