package server

import (
	"pos/internal/config"
	"pos/internal/handler"
	"pos/internal/metrics"
	"pos/internal/middleware"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Purchase     *handler.PurchaseHandler
	Product      *handler.ProductHandler
	AdminProduct *handler.AdminProductHandler
	Transaction  *handler.TransactionHandler
	AuditLog     *handler.AuditLogHandler
	Health       *handler.HealthHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, m *metrics.ServerMetrics, h Handlers) {
	//マスタ変更と監査ログはADMINのJWTが必要
	adminGuard := []echo.MiddlewareFunc{
		middleware.AuthJWT(cfg.JWTSecret),
		middleware.AdminRoleGuard(),
	}
	//取引台帳はADMINかAUDITOR
	ledgerGuard := []echo.MiddlewareFunc{
		middleware.AuthJWT(cfg.JWTSecret),
		middleware.LedgerRoleGuard(),
	}

	h.Health.RegisterRoutes(e)
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	h.Purchase.RegisterRoutes(e)
	h.Product.RegisterRoutes(e)
	h.AdminProduct.RegisterRoutes(e, adminGuard...)
	h.Transaction.RegisterRoutes(e, ledgerGuard...)
	h.AuditLog.RegisterRoutes(e, adminGuard...)
}
