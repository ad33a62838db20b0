package server

import (
	"market/internal/config"
	"market/internal/handler"

	"github.com/labstack/echo/v4"
)

// Handlers は routes に登録する全ハンドラ
type Handlers struct {
	Auth          *handler.AuthHandler
	Product       *handler.ProductHandler
	VendorProduct *handler.VendorProductHandler
	AdminProduct  *handler.AdminProductHandler
	Order         *handler.OrderHandler
	AdminOrder    *handler.AdminOrderHandler
	Report        *handler.ReportHandler
	User          *handler.UserHandler
	AdminUser     *handler.AdminUserHandler
	Category      *handler.CategoryHandler
	Review        *handler.ReviewHandler
	Favorite      *handler.FavoriteHandler
	Chat          *handler.ChatHandler
	AuditLog      *handler.AuditLogHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	h.Auth.RegisterRoutes(e)
	h.Product.RegisterRoutes(e, cfg)
	h.VendorProduct.RegisterRoutes(e, cfg)
	h.AdminProduct.RegisterRoutes(e, cfg)
	h.Order.RegisterRoutes(e, cfg)
	h.AdminOrder.RegisterRoutes(e, cfg)
	h.Report.RegisterRoutes(e, cfg)
	h.User.RegisterRoutes(e, cfg)
	h.AdminUser.RegisterRoutes(e, cfg)
	h.Category.RegisterRoutes(e, cfg)
	h.Review.RegisterRoutes(e, cfg)
	h.Favorite.RegisterRoutes(e, cfg)
	h.Chat.RegisterRoutes(e, cfg)
	h.AuditLog.RegisterRoutes(e, cfg)
}
