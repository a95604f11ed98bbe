package server

import (
	"github.com/labstack/echo/v4"

	"sklad/internal/config"
	"sklad/internal/handler"
)

type Handlers struct {
	Auth   *handler.AuthHandler
	Public *handler.PublicHandler
	Item   *handler.ItemHandler
	Size   *handler.SizeHandler
	Supply *handler.SupplyHandler
	Order  *handler.OrderHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	h.Auth.RegisterRoutes(e)
	h.Public.RegisterRoutes(e)
	h.Item.RegisterRoutes(e, cfg)
	h.Size.RegisterRoutes(e, cfg)
	h.Supply.RegisterRoutes(e, cfg)
	h.Order.RegisterRoutes(e, cfg)
}
