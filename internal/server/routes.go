package server

import (
	"restaurant/internal/handler"
	"restaurant/internal/metrics"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Menu        *handler.MenuHandler
	Order       *handler.OrderHandler
	Association *handler.AssociationHandler
	Health      *handler.HealthHandler
}

func RegisterRoutes(e *echo.Echo, h Handlers) {
	h.Menu.RegisterRoutes(e)
	h.Order.RegisterRoutes(e)
	h.Association.RegisterRoutes(e)
	h.Health.RegisterRoutes(e)

	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}
