package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"patrolBandit/internal/rest"
)

func SetupSimulationRoutes(api *echo.Group, handler *rest.SimulationHandler) {
	simulations := api.Group("/simulations")

	simulations.POST("", handler.Simulate)
	simulations.GET("/:id", handler.GetSimulation)
}

func SetupMetricsRoute(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
