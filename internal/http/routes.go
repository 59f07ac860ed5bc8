package http

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	middleware "account-pool-system.com/account-pool-system/internal/http/middlewares"
)

func Register(e *echo.Echo, h *Handler, rateLimitPerMinute int, logger *zap.Logger) {
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.RateLimiter(rateLimitPerMinute, time.Minute))

	e.GET("/health", h.Health)
	e.GET("/accounts/next", h.NextAccount)
	e.POST("/accounts/return/:accountNumber", h.ReturnAccount)
	e.GET("/accounts/:accountNumber", h.GetAccount)
}

// RequestID returns the id assigned to the request by the logging middleware.
func RequestID(c echo.Context) string {
	return middleware.RequestID(c)
}
