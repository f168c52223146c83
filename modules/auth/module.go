package auth

import (
	"context"

	"volunteer-events-api/core/cache"
	"volunteer-events-api/core/database"
	"volunteer-events-api/core/logger"
	"volunteer-events-api/core/middleware"
	"volunteer-events-api/modules/auth/controller"
	"volunteer-events-api/modules/auth/repository"
	"volunteer-events-api/modules/auth/router"
	"volunteer-events-api/modules/auth/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the auth module, seeds the default admin, and registers
// routes.
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware) {
	repo := repository.NewAuthRepository(db)
	svc := service.NewAuthService(repo, cache.GetCache())
	ctrl := controller.NewAuthController(svc)
	rtr := router.NewAuthRouter(ctrl)

	if err := svc.EnsureDefaultAdmin(context.Background()); err != nil {
		logger.Error("auth:Init:EnsureDefaultAdmin:Error:", err)
	}

	rtr.Setup(e, mw)
}
