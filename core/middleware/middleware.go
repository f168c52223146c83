package middleware

import (
	"strings"

	"volunteer-events-api/core/cache"
	"volunteer-events-api/core/constants"
	"volunteer-events-api/core/controller"
	"volunteer-events-api/core/errors"
	"volunteer-events-api/core/logger"
	"volunteer-events-api/core/utils"

	"github.com/labstack/echo/v4"
)

type Middleware struct {
	cache cache.ICache
}

func NewMiddleware(c cache.ICache) *Middleware {
	return &Middleware{cache: c}
}

// AuthMiddleware guards private routes: bearer token, access scope,
// blacklist check, then claims into context.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return controller.NewErrorResponse(401, errors.ErrMissingAuthorizationHeader, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return controller.NewErrorResponse(401, errors.ErrInvalidTokenFormat, "invalid token format")
			}
			token := parts[1]

			blacklisted, err := m.cache.IsTokenBlacklisted(c.Request().Context(), token)
			if err != nil {
				logger.Error("Middleware:AuthMiddleware:IsTokenBlacklisted:Error:", err)
				return controller.NewErrorResponse(500, errors.ErrInternalServer, "failed to check token")
			}
			if blacklisted {
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "token is blacklisted")
			}

			claims, err := utils.ValidateAndParseToken(token)
			if err != nil {
				return controller.NewErrorResponse(401, errors.ErrTokenExpired, "invalid or expired token")
			}
			if claims.Scope != constants.ScopeTokenAccess {
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "invalid token scope")
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}
