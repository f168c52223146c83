package controller

import (
	"strings"

	"volunteer-events-api/core/controller"
	"volunteer-events-api/core/errors"
	"volunteer-events-api/modules/auth/dto"
	"volunteer-events-api/modules/auth/service"

	"github.com/labstack/echo/v4"
)

type AuthController struct {
	controller.BaseController
	AuthService service.AuthServiceInterface
}

func NewAuthController(svc service.AuthServiceInterface) *AuthController {
	return &AuthController{
		BaseController: controller.NewBaseController(),
		AuthService:    svc,
	}
}

// Login handles POST /public/auth/login.
func (c *AuthController) Login(ctx echo.Context) error {
	var req dto.LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}
	if req.Identifier == "" || req.Password == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Identifier and password are required")
	}

	result, appErr := c.AuthService.Login(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Logged in")
}

// Logout handles POST /private/auth/logout. The access token presented in the
// Authorization header is blacklisted.
func (c *AuthController) Logout(ctx echo.Context) error {
	token := bearerToken(ctx)
	if token == "" {
		return c.Unauthorized(errors.ErrMissingAuthorizationHeader, "Missing authorization header")
	}

	if appErr := c.AuthService.Logout(ctx.Request().Context(), token); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Logged out")
}

// RefreshToken handles POST /public/auth/refresh.
func (c *AuthController) RefreshToken(ctx echo.Context) error {
	var req dto.RefreshTokenRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}
	if req.RefreshToken == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Refresh token is required")
	}

	result, appErr := c.AuthService.RefreshToken(ctx.Request().Context(), req.RefreshToken)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Token refreshed")
}

// GoogleAuthURL handles GET /public/auth/google.
func (c *AuthController) GoogleAuthURL(ctx echo.Context) error {
	url, appErr := c.AuthService.GetGoogleAuthURL(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, dto.GoogleAuthURLResponse{URL: url}, "Success")
}

// GoogleCallback handles GET /public/auth/google/callback.
func (c *AuthController) GoogleCallback(ctx echo.Context) error {
	code := ctx.QueryParam("code")
	state := ctx.QueryParam("state")
	if code == "" || state == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Missing code or state")
	}

	result, appErr := c.AuthService.HandleGoogleCallback(ctx.Request().Context(), code, state)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Logged in")
}

func bearerToken(ctx echo.Context) string {
	header := ctx.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
