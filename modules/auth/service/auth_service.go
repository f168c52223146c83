package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"volunteer-events-api/core/cache"
	"volunteer-events-api/core/config"
	"volunteer-events-api/core/constants"
	"volunteer-events-api/core/errors"
	"volunteer-events-api/core/logger"
	"volunteer-events-api/core/utils"
	"volunteer-events-api/modules/auth/dto"
	"volunteer-events-api/modules/auth/entity"
	"volunteer-events-api/modules/auth/repository"
)

// AuthService authenticates admins. There is no self-registration; accounts
// are seeded from configuration or created by an operator, and Google sign-in
// only succeeds for emails that already belong to an admin.
type AuthService struct {
	repo  repository.AuthRepositoryInterface
	cache cache.ICache
}

type AuthServiceInterface interface {
	Login(ctx context.Context, requestData *dto.LoginRequest) (*dto.LoginResponse, *errors.AppError)
	Logout(ctx context.Context, token string) *errors.AppError
	RefreshToken(ctx context.Context, token string) (*dto.RefreshTokenResponse, *errors.AppError)
	GetGoogleAuthURL(ctx context.Context) (string, *errors.AppError)
	HandleGoogleCallback(ctx context.Context, code string, state string) (*dto.LoginResponse, *errors.AppError)
	EnsureDefaultAdmin(ctx context.Context) error
}

func NewAuthService(repo repository.AuthRepositoryInterface, c cache.ICache) AuthServiceInterface {
	return &AuthService{repo: repo, cache: c}
}

// Login authenticates an admin by username or email and password. Repeated
// failures lock the identifier out for BlockDuration.
func (service *AuthService) Login(ctx context.Context, requestData *dto.LoginRequest) (*dto.LoginResponse, *errors.AppError) {
	loginKey := constants.RedisKeyLoginAttempt + requestData.Identifier

	blocked, err := service.cache.IsLoginBlocked(ctx, loginKey)
	if err != nil {
		logger.Error("AuthService:Login:IsLoginBlocked:Error:", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get login attempt", err)
	}

	// A blocked identifier gets its block refreshed, not reset.
	if blocked {
		errExpire := service.cache.Expire(ctx, loginKey, constants.BlockDuration)
		if errExpire != nil {
			logger.Error("AuthService:Login:Expire:Error:", errExpire)
			return nil, errors.NewAppError(errors.ErrInternalServer, "failed to refresh login block", errExpire)
		}
		return nil, errors.NewAppError(errors.ErrUnauthorized, "too many failed attempts, try again later", nil)
	}

	admin, errGet := service.repo.GetAdminByIdentifier(ctx, requestData.Identifier)
	if errGet != nil {
		logger.Error("AuthService:Login:GetAdminByIdentifier:Error:", errGet)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get admin", errGet)
	}
	if admin == nil {
		// Count the miss so unknown identifiers cannot be probed for free.
		if errIncrement := service.cache.IncrementLoginAttempt(ctx, loginKey); errIncrement != nil {
			logger.Error("AuthService:Login:IncrementLoginAttempt:Error:", errIncrement)
		}
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid credentials", nil)
	}

	if !admin.IsActive {
		if errIncrement := service.cache.IncrementLoginAttempt(ctx, loginKey); errIncrement != nil {
			logger.Error("AuthService:Login:IncrementLoginAttempt:Error:", errIncrement)
		}
		return nil, errors.NewAppError(errors.ErrUnauthorized, "account is not active", nil)
	}

	if !utils.ComparePassword(admin.Password, requestData.Password) {
		if errIncrement := service.cache.IncrementLoginAttempt(ctx, loginKey); errIncrement != nil {
			logger.Error("AuthService:Login:IncrementLoginAttempt:Error:", errIncrement)
		}
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid credentials", nil)
	}

	accessToken, err := utils.GenerateToken(admin.ID, admin.Email, admin.Username, constants.ScopeTokenAccess)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to generate access token", err)
	}

	refreshToken, err := utils.GenerateToken(admin.ID, admin.Email, admin.Username, constants.ScopeTokenRefresh)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to generate refresh token", err)
	}

	if errDel := service.cache.Del(ctx, loginKey); errDel != nil {
		logger.Error("AuthService:Login:Del:Error:", errDel)
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (service *AuthService) Logout(ctx context.Context, token string) *errors.AppError {
	err := service.cache.AddToTokenBlacklist(ctx, token)
	if err != nil {
		logger.Error("AuthService:Logout:AddToBlacklist:Error:", err)
		return errors.NewAppError(errors.ErrInternalServer, "failed to add token to blacklist", err)
	}
	return nil
}

// RefreshToken exchanges a valid refresh token for a new token pair. The old
// refresh token is blacklisted so it is single use.
func (service *AuthService) RefreshToken(ctx context.Context, token string) (*dto.RefreshTokenResponse, *errors.AppError) {
	isBlacklisted, errCheck := service.cache.IsTokenBlacklisted(ctx, token)
	if errCheck != nil {
		logger.Error("AuthService:RefreshToken:IsTokenBlacklisted:Error:", errCheck)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to check token", errCheck)
	}
	if isBlacklisted {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "token is blacklisted", nil)
	}

	claims, err := utils.ValidateAndParseToken(token)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "failed to parse token", nil)
	}
	if claims.Scope != constants.ScopeTokenRefresh {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid token scope", nil)
	}

	admin, errGet := service.repo.GetAdminByIdentifier(ctx, claims.Email)
	if errGet != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get admin", errGet)
	}
	if admin == nil || !admin.IsActive {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "account is not active", nil)
	}

	accessToken, err := utils.GenerateToken(admin.ID, admin.Email, admin.Username, constants.ScopeTokenAccess)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to generate access token", err)
	}

	refreshToken, err := utils.GenerateToken(admin.ID, admin.Email, admin.Username, constants.ScopeTokenRefresh)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to generate refresh token", err)
	}

	if errAdd := service.cache.AddToTokenBlacklist(ctx, token); errAdd != nil {
		logger.Error("AuthService:RefreshToken:AddToBlacklist:Error:", errAdd)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to blacklist old token", errAdd)
	}

	return &dto.RefreshTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// GetGoogleAuthURL generates the Google OAuth authorization URL with a
// one-time state token.
func (service *AuthService) GetGoogleAuthURL(ctx context.Context) (string, *errors.AppError) {
	oauthConfig, appErr := service.googleOAuthConfig()
	if appErr != nil {
		return "", appErr
	}

	state := utils.GenerateRandomString(32)
	expiresAt := time.Now().Add(constants.OAuthStateTTL)
	if err := service.repo.SaveOAuthState(ctx, state, expiresAt); err != nil {
		logger.Error("AuthService:GetGoogleAuthURL:SaveOAuthState:Error:", err)
		return "", errors.NewAppError(errors.ErrInternalServer, "failed to store state token", err)
	}

	authURL := oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline)
	return authURL, nil
}

// HandleGoogleCallback validates the state, exchanges the code, and issues
// tokens when the Google account's email belongs to an existing admin.
func (service *AuthService) HandleGoogleCallback(ctx context.Context, code string, state string) (*dto.LoginResponse, *errors.AppError) {
	oauthState, err := service.repo.GetOAuthState(ctx, state)
	if err != nil {
		logger.Error("AuthService:HandleGoogleCallback:GetOAuthState:Error:", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to validate state token", err)
	}
	if oauthState == nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid or expired state token", nil)
	}

	// One-time use; a delete failure is not fatal.
	if err := service.repo.DeleteOAuthState(ctx, state); err != nil {
		logger.Error("AuthService:HandleGoogleCallback:DeleteOAuthState:Error:", err)
	}

	oauthConfig, appErr := service.googleOAuthConfig()
	if appErr != nil {
		return nil, appErr
	}

	token, err := oauthConfig.Exchange(ctx, code)
	if err != nil {
		logger.Error("AuthService:HandleGoogleCallback:Exchange:Error:", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to exchange token", err)
	}

	userInfo, err := service.getGoogleUserInfo(ctx, token.AccessToken)
	if err != nil {
		logger.Error("AuthService:HandleGoogleCallback:GetGoogleUserInfo:Error:", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get user info", err)
	}

	admin, errGet := service.repo.GetAdminByIdentifier(ctx, userInfo.Email)
	if errGet != nil {
		logger.Error("AuthService:HandleGoogleCallback:GetAdminByIdentifier:Error:", errGet)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get admin", errGet)
	}
	if admin == nil || !admin.IsActive {
		return nil, errors.NewAppError(errors.ErrForbidden, "this Google account is not an admin", nil)
	}

	accessToken, err := utils.GenerateToken(admin.ID, admin.Email, admin.Username, constants.ScopeTokenAccess)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to generate access token", err)
	}

	refreshToken, err := utils.GenerateToken(admin.ID, admin.Email, admin.Username, constants.ScopeTokenRefresh)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to generate refresh token", err)
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// EnsureDefaultAdmin seeds the configured admin account if no matching
// account exists. Called once at startup.
func (service *AuthService) EnsureDefaultAdmin(ctx context.Context) error {
	cfg, ok := config.GetSafe()
	if !ok {
		return fmt.Errorf("config not initialized")
	}
	if cfg.Admin.Username == "" || cfg.Admin.Password == "" {
		logger.Info("no default admin configured, skipping seed")
		return nil
	}

	existing, err := service.repo.GetAdminByIdentifier(ctx, cfg.Admin.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hashed, err := utils.HashPassword(cfg.Admin.Password)
	if err != nil {
		return err
	}

	_, err = service.repo.CreateAdmin(ctx, &entity.Admin{
		Username: cfg.Admin.Username,
		Email:    cfg.Admin.Email,
		Password: hashed,
		IsActive: true,
	})
	if err != nil {
		return err
	}

	logger.Info("seeded default admin", "username", cfg.Admin.Username)
	return nil
}

func (service *AuthService) googleOAuthConfig() (*oauth2.Config, *errors.AppError) {
	cfg, ok := config.GetSafe()
	if !ok {
		return nil, errors.NewAppError(errors.ErrInternalServer, "config not initialized", nil)
	}
	if cfg.GoogleAPI.ClientID == "" || cfg.GoogleAPI.ClientSecret == "" || cfg.GoogleAPI.RedirectURI == "" {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Google OAuth configuration is missing", nil)
	}

	return &oauth2.Config{
		ClientID:     cfg.GoogleAPI.ClientID,
		ClientSecret: cfg.GoogleAPI.ClientSecret,
		RedirectURL:  cfg.GoogleAPI.RedirectURI,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}, nil
}

// GoogleUserInfo represents Google user information.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (service *AuthService) getGoogleUserInfo(ctx context.Context, accessToken string) (*GoogleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", "https://www.googleapis.com/oauth2/v2/userinfo", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get user info: %s", string(body))
	}

	var userInfo GoogleUserInfo
	if err := json.Unmarshal(body, &userInfo); err != nil {
		return nil, err
	}

	return &userInfo, nil
}
