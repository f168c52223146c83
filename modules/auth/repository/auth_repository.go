package repository

import (
	"context"
	"database/sql"
	"time"

	"volunteer-events-api/core/database"
	"volunteer-events-api/core/logger"
	"volunteer-events-api/modules/auth/entity"
)

// AuthRepository handles admin account and OAuth state storage.
type AuthRepository struct {
	DB database.IDatabase
}

func NewAuthRepository(db database.IDatabase) *AuthRepository {
	return &AuthRepository{DB: db}
}

type AuthRepositoryInterface interface {
	GetAdminByIdentifier(ctx context.Context, identifier string) (*entity.Admin, error)
	CreateAdmin(ctx context.Context, admin *entity.Admin) (*entity.Admin, error)
	SaveOAuthState(ctx context.Context, state string, expiresAt time.Time) error
	GetOAuthState(ctx context.Context, state string) (*entity.OAuthState, error)
	DeleteOAuthState(ctx context.Context, state string) error
}

// GetAdminByIdentifier looks up an admin by username or email.
func (r *AuthRepository) GetAdminByIdentifier(ctx context.Context, identifier string) (*entity.Admin, error) {
	query := `
		SELECT id, username, email, password, is_active, created_at, updated_at
		FROM admins
		WHERE username = $1 OR LOWER(email) = LOWER($1)
	`

	var admin entity.Admin
	err := r.DB.GetContext(ctx, &admin, query, identifier)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AuthRepository:GetAdminByIdentifier", err)
		return nil, err
	}

	return &admin, nil
}

func (r *AuthRepository) CreateAdmin(ctx context.Context, admin *entity.Admin) (*entity.Admin, error) {
	query := `
		INSERT INTO admins (username, email, password, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, username, email, password, is_active, created_at, updated_at
	`

	var created entity.Admin
	err := r.DB.GetContext(ctx, &created, query, admin.Username, admin.Email, admin.Password, admin.IsActive)
	if err != nil {
		logger.Error("AuthRepository:CreateAdmin", err)
		return nil, err
	}

	return &created, nil
}

func (r *AuthRepository) SaveOAuthState(ctx context.Context, state string, expiresAt time.Time) error {
	err := r.DB.ExecContext(ctx,
		`INSERT INTO oauth_states (state, expires_at) VALUES ($1, $2)`, state, expiresAt)
	if err != nil {
		logger.Error("AuthRepository:SaveOAuthState", err)
		return err
	}
	return nil
}

// GetOAuthState returns the state row if it exists and has not expired.
func (r *AuthRepository) GetOAuthState(ctx context.Context, state string) (*entity.OAuthState, error) {
	query := `SELECT state, expires_at FROM oauth_states WHERE state = $1 AND expires_at > NOW()`

	var row entity.OAuthState
	err := r.DB.GetContext(ctx, &row, query, state)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AuthRepository:GetOAuthState", err)
		return nil, err
	}

	return &row, nil
}

func (r *AuthRepository) DeleteOAuthState(ctx context.Context, state string) error {
	err := r.DB.ExecContext(ctx, `DELETE FROM oauth_states WHERE state = $1`, state)
	if err != nil {
		logger.Error("AuthRepository:DeleteOAuthState", err)
		return err
	}
	return nil
}
