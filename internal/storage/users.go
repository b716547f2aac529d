package storage

import (
	"context"
	"errors"
	"time"

	"github.com/hospicore/biomedtrack/internal/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// CreateUser registers a new user. The password must already be hashed.
func (p *PostgresClient) CreateUser(ctx context.Context, u User) (*User, error) {
	var user User
	err := p.pool.QueryRow(ctx, `
		INSERT INTO usuarios (nickname, password_hash, email, nombre, apellido, rol, codigo)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, nickname, email, nombre, apellido, rol, codigo, created_at, last_login_at
	`, u.Nickname, u.PasswordHash, u.Email, u.FirstName, u.LastName, u.Role, u.Code).Scan(
		&user.ID, &user.Nickname, &user.Email, &user.FirstName, &user.LastName,
		&user.Role, &user.Code, &user.CreatedAt, &user.LastLoginAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, types.NewValidationError("nickname", "ya existe un usuario con ese nickname")
		}
		return nil, types.NewStorageError("create user", err)
	}
	return &user, nil
}

func (p *PostgresClient) GetUserByNickname(ctx context.Context, nickname string) (*User, error) {
	var user User
	err := p.pool.QueryRow(ctx, `
		SELECT id, nickname, password_hash, email, nombre, apellido, rol, codigo,
		       created_at, last_login_at, failed_login_attempts, locked_until
		FROM usuarios
		WHERE nickname = $1
	`, nickname).Scan(
		&user.ID, &user.Nickname, &user.PasswordHash, &user.Email, &user.FirstName,
		&user.LastName, &user.Role, &user.Code, &user.CreatedAt, &user.LastLoginAt,
		&user.FailedLoginAttempts, &user.LockedUntil,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.NewNotFoundError("usuario", nickname)
		}
		return nil, types.NewStorageError("get user by nickname", err)
	}
	return &user, nil
}

func (p *PostgresClient) GetUserByID(ctx context.Context, userID int64) (*User, error) {
	var user User
	err := p.pool.QueryRow(ctx, `
		SELECT id, nickname, email, nombre, apellido, rol, codigo,
		       created_at, last_login_at, failed_login_attempts, locked_until
		FROM usuarios
		WHERE id = $1
	`, userID).Scan(
		&user.ID, &user.Nickname, &user.Email, &user.FirstName, &user.LastName,
		&user.Role, &user.Code, &user.CreatedAt, &user.LastLoginAt,
		&user.FailedLoginAttempts, &user.LockedUntil,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.NewNotFoundError("usuario", userID)
		}
		return nil, types.NewStorageError("get user", err)
	}
	return &user, nil
}

// ListTechnicians returns the delegation roster: every user with rol=tecnico.
func (p *PostgresClient) ListTechnicians(ctx context.Context) ([]TechnicianSummary, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, nombre, apellido
		FROM usuarios
		WHERE rol = $1
		ORDER BY apellido, nombre, id
	`, string(types.RoleTecnico))
	if err != nil {
		return nil, types.NewStorageError("list technicians", err)
	}
	defer rows.Close()

	techs := make([]TechnicianSummary, 0)
	for rows.Next() {
		var t TechnicianSummary
		if err := rows.Scan(&t.ID, &t.FirstName, &t.LastName); err != nil {
			return nil, types.NewStorageError("scan technician", err)
		}
		techs = append(techs, t)
	}
	return techs, nil
}

func (p *PostgresClient) UpdateLastLogin(ctx context.Context, userID int64) error {
	_, err := p.pool.Exec(ctx, `UPDATE usuarios SET last_login_at = NOW() WHERE id = $1`, userID)
	if err != nil {
		return types.NewStorageError("update last login", err)
	}
	return nil
}

func (p *PostgresClient) IncrementFailedLoginAttempts(ctx context.Context, userID int64, maxAttempts int, lockFor time.Duration) error {
	_, err := p.pool.Exec(ctx, `
		UPDATE usuarios
		SET failed_login_attempts = failed_login_attempts + 1,
		    locked_until = CASE
		        WHEN failed_login_attempts + 1 >= $2 THEN NOW() + $3::interval
		        ELSE locked_until
		    END
		WHERE id = $1
	`, userID, maxAttempts, lockFor.String())
	if err != nil {
		return types.NewStorageError("increment failed logins", err)
	}
	return nil
}

func (p *PostgresClient) ResetFailedLoginAttempts(ctx context.Context, userID int64) error {
	_, err := p.pool.Exec(ctx, `
		UPDATE usuarios SET failed_login_attempts = 0, locked_until = NULL WHERE id = $1
	`, userID)
	if err != nil {
		return types.NewStorageError("reset failed logins", err)
	}
	return nil
}

// DeleteUser honors an explicit account-deletion request. Dependent rows
// cascade at the schema level.
func (p *PostgresClient) DeleteUser(ctx context.Context, userID int64) error {
	result, err := p.pool.Exec(ctx, `DELETE FROM usuarios WHERE id = $1`, userID)
	if err != nil {
		return types.NewStorageError("delete user", err)
	}
	if result.RowsAffected() == 0 {
		return types.NewNotFoundError("usuario", userID)
	}
	return nil
}

// Refresh token methods

func (p *PostgresClient) StoreRefreshToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`, userID, tokenHash, expiresAt)
	if err != nil {
		return types.NewStorageError("store refresh token", err)
	}
	return nil
}

func (p *PostgresClient) GetRefreshToken(ctx context.Context, tokenHash string) (int64, error) {
	var userID int64
	var expiresAt time.Time
	var revokedAt *time.Time

	err := p.pool.QueryRow(ctx, `
		SELECT user_id, expires_at, revoked_at
		FROM refresh_tokens
		WHERE token_hash = $1
	`, tokenHash).Scan(&userID, &expiresAt, &revokedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, types.NewAuthError("refresh token desconocido")
		}
		return 0, types.NewStorageError("get refresh token", err)
	}

	if revokedAt != nil {
		return 0, types.NewAuthError("refresh token revocado")
	}
	if time.Now().After(expiresAt) {
		return 0, types.NewAuthError("refresh token expirado")
	}

	return userID, nil
}

func (p *PostgresClient) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	_, err := p.pool.Exec(ctx, `
		UPDATE refresh_tokens SET revoked_at = NOW() WHERE token_hash = $1
	`, tokenHash)
	if err != nil {
		return types.NewStorageError("revoke refresh token", err)
	}
	return nil
}

func (p *PostgresClient) RevokeAllUserRefreshTokens(ctx context.Context, userID int64) error {
	_, err := p.pool.Exec(ctx, `
		UPDATE refresh_tokens SET revoked_at = NOW()
		WHERE user_id = $1 AND revoked_at IS NULL
	`, userID)
	if err != nil {
		return types.NewStorageError("revoke user refresh tokens", err)
	}
	return nil
}

// LogAuthEvent appends to the auth audit log. Failures are the caller's
// problem to ignore.
func (p *PostgresClient) LogAuthEvent(ctx context.Context, eventType string, userID *int64, ipAddress, userAgent string, success bool, reason string) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO auth_events (event_type, user_id, ip_address, user_agent, success, reason)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, eventType, userID, ipAddress, userAgent, success, reason)
	if err != nil {
		return types.NewStorageError("log auth event", err)
	}
	return nil
}
