package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/hospicore/biomedtrack/internal/config"
	"github.com/hospicore/biomedtrack/internal/storage"
	"github.com/hospicore/biomedtrack/internal/types"
)

// Store is the slice of the persistence gateway the auth service needs.
type Store interface {
	CreateUser(ctx context.Context, u storage.User) (*storage.User, error)
	GetUserByNickname(ctx context.Context, nickname string) (*storage.User, error)
	GetUserByID(ctx context.Context, userID int64) (*storage.User, error)
	UpdateLastLogin(ctx context.Context, userID int64) error
	IncrementFailedLoginAttempts(ctx context.Context, userID int64, maxAttempts int, lockFor time.Duration) error
	ResetFailedLoginAttempts(ctx context.Context, userID int64) error
	DeleteUser(ctx context.Context, userID int64) error
	StoreRefreshToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (int64, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserRefreshTokens(ctx context.Context, userID int64) error
	LogAuthEvent(ctx context.Context, eventType string, userID *int64, ipAddress, userAgent string, success bool, reason string) error
}

// Session is the explicit per-request session object, populated once at
// login and carried by the access token. Handlers never reach for any
// implicit global user state.
type Session struct {
	UserID   int64      `json:"user_id"`
	Nickname string     `json:"nickname"`
	Role     types.Role `json:"rol"`
}

type AuthService struct {
	store          Store
	jwtHandler     *JWTHandler
	passwordHasher *PasswordHasher
	cfg            config.AuthConfig
}

func NewAuthService(store Store, cfg config.AuthConfig) *AuthService {
	return &AuthService{
		store:          store,
		jwtHandler:     NewJWTHandler(cfg.GetJWTSecret(), cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		passwordHasher: NewPasswordHasher(),
		cfg:            cfg,
	}
}

type RegisterInput struct {
	Nickname  string
	Password  string
	Email     string
	FirstName string
	LastName  string
	Role      types.Role
	Code      *string
}

// Register creates a user account. The password is hashed before it
// touches storage; the plaintext is never persisted.
func (a *AuthService) Register(ctx context.Context, in RegisterInput) (*storage.User, error) {
	if strings.TrimSpace(in.Nickname) == "" {
		return nil, types.NewValidationError("nickname", "es obligatorio")
	}
	if len(in.Password) < 8 {
		return nil, types.NewValidationError("password", "debe tener al menos 8 caracteres")
	}
	if strings.TrimSpace(in.Email) == "" {
		return nil, types.NewValidationError("email", "es obligatorio")
	}
	if !in.Role.Valid() {
		return nil, types.NewValidationError("tipo", "rol desconocido")
	}

	passwordHash, err := a.passwordHasher.HashPassword(in.Password)
	if err != nil {
		return nil, types.NewStorageError("hash password", err)
	}

	user, err := a.store.CreateUser(ctx, storage.User{
		Nickname:     in.Nickname,
		PasswordHash: passwordHash,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         string(in.Role),
		Code:         in.Code,
	})
	if err != nil {
		return nil, err
	}

	a.logAuthEvent(ctx, "user_registered", &user.ID, "", "", true, "")
	return user, nil
}

// Login authenticates a user and returns the user plus token pair.
func (a *AuthService) Login(ctx context.Context, nickname, password, ipAddress, userAgent string) (*storage.User, string, string, error) {
	user, err := a.store.GetUserByNickname(ctx, nickname)
	if err != nil {
		a.logAuthEvent(ctx, "user_login_failed", nil, ipAddress, userAgent, false, "user not found")
		return nil, "", "", types.NewAuthError("credenciales invalidas")
	}

	if user.LockedUntil != nil && time.Now().Before(*user.LockedUntil) {
		a.logAuthEvent(ctx, "user_login_failed", &user.ID, ipAddress, userAgent, false, "account locked")
		return nil, "", "", types.NewAuthError("cuenta bloqueada temporalmente")
	}

	valid, err := a.passwordHasher.VerifyPassword(password, user.PasswordHash)
	if err != nil || !valid {
		a.store.IncrementFailedLoginAttempts(ctx, user.ID, a.cfg.MaxFailedLoginAttempts, a.cfg.AccountLockDuration)
		a.logAuthEvent(ctx, "user_login_failed", &user.ID, ipAddress, userAgent, false, "invalid password")
		return nil, "", "", types.NewAuthError("credenciales invalidas")
	}

	a.store.ResetFailedLoginAttempts(ctx, user.ID)

	accessToken, err := a.jwtHandler.GenerateAccessToken(user.ID, user.Nickname, types.Role(user.Role))
	if err != nil {
		return nil, "", "", types.NewStorageError("generate access token", err)
	}

	refreshToken, err := a.jwtHandler.GenerateRefreshToken()
	if err != nil {
		return nil, "", "", types.NewStorageError("generate refresh token", err)
	}

	tokenHash := a.hashRefreshToken(refreshToken)
	expiresAt := time.Now().Add(a.jwtHandler.refreshTokenTTL)
	if err := a.store.StoreRefreshToken(ctx, user.ID, tokenHash, expiresAt); err != nil {
		return nil, "", "", err
	}

	a.store.UpdateLastLogin(ctx, user.ID)
	a.logAuthEvent(ctx, "user_login_success", &user.ID, ipAddress, userAgent, true, "")

	user.PasswordHash = ""
	return user, accessToken, refreshToken, nil
}

// RefreshAccessToken rotates the refresh token and issues a new pair.
func (a *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, string, error) {
	tokenHash := a.hashRefreshToken(refreshToken)

	userID, err := a.store.GetRefreshToken(ctx, tokenHash)
	if err != nil {
		return "", "", err
	}

	user, err := a.store.GetUserByID(ctx, userID)
	if err != nil {
		return "", "", types.NewAuthError("usuario no encontrado")
	}

	a.store.RevokeRefreshToken(ctx, tokenHash)

	accessToken, err := a.jwtHandler.GenerateAccessToken(user.ID, user.Nickname, types.Role(user.Role))
	if err != nil {
		return "", "", types.NewStorageError("generate access token", err)
	}

	newRefreshToken, err := a.jwtHandler.GenerateRefreshToken()
	if err != nil {
		return "", "", types.NewStorageError("generate refresh token", err)
	}

	newTokenHash := a.hashRefreshToken(newRefreshToken)
	expiresAt := time.Now().Add(a.jwtHandler.refreshTokenTTL)
	if err := a.store.StoreRefreshToken(ctx, user.ID, newTokenHash, expiresAt); err != nil {
		return "", "", err
	}

	return accessToken, newRefreshToken, nil
}

// Logout invalidates a refresh token. The access token simply expires.
func (a *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return a.store.RevokeRefreshToken(ctx, a.hashRefreshToken(refreshToken))
}

// ValidateToken parses an access token into a session.
func (a *AuthService) ValidateToken(token string) (*Session, error) {
	claims, err := a.jwtHandler.ValidateAccessToken(token)
	if err != nil {
		return nil, types.NewAuthError("token invalido o expirado")
	}
	return &Session{UserID: claims.UserID, Nickname: claims.Nickname, Role: claims.Role}, nil
}

// GetUserByID retrieves a user by ID.
func (a *AuthService) GetUserByID(ctx context.Context, userID int64) (*storage.User, error) {
	return a.store.GetUserByID(ctx, userID)
}

// DeleteAccount honors an explicit account-deletion request.
func (a *AuthService) DeleteAccount(ctx context.Context, userID int64) error {
	if err := a.store.RevokeAllUserRefreshTokens(ctx, userID); err != nil {
		return err
	}
	return a.store.DeleteUser(ctx, userID)
}

func (a *AuthService) hashRefreshToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

func (a *AuthService) logAuthEvent(ctx context.Context, eventType string, userID *int64, ip, userAgent string, success bool, reason string) {
	_ = a.store.LogAuthEvent(ctx, eventType, userID, ip, userAgent, success, reason)
}
