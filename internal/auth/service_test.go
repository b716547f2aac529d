package auth

import (
	"context"
	"testing"
	"time"

	"github.com/hospicore/biomedtrack/internal/config"
	"github.com/hospicore/biomedtrack/internal/storage"
	"github.com/hospicore/biomedtrack/internal/types"
	"github.com/matryer/is"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		AccessTokenTTL:         time.Hour,
		RefreshTokenTTL:        24 * time.Hour,
		MaxFailedLoginAttempts: 3,
		AccountLockDuration:    15 * time.Minute,
	}
}

func registerTestUser(t *testing.T, svc *AuthService, nickname string, role types.Role) *storage.User {
	t.Helper()
	is := is.New(t)

	user, err := svc.Register(context.Background(), RegisterInput{
		Nickname:  nickname,
		Password:  "segura-y-larga",
		Email:     nickname + "@hospital.test",
		FirstName: "Nombre",
		LastName:  "Apellido",
		Role:      role,
	})
	is.NoErr(err)
	return user
}

func TestRegisterStoresHashedPassword(t *testing.T) {
	is := is.New(t)

	store := storage.NewMemStore()
	svc := NewAuthService(store, testAuthConfig())

	user := registerTestUser(t, svc, "enf_lucia", types.RoleEnfermera)

	stored, err := store.GetUserByNickname(context.Background(), "enf_lucia")
	is.NoErr(err)
	is.True(stored.PasswordHash != "")
	is.True(stored.PasswordHash != "segura-y-larga")
	is.Equal(stored.Role, string(types.RoleEnfermera))
	is.True(user.ID != 0)
}

func TestRegisterValidation(t *testing.T) {
	is := is.New(t)

	svc := NewAuthService(storage.NewMemStore(), testAuthConfig())
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Password: "segura-y-larga", Email: "a@b", Role: types.RoleMedico})
	is.Equal(types.HTTPStatus(err), 400) // missing nickname

	_, err = svc.Register(ctx, RegisterInput{Nickname: "x", Password: "corta", Email: "a@b", Role: types.RoleMedico})
	is.Equal(types.HTTPStatus(err), 400) // password too short

	_, err = svc.Register(ctx, RegisterInput{Nickname: "x", Password: "segura-y-larga", Email: "a@b", Role: types.Role("root")})
	is.Equal(types.HTTPStatus(err), 400) // unknown role
}

func TestLoginReturnsTokenPair(t *testing.T) {
	is := is.New(t)

	svc := NewAuthService(storage.NewMemStore(), testAuthConfig())
	registerTestUser(t, svc, "bio_marta", types.RoleBiomedico)

	user, access, refresh, err := svc.Login(context.Background(), "bio_marta", "segura-y-larga", "10.0.0.1", "test")
	is.NoErr(err)
	is.True(access != "")
	is.True(refresh != "")
	is.Equal(user.PasswordHash, "")

	session, err := svc.ValidateToken(access)
	is.NoErr(err)
	is.Equal(session.UserID, user.ID)
	is.Equal(session.Role, types.RoleBiomedico)
}

func TestLoginWrongPassword(t *testing.T) {
	is := is.New(t)

	svc := NewAuthService(storage.NewMemStore(), testAuthConfig())
	registerTestUser(t, svc, "tec_jorge", types.RoleTecnico)

	_, _, _, err := svc.Login(context.Background(), "tec_jorge", "no-es", "", "")
	is.Equal(types.HTTPStatus(err), 401)
}

func TestAccountLocksAfterRepeatedFailures(t *testing.T) {
	is := is.New(t)

	svc := NewAuthService(storage.NewMemStore(), testAuthConfig())
	registerTestUser(t, svc, "med_ana", types.RoleMedico)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _, _, err := svc.Login(ctx, "med_ana", "no-es", "", "")
		is.True(err != nil)
	}

	// Correct password is now refused while the lock holds.
	_, _, _, err := svc.Login(ctx, "med_ana", "segura-y-larga", "", "")
	is.Equal(types.HTTPStatus(err), 401)
}

func TestRefreshRotatesToken(t *testing.T) {
	is := is.New(t)

	svc := NewAuthService(storage.NewMemStore(), testAuthConfig())
	registerTestUser(t, svc, "nat_pepe", types.RoleNatural)
	ctx := context.Background()

	_, _, refresh, err := svc.Login(ctx, "nat_pepe", "segura-y-larga", "", "")
	is.NoErr(err)

	access2, refresh2, err := svc.RefreshAccessToken(ctx, refresh)
	is.NoErr(err)
	is.True(access2 != "")
	is.True(refresh2 != refresh)

	// The old refresh token is spent.
	_, _, err = svc.RefreshAccessToken(ctx, refresh)
	is.Equal(types.HTTPStatus(err), 401)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	is := is.New(t)

	svc := NewAuthService(storage.NewMemStore(), testAuthConfig())
	registerTestUser(t, svc, "enf_rosa", types.RoleEnfermera)
	ctx := context.Background()

	_, _, refresh, err := svc.Login(ctx, "enf_rosa", "segura-y-larga", "", "")
	is.NoErr(err)

	is.NoErr(svc.Logout(ctx, refresh))

	_, _, err = svc.RefreshAccessToken(ctx, refresh)
	is.Equal(types.HTTPStatus(err), 401)
}

func TestDeleteAccount(t *testing.T) {
	is := is.New(t)

	store := storage.NewMemStore()
	svc := NewAuthService(store, testAuthConfig())
	user := registerTestUser(t, svc, "adios", types.RoleNatural)
	ctx := context.Background()

	is.NoErr(svc.DeleteAccount(ctx, user.ID))

	_, err := store.GetUserByID(ctx, user.ID)
	is.Equal(types.HTTPStatus(err), 404)
}
