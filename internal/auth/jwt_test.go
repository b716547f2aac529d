package auth

import (
	"testing"
	"time"

	"github.com/hospicore/biomedtrack/internal/types"
	"github.com/matryer/is"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	is := is.New(t)

	handler := NewJWTHandler("test-secret-at-least-32-characters!!", time.Hour, 24*time.Hour)

	token, err := handler.GenerateAccessToken(42, "enf_lucia", types.RoleEnfermera)
	is.NoErr(err)

	claims, err := handler.ValidateAccessToken(token)
	is.NoErr(err)
	is.Equal(claims.UserID, int64(42))
	is.Equal(claims.Nickname, "enf_lucia")
	is.Equal(claims.Role, types.RoleEnfermera)
	is.Equal(claims.Issuer, "biomedtrack")
}

func TestExpiredTokenIsRejected(t *testing.T) {
	is := is.New(t)

	handler := NewJWTHandler("test-secret-at-least-32-characters!!", -time.Minute, 24*time.Hour)

	token, err := handler.GenerateAccessToken(1, "u", types.RoleTecnico)
	is.NoErr(err)

	_, err = handler.ValidateAccessToken(token)
	is.True(err != nil)
}

func TestTokenFromOtherSecretIsRejected(t *testing.T) {
	is := is.New(t)

	issuer := NewJWTHandler("first-secret-at-least-32-characters!", time.Hour, time.Hour)
	verifier := NewJWTHandler("other-secret-at-least-32-characters!", time.Hour, time.Hour)

	token, err := issuer.GenerateAccessToken(1, "u", types.RoleTecnico)
	is.NoErr(err)

	_, err = verifier.ValidateAccessToken(token)
	is.True(err != nil)
}

func TestRefreshTokensAreUnique(t *testing.T) {
	is := is.New(t)

	handler := NewJWTHandler("s", time.Hour, time.Hour)

	first, err := handler.GenerateRefreshToken()
	is.NoErr(err)
	second, err := handler.GenerateRefreshToken()
	is.NoErr(err)

	is.True(first != second)
	is.Equal(len(first), 64)
}
