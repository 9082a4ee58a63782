package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/raxitsanghani/grill-food-web-sub000/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupInput() SetupInput {
	return SetupInput{
		FullName:    "Kiran Rao",
		Email:       "Kiran@Grill.example",
		Phone:       "9000011111",
		Password:    "hunter22",
		SecurityKey: "123456",
	}
}

func TestAuthSetupValidation(t *testing.T) {
	svc := NewAuthService(newTestStore(t), utils.NewTokenIssuer("secret", 0), DevCredentials{})

	in := setupInput()
	in.Email = "not-an-email"
	in.Password = "12345"
	in.SecurityKey = "12ab56"
	_, err := svc.Setup(context.Background(), in)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "password")
	assert.Contains(t, verr.Fields, "securityKey")

	for _, key := range []string{"12345", "1234567", "abcdef"} {
		in := setupInput()
		in.SecurityKey = key
		_, err := svc.Setup(context.Background(), in)
		assert.ErrorAs(t, err, &verr, "key %q", key)
	}
}

func TestAuthSetupOnlyOnce(t *testing.T) {
	store := newTestStore(t)
	svc := NewAuthService(store, utils.NewTokenIssuer("secret", 0), DevCredentials{})

	admin, err := svc.Setup(context.Background(), setupInput())
	require.NoError(t, err)
	assert.NotEmpty(t, admin.ID)
	assert.Equal(t, "kiran@grill.example", admin.Email)
	assert.True(t, strings.HasPrefix(admin.Password, "$2"), "password is stored as a bcrypt hash")

	_, err = svc.Setup(context.Background(), setupInput())
	assert.ErrorIs(t, err, ErrAdminExists)
}

func TestAuthLogin(t *testing.T) {
	store := newTestStore(t)
	issuer := utils.NewTokenIssuer("secret", 0)
	svc := NewAuthService(store, issuer, DevCredentials{})
	admin, err := svc.Setup(context.Background(), setupInput())
	require.NoError(t, err)

	res, err := svc.Login(context.Background(), LoginInput{Email: "KIRAN@grill.example", Password: "hunter22", SecurityKey: "123456"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), res.ExpiresAt, time.Minute)
	assert.Equal(t, admin.ID, res.Admin.ID)

	claims, err := issuer.ParseToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.AdminID)

	profile, err := svc.Profile(admin.ID)
	require.NoError(t, err)
	assert.False(t, profile.LastLoginAt.IsZero())

	_, err = svc.Login(context.Background(), LoginInput{Email: "kiran@grill.example", Password: "hunter22", SecurityKey: "654321"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), LoginInput{Email: "kiran@grill.example", Password: "wrong!", SecurityKey: "123456"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), LoginInput{Email: "nobody@grill.example", Password: "hunter22", SecurityKey: "123456"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthDevCredential(t *testing.T) {
	dev := DevCredentials{Email: "dev@grill.local", Password: "devpass", SecurityKey: "000000"}
	in := LoginInput{Email: "dev@grill.local", Password: "devpass", SecurityKey: "000000"}

	disabled := NewAuthService(newTestStore(t), utils.NewTokenIssuer("secret", 0), dev)
	_, err := disabled.Login(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	dev.Enabled = true
	enabled := NewAuthService(newTestStore(t), utils.NewTokenIssuer("secret", 0), dev)
	res, err := enabled.Login(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, DevAdminID, res.Admin.ID)

	profile, err := enabled.Profile(DevAdminID)
	require.NoError(t, err)
	assert.Equal(t, "dev@grill.local", profile.Email)

	_, err = disabled.Profile(DevAdminID)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthLogoutRevokesToken(t *testing.T) {
	issuer := utils.NewTokenIssuer("secret", 0)
	svc := NewAuthService(newTestStore(t), issuer, DevCredentials{})
	_, err := svc.Setup(context.Background(), setupInput())
	require.NoError(t, err)
	res, err := svc.Login(context.Background(), LoginInput{Email: "kiran@grill.example", Password: "hunter22", SecurityKey: "123456"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(res.Token))
	_, err = issuer.ParseToken(res.Token)
	assert.ErrorIs(t, err, utils.ErrRevokedToken)

	assert.ErrorIs(t, svc.Logout(res.Token), ErrUnauthorized)
}
