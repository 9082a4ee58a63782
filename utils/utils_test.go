package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCurrencyINR(t *testing.T) {
	cases := map[float64]string{
		0:          "₹0.00",
		999:        "₹999.00",
		1491.28:    "₹1,491.28",
		123456.5:   "₹1,23,456.50",
		12345678:   "₹1,23,45,678.00",
		-50:        "-₹50.00",
		745.644999: "₹745.64",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatCurrencyINR(in), "%v", in)
	}
}

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, 107.64, RoundMoney(598*0.18))
	assert.Equal(t, 0.1, RoundMoney(0.1))
}

func TestTokenRoundTrip(t *testing.T) {
	ti := NewTokenIssuer("secret", time.Hour)
	token, expires, err := ti.GenerateToken("admin-1", "admin")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	claims, err := ti.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.AdminID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "admin-1", claims.Subject)

	_, err = NewTokenIssuer("other", time.Hour).ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	ti.Revoke(token, claims)
	_, err = ti.ParseToken(token)
	assert.ErrorIs(t, err, ErrRevokedToken)
}

func TestTokenExpiry(t *testing.T) {
	ti := NewTokenIssuer("secret", time.Hour)
	ti.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := ti.GenerateToken("admin-1", "admin")
	require.NoError(t, err)

	ti.now = time.Now
	_, err = ti.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBlacklistExpires(t *testing.T) {
	b := NewTokenBlacklist()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	b.Add("a", now.Add(time.Minute))
	b.Add("b", now.Add(time.Hour))
	assert.True(t, b.IsBlacklisted("a"))
	assert.False(t, b.IsBlacklisted("unknown"))

	now = now.Add(10 * time.Minute)
	assert.Equal(t, 1, b.Cleanup())
	assert.False(t, b.IsBlacklisted("a"))
	assert.True(t, b.IsBlacklisted("b"))
}
