package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "GrillAdmin"

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrRevokedToken = errors.New("token has been revoked")
)

type CustomClaims struct {
	AdminID string `json:"admin_id"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies admin bearer tokens with a shared HS256
// secret. Revoked tokens are tracked in Blacklist.
type TokenIssuer struct {
	secret    []byte
	ttl       time.Duration
	now       func() time.Time
	Blacklist *TokenBlacklist
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{
		secret:    []byte(secret),
		ttl:       ttl,
		now:       time.Now,
		Blacklist: NewTokenBlacklist(),
	}
}

func (ti *TokenIssuer) GenerateToken(adminID, role string) (string, time.Time, error) {
	issuedAt := ti.now()
	expiresAt := issuedAt.Add(ti.ttl)

	claims := &CustomClaims{
		AdminID: adminID,
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ti.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (ti *TokenIssuer) ParseToken(tokenString string) (*CustomClaims, error) {
	if ti.Blacklist.IsBlacklisted(tokenString) {
		return nil, ErrRevokedToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return ti.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(ti.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || claims.AdminID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Revoke blacklists a token until its own expiry.
func (ti *TokenIssuer) Revoke(tokenString string, claims *CustomClaims) {
	expiry := ti.now().Add(ti.ttl)
	if claims != nil && claims.ExpiresAt != nil {
		expiry = claims.ExpiresAt.Time
	}
	ti.Blacklist.Add(tokenString, expiry)
}
