package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/learnsphere/enrollment-service/internal/enrollment/service TokenGenerator

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/learnsphere/enrollment-service/internal/errors"
	"github.com/learnsphere/enrollment-service/pkg/constant"
)

type TokenGenerator interface {
	Generate(accountID, role string) (string, time.Time, error)
	VerifyAccessToken(tokenString string) (*JWTCustomClaims, error)
	NewOpaqueToken() (string, error)
	GetAccessTokenExpiry() time.Duration
}

type TokenService struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
}

type JWTCustomClaims struct {
	jwt.RegisteredClaims
	AccountID string `json:"account_id"`
	Role      string `json:"role"`
}

func NewTokenService(accessSecret string, accessMinutes int) *TokenService {
	return &TokenService{
		AccessTokenSecret: accessSecret,
		AccessTokenExpiry: time.Duration(accessMinutes) * time.Minute,
	}
}

// Generate signs a short-lived access token carrying the account identity and
// role. Verification is stateless; nothing is stored server-side.
func (ts *TokenService) Generate(accountID, role string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ts.AccessTokenExpiry)

	claims := JWTCustomClaims{
		AccountID: accountID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ts.AccessTokenSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return accessToken, expiresAt, nil
}

// VerifyAccessToken parses and validates the given access token string,
// mapping library failures onto the service error taxonomy.
func (ts *TokenService) VerifyAccessToken(tokenString string) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(ts.AccessTokenSecret), nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, apperrors.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, apperrors.ErrTokenSignature
		default:
			return nil, apperrors.ErrTokenMalformed
		}
	}

	if !token.Valid {
		return nil, apperrors.ErrTokenMalformed
	}

	return claims, nil
}

// NewOpaqueToken returns a random URL-safe value used for refresh,
// verification and reset tokens.
func (ts *TokenService) NewOpaqueToken() (string, error) {
	buf := make([]byte, constant.OpaqueTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func (ts *TokenService) GetAccessTokenExpiry() time.Duration {
	return ts.AccessTokenExpiry
}
