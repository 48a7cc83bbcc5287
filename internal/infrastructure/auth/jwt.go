// Package auth validates the access tokens issued by the identity
// provider. Token issuance lives outside this service; only validation
// and claim extraction happen here.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"dealerdesk/internal/core/security"
)

// JWTConfig holds JWT validation configuration.
type JWTConfig struct {
	Secret string
	Issuer string
	Leeway time.Duration
}

// DefaultJWTConfig returns default JWT configuration.
func DefaultJWTConfig(secret string) JWTConfig {
	return JWTConfig{
		Secret: secret,
		Issuer: "dealerdesk",
		Leeway: 30 * time.Second,
	}
}

// Claims represents the access token claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID  string `json:"uid"`
	OwnerID string `json:"oid"`
	Email   string `json:"email"`
}

// JWTService validates access tokens.
type JWTService struct {
	config JWTConfig
}

// NewJWTService creates a new JWT service.
func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{config: config}
}

// ValidateToken validates a token and returns the caller identity.
func (s *JWTService) ValidateToken(tokenString string) (*security.Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithLeeway(s.config.Leeway),
	}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.Secret), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.OwnerID == "" {
		return nil, fmt.Errorf("token has no owner claim")
	}

	return &security.Identity{
		OwnerID: claims.OwnerID,
		UserID:  claims.UserID,
		Email:   claims.Email,
	}, nil
}
