package usecase

import (
	"fmt"
	"time"

	"library-management/internal/data/entity"
	"library-management/internal/dto/response"
	"library-management/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Token types carried in the claims so a refresh token can never be used as
// an access token.
const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenService is the stateless alternative to cookie sessions. Nothing is
// revoked server-side; the short access-token lifetime is the only bound.
type TokenService interface {
	IssuePair(member *entity.Member) (*response.TokenPairResponse, error)
	// ParseAccess verifies an access token and returns the subject member id.
	ParseAccess(token string) (string, error)
	// Refresh trades a valid refresh token for a fresh pair.
	Refresh(refreshToken string) (*response.TokenPairResponse, string, error)
}

type memberClaims struct {
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type tokenService struct {
	config utils.JWTConfig
	log    *zap.Logger
}

func NewTokenService(config utils.JWTConfig, log *zap.Logger) TokenService {
	return &tokenService{
		config: config,
		log:    log.With(zap.String("service", "token")),
	}
}

func (s *tokenService) IssuePair(member *entity.Member) (*response.TokenPairResponse, error) {
	access, err := s.sign(member.ID.String(), string(member.Role), tokenTypeAccess,
		time.Duration(s.config.AccessExpiryMinutes)*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := s.sign(member.ID.String(), string(member.Role), tokenTypeRefresh,
		time.Duration(s.config.RefreshExpiryMinutes)*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &response.TokenPairResponse{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func (s *tokenService) ParseAccess(token string) (string, error) {
	claims, err := s.parse(token)
	if err != nil {
		return "", err
	}
	if claims.TokenType != tokenTypeAccess {
		return "", fmt.Errorf("access token required")
	}
	return claims.Subject, nil
}

func (s *tokenService) Refresh(refreshToken string) (*response.TokenPairResponse, string, error) {
	claims, err := s.parse(refreshToken)
	if err != nil {
		return nil, "", err
	}
	if claims.TokenType != tokenTypeRefresh {
		return nil, "", fmt.Errorf("refresh token required")
	}

	access, err := s.sign(claims.Subject, claims.Role, tokenTypeAccess,
		time.Duration(s.config.AccessExpiryMinutes)*time.Minute)
	if err != nil {
		return nil, "", fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := s.sign(claims.Subject, claims.Role, tokenTypeRefresh,
		time.Duration(s.config.RefreshExpiryMinutes)*time.Minute)
	if err != nil {
		return nil, "", fmt.Errorf("sign refresh token: %w", err)
	}

	return &response.TokenPairResponse{
		AccessToken:  access,
		RefreshToken: refresh,
	}, claims.Subject, nil
}

func (s *tokenService) sign(subject, role, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()

	claims := memberClaims{
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}

func (s *tokenService) parse(tokenStr string) (*memberClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &memberClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithIssuer(s.config.Issuer))

	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*memberClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}
