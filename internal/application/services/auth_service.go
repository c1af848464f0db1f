package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"ai-analysis-gateway/internal/application/dto"
	"ai-analysis-gateway/internal/infrastructure/config"
)

// AuthService 管理员认证服务接口
type AuthService interface {
	// Login 管理员登录
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)

	// ValidateToken 验证访问令牌，返回subject
	ValidateToken(ctx context.Context, tokenString string) (string, error)
}

// authServiceImpl 管理员认证服务实现。
// 管理端只有配置文件中的单一账号，密码以bcrypt哈希保存，不落库。
type authServiceImpl struct {
	adminCfg *config.AdminConfig
	jwtCfg   *config.JWTConfig
}

// NewAuthService 创建认证服务
func NewAuthService(adminCfg *config.AdminConfig, jwtCfg *config.JWTConfig) AuthService {
	return &authServiceImpl{
		adminCfg: adminCfg,
		jwtCfg:   jwtCfg,
	}
}

// Login 管理员登录
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if req.Username != s.adminCfg.Username {
		return nil, fmt.Errorf("invalid credentials")
	}

	err := bcrypt.CompareHashAndPassword([]byte(s.adminCfg.PasswordHash), []byte(req.Password))
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	token, err := s.generateToken(req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwtCfg.AccessTokenTTL.Seconds()),
	}, nil
}

// ValidateToken 验证访问令牌，返回subject
func (s *authServiceImpl) ValidateToken(ctx context.Context, tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.jwtCfg.Secret), nil
	}, jwt.WithIssuer(s.jwtCfg.Issuer), jwt.WithAudience(s.jwtCfg.Audience))
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token claims")
	}

	return claims.Subject, nil
}

// generateToken 签发访问令牌
func (s *authServiceImpl) generateToken(subject string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    s.jwtCfg.Issuer,
		Audience:  jwt.ClaimStrings{s.jwtCfg.Audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtCfg.AccessTokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtCfg.Secret))
}
