package services

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService 负责签发和校验访问令牌 (HS256 JWT)
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

var (
	tokenService     *TokenService
	tokenServiceOnce sync.Once
)

// GetTokenService 获取单例令牌服务
func GetTokenService() *TokenService {
	tokenServiceOnce.Do(func() {
		secret := os.Getenv("TOKEN_SECRET")
		if secret == "" {
			secret = "secret_key_change_me"
		}

		ttl := 24 * time.Hour
		if hours := os.Getenv("TOKEN_TTL_HOURS"); hours != "" {
			if h, err := strconv.Atoi(hours); err == nil && h > 0 {
				ttl = time.Duration(h) * time.Hour
			}
		}

		tokenService = &TokenService{
			secret: []byte(secret),
			ttl:    ttl,
		}
	})
	return tokenService
}

// Issue 为用户签发访问令牌
func (s *TokenService) Issue(userID uint) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse 校验令牌并返回用户 ID
func (s *TokenService) Parse(tokenString string) (uint, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return 0, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return 0, errors.New("invalid token")
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, errors.New("invalid token subject")
	}
	return uint(userID), nil
}
