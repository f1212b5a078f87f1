package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Config is loaded once at startup and immutable thereafter.
type Config struct {
	Secret   string
	TokenTTL time.Duration
}

// Service issues and validates bearer tokens and hashes credentials.
type Service struct {
	secret   []byte
	tokenTTL time.Duration
}

func NewService(cfg Config) *Service {
	return &Service{
		secret:   []byte(cfg.Secret),
		tokenTTL: cfg.TokenTTL,
	}
}

func (s *Service) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(bytes), nil
}

func (s *Service) CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Claims are the verified facts carried by a token.
type Claims struct {
	Username  string
	Role      string
	ExpiresAt time.Time
}

func (s *Service) GenerateToken(username, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  username,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) ValidateToken(tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpiredToken
		}
		return Claims{}, ErrInvalidToken
	}

	if !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	username, ok := mapClaims["sub"].(string)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	role, ok := mapClaims["role"].(string)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	exp, ok := mapClaims["exp"].(float64)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	return Claims{
		Username:  username,
		Role:      role,
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}

// ExtractBearer pulls the token out of an Authorization header value.
func ExtractBearer(header string) (string, error) {
	if header == "" {
		return "", ErrInvalidToken
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", ErrInvalidToken
	}

	return parts[1], nil
}
