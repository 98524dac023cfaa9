package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"stockpos/internal/config"
)

// ErrInvalidCredentials is deliberately opaque: callers never learn whether
// the email or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Claims is the JWT payload for an authenticated administrator session.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService issues and verifies administrator tokens. There is exactly one
// administrator identity, configured via ADMIN_EMAIL / ADMIN_PASSWORD_HASH;
// the cashier surface is unauthenticated and never comes through here.
type AuthService interface {
	Login(email, password string) (string, *Claims, error)
	Verify(token string) (*Claims, error)
}

type authService struct {
	adminEmail string
	adminHash  string
	secret     []byte
	expiration time.Duration
}

func NewAuthService(cfg *config.Config) AuthService {
	return &authService{
		adminEmail: strings.ToLower(strings.TrimSpace(cfg.AdminEmail)),
		adminHash:  cfg.AdminPasswordHash,
		secret:     []byte(cfg.JWTSecret),
		expiration: time.Duration(cfg.JWTExpirationHours) * time.Hour,
	}
}

// Login checks the credential against the configured administrator and
// returns a signed token. The bcrypt comparison runs even on an email
// mismatch so both failure paths cost the same.
func (s *authService) Login(email, password string) (string, *Claims, error) {
	hash := s.adminHash
	emailOK := s.adminEmail != "" && strings.ToLower(strings.TrimSpace(email)) == s.adminEmail
	if !emailOK {
		hash = "$2a$10$0000000000000000000000uGZwLEJzSQS3WWAhnqiEVEW6cRQvO7S"
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil || !emailOK {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := &Claims{
		Email: s.adminEmail,
		Role:  "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
			Subject:   s.adminEmail,
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, err
	}
	return token, claims, nil
}

// Verify parses and validates a token, rejecting anything not signed with
// our HMAC secret.
func (s *authService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}
