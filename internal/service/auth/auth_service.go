package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/airtrips/internal/domain"
	"github.com/Domenick1991/airtrips/internal/repository"
	"github.com/golang-jwt/jwt/v5"
)

const issuer = "airtrips"

type AuthUseCase interface {
	Login(ctx context.Context, handle, password string) (string, *domain.User, error)
	Authenticate(token string) (domain.User, error)
}

type AuthService struct {
	users    repository.UserRepository
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

type claims struct {
	Handle string `json:"handle"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

func NewAuthService(users repository.UserRepository, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{users: users, secret: []byte(secret), tokenTTL: tokenTTL, now: time.Now}
}

// Login checks the credentials and returns a signed session token.
func (s *AuthService) Login(ctx context.Context, handle, password string) (string, *domain.User, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" || password == "" {
		return "", nil, fmt.Errorf("%w: handle and password are required", domain.ErrInvalidInput)
	}

	user, err := s.users.GetByCredentials(ctx, handle, password)
	if err != nil {
		return "", nil, err
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Handle: user.Handle,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, user, nil
}

// Authenticate returns the user a session token was issued to.
func (s *AuthService) Authenticate(token string) (domain.User, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return domain.User{}, fmt.Errorf("%w: bad subject", domain.ErrUnauthorized)
	}
	return domain.User{ID: id, Handle: c.Handle, Name: c.Name}, nil
}

func IsAuthError(err error) bool {
	return errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrInvalidCredentials)
}

var _ AuthUseCase = (*AuthService)(nil)
