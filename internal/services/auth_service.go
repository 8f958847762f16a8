package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"perfumeria/internal/domain"
	"perfumeria/internal/repos"
)

var (
	ErrBadCreds     = errors.New("invalid email or password")
	ErrBadSession   = errors.New("invalid session")
	ErrAdminNotSet  = errors.New("admin email not configured")
	ErrWeakPassword = errors.New("password does not meet requirements")
)

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AuthService signs users in and resolves session tokens. Only the user
// whose email equals AdminEmail may use the admin panel.
type AuthService struct {
	Users      *repos.UserRepo
	Secret     []byte
	TTL        time.Duration
	AdminEmail string
}

func NewAuthService(users *repos.UserRepo, secret string, ttl time.Duration, adminEmail string) *AuthService {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &AuthService{Users: users, Secret: []byte(secret), TTL: ttl, AdminEmail: strings.TrimSpace(adminEmail)}
}

func HashPassword(pw string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(pw), 12)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Login checks credentials and returns a signed session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	u, err := s.Users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return "", nil, ErrBadCreds
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return "", nil, ErrBadCreds
	}
	tok, err := s.issue(u)
	if err != nil {
		return "", nil, err
	}
	return tok, u, nil
}

func (s *AuthService) issue(u *domain.User) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

// CurrentUser resolves a session token to its user, or ErrBadSession.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrBadSession
	}
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, ErrBadSession
	}
	u, err := s.Users.ByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return nil, ErrBadSession
		}
		return nil, err
	}
	if !strings.EqualFold(u.Email, claims.Email) {
		return nil, ErrBadSession
	}
	return u, nil
}

func (s *AuthService) IsAdmin(u *domain.User) bool {
	return u != nil && s.AdminEmail != "" && strings.EqualFold(u.Email, s.AdminEmail)
}

// EnsureAdmin creates the administrator account or resets its password.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, password string) (*domain.User, error) {
	if s.AdminEmail == "" {
		return nil, ErrAdminNotSet
	}
	return s.CreateUser(ctx, s.AdminEmail, name, password)
}

func (s *AuthService) CreateUser(ctx context.Context, email, name, password string) (*domain.User, error) {
	if name == "" {
		name = "Administrador"
	}
	h, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.Users.Upsert(ctx, email, name, h)
}
