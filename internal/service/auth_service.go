package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"planassist/internal/model"
	"planassist/internal/util"
)

var (
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// UserStore is the slice of the user repository the auth flow needs.
// Tests inject an in-memory implementation.
type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type AuthService struct {
	users     UserStore
	jwtSecret string
}

func NewAuthService(users UserStore, jwtSecret string) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: jwtSecret,
	}
}

// Register creates a new user and returns it with a fresh token.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*model.User, string, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	u := &model.User{
		Name:           name,
		Email:          email,
		HashedPassword: hash,
		CreatedAt:      time.Now(),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := util.GenerateJWT(u.Email, s.jwtSecret)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login checks user credentials and returns the user with a JWT whose
// subject is the email.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if !util.CheckPassword(password, u.HashedPassword) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(u.Email, s.jwtSecret)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}
