package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"netrates/internal/domain"
	jwtsvc "netrates/internal/pkg/jwt"
)

type Service struct {
	users UserRepository
	jwt   *jwtsvc.Service
}

func NewService(users UserRepository, jwt *jwtsvc.Service) *Service {
	return &Service{users: users, jwt: jwt}
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &LoginResponse{Token: token, User: user}, nil
}

// EnsureAdmin creates the admin account on first start when credentials are
// provided and no account exists yet.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil || exists {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.users.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Administrator",
		Role:         domain.RoleAdmin,
	})
}
