package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"netrates/internal/domain"
	jwtsvc "netrates/internal/pkg/jwt"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func testJWT() *jwtsvc.Service {
	return jwtsvc.New("test-secret", time.Hour)
}

func TestService_Login_Success(t *testing.T) {
	users := new(mockUserRepo)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)
	users.On("GetByEmail", mock.Anything, "admin@example.com").Return(&domain.User{
		ID:           1,
		Email:        "admin@example.com",
		PasswordHash: string(hashed),
		Role:         domain.RoleAdmin,
	}, nil)

	service := NewService(users, testJWT())

	res, err := service.Login(context.Background(), LoginRequest{
		Email:    "admin@example.com",
		Password: "correct-horse",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, domain.RoleAdmin, res.User.Role)
}

func TestService_Login_WrongPassword(t *testing.T) {
	users := new(mockUserRepo)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)
	users.On("GetByEmail", mock.Anything, "admin@example.com").Return(&domain.User{
		Email:        "admin@example.com",
		PasswordHash: string(hashed),
	}, nil)

	service := NewService(users, testJWT())

	_, err := service.Login(context.Background(), LoginRequest{
		Email:    "admin@example.com",
		Password: "wrong",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_UnknownUser(t *testing.T) {
	users := new(mockUserRepo)
	users.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)

	service := NewService(users, testJWT())

	_, err := service.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_EnsureAdmin_CreatesOnce(t *testing.T) {
	users := new(mockUserRepo)
	users.On("ExistsByEmail", mock.Anything, "admin@example.com").Return(false, nil)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Role == domain.RoleAdmin &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("bootstrap")) == nil
	})).Return(nil)

	service := NewService(users, testJWT())

	require.NoError(t, service.EnsureAdmin(context.Background(), "admin@example.com", "bootstrap"))
	users.AssertExpectations(t)
}

func TestService_EnsureAdmin_SkipsExisting(t *testing.T) {
	users := new(mockUserRepo)
	users.On("ExistsByEmail", mock.Anything, "admin@example.com").Return(true, nil)

	service := NewService(users, testJWT())

	require.NoError(t, service.EnsureAdmin(context.Background(), "admin@example.com", "bootstrap"))
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_EnsureAdmin_NoCredentialsNoop(t *testing.T) {
	users := new(mockUserRepo)
	service := NewService(users, testJWT())

	require.NoError(t, service.EnsureAdmin(context.Background(), "", ""))
	users.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything)
}
