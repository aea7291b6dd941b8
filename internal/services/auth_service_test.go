package services

import (
	"context"
	"errors"
	"testing"

	"github.com/abonos-app/abonos-api/internal/config"
	"github.com/abonos-app/abonos-api/internal/models"
	"github.com/abonos-app/abonos-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type mockUserRepo struct {
	repository.UserRepository
	mockFindByEmail func(ctx context.Context, email string) (*models.User, error)
	mockFindByID    func(ctx context.Context, id uint) (*models.User, error)
	mockCreate      func(ctx context.Context, user *models.User) error
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.mockFindByEmail(ctx, email)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	return m.mockCreate(ctx, user)
}

type mockRefreshTokenRepo struct {
	repository.RefreshTokenRepository
	mockFindByToken   func(ctx context.Context, token string) (*models.RefreshToken, error)
	mockDeleteExpired func(ctx context.Context) (int64, error)
	deleted           []string
}

func (m *mockRefreshTokenRepo) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	return m.mockFindByToken(ctx, token)
}

func (m *mockRefreshTokenRepo) Delete(ctx context.Context, token string) error {
	m.deleted = append(m.deleted, token)
	return nil
}

func (m *mockRefreshTokenRepo) DeleteExpired(ctx context.Context) (int64, error) {
	return m.mockDeleteExpired(ctx)
}

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", JWTExpirationHours: 1}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	mockRepo := &mockUserRepo{
		mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	service := NewAuthService(mockRepo, nil, testConfig())

	result, err := service.Login(context.Background(), "nadie@example.com", "password")
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	hashed, err := HashPassword("correct-password")
	assert.NoError(t, err)

	mockRepo := &mockUserRepo{
		mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{
				ID:                1,
				Email:             email,
				EncryptedPassword: hashed,
				Status:            models.StatusActive,
			}, nil
		},
	}
	service := NewAuthService(mockRepo, nil, testConfig())

	result, err := service.Login(context.Background(), "admin@example.com", "wrong-password")
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	mockRepo := &mockUserRepo{
		mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{Email: email, Status: models.StatusInactive}, nil
		},
	}
	service := NewAuthService(mockRepo, nil, testConfig())

	result, err := service.Login(context.Background(), "inactive@example.com", "password")
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestAuthService_RefreshToken_UnknownToken(t *testing.T) {
	mockRTRepo := &mockRefreshTokenRepo{
		mockFindByToken: func(ctx context.Context, token string) (*models.RefreshToken, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	service := NewAuthService(nil, mockRTRepo, testConfig())

	result, err := service.RefreshToken(context.Background(), "desconocido")
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestAuthService_PurgeExpiredTokens(t *testing.T) {
	mockRTRepo := &mockRefreshTokenRepo{
		mockDeleteExpired: func(ctx context.Context) (int64, error) {
			return 3, nil
		},
	}
	service := NewAuthService(nil, mockRTRepo, testConfig())

	purged, err := service.PurgeExpiredTokens(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(3), purged)
}
