package services

import (
	"context"
	"errors"
	"testing"

	"github.com/abonos-app/abonos-api/internal/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestCreateUser_DuplicateEmail(t *testing.T) {
	mockRepo := &mockUserRepo{
		mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: 1, Email: email}, nil
		},
	}
	service := NewUserService(mockRepo, newTestAuditService(newLedgerFixture()))

	err := service.Create(context.Background(), &models.User{
		Email:    "Admin@Example.com",
		FullName: "Admin",
		Role:     models.RoleAdmin,
	}, "password123", 1)
	assert.True(t, errors.Is(err, ErrConflict))
}

func TestCreateUser_ShortPassword(t *testing.T) {
	service := NewUserService(&mockUserRepo{}, newTestAuditService(newLedgerFixture()))

	err := service.Create(context.Background(), &models.User{
		Email: "nuevo@example.com",
	}, "corta", 1)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestCreateUser_NewEmail(t *testing.T) {
	mockRepo := &mockUserRepo{
		mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
		mockCreate: func(ctx context.Context, user *models.User) error {
			user.ID = 7
			return nil
		},
	}
	service := NewUserService(mockRepo, newTestAuditService(newLedgerFixture()))

	user := &models.User{Email: "Nuevo@Example.com", FullName: "Nuevo Operador"}
	err := service.Create(context.Background(), user, "password123", 1)
	assert.NoError(t, err)
	assert.Equal(t, "nuevo@example.com", user.Email)
	assert.NotEmpty(t, user.EncryptedPassword)
}
