package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abonos-app/abonos-api/internal/models"
	"github.com/abonos-app/abonos-api/internal/repository"
	"gorm.io/gorm"
)

// ClientService manages the client catalog
type ClientService struct {
	repo     repository.ClientRepository
	auditSvc *AuditService
}

// NewClientService creates a new client service
func NewClientService(repo repository.ClientRepository, auditSvc *AuditService) *ClientService {
	return &ClientService{repo: repo, auditSvc: auditSvc}
}

// ClientInput carries the editable client fields
type ClientInput struct {
	Name    string `json:"name"`
	TaxID   string `json:"tax_id"`
	Contact string `json:"contact"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

// Create registers a new client, active by default
func (s *ClientService) Create(ctx context.Context, userID uint, input ClientInput) (*models.Client, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", ErrInvalidInput)
	}

	client := &models.Client{
		Name:    strings.TrimSpace(input.Name),
		TaxID:   optional(input.TaxID),
		Contact: optional(input.Contact),
		Email:   optional(input.Email),
		Phone:   optional(input.Phone),
		Address: optional(input.Address),
		Notes:   optional(input.Notes),
		Active:  true,
	}
	if err := s.repo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	s.auditSvc.Log(ctx, userID, "CREATE", "Client", client.ID, client.Name)
	return client, nil
}

// Get returns one client
func (s *ClientService) Get(ctx context.Context, id uint) (*models.Client, error) {
	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return client, nil
}

// List returns clients matching the query
func (s *ClientService) List(ctx context.Context, query *repository.ListQuery) ([]models.Client, int64, error) {
	return s.repo.List(ctx, query)
}

// Update modifies a client's editable fields
func (s *ClientService) Update(ctx context.Context, userID, id uint, input ClientInput) (*models.Client, error) {
	client, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", ErrInvalidInput)
	}

	client.Name = strings.TrimSpace(input.Name)
	client.TaxID = optional(input.TaxID)
	client.Contact = optional(input.Contact)
	client.Email = optional(input.Email)
	client.Phone = optional(input.Phone)
	client.Address = optional(input.Address)
	client.Notes = optional(input.Notes)

	if err := s.repo.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	s.auditSvc.Log(ctx, userID, "UPDATE", "Client", client.ID, client.Name)
	return client, nil
}

// SetActive toggles a client's active flag. Inactive clients keep their
// history but are excluded from accrual generation.
func (s *ClientService) SetActive(ctx context.Context, userID, id uint, active bool) (*models.Client, error) {
	client, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	client.Active = active
	if err := s.repo.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	action := "DEACTIVATE"
	if active {
		action = "ACTIVATE"
	}
	s.auditSvc.Log(ctx, userID, action, "Client", client.ID, "")
	return client, nil
}

// Delete removes a client. Refused while plans, accruals, payments or
// adjustments reference it; deactivate instead to retire a client with
// history.
func (s *ClientService) Delete(ctx context.Context, userID, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	refs, err := s.repo.References(ctx, id)
	if err != nil {
		return err
	}
	if refs.Any() {
		return fmt.Errorf("%w: el cliente tiene movimientos asociados", ErrHasReferences)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, userID, "DELETE", "Client", id, "")
	return nil
}
