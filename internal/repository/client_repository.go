package repository

import (
	"context"

	"github.com/abonos-app/abonos-api/internal/models"
	"gorm.io/gorm"
)

// ClientReferences counts the entities that still point at a client.
// Hard deletion is only allowed when every count is zero.
type ClientReferences struct {
	Plans       int64
	Accruals    int64
	Payments    int64
	Adjustments int64
}

// Any returns true if at least one entity still references the client
func (r ClientReferences) Any() bool {
	return r.Plans > 0 || r.Accruals > 0 || r.Payments > 0 || r.Adjustments > 0
}

// ClientRepository defines the interface for client data access
type ClientRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Client, error)
	Create(ctx context.Context, client *models.Client) error
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Client, int64, error)
	References(ctx context.Context, id uint) (ClientReferences, error)
}

type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) FindByID(ctx context.Context, id uint) (*models.Client, error) {
	var client models.Client
	if err := r.db.WithContext(ctx).First(&client, id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) Create(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *clientRepository) Update(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

func (r *clientRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Client{}, id).Error
}

func (r *clientRepository) List(ctx context.Context, query *ListQuery) ([]models.Client, int64, error) {
	var clients []models.Client
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Client{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("name ILIKE ? OR tax_id ILIKE ? OR email ILIKE ?", search, search, search)
	}

	if query.Filters["active"] != "" {
		db = db.Where("active = ?", query.Filters["active"] == "true")
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("name ASC")
	}

	err := paginate(db, query).Find(&clients).Error
	return clients, total, err
}

func (r *clientRepository) References(ctx context.Context, id uint) (ClientReferences, error) {
	var refs ClientReferences
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Plan{}).Where("client_id = ?", id).Count(&refs.Plans).Error; err != nil {
		return refs, err
	}
	if err := db.Model(&models.Accrual{}).Where("client_id = ?", id).Count(&refs.Accruals).Error; err != nil {
		return refs, err
	}
	if err := db.Model(&models.Payment{}).Where("client_id = ?", id).Count(&refs.Payments).Error; err != nil {
		return refs, err
	}
	if err := db.Model(&models.Adjustment{}).Where("client_id = ?", id).Count(&refs.Adjustments).Error; err != nil {
		return refs, err
	}
	return refs, nil
}
