package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velotown/bikerental-backend/pkg/db/models"
)

// Repository persists rental orders and their lines.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreateOrder inserts the order header together with its lines.
func (r *Repository) CreateOrder(ctx context.Context, order *models.RentalOrder) (*models.RentalOrder, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	for i := range order.Lines {
		if order.Lines[i].ID == uuid.Nil {
			order.Lines[i].ID = uuid.New()
		}
		order.Lines[i].OrderID = order.ID
	}
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID loads one order with its lines and their bikes.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.RentalOrder, error) {
	var order models.RentalOrder
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Lines.Bike").
		First(&order, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByEmail returns the customer's orders, newest first. No pagination;
// the order-history page shows everything.
func (r *Repository) ListByEmail(ctx context.Context, email string) ([]models.RentalOrder, error) {
	var rows []models.RentalOrder
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Lines.Bike").
		Where("customer_email = ?", email).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// SaveOrder updates the order header.
func (r *Repository) SaveOrder(ctx context.Context, order *models.RentalOrder) (*models.RentalOrder, error) {
	if err := r.db.WithContext(ctx).Omit("Lines").Save(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}
