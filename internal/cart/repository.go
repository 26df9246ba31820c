package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velotown/bikerental-backend/pkg/db/models"
)

// Repository persists session-scoped cart rows.
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

// FindItem loads the (session, bike) row if one exists.
func (r *Repository) FindItem(ctx context.Context, sessionID string, bikeID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND bike_id = ?", sessionID, bikeID).
		First(&item).
		Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListItems returns every cart row for the session, oldest first, with the
// bike and its type preloaded for rendering.
func (r *Repository) ListItems(ctx context.Context, sessionID string) ([]models.CartItem, error) {
	var rows []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Bike").
		Preload("Bike.BikeType").
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&rows).
		Error
	return rows, err
}

// CreateItem inserts a new cart row.
func (r *Repository) CreateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// SaveItem updates an existing cart row.
func (r *Repository) SaveItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes a cart row only when it belongs to the session.
// Returns gorm.ErrRecordNotFound when no row matched, so a guessed id from
// another session looks identical to a missing one.
func (r *Repository) DeleteItem(ctx context.Context, sessionID string, itemID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND session_id = ?", itemID, sessionID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountItems sums quantities across the session's rows.
func (r *Repository) CountItems(ctx context.Context, sessionID string) (int, error) {
	var total *int
	err := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Select("SUM(quantity)").
		Where("session_id = ?", sessionID).
		Scan(&total).
		Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

// ClearSession bulk-deletes the session's rows.
func (r *Repository) ClearSession(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&models.CartItem{}).
		Error
}
