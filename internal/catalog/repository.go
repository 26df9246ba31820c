package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velotown/bikerental-backend/pkg/db/models"
)

// relatedBikesLimit caps the "you may also like" strip on the detail page.
const relatedBikesLimit = 4

// BikeListFilter describes the supported filter knobs for catalog browsing.
type BikeListFilter struct {
	TypeID *uuid.UUID
	Search string
}

// Repository wires together catalog persistence for bikes and bike types.
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

// ListBikes returns active bikes ordered by name, optionally filtered by type
// or by a case-insensitive substring over name, brand, and description.
func (r *Repository) ListBikes(ctx context.Context, filter BikeListFilter) ([]models.Bike, error) {
	qb := r.db.WithContext(ctx).
		Preload("BikeType").
		Where("active = ?", true)

	if filter.TypeID != nil {
		qb = qb.Where("bike_type_id = ?", *filter.TypeID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where(
			"(LOWER(name) LIKE ? OR LOWER(brand) LIKE ? OR LOWER(description) LIKE ?)",
			pattern, pattern, pattern,
		)
	}

	var rows []models.Bike
	err := qb.Order("name ASC").Find(&rows).Error
	return rows, err
}

// FindBikeByID loads a bike regardless of its active flag; callers decide
// whether inactive bikes are visible.
func (r *Repository) FindBikeByID(ctx context.Context, id uuid.UUID) (*models.Bike, error) {
	var bike models.Bike
	if err := r.db.WithContext(ctx).Preload("BikeType").First(&bike, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &bike, nil
}

// RelatedBikes lists active bikes sharing the given bike's type, excluding
// the bike itself.
func (r *Repository) RelatedBikes(ctx context.Context, bike *models.Bike) ([]models.Bike, error) {
	if bike.BikeTypeID == nil {
		return nil, nil
	}
	var rows []models.Bike
	err := r.db.WithContext(ctx).
		Where("bike_type_id = ?", *bike.BikeTypeID).
		Where("id <> ?", bike.ID).
		Where("active = ?", true).
		Order("name ASC").
		Limit(relatedBikesLimit).
		Find(&rows).
		Error
	return rows, err
}

// ListTypes returns all bike types ordered by name.
func (r *Repository) ListTypes(ctx context.Context) ([]models.BikeType, error) {
	var rows []models.BikeType
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

// FindTypeByID loads one bike type.
func (r *Repository) FindTypeByID(ctx context.Context, id uuid.UUID) (*models.BikeType, error) {
	var bikeType models.BikeType
	if err := r.db.WithContext(ctx).First(&bikeType, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &bikeType, nil
}

// CountActiveBikesByType returns the number of active bikes per type id.
func (r *Repository) CountActiveBikesByType(ctx context.Context) (map[uuid.UUID]int, error) {
	type countRow struct {
		BikeTypeID uuid.UUID
		Total      int
	}
	var rows []countRow
	err := r.db.WithContext(ctx).
		Model(&models.Bike{}).
		Select("bike_type_id, COUNT(*) AS total").
		Where("active = ? AND bike_type_id IS NOT NULL", true).
		Group("bike_type_id").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		counts[row.BikeTypeID] = row.Total
	}
	return counts, nil
}

// CreateBike inserts a new bike row.
func (r *Repository) CreateBike(ctx context.Context, bike *models.Bike) (*models.Bike, error) {
	if bike.ID == uuid.Nil {
		bike.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(bike).Error; err != nil {
		return nil, err
	}
	return bike, nil
}

// SaveBike updates an existing bike row.
func (r *Repository) SaveBike(ctx context.Context, bike *models.Bike) (*models.Bike, error) {
	if err := r.db.WithContext(ctx).Save(bike).Error; err != nil {
		return nil, err
	}
	return bike, nil
}

// CreateType inserts a new bike type row.
func (r *Repository) CreateType(ctx context.Context, bikeType *models.BikeType) (*models.BikeType, error) {
	if bikeType.ID == uuid.Nil {
		bikeType.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(bikeType).Error; err != nil {
		return nil, err
	}
	return bikeType, nil
}

// SaveType updates an existing bike type row.
func (r *Repository) SaveType(ctx context.Context, bikeType *models.BikeType) (*models.BikeType, error) {
	if err := r.db.WithContext(ctx).Save(bikeType).Error; err != nil {
		return nil, err
	}
	return bikeType, nil
}

// DeleteType removes a bike type and orphans its bikes (type reference set
// to NULL, matching the unrestricted cascade of the source system).
func (r *Repository) DeleteType(ctx context.Context, id uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Model(&models.Bike{}).
		Where("bike_type_id = ?", id).
		Update("bike_type_id", nil).
		Error; err != nil {
		return err
	}
	return tx.Where("id = ?", id).Delete(&models.BikeType{}).Error
}
