package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/velotown/bikerental-backend/pkg/db/models"
	pkgerrors "github.com/velotown/bikerental-backend/pkg/errors"
)

type catalogRepository interface {
	ListBikes(ctx context.Context, filter BikeListFilter) ([]models.Bike, error)
	FindBikeByID(ctx context.Context, id uuid.UUID) (*models.Bike, error)
	RelatedBikes(ctx context.Context, bike *models.Bike) ([]models.Bike, error)
	ListTypes(ctx context.Context) ([]models.BikeType, error)
	FindTypeByID(ctx context.Context, id uuid.UUID) (*models.BikeType, error)
	CountActiveBikesByType(ctx context.Context) (map[uuid.UUID]int, error)
	CreateBike(ctx context.Context, bike *models.Bike) (*models.Bike, error)
	SaveBike(ctx context.Context, bike *models.Bike) (*models.Bike, error)
	CreateType(ctx context.Context, bikeType *models.BikeType) (*models.BikeType, error)
	SaveType(ctx context.Context, bikeType *models.BikeType) (*models.BikeType, error)
	DeleteType(ctx context.Context, id uuid.UUID) error
}

// Service exposes catalog reads for the storefront and catalog writes for
// the admin API. Storefront reads run with storefront-level permissions for
// every caller; there is no per-request identity.
type Service interface {
	Browse(ctx context.Context, filter BikeListFilter) (*BrowseResult, error)
	GetBike(ctx context.Context, id uuid.UUID) (*models.Bike, error)
	RelatedBikes(ctx context.Context, bike *models.Bike) ([]models.Bike, error)
	GetType(ctx context.Context, id uuid.UUID) (*models.BikeType, error)
	ListTypes(ctx context.Context) ([]TypeSummary, error)

	CreateBike(ctx context.Context, input CreateBikeInput) (*models.Bike, error)
	UpdateBike(ctx context.Context, id uuid.UUID, input UpdateBikeInput) (*models.Bike, error)
	DeactivateBike(ctx context.Context, id uuid.UUID) error
	CreateType(ctx context.Context, input TypeInput) (*models.BikeType, error)
	UpdateType(ctx context.Context, id uuid.UUID, input TypeInput) (*models.BikeType, error)
	DeleteType(ctx context.Context, id uuid.UUID) error
}

// BrowseResult bundles everything the catalog pages render.
type BrowseResult struct {
	Bikes []models.Bike
	Types []TypeSummary
}

// TypeSummary pairs a bike type with its active bike count.
type TypeSummary struct {
	models.BikeType
	ActiveBikeCount int
}

// CreateBikeInput holds the validated payload to create a bike.
type CreateBikeInput struct {
	Name          string
	Brand         string
	Model         *string
	BikeTypeID    *uuid.UUID
	Description   *string
	RentalPrice   decimal.Decimal
	CostPrice     decimal.Decimal
	PurchaseDate  *time.Time
	SerialNumber  *string
	Color         *string
	GearCount     int
	StockQuantity *int
}

// UpdateBikeInput holds optional mutation values for a bike.
type UpdateBikeInput struct {
	Name          *string
	Brand         *string
	Model         *string
	BikeTypeID    *uuid.UUID
	Description   *string
	RentalPrice   *decimal.Decimal
	CostPrice     *decimal.Decimal
	PurchaseDate  *time.Time
	SerialNumber  *string
	Color         *string
	GearCount     *int
	StockQuantity *int
	Active        *bool
}

// TypeInput carries bike type fields for create and update.
type TypeInput struct {
	Name        string
	Description *string
}

type service struct {
	repo catalogRepository
}

// NewService constructs a catalog service instance.
func NewService(repo catalogRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Browse(ctx context.Context, filter BikeListFilter) (*BrowseResult, error) {
	bikes, err := s.repo.ListBikes(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bikes")
	}
	types, err := s.ListTypes(ctx)
	if err != nil {
		return nil, err
	}
	return &BrowseResult{Bikes: bikes, Types: types}, nil
}

func (s *service) GetBike(ctx context.Context, id uuid.UUID) (*models.Bike, error) {
	bike, err := s.repo.FindBikeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "bike not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load bike")
	}
	if !bike.Active {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "bike not found")
	}
	return bike, nil
}

func (s *service) RelatedBikes(ctx context.Context, bike *models.Bike) ([]models.Bike, error) {
	rows, err := s.repo.RelatedBikes(ctx, bike)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list related bikes")
	}
	return rows, nil
}

func (s *service) GetType(ctx context.Context, id uuid.UUID) (*models.BikeType, error) {
	bikeType, err := s.repo.FindTypeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "bike type not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load bike type")
	}
	return bikeType, nil
}

func (s *service) ListTypes(ctx context.Context) ([]TypeSummary, error) {
	types, err := s.repo.ListTypes(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bike types")
	}
	counts, err := s.repo.CountActiveBikesByType(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count bikes per type")
	}
	summaries := make([]TypeSummary, len(types))
	for i, bikeType := range types {
		summaries[i] = TypeSummary{
			BikeType:        bikeType,
			ActiveBikeCount: counts[bikeType.ID],
		}
	}
	return summaries, nil
}

func (s *service) CreateBike(ctx context.Context, input CreateBikeInput) (*models.Bike, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bike name required")
	}
	if strings.TrimSpace(input.Brand) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bike brand required")
	}
	if err := validatePrices(input.RentalPrice, input.CostPrice); err != nil {
		return nil, err
	}
	if input.BikeTypeID != nil {
		if _, err := s.GetType(ctx, *input.BikeTypeID); err != nil {
			return nil, err
		}
	}

	stock := 1
	if input.StockQuantity != nil {
		stock = *input.StockQuantity
	}

	bike := &models.Bike{
		Name:          strings.TrimSpace(input.Name),
		Brand:         strings.TrimSpace(input.Brand),
		Model:         input.Model,
		BikeTypeID:    input.BikeTypeID,
		Description:   input.Description,
		RentalPrice:   input.RentalPrice,
		CostPrice:     input.CostPrice,
		PurchaseDate:  input.PurchaseDate,
		SerialNumber:  input.SerialNumber,
		Color:         input.Color,
		GearCount:     input.GearCount,
		StockQuantity: stock,
		Active:        true,
	}

	created, err := s.repo.CreateBike(ctx, bike)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert bike")
	}
	return created, nil
}

func (s *service) UpdateBike(ctx context.Context, id uuid.UUID, input UpdateBikeInput) (*models.Bike, error) {
	bike, err := s.repo.FindBikeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "bike not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load bike")
	}

	if input.Name != nil {
		bike.Name = strings.TrimSpace(*input.Name)
	}
	if input.Brand != nil {
		bike.Brand = strings.TrimSpace(*input.Brand)
	}
	if input.Model != nil {
		bike.Model = input.Model
	}
	if input.BikeTypeID != nil {
		if _, err := s.GetType(ctx, *input.BikeTypeID); err != nil {
			return nil, err
		}
		bike.BikeTypeID = input.BikeTypeID
	}
	if input.Description != nil {
		bike.Description = input.Description
	}
	if input.RentalPrice != nil {
		bike.RentalPrice = *input.RentalPrice
	}
	if input.CostPrice != nil {
		bike.CostPrice = *input.CostPrice
	}
	if input.PurchaseDate != nil {
		bike.PurchaseDate = input.PurchaseDate
	}
	if input.SerialNumber != nil {
		bike.SerialNumber = input.SerialNumber
	}
	if input.Color != nil {
		bike.Color = input.Color
	}
	if input.GearCount != nil {
		bike.GearCount = *input.GearCount
	}
	if input.StockQuantity != nil {
		bike.StockQuantity = *input.StockQuantity
	}
	if input.Active != nil {
		bike.Active = *input.Active
	}

	if err := validatePrices(bike.RentalPrice, bike.CostPrice); err != nil {
		return nil, err
	}

	saved, err := s.repo.SaveBike(ctx, bike)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update bike")
	}
	return saved, nil
}

// DeactivateBike soft-deletes: the bike disappears from public listings but
// stays referenced by historical order lines.
func (s *service) DeactivateBike(ctx context.Context, id uuid.UUID) error {
	inactive := false
	_, err := s.UpdateBike(ctx, id, UpdateBikeInput{Active: &inactive})
	return err
}

func (s *service) CreateType(ctx context.Context, input TypeInput) (*models.BikeType, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "type name required")
	}
	created, err := s.repo.CreateType(ctx, &models.BikeType{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert bike type")
	}
	return created, nil
}

func (s *service) UpdateType(ctx context.Context, id uuid.UUID, input TypeInput) (*models.BikeType, error) {
	bikeType, err := s.GetType(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) != "" {
		bikeType.Name = strings.TrimSpace(input.Name)
	}
	if input.Description != nil {
		bikeType.Description = input.Description
	}
	saved, err := s.repo.SaveType(ctx, bikeType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update bike type")
	}
	return saved, nil
}

func (s *service) DeleteType(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetType(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteType(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete bike type")
	}
	return nil
}

func validatePrices(rental, cost decimal.Decimal) error {
	if rental.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "rental price cannot be negative")
	}
	if cost.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "cost price cannot be negative")
	}
	return nil
}
