package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/velotown/bikerental-backend/pkg/db"
	"github.com/velotown/bikerental-backend/pkg/db/models"
	pkgerrors "github.com/velotown/bikerental-backend/pkg/errors"
)

type cartRepository interface {
	FindItem(ctx context.Context, sessionID string, bikeID uuid.UUID) (*models.CartItem, error)
	ListItems(ctx context.Context, sessionID string) ([]models.CartItem, error)
	CreateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	SaveItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	DeleteItem(ctx context.Context, sessionID string, itemID uuid.UUID) error
	CountItems(ctx context.Context, sessionID string) (int, error)
	ClearSession(ctx context.Context, sessionID string) error
}

type bikeFinder interface {
	FindBikeByID(ctx context.Context, id uuid.UUID) (*models.Bike, error)
}

// Service manages the anonymous visitor's cart.
type Service interface {
	AddItem(ctx context.Context, sessionID string, input AddItemInput) (int, error)
	ViewCart(ctx context.Context, sessionID string) (*View, error)
	RemoveItem(ctx context.Context, sessionID string, itemID uuid.UUID) (int, error)
	Clear(ctx context.Context, sessionID string) error
}

// AddItemInput carries one add-to-cart request.
type AddItemInput struct {
	BikeID    uuid.UUID
	Quantity  int
	StartDate *time.Time
	EndDate   *time.Time
}

// Line is one cart row with its computed rental pricing.
type Line struct {
	Item      models.CartItem
	Days      int
	LineTotal decimal.Decimal
}

// View is the rendered cart: all lines plus the grand total and the summed
// item count.
type View struct {
	Lines []Line
	Total decimal.Decimal
	Count int
}

type service struct {
	repo  cartRepository
	bikes bikeFinder
}

// NewService constructs a cart service instance.
func NewService(repo cartRepository, bikes bikeFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if bikes == nil {
		return nil, fmt.Errorf("bike finder required")
	}
	return &service{repo: repo, bikes: bikes}, nil
}

// AddItem upserts the (session, bike) row: an existing row gets its quantity
// bumped and its dates overwritten only when new values are supplied. Returns
// the session's total item count.
func (s *service) AddItem(ctx context.Context, sessionID string, input AddItemInput) (int, error) {
	if sessionID == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "session unavailable")
	}
	qty := input.Quantity
	if qty <= 0 {
		qty = 1
	}

	bike, err := s.bikes.FindBikeByID(ctx, input.BikeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, pkgerrors.New(pkgerrors.CodeNotFound, "bike not found")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load bike")
	}
	if !bike.Active {
		return 0, pkgerrors.New(pkgerrors.CodeNotFound, "bike not found")
	}

	existing, err := s.repo.FindItem(ctx, sessionID, input.BikeID)
	switch {
	case err == nil:
		existing.Quantity += qty
		if input.StartDate != nil {
			existing.StartDate = input.StartDate
		}
		if input.EndDate != nil {
			existing.EndDate = input.EndDate
		}
		if _, err := s.repo.SaveItem(ctx, existing); err != nil {
			return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item := &models.CartItem{
			SessionID: sessionID,
			BikeID:    input.BikeID,
			Quantity:  qty,
			StartDate: input.StartDate,
			EndDate:   input.EndDate,
		}
		if _, err := s.repo.CreateItem(ctx, item); err != nil {
			// Two concurrent adds for the same bike can race past FindItem;
			// the UNIQUE(session_id, bike_id) index catches the loser.
			if db.IsUniqueViolation(err, "") {
				return 0, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "cart item already exists, retry")
			}
			return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert cart item")
		}
	default:
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
	}

	count, err := s.repo.CountItems(ctx, sessionID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count cart items")
	}
	return count, nil
}

// ViewCart computes per-line days and totals plus the grand total.
func (s *service) ViewCart(ctx context.Context, sessionID string) (*View, error) {
	rows, err := s.repo.ListItems(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart items")
	}

	view := &View{Total: decimal.Zero}
	for _, row := range rows {
		days := row.RentalDays()
		lineTotal := decimal.Zero
		if row.Bike != nil {
			lineTotal = row.Bike.RentalPrice.
				Mul(decimal.NewFromInt(int64(row.Quantity))).
				Mul(decimal.NewFromInt(int64(days)))
		}
		view.Lines = append(view.Lines, Line{Item: row, Days: days, LineTotal: lineTotal})
		view.Total = view.Total.Add(lineTotal)
		view.Count += row.Quantity
	}
	return view, nil
}

// RemoveItem deletes the row when it belongs to the session and returns the
// remaining item count. A row owned by another session reports not found.
func (s *service) RemoveItem(ctx context.Context, sessionID string, itemID uuid.UUID) (int, error) {
	if sessionID == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "session unavailable")
	}
	if err := s.repo.DeleteItem(ctx, sessionID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart item")
	}
	count, err := s.repo.CountItems(ctx, sessionID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count cart items")
	}
	return count, nil
}

// Clear drops every row for the session.
func (s *service) Clear(ctx context.Context, sessionID string) error {
	if err := s.repo.ClearSession(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}
