package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/velotown/bikerental-backend/pkg/db/models"
	pkgerrors "github.com/velotown/bikerental-backend/pkg/errors"
)

type dbBikeFinder struct {
	db *gorm.DB
}

func (f *dbBikeFinder) FindBikeByID(ctx context.Context, id uuid.UUID) (*models.Bike, error) {
	var bike models.Bike
	if err := f.db.WithContext(ctx).First(&bike, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &bike, nil
}

func newCartService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	db := setupCartTestDB(t)
	svc, err := NewService(NewRepository(db), &dbBikeFinder{db: db})
	require.NoError(t, err)
	return svc, db
}

func TestAddItemInsertsThenIncrements(t *testing.T) {
	svc, db := newCartService(t)
	bike := seedBike(t, db, "Crag", 20, true)

	count, err := svc.AddItem(context.Background(), "sess-a", AddItemInput{BikeID: bike.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = svc.AddItem(context.Background(), "sess-a", AddItemInput{BikeID: bike.ID, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	var rows []models.CartItem
	require.NoError(t, db.Where("session_id = ?", "sess-a").Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, 5, rows[0].Quantity)
}

func TestAddItemKeepsDatesUnlessNewOnesSupplied(t *testing.T) {
	svc, db := newCartService(t)
	bike := seedBike(t, db, "Crag", 20, true)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 3)
	_, err := svc.AddItem(context.Background(), "sess-a", AddItemInput{
		BikeID:    bike.ID,
		StartDate: &start,
		EndDate:   &end,
	})
	require.NoError(t, err)

	_, err = svc.AddItem(context.Background(), "sess-a", AddItemInput{BikeID: bike.ID})
	require.NoError(t, err)

	var item models.CartItem
	require.NoError(t, db.Where("session_id = ?", "sess-a").First(&item).Error)
	require.NotNil(t, item.StartDate)
	require.NotNil(t, item.EndDate)
	assert.Equal(t, start.Unix(), item.StartDate.Unix())

	newEnd := start.AddDate(0, 0, 5)
	_, err = svc.AddItem(context.Background(), "sess-a", AddItemInput{BikeID: bike.ID, EndDate: &newEnd})
	require.NoError(t, err)

	require.NoError(t, db.Where("session_id = ?", "sess-a").First(&item).Error)
	assert.Equal(t, newEnd.Unix(), item.EndDate.Unix())
	assert.Equal(t, start.Unix(), item.StartDate.Unix())
}

func TestAddItemRejectsMissingOrInactiveBike(t *testing.T) {
	svc, db := newCartService(t)

	_, err := svc.AddItem(context.Background(), "sess-a", AddItemInput{BikeID: uuid.New()})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	retired := seedBike(t, db, "Retired", 20, false)
	_, err = svc.AddItem(context.Background(), "sess-a", AddItemInput{BikeID: retired.ID})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestAddItemRequiresSession(t *testing.T) {
	svc, db := newCartService(t)
	bike := seedBike(t, db, "Crag", 20, true)

	_, err := svc.AddItem(context.Background(), "", AddItemInput{BikeID: bike.ID})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestViewCartComputesLineAndGrandTotals(t *testing.T) {
	svc, db := newCartService(t)
	crag := seedBike(t, db, "Crag", 10, true)
	dash := seedBike(t, db, "Dash", 5, true)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 3)
	_, err := svc.AddItem(context.Background(), "sess-a", AddItemInput{
		BikeID: crag.ID, Quantity: 2, StartDate: &start, EndDate: &end,
	})
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), "sess-a", AddItemInput{
		BikeID: dash.ID, Quantity: 1, StartDate: &start, EndDate: &end,
	})
	require.NoError(t, err)

	view, err := svc.ViewCart(context.Background(), "sess-a")
	require.NoError(t, err)
	require.Len(t, view.Lines, 2)
	assert.Equal(t, 3, view.Lines[0].Days)
	assert.True(t, view.Lines[0].LineTotal.Equal(decimal.NewFromInt(60)), "got %s", view.Lines[0].LineTotal)
	assert.True(t, view.Lines[1].LineTotal.Equal(decimal.NewFromInt(15)), "got %s", view.Lines[1].LineTotal)
	assert.True(t, view.Total.Equal(decimal.NewFromInt(75)), "got %s", view.Total)
	assert.Equal(t, 3, view.Count)
}

func TestViewCartDefaultsToOneDayWithoutDates(t *testing.T) {
	svc, db := newCartService(t)
	bike := seedBike(t, db, "Crag", 10, true)

	_, err := svc.AddItem(context.Background(), "sess-a", AddItemInput{BikeID: bike.ID, Quantity: 2})
	require.NoError(t, err)

	view, err := svc.ViewCart(context.Background(), "sess-a")
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 1, view.Lines[0].Days)
	assert.True(t, view.Total.Equal(decimal.NewFromInt(20)), "got %s", view.Total)
}

func TestRemoveItemFromForeignSessionReportsNotFound(t *testing.T) {
	svc, db := newCartService(t)
	bike := seedBike(t, db, "Crag", 20, true)

	_, err := svc.AddItem(context.Background(), "sess-a", AddItemInput{BikeID: bike.ID})
	require.NoError(t, err)

	var item models.CartItem
	require.NoError(t, db.Where("session_id = ?", "sess-a").First(&item).Error)

	_, err = svc.RemoveItem(context.Background(), "sess-b", item.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	view, err := svc.ViewCart(context.Background(), "sess-a")
	require.NoError(t, err)
	assert.Equal(t, 1, view.Count)
}

func TestRemoveItemReturnsRemainingCount(t *testing.T) {
	svc, db := newCartService(t)
	crag := seedBike(t, db, "Crag", 20, true)
	dash := seedBike(t, db, "Dash", 15, true)

	_, err := svc.AddItem(context.Background(), "sess-a", AddItemInput{BikeID: crag.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), "sess-a", AddItemInput{BikeID: dash.ID})
	require.NoError(t, err)

	var item models.CartItem
	require.NoError(t, db.Where("session_id = ? AND bike_id = ?", "sess-a", crag.ID).First(&item).Error)

	count, err := svc.RemoveItem(context.Background(), "sess-a", item.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
