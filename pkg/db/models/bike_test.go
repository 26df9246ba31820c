package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestBikeIsAvailableTracksStock(t *testing.T) {
	bike := Bike{StockQuantity: 0}
	if bike.IsAvailable() {
		t.Fatal("zero stock should not be available")
	}
	bike.StockQuantity = 3
	if !bike.IsAvailable() {
		t.Fatal("positive stock should be available")
	}
}

func TestBikeAgeYears(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	bike := Bike{}
	if got := bike.AgeYears(now); got != 0 {
		t.Fatalf("missing purchase date should yield 0, got %d", got)
	}

	purchased := time.Date(2021, time.September, 15, 0, 0, 0, 0, time.UTC)
	bike.PurchaseDate = &purchased
	if got := bike.AgeYears(now); got != 5 {
		t.Fatalf("expected age 5, got %d", got)
	}
}

func TestBikeProfitMargin(t *testing.T) {
	bike := Bike{
		RentalPrice: decimal.NewFromInt(15),
		CostPrice:   decimal.NewFromInt(10),
	}
	if got := bike.ProfitMargin(); !got.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected 50%% margin, got %s", got)
	}

	bike.CostPrice = decimal.Zero
	if got := bike.ProfitMargin(); !got.IsZero() {
		t.Fatalf("zero cost should yield zero margin, got %s", got)
	}
}

func TestCartItemRentalDays(t *testing.T) {
	item := CartItem{}
	if got := item.RentalDays(); got != 1 {
		t.Fatalf("missing dates should default to 1 day, got %d", got)
	}

	start := time.Date(2026, time.June, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(72 * time.Hour)
	item.StartDate = &start
	item.EndDate = &end
	if got := item.RentalDays(); got != 3 {
		t.Fatalf("expected 3 days, got %d", got)
	}

	sameDay := start.Add(2 * time.Hour)
	item.EndDate = &sameDay
	if got := item.RentalDays(); got != 1 {
		t.Fatalf("sub-day window should bill 1 day, got %d", got)
	}
}

func TestBilledDaysFloorsAtOne(t *testing.T) {
	start := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	if got := BilledDays(start, start); got != 1 {
		t.Fatalf("expected floor of 1, got %d", got)
	}
	if got := BilledDays(start, start.AddDate(0, 0, 3)); got != 3 {
		t.Fatalf("expected 3 days, got %d", got)
	}
}
