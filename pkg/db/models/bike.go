package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Bike represents a rentable bike in the catalog.
//
// Availability, age, and margin are derived on read rather than stored;
// the catalog service recomputes them whenever a bike is rendered.
type Bike struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string          `gorm:"column:name;not null"`
	Brand         string          `gorm:"column:brand;not null"`
	Model         *string         `gorm:"column:model"`
	BikeTypeID    *uuid.UUID      `gorm:"column:bike_type_id;type:uuid"`
	BikeType      *BikeType       `gorm:"foreignKey:BikeTypeID"`
	Description   *string         `gorm:"column:description"`
	RentalPrice   decimal.Decimal `gorm:"column:rental_price;type:numeric(10,2);not null"`
	CostPrice     decimal.Decimal `gorm:"column:cost_price;type:numeric(10,2);not null;default:0"`
	PurchaseDate  *time.Time      `gorm:"column:purchase_date"`
	SerialNumber  *string         `gorm:"column:serial_number"`
	Color         *string         `gorm:"column:color"`
	GearCount     int             `gorm:"column:gear_count;not null;default:0"`
	StockQuantity int             `gorm:"column:stock_quantity;not null"`
	Active        bool            `gorm:"column:active;not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// IsAvailable reports whether the bike has stock to rent.
func (b Bike) IsAvailable() bool {
	return b.StockQuantity > 0
}

// AgeYears returns the bike's age in whole calendar years, 0 when the
// purchase date is unknown.
func (b Bike) AgeYears(now time.Time) int {
	if b.PurchaseDate == nil {
		return 0
	}
	return now.Year() - b.PurchaseDate.Year()
}

// ProfitMargin returns (rental − cost) / cost × 100, or 0 when the cost
// price is zero.
func (b Bike) ProfitMargin() decimal.Decimal {
	if b.CostPrice.IsZero() {
		return decimal.Zero
	}
	hundred := decimal.NewFromInt(100)
	return b.RentalPrice.Sub(b.CostPrice).Div(b.CostPrice).Mul(hundred)
}
