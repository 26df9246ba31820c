package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is a pending rental selection scoped to an anonymous visitor
// session. One row exists per (session, bike) pair; repeated adds bump
// the quantity instead of inserting.
type CartItem struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID string     `gorm:"column:session_id;not null;index"`
	BikeID    uuid.UUID  `gorm:"column:bike_id;type:uuid;not null"`
	Bike      *Bike      `gorm:"foreignKey:BikeID"`
	Quantity  int        `gorm:"column:quantity;not null;default:1"`
	StartDate *time.Time `gorm:"column:start_date"`
	EndDate   *time.Time `gorm:"column:end_date"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}

// RentalDays returns the billed days for the item's window, never below 1.
func (c CartItem) RentalDays() int {
	if c.StartDate == nil || c.EndDate == nil {
		return 1
	}
	days := int(c.EndDate.Sub(*c.StartDate).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}
