package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velotown/bikerental-backend/pkg/enums"
)

// RentalOrder is a confirmed rental produced from a checkout.
type RentalOrder struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Reference     string              `gorm:"column:reference;not null;default:'New'"`
	CustomerName  string              `gorm:"column:customer_name;not null"`
	CustomerEmail string              `gorm:"column:customer_email;not null;index"`
	CustomerPhone *string             `gorm:"column:customer_phone"`
	StartDate     time.Time           `gorm:"column:start_date;not null"`
	EndDate       time.Time           `gorm:"column:end_date;not null"`
	TotalDays     int                 `gorm:"column:total_days;not null;default:1"`
	State         enums.OrderState    `gorm:"column:state;type:order_state;not null;default:'draft'"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;type:payment_method;not null;default:'cash'"`
	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status;type:payment_status;not null;default:'pending'"`
	Notes         *string             `gorm:"column:notes"`
	TotalAmount   decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null;default:0"`
	Lines         []OrderLine         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// BilledDays returns max(1, end−start in days) for a rental window.
func BilledDays(start, end time.Time) int {
	days := int(end.Sub(start).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}
