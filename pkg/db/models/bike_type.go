package models

import (
	"time"

	"github.com/google/uuid"
)

// BikeType groups bikes into categories such as "Mountain" or "Road".
type BikeType struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Description *string   `gorm:"column:description"`
	Bikes       []Bike    `gorm:"foreignKey:BikeTypeID;constraint:OnDelete:SET NULL"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
