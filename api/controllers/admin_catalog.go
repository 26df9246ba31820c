package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velotown/bikerental-backend/api/responses"
	"github.com/velotown/bikerental-backend/api/validators"
	"github.com/velotown/bikerental-backend/internal/catalog"
	pkgerrors "github.com/velotown/bikerental-backend/pkg/errors"
	"github.com/velotown/bikerental-backend/pkg/logger"
)

type typeRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description,omitempty"`
}

type createBikeRequest struct {
	Name          string  `json:"name" validate:"required"`
	Brand         string  `json:"brand" validate:"required"`
	Model         *string `json:"model,omitempty"`
	BikeTypeID    *string `json:"bike_type_id,omitempty" validate:"omitempty,uuid"`
	Description   *string `json:"description,omitempty"`
	RentalPrice   string  `json:"rental_price" validate:"required"`
	CostPrice     *string `json:"cost_price,omitempty"`
	PurchaseDate  *string `json:"purchase_date,omitempty"`
	SerialNumber  *string `json:"serial_number,omitempty"`
	Color         *string `json:"color,omitempty"`
	GearCount     int     `json:"gear_count" validate:"omitempty,min=0"`
	StockQuantity *int    `json:"stock_quantity,omitempty" validate:"omitempty,min=0"`
}

type updateBikeRequest struct {
	Name          *string `json:"name,omitempty"`
	Brand         *string `json:"brand,omitempty"`
	Model         *string `json:"model,omitempty"`
	BikeTypeID    *string `json:"bike_type_id,omitempty" validate:"omitempty,uuid"`
	Description   *string `json:"description,omitempty"`
	RentalPrice   *string `json:"rental_price,omitempty"`
	CostPrice     *string `json:"cost_price,omitempty"`
	PurchaseDate  *string `json:"purchase_date,omitempty"`
	SerialNumber  *string `json:"serial_number,omitempty"`
	Color         *string `json:"color,omitempty"`
	GearCount     *int    `json:"gear_count,omitempty" validate:"omitempty,min=0"`
	StockQuantity *int    `json:"stock_quantity,omitempty" validate:"omitempty,min=0"`
	Active        *bool   `json:"active,omitempty"`
}

// AdminCreateType inserts a bike type.
func AdminCreateType(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload typeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.CreateType(r.Context(), catalog.TypeInput{
			Name:        payload.Name,
			Description: payload.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// AdminUpdateType edits a bike type.
func AdminUpdateType(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "typeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload typeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := svc.UpdateType(r.Context(), id, catalog.TypeInput{
			Name:        payload.Name,
			Description: payload.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// AdminDeleteType removes a bike type; its bikes keep existing with a null
// type reference.
func AdminDeleteType(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "typeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteType(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

// AdminCreateBike inserts a bike.
func AdminCreateBike(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createBikeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.CreateBikeInput{
			Name:          payload.Name,
			Brand:         payload.Brand,
			Model:         payload.Model,
			Description:   payload.Description,
			SerialNumber:  payload.SerialNumber,
			Color:         payload.Color,
			GearCount:     payload.GearCount,
			StockQuantity: payload.StockQuantity,
		}

		var err error
		if input.RentalPrice, err = parsePrice(payload.RentalPrice, "rental_price"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.CostPrice != nil {
			if input.CostPrice, err = parsePrice(*payload.CostPrice, "cost_price"); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		if input.BikeTypeID, err = parseOptionalUUID(payload.BikeTypeID, "bike_type_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.PurchaseDate, err = parseOptionalDate(payload.PurchaseDate, "purchase_date"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.CreateBike(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// AdminUpdateBike applies a partial edit to a bike.
func AdminUpdateBike(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "bikeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateBikeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.UpdateBikeInput{
			Name:          payload.Name,
			Brand:         payload.Brand,
			Model:         payload.Model,
			Description:   payload.Description,
			SerialNumber:  payload.SerialNumber,
			Color:         payload.Color,
			GearCount:     payload.GearCount,
			StockQuantity: payload.StockQuantity,
			Active:        payload.Active,
		}

		if payload.RentalPrice != nil {
			price, err := parsePrice(*payload.RentalPrice, "rental_price")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.RentalPrice = &price
		}
		if payload.CostPrice != nil {
			price, err := parsePrice(*payload.CostPrice, "cost_price")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.CostPrice = &price
		}
		if input.BikeTypeID, err = parseOptionalUUID(payload.BikeTypeID, "bike_type_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.PurchaseDate, err = parseOptionalDate(payload.PurchaseDate, "purchase_date"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.UpdateBike(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// AdminDeleteBike soft-deletes: the bike drops out of public listings but
// stays behind historical order lines.
func AdminDeleteBike(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "bikeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeactivateBike(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deactivated": true})
	}
}

func parsePrice(raw, name string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return price, nil
}

func parseOptionalUUID(raw *string, name string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return &id, nil
}
