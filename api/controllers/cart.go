package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/velotown/bikerental-backend/api/middleware"
	"github.com/velotown/bikerental-backend/api/render"
	"github.com/velotown/bikerental-backend/api/responses"
	"github.com/velotown/bikerental-backend/api/validators"
	"github.com/velotown/bikerental-backend/internal/cart"
	pkgerrors "github.com/velotown/bikerental-backend/pkg/errors"
	"github.com/velotown/bikerental-backend/pkg/logger"
)

type addToCartRequest struct {
	BikeID    string  `json:"bike_id" validate:"required,uuid"`
	Quantity  int     `json:"quantity" validate:"omitempty,min=1"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
}

type removeFromCartRequest struct {
	ItemID string `json:"item_id" validate:"required,uuid"`
}

// AddToCart is the storefront RPC behind the "Add to cart" button. Failures
// come back as {"error": ...} with HTTP 200; the page script renders them
// inline.
func AddToCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())

		var payload addToCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteSoftError(r.Context(), logg, w, err)
			return
		}

		bikeID, err := uuid.Parse(payload.BikeID)
		if err != nil {
			responses.WriteSoftError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid bike id"))
			return
		}

		input := cart.AddItemInput{BikeID: bikeID, Quantity: payload.Quantity}
		if input.StartDate, err = parseOptionalDate(payload.StartDate, "start_date"); err != nil {
			responses.WriteSoftError(r.Context(), logg, w, err)
			return
		}
		if input.EndDate, err = parseOptionalDate(payload.EndDate, "end_date"); err != nil {
			responses.WriteSoftError(r.Context(), logg, w, err)
			return
		}

		count, err := svc.AddItem(r.Context(), sessionID, input)
		if err != nil {
			responses.WriteSoftError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSoft(w, map[string]any{
			"success":    true,
			"cart_count": count,
		})
	}
}

// ViewCart renders the cart page with computed totals.
func ViewCart(svc cart.Service, rnd *render.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		view, err := svc.ViewCart(r.Context(), sessionID)
		if err != nil {
			rnd.Error(r.Context(), w, err)
			return
		}
		rnd.HTML(r.Context(), w, http.StatusOK, "cart.html", map[string]any{
			"cart_items": view.Lines,
			"total":      view.Total,
		})
	}
}

// RemoveFromCart is the storefront RPC behind the "Remove" button. A row
// owned by another session reports the same error as a missing one.
func RemoveFromCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())

		var payload removeFromCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteSoftError(r.Context(), logg, w, err)
			return
		}

		itemID, err := uuid.Parse(payload.ItemID)
		if err != nil {
			responses.WriteSoftError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id"))
			return
		}

		count, err := svc.RemoveItem(r.Context(), sessionID, itemID)
		if err != nil {
			responses.WriteSoftError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSoft(w, map[string]any{
			"success":    true,
			"cart_count": count,
		})
	}
}

func parseOptionalDate(raw *string, name string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return &parsed, nil
}
