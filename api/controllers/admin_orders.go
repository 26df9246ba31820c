package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/velotown/bikerental-backend/api/responses"
	"github.com/velotown/bikerental-backend/api/validators"
	"github.com/velotown/bikerental-backend/internal/orders"
	"github.com/velotown/bikerental-backend/pkg/db/models"
	"github.com/velotown/bikerental-backend/pkg/logger"
)

// AdminConfirmOrder marks the order confirmed.
func AdminConfirmOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return orderAction(svc.Confirm, logg)
}

// AdminStartRental marks the order in progress.
func AdminStartRental(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return orderAction(svc.StartRental, logg)
}

// AdminReturnOrder marks the order returned.
func AdminReturnOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return orderAction(svc.Return, logg)
}

// AdminCancelOrder marks the order cancelled.
func AdminCancelOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return orderAction(svc.Cancel, logg)
}

// AdminOrderDetail returns one order with its lines.
func AdminOrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return orderAction(svc.GetOrder, logg)
}

func orderAction(action func(context.Context, uuid.UUID) (*models.RentalOrder, error), logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := action(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
