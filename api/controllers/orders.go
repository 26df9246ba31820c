package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/velotown/bikerental-backend/api/render"
	"github.com/velotown/bikerental-backend/api/validators"
	"github.com/velotown/bikerental-backend/internal/orders"
	"github.com/velotown/bikerental-backend/pkg/enums"
	pkgerrors "github.com/velotown/bikerental-backend/pkg/errors"
	"github.com/velotown/bikerental-backend/pkg/logger"
)

// PaymentPage renders the simulated card form for an online order.
func PaymentPage(svc orders.Service, rnd *render.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "orderID")
		if err != nil {
			rnd.Error(r.Context(), w, err)
			return
		}
		order, err := svc.GetOrder(r.Context(), id)
		if err != nil {
			rnd.Error(r.Context(), w, err)
			return
		}

		data := map[string]any{"order": order}
		if r.URL.Query().Get("declined") != "" {
			data["error"] = "Payment declined, please try another card."
		}
		rnd.HTML(r.Context(), w, http.StatusOK, "payment.html", data)
	}
}

// ProcessPayment runs the simulated gateway and routes by outcome: paid
// orders land on the success page, declined ones return to the card form.
func ProcessPayment(svc orders.Service, rnd *render.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			rnd.Error(r.Context(), w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form"))
			return
		}

		id, err := uuid.Parse(strings.TrimSpace(r.FormValue("order_id")))
		if err != nil {
			rnd.Error(r.Context(), w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		order, err := svc.ProcessPayment(r.Context(), id, r.FormValue("card_number"))
		if err != nil {
			rnd.Error(r.Context(), w, err)
			return
		}

		if order.PaymentStatus == enums.PaymentStatusPaid {
			http.Redirect(w, r, "/order_success/"+order.ID.String(), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/payment/"+order.ID.String()+"?declined=1", http.StatusSeeOther)
	}
}

// OrderSuccess renders the confirmation page.
func OrderSuccess(svc orders.Service, rnd *render.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "orderID")
		if err != nil {
			rnd.Error(r.Context(), w, err)
			return
		}
		order, err := svc.GetOrder(r.Context(), id)
		if err != nil {
			rnd.Error(r.Context(), w, err)
			return
		}
		rnd.HTML(r.Context(), w, http.StatusOK, "order_success.html", map[string]any{"order": order})
	}
}

// MyOrders lists a customer's orders by email. Without an email it just
// shows the lookup form.
func MyOrders(svc orders.Service, rnd *render.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := strings.TrimSpace(r.URL.Query().Get("email"))
		data := map[string]any{"email": email}

		if email != "" {
			rows, err := svc.ListByEmail(r.Context(), email)
			if err != nil {
				rnd.Error(r.Context(), w, err)
				return
			}
			data["orders"] = rows
		}
		rnd.HTML(r.Context(), w, http.StatusOK, "my_orders.html", data)
	}
}
