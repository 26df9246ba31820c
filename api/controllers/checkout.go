package controllers

import (
	"net/http"
	"strings"

	"github.com/velotown/bikerental-backend/api/middleware"
	"github.com/velotown/bikerental-backend/api/render"
	"github.com/velotown/bikerental-backend/api/validators"
	"github.com/velotown/bikerental-backend/internal/cart"
	"github.com/velotown/bikerental-backend/internal/orders"
	"github.com/velotown/bikerental-backend/pkg/enums"
	pkgerrors "github.com/velotown/bikerental-backend/pkg/errors"
	"github.com/velotown/bikerental-backend/pkg/logger"
)

// CheckoutPage shows the cart summary and customer form. An empty cart
// bounces back to the cart page.
func CheckoutPage(svc cart.Service, rnd *render.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		view, err := svc.ViewCart(r.Context(), sessionID)
		if err != nil {
			rnd.Error(r.Context(), w, err)
			return
		}
		if len(view.Lines) == 0 {
			http.Redirect(w, r, "/cart", http.StatusSeeOther)
			return
		}
		rnd.HTML(r.Context(), w, http.StatusOK, "checkout.html", map[string]any{
			"cart_items": view.Lines,
			"total":      view.Total,
		})
	}
}

// ProcessOrder turns the checkout form into an order, then routes online
// payers to the payment page and cash payers straight to the success page.
func ProcessOrder(svc orders.Service, rnd *render.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())

		if err := r.ParseForm(); err != nil {
			rnd.Error(r.Context(), w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form"))
			return
		}

		startDate, err := validators.FormDateRequired(r, "start_date")
		if err != nil {
			rnd.Error(r.Context(), w, err)
			return
		}
		endDate, err := validators.FormDateRequired(r, "end_date")
		if err != nil {
			rnd.Error(r.Context(), w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(strings.TrimSpace(r.FormValue("payment_method")))
		if err != nil {
			rnd.Error(r.Context(), w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown payment method"))
			return
		}

		order, err := svc.CreateFromCart(r.Context(), sessionID, orders.CreateOrderInput{
			CustomerName:  r.FormValue("customer_name"),
			CustomerEmail: r.FormValue("customer_email"),
			CustomerPhone: validators.OptionalFormValue(r, "customer_phone"),
			StartDate:     startDate,
			EndDate:       endDate,
			PaymentMethod: method,
			Notes:         validators.OptionalFormValue(r, "notes"),
		})
		if err != nil {
			rnd.Error(r.Context(), w, err)
			return
		}

		if order.PaymentMethod == enums.PaymentMethodOnline {
			http.Redirect(w, r, "/payment/"+order.ID.String(), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/order_success/"+order.ID.String(), http.StatusSeeOther)
	}
}
