package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/velotown/bikerental-backend/internal/cart"
	"github.com/velotown/bikerental-backend/pkg/db/models"
	"github.com/velotown/bikerental-backend/pkg/enums"
	pkgerrors "github.com/velotown/bikerental-backend/pkg/errors"
)

// sequenceName keys the order-reference counter in redis.
const sequenceName = "bikerental.order"

// minCardDigits is the only acceptance rule of the simulated gateway.
const minCardDigits = 16

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type sequenceSource interface {
	NextSequence(ctx context.Context, name string) (int64, error)
}

// Service owns the rental order lifecycle from checkout to payment.
type Service interface {
	CreateFromCart(ctx context.Context, sessionID string, input CreateOrderInput) (*models.RentalOrder, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.RentalOrder, error)
	ListByEmail(ctx context.Context, email string) ([]models.RentalOrder, error)
	Confirm(ctx context.Context, id uuid.UUID) (*models.RentalOrder, error)
	StartRental(ctx context.Context, id uuid.UUID) (*models.RentalOrder, error)
	Return(ctx context.Context, id uuid.UUID) (*models.RentalOrder, error)
	Cancel(ctx context.Context, id uuid.UUID) (*models.RentalOrder, error)
	ProcessPayment(ctx context.Context, id uuid.UUID, cardNumber string) (*models.RentalOrder, error)
}

// CreateOrderInput carries the checkout form.
type CreateOrderInput struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone *string
	StartDate     time.Time
	EndDate       time.Time
	PaymentMethod enums.PaymentMethod
	Notes         *string
}

type service struct {
	db        txRunner
	repo      *Repository
	carts     *cart.Repository
	sequences sequenceSource
}

// NewService constructs an order service instance.
func NewService(db txRunner, repo *Repository, carts *cart.Repository, sequences sequenceSource) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if sequences == nil {
		return nil, fmt.Errorf("sequence source required")
	}
	return &service{db: db, repo: repo, carts: carts, sequences: sequences}, nil
}

// CreateFromCart turns the session's cart into an order. The header, its
// lines, and the cart clear all commit in one transaction, so a mid-failure
// leaves no partial order behind.
func (s *service) CreateFromCart(ctx context.Context, sessionID string, input CreateOrderInput) (*models.RentalOrder, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session unavailable")
	}
	if strings.TrimSpace(input.CustomerName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name required")
	}
	if strings.TrimSpace(input.CustomerEmail) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer email required")
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rental dates required")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}

	items, err := s.carts.ListItems(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart items")
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	totalDays := models.BilledDays(input.StartDate, input.EndDate)
	days := decimal.NewFromInt(int64(totalDays))

	order := &models.RentalOrder{
		Reference:     s.nextReference(ctx),
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerEmail: strings.TrimSpace(input.CustomerEmail),
		CustomerPhone: input.CustomerPhone,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		TotalDays:     totalDays,
		State:         enums.OrderStateDraft,
		PaymentMethod: input.PaymentMethod,
		PaymentStatus: enums.PaymentStatusPending,
		Notes:         input.Notes,
		TotalAmount:   decimal.Zero,
	}

	for _, item := range items {
		if item.Bike == nil {
			return nil, pkgerrors.New(pkgerrors.CodeDependency, "cart item lost its bike")
		}
		qty := decimal.NewFromInt(int64(item.Quantity))
		subtotal := item.Bike.RentalPrice.Mul(qty).Mul(days)
		order.Lines = append(order.Lines, models.OrderLine{
			BikeID:    item.BikeID,
			Quantity:  item.Quantity,
			UnitPrice: item.Bike.RentalPrice,
			Subtotal:  subtotal,
		})
		order.TotalAmount = order.TotalAmount.Add(subtotal)
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).CreateOrder(ctx, order); err != nil {
			return err
		}
		return s.carts.WithTx(tx).ClearSession(ctx, sessionID)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	return order, nil
}

// nextReference pulls the next value of the order counter. A sequence outage
// falls back to the unnumbered placeholder instead of blocking checkout.
func (s *service) nextReference(ctx context.Context) string {
	seq, err := s.sequences.NextSequence(ctx, sequenceName)
	if err != nil {
		return "New"
	}
	return fmt.Sprintf("RNT%05d", seq)
}

func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*models.RentalOrder, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) ListByEmail(ctx context.Context, email string) ([]models.RentalOrder, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email required")
	}
	rows, err := s.repo.ListByEmail(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return rows, nil
}

func (s *service) Confirm(ctx context.Context, id uuid.UUID) (*models.RentalOrder, error) {
	return s.setState(ctx, id, enums.OrderStateConfirmed)
}

func (s *service) StartRental(ctx context.Context, id uuid.UUID) (*models.RentalOrder, error) {
	return s.setState(ctx, id, enums.OrderStateInProgress)
}

func (s *service) Return(ctx context.Context, id uuid.UUID) (*models.RentalOrder, error) {
	return s.setState(ctx, id, enums.OrderStateReturned)
}

func (s *service) Cancel(ctx context.Context, id uuid.UUID) (*models.RentalOrder, error) {
	return s.setState(ctx, id, enums.OrderStateCancelled)
}

// setState overwrites the order state unconditionally. Out-of-order
// transitions are allowed on purpose; staff correct mistakes by setting the
// state directly.
func (s *service) setState(ctx context.Context, id uuid.UUID, state enums.OrderState) (*models.RentalOrder, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	order.State = state
	if _, err := s.repo.SaveOrder(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order state")
	}
	return order, nil
}

// ProcessPayment runs the simulated gateway: a card number with at least 16
// digits is accepted, anything shorter is declined. No Luhn check.
func (s *service) ProcessPayment(ctx context.Context, id uuid.UUID, cardNumber string) (*models.RentalOrder, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	digits := strings.ReplaceAll(strings.TrimSpace(cardNumber), " ", "")
	if len(digits) >= minCardDigits {
		order.PaymentStatus = enums.PaymentStatusPaid
	} else {
		order.PaymentStatus = enums.PaymentStatusFailed
	}

	if _, err := s.repo.SaveOrder(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment status")
	}
	return order, nil
}
