package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/velotown/bikerental-backend/internal/cart"
	"github.com/velotown/bikerental-backend/pkg/db/models"
	"github.com/velotown/bikerental-backend/pkg/enums"
	pkgerrors "github.com/velotown/bikerental-backend/pkg/errors"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r *gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type stubSequences struct {
	next  int64
	err   error
	calls int
}

func (s *stubSequences) NextSequence(ctx context.Context, name string) (int64, error) {
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	s.next++
	return s.next, nil
}

func newOrderService(t *testing.T, sequences sequenceSource) (Service, *gorm.DB) {
	t.Helper()

	db := setupOrdersTestDB(t)
	if sequences == nil {
		sequences = &stubSequences{}
	}
	svc, err := NewService(&gormTxRunner{db: db}, NewRepository(db), cart.NewRepository(db), sequences)
	require.NoError(t, err)
	return svc, db
}

func seedCartRow(t *testing.T, db *gorm.DB, sessionID string, bike *models.Bike, qty int) {
	t.Helper()

	item := &models.CartItem{
		ID:        uuid.New(),
		SessionID: sessionID,
		BikeID:    bike.ID,
		Quantity:  qty,
	}
	require.NoError(t, db.Create(item).Error)
}

func checkoutInput() CreateOrderInput {
	start, end := rentalWindow()
	return CreateOrderInput{
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
		StartDate:     start,
		EndDate:       end,
		PaymentMethod: enums.PaymentMethodCash,
	}
}

func TestCreateFromCartBuildsOrderAndClearsCart(t *testing.T) {
	svc, db := newOrderService(t, nil)
	crag := seedOrderBike(t, db, "Crag", 10)
	dash := seedOrderBike(t, db, "Dash", 5)
	seedCartRow(t, db, "sess-a", crag, 2)
	seedCartRow(t, db, "sess-a", dash, 1)

	order, err := svc.CreateFromCart(context.Background(), "sess-a", checkoutInput())
	require.NoError(t, err)

	assert.Equal(t, "RNT00001", order.Reference)
	assert.Equal(t, 3, order.TotalDays)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(75)), "got %s", order.TotalAmount)
	assert.Equal(t, enums.OrderStateDraft, order.State)
	assert.Equal(t, enums.PaymentStatusPending, order.PaymentStatus)
	require.Len(t, order.Lines, 2)

	var remaining int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("session_id = ?", "sess-a").Count(&remaining).Error)
	assert.Zero(t, remaining)
}

func TestCreateFromCartSnapshotsUnitPrices(t *testing.T) {
	svc, db := newOrderService(t, nil)
	bike := seedOrderBike(t, db, "Crag", 10)
	seedCartRow(t, db, "sess-a", bike, 1)

	order, err := svc.CreateFromCart(context.Background(), "sess-a", checkoutInput())
	require.NoError(t, err)
	require.Len(t, order.Lines, 1)
	assert.True(t, order.Lines[0].UnitPrice.Equal(decimal.NewFromInt(10)))
	assert.True(t, order.Lines[0].Subtotal.Equal(decimal.NewFromInt(30)))
}

func TestCreateFromCartFallsBackToPlaceholderReference(t *testing.T) {
	svc, db := newOrderService(t, &stubSequences{err: fmt.Errorf("redis down")})
	bike := seedOrderBike(t, db, "Crag", 10)
	seedCartRow(t, db, "sess-a", bike, 1)

	order, err := svc.CreateFromCart(context.Background(), "sess-a", checkoutInput())
	require.NoError(t, err)
	assert.Equal(t, "New", order.Reference)
}

func TestCreateFromCartRejectsEmptyCart(t *testing.T) {
	svc, _ := newOrderService(t, nil)

	_, err := svc.CreateFromCart(context.Background(), "sess-a", checkoutInput())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateFromCartValidatesCustomerFields(t *testing.T) {
	svc, db := newOrderService(t, nil)
	bike := seedOrderBike(t, db, "Crag", 10)
	seedCartRow(t, db, "sess-a", bike, 1)

	input := checkoutInput()
	input.CustomerName = "  "
	_, err := svc.CreateFromCart(context.Background(), "sess-a", input)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	input = checkoutInput()
	input.CustomerEmail = ""
	_, err = svc.CreateFromCart(context.Background(), "sess-a", input)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	input = checkoutInput()
	input.PaymentMethod = "wire"
	_, err = svc.CreateFromCart(context.Background(), "sess-a", input)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateFromCartFloorsTotalDaysAtOne(t *testing.T) {
	svc, db := newOrderService(t, nil)
	bike := seedOrderBike(t, db, "Crag", 10)
	seedCartRow(t, db, "sess-a", bike, 1)

	input := checkoutInput()
	input.EndDate = input.StartDate.Add(6 * time.Hour)
	order, err := svc.CreateFromCart(context.Background(), "sess-a", input)
	require.NoError(t, err)
	assert.Equal(t, 1, order.TotalDays)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(10)))
}

func TestStateTransitionsAreUnguarded(t *testing.T) {
	svc, db := newOrderService(t, nil)
	bike := seedOrderBike(t, db, "Crag", 10)
	seedCartRow(t, db, "sess-a", bike, 1)

	order, err := svc.CreateFromCart(context.Background(), "sess-a", checkoutInput())
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStateDraft, order.State)

	returned, err := svc.Return(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStateReturned, returned.State)

	confirmed, err := svc.Confirm(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStateConfirmed, confirmed.State)

	inProgress, err := svc.StartRental(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStateInProgress, inProgress.State)

	cancelled, err := svc.Cancel(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStateCancelled, cancelled.State)
}

func TestProcessPaymentAcceptsSixteenDigitCards(t *testing.T) {
	svc, db := newOrderService(t, nil)
	bike := seedOrderBike(t, db, "Crag", 10)
	seedCartRow(t, db, "sess-a", bike, 1)

	input := checkoutInput()
	input.PaymentMethod = enums.PaymentMethodOnline
	order, err := svc.CreateFromCart(context.Background(), "sess-a", input)
	require.NoError(t, err)

	paid, err := svc.ProcessPayment(context.Background(), order.ID, "4242 4242 4242 4242")
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPaid, paid.PaymentStatus)
}

func TestProcessPaymentDeclinesShortCards(t *testing.T) {
	svc, db := newOrderService(t, nil)
	bike := seedOrderBike(t, db, "Crag", 10)
	seedCartRow(t, db, "sess-a", bike, 1)

	input := checkoutInput()
	input.PaymentMethod = enums.PaymentMethodOnline
	order, err := svc.CreateFromCart(context.Background(), "sess-a", input)
	require.NoError(t, err)

	declined, err := svc.ProcessPayment(context.Background(), order.ID, "1234")
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusFailed, declined.PaymentStatus)

	loaded, err := svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusFailed, loaded.PaymentStatus)
}

func TestGetOrderMissingIsNotFound(t *testing.T) {
	svc, _ := newOrderService(t, nil)

	_, err := svc.GetOrder(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListByEmailRequiresEmail(t *testing.T) {
	svc, _ := newOrderService(t, nil)

	_, err := svc.ListByEmail(context.Background(), "  ")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
