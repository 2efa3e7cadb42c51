package tests

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentndrive/internal/domain"
	"rentndrive/internal/service"
)

func TestVerifyPaymentSignature(t *testing.T) {
	valid := sign("order_1", "pay_1")

	assert.True(t, service.VerifyPaymentSignature("order_1", "pay_1", valid, testSigningSecret))
	assert.False(t, service.VerifyPaymentSignature("order_1", "pay_2", valid, testSigningSecret))
	assert.False(t, service.VerifyPaymentSignature("order_1", "pay_1", "tampered", testSigningSecret))
	assert.False(t, service.VerifyPaymentSignature("order_1", "pay_1", valid, "wrong-secret"))

	// Surrounding whitespace in the callback parameters is tolerated.
	assert.True(t, service.VerifyPaymentSignature(" order_1 ", " pay_1 ", " "+valid+" ", testSigningSecret))
}

func TestCreateOrder(t *testing.T) {
	f := newFixture()
	f.addCar("car-1", "owner-1", 1000)
	pendingReservation(f, "res-1", "car-1", "cust-1")

	result, err := f.payments.CreateOrder(context.Background(), service.CreateOrderRequest{
		UserID:        "cust-1",
		CarID:         "car-1",
		ReservationID: "res-1",
		Amount:        3000,
		Method:        "card",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.OrderRef)
	assert.Equal(t, "rzp_test_key", result.GatewayKey)
	assert.Equal(t, domain.PaymentStatusPending, result.Payment.Status)
	assert.Equal(t, "INR", result.Payment.Currency)
	assert.Equal(t, 3000.0, result.Payment.Amount)
	assert.True(t, strings.HasPrefix(result.Payment.TransactionID, "temp_"))
	assert.Equal(t, 1, f.paymentRepo.CountPayments())
}

func TestCreateOrderValidation(t *testing.T) {
	f := newFixture()
	f.addCar("car-1", "owner-1", 1000)
	pendingReservation(f, "res-1", "car-1", "cust-1")

	_, err := f.payments.CreateOrder(context.Background(), service.CreateOrderRequest{
		UserID: "cust-1", CarID: "car-1", ReservationID: "res-1", Amount: 0,
	})
	assert.ErrorIs(t, err, service.ErrInvalidAmount)

	_, err = f.payments.CreateOrder(context.Background(), service.CreateOrderRequest{
		UserID: "cust-1", ReservationID: "res-1", Amount: 3000,
	})
	assert.ErrorIs(t, err, service.ErrInvalidCarID)

	_, err = f.payments.CreateOrder(context.Background(), service.CreateOrderRequest{
		UserID: "cust-1", CarID: "car-1", Amount: 3000,
	})
	assert.ErrorIs(t, err, service.ErrInvalidReservationID)

	assert.Equal(t, 0, f.paymentRepo.CountPayments())
}

func TestCreateOrderGatewayDown(t *testing.T) {
	f := newFixture()
	f.addCar("car-1", "owner-1", 1000)
	pendingReservation(f, "res-1", "car-1", "cust-1")
	f.gateway.CreateOrderError = ErrMockTimeout

	_, err := f.payments.CreateOrder(context.Background(), service.CreateOrderRequest{
		UserID: "cust-1", CarID: "car-1", ReservationID: "res-1", Amount: 3000,
	})
	assert.ErrorIs(t, err, service.ErrGatewayUnavailable)
	assert.Equal(t, 0, f.paymentRepo.CountPayments())
}

func TestVerifyPayment(t *testing.T) {
	f := newFixture()
	f.paymentRepo.AddPayment(&domain.Payment{
		ID:            "pmt-1",
		ReservationID: "res-1",
		OrderRef:      "order_1",
		Status:        domain.PaymentStatusPending,
		TransactionID: "temp_1_000001",
	})

	payment, err := f.payments.Verify(context.Background(), service.VerifyRequest{
		OrderRef:   "order_1",
		PaymentRef: "pay_1",
		Signature:  sign("order_1", "pay_1"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentStatusSuccess, payment.Status)
	// The placeholder transaction id is replaced by the gateway payment id.
	assert.Equal(t, "pay_1", payment.TransactionID)
}

func TestVerifyPaymentBadSignature(t *testing.T) {
	f := newFixture()
	f.paymentRepo.AddPayment(&domain.Payment{
		ID:            "pmt-1",
		ReservationID: "res-1",
		OrderRef:      "order_1",
		Status:        domain.PaymentStatusPending,
	})

	_, err := f.payments.Verify(context.Background(), service.VerifyRequest{
		OrderRef:   "order_1",
		PaymentRef: "pay_1",
		Signature:  "forged",
	})
	assert.ErrorIs(t, err, service.ErrInvalidSignature)
	assert.Equal(t, domain.PaymentStatusPending, f.paymentRepo.GetPayment("pmt-1").Status)
}

func TestVerifyPaymentSingleSuccessPerReservation(t *testing.T) {
	f := newFixture()
	f.paymentRepo.AddPayment(&domain.Payment{
		ID:            "pmt-1",
		ReservationID: "res-1",
		OrderRef:      "order_1",
		Status:        domain.PaymentStatusSuccess,
		TransactionID: "pay_1",
	})
	// A second checkout attempt created another Pending row.
	f.paymentRepo.AddPayment(&domain.Payment{
		ID:            "pmt-2",
		ReservationID: "res-1",
		OrderRef:      "order_2",
		Status:        domain.PaymentStatusPending,
	})

	_, err := f.payments.Verify(context.Background(), service.VerifyRequest{
		OrderRef:   "order_2",
		PaymentRef: "pay_2",
		Signature:  sign("order_2", "pay_2"),
	})
	assert.ErrorIs(t, err, service.ErrPaymentAlreadyCaptured)
	assert.Equal(t, domain.PaymentStatusPending, f.paymentRepo.GetPayment("pmt-2").Status)
}

func TestPaymentsForCarAuthz(t *testing.T) {
	f := newFixture()
	f.addCar("car-1", "owner-1", 1000)
	f.paymentRepo.AddPayment(&domain.Payment{ID: "pmt-1", CarID: "car-1", UserID: "cust-1"})

	_, _, err := f.payments.PaymentsForCar(context.Background(), owner("owner-other"), "car-1")
	assert.ErrorIs(t, err, service.ErrAccessDenied)

	car, payments, err := f.payments.PaymentsForCar(context.Background(), owner("owner-1"), "car-1")
	require.NoError(t, err)
	assert.Equal(t, "car-1", car.ID)
	assert.Len(t, payments, 1)
}

func TestAllPaymentsAdminOnly(t *testing.T) {
	f := newFixture()
	f.paymentRepo.AddPayment(&domain.Payment{ID: "pmt-1"})

	_, err := f.payments.AllPayments(context.Background(), customer("cust-1"))
	assert.ErrorIs(t, err, service.ErrAccessDenied)

	payments, err := f.payments.AllPayments(context.Background(), admin("adm-1"))
	require.NoError(t, err)
	assert.Len(t, payments, 1)
}
