package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"rentndrive/internal/domain"
	"rentndrive/internal/gateway"
	"rentndrive/internal/repository"
)

// VerifyPaymentSignature checks the gateway signature: HMAC-SHA256 over
// "orderRef|paymentRef" keyed with the shared secret, hex encoded. The
// comparison is constant-time.
func VerifyPaymentSignature(orderRef, paymentRef, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strings.TrimSpace(orderRef) + "|" + strings.TrimSpace(paymentRef)))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.TrimSpace(signature)))
}

// placeholderTransactionID generates a local transaction id used until the
// gateway payment id is known.
func placeholderTransactionID() string {
	return fmt.Sprintf("temp_%d_%06d", time.Now().UnixNano(), rand.Intn(1000000))
}

// PaymentService owns the payment ledger: order creation and verification.
type PaymentService struct {
	paymentRepo     repository.PaymentRepository
	carRepo         repository.CarRepository
	reservationRepo repository.ReservationRepository
	gateway         gateway.PaymentGateway
	keyID           string
	signingSecret   string
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	carRepo repository.CarRepository,
	reservationRepo repository.ReservationRepository,
	gw gateway.PaymentGateway,
	keyID, signingSecret string,
) *PaymentService {
	return &PaymentService{
		paymentRepo:     paymentRepo,
		carRepo:         carRepo,
		reservationRepo: reservationRepo,
		gateway:         gw,
		keyID:           keyID,
		signingSecret:   signingSecret,
	}
}

// CreateOrderRequest contains the parameters for creating a payment order.
type CreateOrderRequest struct {
	UserID        string
	CarID         string
	ReservationID string
	Amount        float64
	Method        string
}

// CreateOrderResponse contains the created order and pending payment row.
type CreateOrderResponse struct {
	OrderRef   string
	GatewayKey string
	Payment    *domain.Payment
}

// CreateOrder validates the request, creates a gateway order, and persists a
// Pending payment row with a placeholder transaction id.
func (s *PaymentService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResponse, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if req.CarID == "" {
		return nil, ErrInvalidCarID
	}
	if req.ReservationID == "" {
		return nil, ErrInvalidReservationID
	}

	if _, err := s.carRepo.GetByID(ctx, req.CarID); err != nil {
		return nil, err
	}
	if _, err := s.reservationRepo.GetByID(ctx, req.ReservationID); err != nil {
		return nil, err
	}

	// Gateway amounts are in the smallest currency unit.
	receipt := fmt.Sprintf("receipt_%d", time.Now().UnixMilli())
	order, err := s.gateway.CreateOrder(ctx, int64(req.Amount*100), "INR", receipt)
	if err != nil {
		return nil, ErrGatewayUnavailable
	}

	payment := &domain.Payment{
		ID:            uuid.New().String(),
		UserID:        req.UserID,
		CarID:         req.CarID,
		ReservationID: req.ReservationID,
		Amount:        req.Amount,
		Currency:      "INR",
		Status:        domain.PaymentStatusPending,
		Method:        req.Method,
		OrderRef:      order.ID,
		TransactionID: placeholderTransactionID(),
		CreatedAt:     time.Now(),
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	return &CreateOrderResponse{
		OrderRef:   order.ID,
		GatewayKey: s.keyID,
		Payment:    payment,
	}, nil
}

// VerifyRequest contains the gateway callback parameters.
type VerifyRequest struct {
	OrderRef   string
	PaymentRef string
	Signature  string
}

// Verify recomputes the payment signature, enforces the single-Success
// invariant, and marks the payment Success with the gateway payment id as
// its transaction id.
func (s *PaymentService) Verify(ctx context.Context, req VerifyRequest) (*domain.Payment, error) {
	if req.OrderRef == "" || req.PaymentRef == "" || req.Signature == "" {
		return nil, ErrInvalidSignature
	}

	if !VerifyPaymentSignature(req.OrderRef, req.PaymentRef, req.Signature, s.signingSecret) {
		return nil, ErrInvalidSignature
	}

	payment, err := s.paymentRepo.GetByOrderRef(ctx, req.OrderRef)
	if err != nil {
		return nil, err
	}

	// A retried checkout may create multiple Pending rows; only one may ever
	// reach Success for a reservation.
	if payment.Status != domain.PaymentStatusSuccess {
		backed, err := s.paymentRepo.HasSuccessful(ctx, payment.ReservationID)
		if err != nil {
			return nil, err
		}
		if backed {
			return nil, ErrPaymentAlreadyCaptured
		}
	}

	return s.paymentRepo.MarkSuccess(ctx, req.OrderRef, req.PaymentRef)
}

// PaymentsForCar lists payments against a car. Callers must be the car's
// owner or an admin.
func (s *PaymentService) PaymentsForCar(ctx context.Context, actor Actor, carID string) (*domain.Car, []*domain.Payment, error) {
	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return nil, nil, err
	}

	if actor.Role != domain.RoleAdmin && actor.UserID != car.OwnerID {
		return nil, nil, ErrAccessDenied
	}

	payments, err := s.paymentRepo.GetByCar(ctx, carID)
	if err != nil {
		return nil, nil, err
	}
	return car, payments, nil
}

// PaymentsForCustomer lists the actor's own payments.
func (s *PaymentService) PaymentsForCustomer(ctx context.Context, actor Actor) ([]*domain.Payment, error) {
	if actor.UserID == "" {
		return nil, ErrInvalidUserID
	}
	return s.paymentRepo.GetByUser(ctx, actor.UserID)
}

// AllPayments lists every payment. Admin only.
func (s *PaymentService) AllPayments(ctx context.Context, actor Actor) ([]*domain.Payment, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, ErrAccessDenied
	}
	return s.paymentRepo.GetAll(ctx)
}
