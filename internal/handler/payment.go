package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rentndrive/internal/domain"
	"rentndrive/internal/middleware"
	"rentndrive/internal/service"
)

// PaymentHandler handles HTTP requests for payments.
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// PaymentResponse is the HTTP representation of a payment.
type PaymentResponse struct {
	ID            string  `json:"id"`
	UserID        string  `json:"user_id"`
	CarID         string  `json:"car_id"`
	ReservationID string  `json:"reservation_id"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Status        string  `json:"status"`
	Method        string  `json:"method,omitempty"`
	OrderRef      string  `json:"order_id"`
	TransactionID string  `json:"transaction_id"`
	CreatedAt     string  `json:"created_at"`
}

func toPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		UserID:        p.UserID,
		CarID:         p.CarID,
		ReservationID: p.ReservationID,
		Amount:        p.Amount,
		Currency:      p.Currency,
		Status:        string(p.Status),
		Method:        p.Method,
		OrderRef:      p.OrderRef,
		TransactionID: p.TransactionID,
		CreatedAt:     p.CreatedAt.Format(timeLayout),
	}
}

// createOrderRequest is the request body for POST /payment.
type createOrderRequest struct {
	CarID         string  `json:"car_id" binding:"required"`
	ReservationID string  `json:"reservation_id" binding:"required"`
	Amount        float64 `json:"amount" binding:"required"`
	Method        string  `json:"method"`
}

// CreateOrder handles POST /payment
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, service.ErrInvalidAmount)
		return
	}

	actor := middleware.ActorFrom(c)
	result, err := h.paymentService.CreateOrder(c.Request.Context(), service.CreateOrderRequest{
		UserID:        actor.UserID,
		CarID:         req.CarID,
		ReservationID: req.ReservationID,
		Amount:        req.Amount,
		Method:        req.Method,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, gin.H{
		"orderId": result.OrderRef,
		"key":     result.GatewayKey,
		"payment": toPaymentResponse(result.Payment),
	})
}

// verifyRequest is the request body for POST /payment/verify.
type verifyRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

// Verify handles POST /payment/verify
func (h *PaymentHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, service.ErrInvalidSignature)
		return
	}

	payment, err := h.paymentService.Verify(c.Request.Context(), service.VerifyRequest{
		OrderRef:   req.RazorpayOrderID,
		PaymentRef: req.RazorpayPaymentID,
		Signature:  req.RazorpaySignature,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"message": "Payment verified",
		"payment": toPaymentResponse(payment),
	})
}

// ListForCar handles GET /payments/car/:id
func (h *PaymentHandler) ListForCar(c *gin.Context) {
	car, payments, err := h.paymentService.PaymentsForCar(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"car":      toCarResponse(car),
		"payments": toPaymentResponses(payments),
	})
}

// ListOwn handles GET /payments/customer
func (h *PaymentHandler) ListOwn(c *gin.Context) {
	payments, err := h.paymentService.PaymentsForCustomer(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toPaymentResponses(payments))
}

// ListAll handles GET /payments/admin
func (h *PaymentHandler) ListAll(c *gin.Context) {
	payments, err := h.paymentService.AllPayments(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toPaymentResponses(payments))
}

func toPaymentResponses(payments []*domain.Payment) []PaymentResponse {
	response := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		response = append(response, toPaymentResponse(p))
	}
	return response
}
