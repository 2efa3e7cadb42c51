package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rentndrive/internal/domain"
	"rentndrive/internal/middleware"
	"rentndrive/internal/service"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// ReservationHandler handles HTTP requests for reservations.
type ReservationHandler struct {
	reservationService *service.ReservationService
}

// NewReservationHandler creates a new ReservationHandler.
func NewReservationHandler(reservationService *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationService: reservationService}
}

// ReservationResponse is the HTTP representation of a reservation. Status is
// the effective status: a confirmed booking inside its date range reads as
// ongoing.
type ReservationResponse struct {
	ID          string       `json:"id"`
	CarID       string       `json:"car_id"`
	UserID      string       `json:"user_id"`
	StartDate   string       `json:"start_date"`
	EndDate     string       `json:"end_date"`
	TotalAmount float64      `json:"total_amount"`
	Status      string       `json:"status"`
	CreatedAt   string       `json:"created_at"`
	Car         *CarResponse `json:"car,omitempty"`
	Customer    *UserInfo    `json:"customer,omitempty"`
	Owner       *UserInfo    `json:"owner,omitempty"`
}

// UserInfo contains the user fields exposed in reservation responses.
type UserInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

func toReservationResponse(r *domain.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:          r.ID,
		CarID:       r.CarID,
		UserID:      r.UserID,
		StartDate:   r.StartDate.Format(timeLayout),
		EndDate:     r.EndDate.Format(timeLayout),
		TotalAmount: r.TotalAmount,
		Status:      string(r.EffectiveStatus(time.Now())),
		CreatedAt:   r.CreatedAt.Format(timeLayout),
	}
}

func toUserInfo(u *domain.User) *UserInfo {
	if u == nil {
		return nil
	}
	return &UserInfo{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
}

// createReservationRequest is the request body for POST /reservation.
type createReservationRequest struct {
	CarID     string `json:"car_id" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

// updateReservationRequest is the request body for PUT /reservation/update/:id.
type updateReservationRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

// confirmReservationRequest is the request body for PUT /reservation/:id/confirm.
type confirmReservationRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// Create handles POST /reservation
func (h *ReservationHandler) Create(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, service.ErrInvalidDateRange)
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		respondError(c, service.ErrInvalidDateRange)
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		respondError(c, service.ErrInvalidDateRange)
		return
	}

	result, err := h.reservationService.CreateReservation(c.Request.Context(), middleware.ActorFrom(c), service.CreateReservationRequest{
		CarID:     req.CarID,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response := toReservationResponse(result.Reservation)
	response.Car = toCarResponsePtr(result.Car)

	respondJSON(c, http.StatusCreated, gin.H{
		"message":     "Reservation created",
		"reservation": response,
		"bookingId":   result.Reservation.ID,
	})
}

// Get handles GET /reservation/:id
func (h *ReservationHandler) Get(c *gin.Context) {
	enriched, err := h.reservationService.GetReservation(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := toReservationResponse(enriched.Reservation)
	response.Car = toCarResponsePtr(enriched.Car)
	response.Customer = toUserInfo(enriched.Customer)

	respondJSON(c, http.StatusOK, response)
}

// ListOwn handles GET /reservations
func (h *ReservationHandler) ListOwn(c *gin.Context) {
	reservations, err := h.reservationService.ListForUser(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toReservationResponses(reservations))
}

// ListForCar handles GET /reservations/car/:id
func (h *ReservationHandler) ListForCar(c *gin.Context) {
	reservations, err := h.reservationService.ListForCar(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toReservationResponses(reservations))
}

// ListAll handles GET /admin/reservations
func (h *ReservationHandler) ListAll(c *gin.Context) {
	reservations, err := h.reservationService.ListAll(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toReservationResponses(reservations))
}

// AdminBookings handles GET /admin/bookings
func (h *ReservationHandler) AdminBookings(c *gin.Context) {
	bookings, err := h.reservationService.AdminBookings(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]ReservationResponse, 0, len(bookings))
	for _, b := range bookings {
		r := toReservationResponse(b.Reservation)
		r.Car = toCarResponsePtr(b.Car)
		r.Customer = toUserInfo(b.Customer)
		r.Owner = toUserInfo(b.Owner)
		response = append(response, r)
	}
	respondJSON(c, http.StatusOK, response)
}

// Update handles PUT /reservation/update/:id
func (h *ReservationHandler) Update(c *gin.Context) {
	var req updateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, service.ErrInvalidDateRange)
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		respondError(c, service.ErrInvalidDateRange)
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		respondError(c, service.ErrInvalidDateRange)
		return
	}

	reservation, err := h.reservationService.UpdateReservation(c.Request.Context(), middleware.ActorFrom(c), service.UpdateReservationRequest{
		ReservationID: c.Param("id"),
		StartDate:     start,
		EndDate:       end,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"message":     "Reservation updated",
		"reservation": toReservationResponse(reservation),
	})
}

// Confirm handles PUT /reservation/:id/confirm
func (h *ReservationHandler) Confirm(c *gin.Context) {
	var req confirmReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, service.ErrInvalidSignature)
		return
	}

	reservation, err := h.reservationService.Confirm(c.Request.Context(), service.ConfirmRequest{
		ReservationID: c.Param("id"),
		OrderRef:      req.RazorpayOrderID,
		PaymentRef:    req.RazorpayPaymentID,
		Signature:     req.RazorpaySignature,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"message":     "Reservation confirmed",
		"reservation": toReservationResponse(reservation),
	})
}

// Cancel handles PUT /reservation/cancel/:id
func (h *ReservationHandler) Cancel(c *gin.Context) {
	if err := h.reservationService.Cancel(c.Request.Context(), middleware.ActorFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"message": "Reservation cancelled"})
}

// Complete handles PUT /car/return/:id
func (h *ReservationHandler) Complete(c *gin.Context) {
	if err := h.reservationService.Complete(c.Request.Context(), middleware.ActorFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"message": "Car returned, booking completed"})
}

// Delete handles DELETE /reservation/:id
func (h *ReservationHandler) Delete(c *gin.Context) {
	if err := h.reservationService.Purge(c.Request.Context(), middleware.ActorFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"message": "Reservation deleted"})
}

func toReservationResponses(reservations []*domain.Reservation) []ReservationResponse {
	response := make([]ReservationResponse, 0, len(reservations))
	for _, r := range reservations {
		response = append(response, toReservationResponse(r))
	}
	return response
}
