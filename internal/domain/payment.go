package domain

import "time"

// PaymentStatus represents the current status of a payment.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusSuccess PaymentStatus = "Success"
	PaymentStatusFailed  PaymentStatus = "Failed"
)

// Payment records one funding attempt for a reservation. Rows are never
// deleted: a payment outlives a cancelled reservation for audit purposes.
type Payment struct {
	ID            string
	UserID        string
	CarID         string
	ReservationID string
	Amount        float64
	Currency      string
	Status        PaymentStatus
	Method        string
	OrderRef      string // gateway order id
	TransactionID string // placeholder until the gateway payment id is known
	CreatedAt     time.Time
}
