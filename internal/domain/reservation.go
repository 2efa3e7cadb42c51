package domain

import (
	"math"
	"time"
)

// ReservationStatus represents the lifecycle status of a reservation.
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCompleted ReservationStatus = "completed"
	ReservationStatusCancelled ReservationStatus = "cancelled"

	// ReservationStatusOngoing is a derived read-time label for a confirmed
	// reservation whose date range covers the current instant. It is never
	// persisted.
	ReservationStatusOngoing ReservationStatus = "ongoing"
)

// Reservation represents a customer's claim on a car for a date range.
type Reservation struct {
	ID          string
	CarID       string
	UserID      string
	StartDate   time.Time
	EndDate     time.Time
	TotalAmount float64
	Status      ReservationStatus
	PaymentID   string
	CreatedAt   time.Time
}

// Terminal reports whether the reservation is in a terminal status.
// Terminal reservations permit no further transitions.
func (r *Reservation) Terminal() bool {
	return r.Status == ReservationStatusCompleted || r.Status == ReservationStatusCancelled
}

// EffectiveStatus returns the stored status, except that a confirmed
// reservation currently inside its date range reads as ongoing.
func (r *Reservation) EffectiveStatus(now time.Time) ReservationStatus {
	if r.Status == ReservationStatusConfirmed && !now.Before(r.StartDate) && !now.After(r.EndDate) {
		return ReservationStatusOngoing
	}
	return r.Status
}

// Overlaps reports whether the reservation's interval intersects
// [start, end] under the strict boundary rule: back-to-back ranges sharing
// a single boundary instant do not overlap.
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return r.StartDate.Before(end) && r.EndDate.After(start)
}

// BilledDays counts the days charged for a rental from start to end.
// A rental starting and ending on the same calendar day bills one day;
// otherwise both boundary days are billed (inclusive counting).
func BilledDays(start, end time.Time) int {
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	if sy == ey && sm == em && sd == ed {
		return 1
	}
	return int(math.Ceil(end.Sub(start).Hours()/24)) + 1
}

// RentalAmount computes the total charge for a date range at a daily rate.
func RentalAmount(dailyRate float64, start, end time.Time) float64 {
	return dailyRate * float64(BilledDays(start, end))
}
