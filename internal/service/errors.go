package service

import "errors"

var (
	// ErrNotApproved is returned when a non-customer or unapproved user
	// attempts to book.
	ErrNotApproved = errors.New("only approved customers can book a car")

	// ErrAccessDenied is returned when a role/ownership check fails.
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidDateRange is returned when reservation dates are missing,
	// unparsable, or end precedes start.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrCarAlreadyReserved is returned when the requested dates overlap an
	// existing non-terminal reservation for the car.
	ErrCarAlreadyReserved = errors.New("car is already reserved for the selected dates")

	// ErrReservationTerminal is returned when a transition is attempted on a
	// completed or cancelled reservation.
	ErrReservationTerminal = errors.New("reservation is already completed or cancelled")

	// ErrAlreadyCompleted is returned when a car return is attempted on an
	// already completed booking.
	ErrAlreadyCompleted = errors.New("booking is already completed")

	// ErrInvalidAmount is returned when a payment amount is not positive.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrInvalidSignature is returned when payment signature verification
	// fails.
	ErrInvalidSignature = errors.New("invalid payment signature")

	// ErrPaymentNotCaptured is returned when the gateway reports the payment
	// as anything other than captured.
	ErrPaymentNotCaptured = errors.New("payment not captured")

	// ErrPaymentAlreadyCaptured is returned when a Success payment already
	// backs the reservation.
	ErrPaymentAlreadyCaptured = errors.New("reservation already has a successful payment")

	// ErrPaymentMismatch is returned when the presented order or payment does
	// not belong to the reservation being confirmed.
	ErrPaymentMismatch = errors.New("payment does not belong to this reservation")

	// ErrGatewayUnavailable is returned when the payment gateway cannot be
	// reached after retries.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrInvalidCarID is returned when a car ID is empty.
	ErrInvalidCarID = errors.New("invalid car id")

	// ErrInvalidReservationID is returned when a reservation ID is empty.
	ErrInvalidReservationID = errors.New("invalid reservation id")

	// ErrInvalidUserID is returned when a user ID is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidLocation is returned when coordinates are out of range.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrInvalidDailyRate is returned when a car's daily rate is not positive.
	ErrInvalidDailyRate = errors.New("daily rate must be greater than zero")

	// ErrInvalidRating is returned when a review rating is outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrCommentTooLong is returned when a review comment exceeds the
	// maximum length.
	ErrCommentTooLong = errors.New("comment exceeds maximum length")

	// ErrInvalidReviewTarget is returned when a review target type is
	// unknown or the target does not exist.
	ErrInvalidReviewTarget = errors.New("invalid review target")

	// ErrReviewNotAllowed is returned when the reviewer has no completed
	// reservation touching the target.
	ErrReviewNotAllowed = errors.New("no completed reservation with this car or user")
)
