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

func completedReservation(f *fixture, id, carID, userID string) {
	f.reservationRepo.AddReservation(&domain.Reservation{
		ID:        id,
		CarID:     carID,
		UserID:    userID,
		StartDate: date(2026, 9, 1),
		EndDate:   date(2026, 9, 3),
		Status:    domain.ReservationStatusCompleted,
	})
}

func TestAddCarReview(t *testing.T) {
	f := newFixture()
	f.addCar("car-1", "owner-1", 1000)
	completedReservation(f, "res-1", "car-1", "cust-1")

	review, err := f.reviews.AddReview(context.Background(), customer("cust-1"), service.AddReviewRequest{
		TargetID:   "car-1",
		TargetType: domain.ReviewTargetCar,
		Rating:     5,
		Comment:    "Smooth ride, clean car.",
	})
	require.NoError(t, err)

	assert.Equal(t, "cust-1", review.ReviewerID)
	assert.Equal(t, domain.ReviewTargetCar, review.TargetType)
	assert.Equal(t, 1, f.reviewRepo.CountReviews())
}

func TestAddCarReviewRequiresCompletedBooking(t *testing.T) {
	f := newFixture()
	f.addCar("car-1", "owner-1", 1000)

	// A confirmed but not completed booking is not enough.
	f.reservationRepo.AddReservation(&domain.Reservation{
		ID:     "res-1",
		CarID:  "car-1",
		UserID: "cust-1",
		Status: domain.ReservationStatusConfirmed,
	})

	_, err := f.reviews.AddReview(context.Background(), customer("cust-1"), service.AddReviewRequest{
		TargetID:   "car-1",
		TargetType: domain.ReviewTargetCar,
		Rating:     4,
	})
	assert.ErrorIs(t, err, service.ErrReviewNotAllowed)
	assert.Equal(t, 0, f.reviewRepo.CountReviews())
}

func TestAddUserReview(t *testing.T) {
	f := newFixture()
	f.addCar("car-1", "owner-1", 1000)
	f.addUser("owner-1", domain.RoleOwner)
	completedReservation(f, "res-1", "car-1", "cust-1")

	_, err := f.reviews.AddReview(context.Background(), customer("cust-1"), service.AddReviewRequest{
		TargetID:   "owner-1",
		TargetType: domain.ReviewTargetUser,
		Rating:     4,
		Comment:    "Responsive owner.",
	})
	assert.NoError(t, err)
}

func TestAddReviewValidation(t *testing.T) {
	f := newFixture()
	f.addCar("car-1", "owner-1", 1000)
	completedReservation(f, "res-1", "car-1", "cust-1")

	for _, rating := range []int{0, 6, -1} {
		_, err := f.reviews.AddReview(context.Background(), customer("cust-1"), service.AddReviewRequest{
			TargetID:   "car-1",
			TargetType: domain.ReviewTargetCar,
			Rating:     rating,
		})
		assert.ErrorIs(t, err, service.ErrInvalidRating)
	}

	_, err := f.reviews.AddReview(context.Background(), customer("cust-1"), service.AddReviewRequest{
		TargetID:   "car-1",
		TargetType: domain.ReviewTargetCar,
		Rating:     4,
		Comment:    strings.Repeat("x", 501),
	})
	assert.ErrorIs(t, err, service.ErrCommentTooLong)

	_, err = f.reviews.AddReview(context.Background(), customer("cust-1"), service.AddReviewRequest{
		TargetID:   "car-1",
		TargetType: "Garage",
		Rating:     4,
	})
	assert.ErrorIs(t, err, service.ErrInvalidReviewTarget)

	_, err = f.reviews.AddReview(context.Background(), customer("cust-1"), service.AddReviewRequest{
		TargetID:   "car-missing",
		TargetType: domain.ReviewTargetCar,
		Rating:     4,
	})
	assert.ErrorIs(t, err, service.ErrInvalidReviewTarget)
}

func TestDeleteReviewAuthz(t *testing.T) {
	f := newFixture()
	f.addCar("car-1", "owner-1", 1000)
	completedReservation(f, "res-1", "car-1", "cust-1")

	review, err := f.reviews.AddReview(context.Background(), customer("cust-1"), service.AddReviewRequest{
		TargetID:   "car-1",
		TargetType: domain.ReviewTargetCar,
		Rating:     3,
	})
	require.NoError(t, err)

	err = f.reviews.DeleteReview(context.Background(), customer("cust-other"), review.ID)
	assert.ErrorIs(t, err, service.ErrAccessDenied)

	err = f.reviews.DeleteReview(context.Background(), customer("cust-1"), review.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, f.reviewRepo.CountReviews())
}

func TestListReviewsAdminOnly(t *testing.T) {
	f := newFixture()

	_, err := f.reviews.ListAll(context.Background(), customer("cust-1"))
	assert.ErrorIs(t, err, service.ErrAccessDenied)

	reviews, err := f.reviews.ListAll(context.Background(), admin("adm-1"))
	require.NoError(t, err)
	assert.Empty(t, reviews)
}
