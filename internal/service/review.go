package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rentndrive/internal/domain"
	"rentndrive/internal/repository"
)

const maxReviewCommentLength = 500

// ReviewService manages the review ledger. A review may target a car or a
// user, and requires a completed reservation linking reviewer and target.
type ReviewService struct {
	reviewRepo      repository.ReviewRepository
	reservationRepo repository.ReservationRepository
	carRepo         repository.CarRepository
	userRepo        repository.UserRepository
}

// NewReviewService creates a new ReviewService.
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	reservationRepo repository.ReservationRepository,
	carRepo repository.CarRepository,
	userRepo repository.UserRepository,
) *ReviewService {
	return &ReviewService{
		reviewRepo:      reviewRepo,
		reservationRepo: reservationRepo,
		carRepo:         carRepo,
		userRepo:        userRepo,
	}
}

// AddReviewRequest contains the parameters for posting a review.
type AddReviewRequest struct {
	TargetID   string
	TargetType domain.ReviewTargetType
	Rating     int
	Comment    string
}

// AddReview posts a review after validating the rating, the target's
// existence, and the reviewer's eligibility. Car reviews require a
// completed booking on that car; user reviews require a completed booking
// linking the two users in either direction.
func (s *ReviewService) AddReview(ctx context.Context, actor Actor, req AddReviewRequest) (*domain.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}
	if len(req.Comment) > maxReviewCommentLength {
		return nil, ErrCommentTooLong
	}

	var eligible bool
	switch req.TargetType {
	case domain.ReviewTargetCar:
		if _, err := s.carRepo.GetByID(ctx, req.TargetID); err != nil {
			return nil, ErrInvalidReviewTarget
		}
		ok, err := s.reservationRepo.HasCompletedForUserAndCar(ctx, actor.UserID, req.TargetID)
		if err != nil {
			return nil, err
		}
		eligible = ok
	case domain.ReviewTargetUser:
		if _, err := s.userRepo.GetByID(ctx, req.TargetID); err != nil {
			return nil, ErrInvalidReviewTarget
		}
		ok, err := s.reservationRepo.HasCompletedBetweenUsers(ctx, actor.UserID, req.TargetID)
		if err != nil {
			return nil, err
		}
		eligible = ok
	default:
		return nil, ErrInvalidReviewTarget
	}

	if !eligible {
		return nil, ErrReviewNotAllowed
	}

	review := &domain.Review{
		ID:         uuid.New().String(),
		ReviewerID: actor.UserID,
		TargetID:   req.TargetID,
		TargetType: req.TargetType,
		Rating:     req.Rating,
		Comment:    req.Comment,
		CreatedAt:  time.Now(),
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// ListAll returns every review. Admin only.
func (s *ReviewService) ListAll(ctx context.Context, actor Actor) ([]*domain.Review, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, ErrAccessDenied
	}
	return s.reviewRepo.GetAll(ctx)
}

// ListOwn returns the actor's own reviews.
func (s *ReviewService) ListOwn(ctx context.Context, actor Actor) ([]*domain.Review, error) {
	if actor.UserID == "" {
		return nil, ErrInvalidUserID
	}
	return s.reviewRepo.GetByReviewer(ctx, actor.UserID)
}

// DeleteReview removes a review. Allowed for the reviewer and admins.
func (s *ReviewService) DeleteReview(ctx context.Context, actor Actor, reviewID string) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if actor.Role != domain.RoleAdmin && actor.UserID != review.ReviewerID {
		return ErrAccessDenied
	}
	return s.reviewRepo.Delete(ctx, reviewID)
}
