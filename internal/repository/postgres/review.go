package postgres

import (
	"context"
	"database/sql"
	"errors"

	"rentndrive/internal/domain"
	"rentndrive/internal/repository"
)

// ReviewRepository is a PostgreSQL implementation of
// repository.ReviewRepository.
type ReviewRepository struct {
	q Querier
}

// NewReviewRepository creates a new PostgreSQL review repository.
func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{q: db}
}

const reviewColumns = `id, reviewer_id, target_id, target_type, rating, comment, created_at`

// Create persists a new review.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (` + reviewColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		review.ID,
		review.ReviewerID,
		review.TargetID,
		review.TargetType,
		review.Rating,
		review.Comment,
		review.CreatedAt,
	)

	return err
}

func scanReview(row interface{ Scan(...any) error }) (*domain.Review, error) {
	var review domain.Review
	err := row.Scan(
		&review.ID,
		&review.ReviewerID,
		&review.TargetID,
		&review.TargetType,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// GetByID retrieves a review by ID.
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	review, err := scanReview(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return review, nil
}

// GetByReviewer retrieves all reviews written by a user.
func (r *ReviewRepository) GetByReviewer(ctx context.Context, reviewerID string) ([]*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE reviewer_id = $1 ORDER BY created_at DESC`
	return r.queryReviews(ctx, query, reviewerID)
}

// GetAll retrieves all reviews.
func (r *ReviewRepository) GetAll(ctx context.Context) ([]*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews ORDER BY created_at DESC`
	return r.queryReviews(ctx, query)
}

func (r *ReviewRepository) queryReviews(ctx context.Context, query string, args ...any) ([]*domain.Review, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*domain.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

// Delete removes a review.
func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}
