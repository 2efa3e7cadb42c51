package domain

import "time"

// ReviewTargetType tags the kind of entity a review refers to.
type ReviewTargetType string

const (
	ReviewTargetCar  ReviewTargetType = "Car"
	ReviewTargetUser ReviewTargetType = "User"
)

// Review is a rating and comment left by one user about a car or another
// user. Eligibility requires a completed reservation touching the target.
type Review struct {
	ID         string
	ReviewerID string
	TargetID   string
	TargetType ReviewTargetType
	Rating     int // 1..5
	Comment    string
	CreatedAt  time.Time
}
