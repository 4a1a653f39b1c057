package services

import (
	"context"
	"time"

	"github.com/shelflog/appserver/types"
)

// GoalRepository defines persistence operations for reading goals.
type GoalRepository interface {
	GetByUser(ctx context.Context, userID int) (types.ReadingGoal, error)
	Upsert(ctx context.Context, goal types.ReadingGoal) error
	Delete(ctx context.Context, userID int) error
}

// GoalService encapsulates reading-goal use-cases.
type GoalService struct {
	repo GoalRepository
}

func NewGoalService(repo GoalRepository) *GoalService {
	return &GoalService{repo: repo}
}

func (s *GoalService) GetByUser(ctx context.Context, userID int) (types.ReadingGoal, error) {
	return s.repo.GetByUser(ctx, userID)
}

// Set upserts the user's goal. ErrInvalidGoal marks validation failures;
// any other error is a persistence failure and its message is shown to the
// user rather than dropped.
func (s *GoalService) Set(ctx context.Context, userID, booksToRead int, goalDate time.Time) error {
	if booksToRead < 1 || goalDate.IsZero() {
		return ErrInvalidGoal
	}
	return s.repo.Upsert(ctx, types.ReadingGoal{
		UserID:      userID,
		BooksToRead: booksToRead,
		GoalDate:    goalDate,
	})
}

func (s *GoalService) Delete(ctx context.Context, userID int) error {
	return s.repo.Delete(ctx, userID)
}
