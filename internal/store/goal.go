package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shelflog/appserver/types"
)

// GoalRepository handles persistence for reading goals.
type GoalRepository struct {
	db *sql.DB
}

func NewGoalRepository(db *sql.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

func (r *GoalRepository) GetByUser(ctx context.Context, userID int) (types.ReadingGoal, error) {
	const query = `
		SELECT user_id, books_to_read, goal_date
		FROM reading_goals
		WHERE user_id = $1`
	var goal types.ReadingGoal
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&goal.UserID,
		&goal.BooksToRead,
		&goal.GoalDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.ReadingGoal{}, ErrNotFound
		}
		return types.ReadingGoal{}, err
	}
	return goal, nil
}

// Upsert inserts the goal or replaces the existing one in a single
// statement, so a concurrent insert on the same user id lands in the
// update branch instead of failing.
func (r *GoalRepository) Upsert(ctx context.Context, goal types.ReadingGoal) error {
	const query = `
		INSERT INTO reading_goals (user_id, books_to_read, goal_date)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			books_to_read = EXCLUDED.books_to_read,
			goal_date = EXCLUDED.goal_date`
	_, err := r.db.ExecContext(ctx, query, goal.UserID, goal.BooksToRead, goal.GoalDate)
	return err
}

func (r *GoalRepository) Delete(ctx context.Context, userID int) error {
	const query = `DELETE FROM reading_goals WHERE user_id = $1`
	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
