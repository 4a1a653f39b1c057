package types

import "time"

// ReadingGoal is a user's single active reading target. The table is keyed
// by user id, so setting a new goal replaces the previous one; no history
// is kept.
type ReadingGoal struct {
	// UserID identifies the owning user and is the primary key.
	UserID int `json:"user_id" db:"user_id"`

	// BooksToRead is the number of books the user aims to finish.
	BooksToRead int `json:"books_to_read" db:"books_to_read"`

	// GoalDate is the date by which the user aims to reach the target.
	GoalDate time.Time `json:"goal_date" db:"goal_date"`
}
