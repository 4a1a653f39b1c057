package types

import "time"

// Book statuses accepted by the tracker. The database enforces the same set
// with a CHECK constraint.
const (
	StatusTBR        = "TBR"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// ValidStatus reports whether s is one of the accepted book statuses.
func ValidStatus(s string) bool {
	return s == StatusTBR || s == StatusInProgress || s == StatusCompleted
}

// Book represents a single entry on a user's shelf. Title, author, and
// status are always present; everything else is optional. Rating and the
// start/finish dates are fixed at creation and never changed by edits.
type Book struct {
	// ID is the unique identifier of the book row.
	ID int `json:"id" db:"id"`

	// UserID identifies the owning user. Every read, update, and delete
	// is scoped by this value.
	UserID int `json:"user_id" db:"user_id"`

	Title  string `json:"title" db:"title"`
	Author string `json:"author" db:"author"`

	Genre        *string    `json:"genre,omitempty" db:"genre"`
	PageCount    *int       `json:"page_count,omitempty" db:"page_count"`
	DateStarted  *time.Time `json:"date_started,omitempty" db:"date_started"`
	DateFinished *time.Time `json:"date_finished,omitempty" db:"date_finished"`

	// Rating is constrained to [0, 5] when present.
	Rating *float64 `json:"rating,omitempty" db:"rating"`

	Review *string `json:"review,omitempty" db:"review"`
	Status string  `json:"status" db:"status"`

	// CoverKey is the object-storage key of the uploaded cover image,
	// if one was attached.
	CoverKey *string `json:"cover_key,omitempty" db:"cover_key"`
}
