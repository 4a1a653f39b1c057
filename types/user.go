package types

import "time"

// User represents an account in the system.
// It contains identity and credential metadata.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Username is the unique login name chosen by the user.
	Username string `json:"username" db:"username"`

	// Nickname is an optional display name.
	Nickname *string `json:"nickname,omitempty" db:"nickname"`

	// Email is the user's email address, unique when present.
	Email *string `json:"email,omitempty" db:"email"`

	// PasswordHash stores the hashed representation of the user's password.
	// This field is never exposed in responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// DateJoined is the date the account was created.
	DateJoined time.Time `json:"date_joined" db:"date_joined"`
}
