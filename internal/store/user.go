package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shelflog/appserver/types"
)

// UserRepository handles persistence for users.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (types.User, error) {
	const query = `
		SELECT id, username, nickname, password_hash, email, date_joined
		FROM users
		WHERE id = $1`
	var user types.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Nickname,
		&user.PasswordHash,
		&user.Email,
		&user.DateJoined,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (types.User, error) {
	const query = `
		SELECT id, username, nickname, password_hash, email, date_joined
		FROM users
		WHERE username = $1`
	var user types.User
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.Nickname,
		&user.PasswordHash,
		&user.Email,
		&user.DateJoined,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

// Create inserts a new user. A duplicate username or email surfaces as
// ErrConflict, so the unique constraint and the handler pre-check agree
// even when two registrations race.
func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	const query = `
		INSERT INTO users (username, nickname, password_hash, email)
		VALUES ($1, $2, $3, $4)
		RETURNING id, date_joined`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		user.Username,
		user.Nickname,
		user.PasswordHash,
		user.Email,
	).Scan(&user.ID, &user.DateJoined); err != nil {
		return types.User{}, translateError(err)
	}
	return user, nil
}
