package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shelflog/appserver/types"
)

// BookRepository handles persistence for books. Every query is scoped by
// the owning user id; a row belonging to another user is indistinguishable
// from a missing one.
type BookRepository struct {
	db *sql.DB
}

func NewBookRepository(db *sql.DB) *BookRepository {
	return &BookRepository{db: db}
}

const bookColumns = `id, user_id, title, author, genre, page_count, date_started, date_finished, rating, review, status, cover_key`

func scanBook(row interface{ Scan(...any) error }, book *types.Book) error {
	return row.Scan(
		&book.ID,
		&book.UserID,
		&book.Title,
		&book.Author,
		&book.Genre,
		&book.PageCount,
		&book.DateStarted,
		&book.DateFinished,
		&book.Rating,
		&book.Review,
		&book.Status,
		&book.CoverKey,
	)
}

func (r *BookRepository) ListByUser(ctx context.Context, userID int) ([]types.Book, error) {
	const query = `
		SELECT ` + bookColumns + `
		FROM books
		WHERE user_id = $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := make([]types.Book, 0)
	for rows.Next() {
		var book types.Book
		if err := scanBook(rows, &book); err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *BookRepository) GetForUser(ctx context.Context, id, userID int) (types.Book, error) {
	const query = `
		SELECT ` + bookColumns + `
		FROM books
		WHERE id = $1 AND user_id = $2`
	var book types.Book
	if err := scanBook(r.db.QueryRowContext(ctx, query, id, userID), &book); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Book{}, ErrNotFound
		}
		return types.Book{}, err
	}
	return book, nil
}

func (r *BookRepository) Create(ctx context.Context, book types.Book) (types.Book, error) {
	const query = `
		INSERT INTO books (user_id, title, author, genre, page_count, date_started, date_finished, rating, review, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		book.UserID,
		book.Title,
		book.Author,
		book.Genre,
		book.PageCount,
		book.DateStarted,
		book.DateFinished,
		book.Rating,
		book.Review,
		book.Status,
	).Scan(&book.ID); err != nil {
		return types.Book{}, err
	}
	return book, nil
}

// Update rewrites the editable columns only. Rating and the start/finish
// dates are fixed at creation and deliberately absent from the SET list.
func (r *BookRepository) Update(ctx context.Context, book types.Book) (types.Book, error) {
	const query = `
		UPDATE books
		SET title = $1,
			author = $2,
			genre = $3,
			page_count = $4,
			status = $5,
			review = $6
		WHERE id = $7 AND user_id = $8`
	result, err := r.db.ExecContext(
		ctx,
		query,
		book.Title,
		book.Author,
		book.Genre,
		book.PageCount,
		book.Status,
		book.Review,
		book.ID,
		book.UserID,
	)
	if err != nil {
		return types.Book{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Book{}, err
	}
	if affected == 0 {
		return types.Book{}, ErrNotFound
	}
	return book, nil
}

func (r *BookRepository) Delete(ctx context.Context, id, userID int) error {
	const query = `DELETE FROM books WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
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

func (r *BookRepository) SetCoverKey(ctx context.Context, id, userID int, coverKey string) error {
	const query = `UPDATE books SET cover_key = $1 WHERE id = $2 AND user_id = $3`
	result, err := r.db.ExecContext(ctx, query, coverKey, id, userID)
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
