package services

import (
	"context"

	"github.com/shelflog/appserver/types"
)

// BookRepository defines persistence operations for books.
type BookRepository interface {
	ListByUser(ctx context.Context, userID int) ([]types.Book, error)
	GetForUser(ctx context.Context, id, userID int) (types.Book, error)
	Create(ctx context.Context, book types.Book) (types.Book, error)
	Update(ctx context.Context, book types.Book) (types.Book, error)
	Delete(ctx context.Context, id, userID int) error
	SetCoverKey(ctx context.Context, id, userID int, coverKey string) error
}

// BookService encapsulates book use-cases.
type BookService struct {
	repo BookRepository
}

func NewBookService(repo BookRepository) *BookService {
	return &BookService{repo: repo}
}

func (s *BookService) ListByUser(ctx context.Context, userID int) ([]types.Book, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *BookService) GetForUser(ctx context.Context, id, userID int) (types.Book, error) {
	return s.repo.GetForUser(ctx, id, userID)
}

// Create validates the enum and range invariants before inserting. The
// database repeats both as CHECK constraints, but a violation there would
// surface as a bare persistence failure instead of a user message.
func (s *BookService) Create(ctx context.Context, book types.Book) (types.Book, error) {
	if !types.ValidStatus(book.Status) {
		return types.Book{}, ErrInvalidStatus
	}
	if book.Rating != nil && (*book.Rating < 0 || *book.Rating > 5) {
		return types.Book{}, ErrInvalidRating
	}
	return s.repo.Create(ctx, book)
}

// Update touches only the editable fields; the repository never writes
// rating or the start/finish dates.
func (s *BookService) Update(ctx context.Context, book types.Book) (types.Book, error) {
	if !types.ValidStatus(book.Status) {
		return types.Book{}, ErrInvalidStatus
	}
	return s.repo.Update(ctx, book)
}

func (s *BookService) Delete(ctx context.Context, id, userID int) error {
	return s.repo.Delete(ctx, id, userID)
}

func (s *BookService) SetCoverKey(ctx context.Context, id, userID int, coverKey string) error {
	return s.repo.SetCoverKey(ctx, id, userID, coverKey)
}
