package services_test

import (
	"context"
	"testing"

	"github.com/shelflog/appserver/internal/services"
	"github.com/shelflog/appserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBookRepo struct {
	created []types.Book
	updated []types.Book
}

func (r *stubBookRepo) ListByUser(ctx context.Context, userID int) ([]types.Book, error) {
	return nil, nil
}

func (r *stubBookRepo) GetForUser(ctx context.Context, id, userID int) (types.Book, error) {
	return types.Book{}, nil
}

func (r *stubBookRepo) Create(ctx context.Context, book types.Book) (types.Book, error) {
	book.ID = len(r.created) + 1
	r.created = append(r.created, book)
	return book, nil
}

func (r *stubBookRepo) Update(ctx context.Context, book types.Book) (types.Book, error) {
	r.updated = append(r.updated, book)
	return book, nil
}

func (r *stubBookRepo) Delete(ctx context.Context, id, userID int) error { return nil }

func (r *stubBookRepo) SetCoverKey(ctx context.Context, id, userID int, coverKey string) error {
	return nil
}

func ratingPtr(v float64) *float64 { return &v }

func TestBookServiceCreateRatingRange(t *testing.T) {
	tests := []struct {
		name   string
		rating *float64
		err    error
	}{
		{"no rating", nil, nil},
		{"lower bound", ratingPtr(0), nil},
		{"upper bound", ratingPtr(5), nil},
		{"below range", ratingPtr(-0.5), services.ErrInvalidRating},
		{"above range", ratingPtr(5.5), services.ErrInvalidRating},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubBookRepo{}
			svc := services.NewBookService(repo)

			_, err := svc.Create(context.Background(), types.Book{
				UserID: 1,
				Title:  "Rated",
				Author: "Author",
				Status: types.StatusTBR,
				Rating: tt.rating,
			})

			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				assert.Empty(t, repo.created, "an invalid book must not reach the repository")
			} else {
				require.NoError(t, err)
				assert.Len(t, repo.created, 1)
			}
		})
	}
}

func TestBookServiceCreateRejectsUnknownStatus(t *testing.T) {
	repo := &stubBookRepo{}
	svc := services.NewBookService(repo)

	_, err := svc.Create(context.Background(), types.Book{
		UserID: 1,
		Title:  "Bad Status",
		Author: "Author",
		Status: "Abandoned",
	})

	require.ErrorIs(t, err, services.ErrInvalidStatus)
	assert.Empty(t, repo.created)
}

func TestBookServiceCreateAcceptsEveryKnownStatus(t *testing.T) {
	repo := &stubBookRepo{}
	svc := services.NewBookService(repo)

	for _, status := range []string{types.StatusTBR, types.StatusInProgress, types.StatusCompleted} {
		_, err := svc.Create(context.Background(), types.Book{
			UserID: 1,
			Title:  "Book",
			Author: "Author",
			Status: status,
		})
		require.NoError(t, err, "status %q", status)
	}
	assert.Len(t, repo.created, 3)
}

func TestBookServiceUpdateValidatesStatus(t *testing.T) {
	repo := &stubBookRepo{}
	svc := services.NewBookService(repo)

	_, err := svc.Update(context.Background(), types.Book{
		ID:     1,
		UserID: 1,
		Title:  "Book",
		Author: "Author",
		Status: "Shelved",
	})

	require.ErrorIs(t, err, services.ErrInvalidStatus)
	assert.Empty(t, repo.updated)
}
