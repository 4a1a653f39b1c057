package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shelflog/appserver/internal/handlers"
	"github.com/shelflog/appserver/internal/services"
	"github.com/shelflog/appserver/internal/store"
	"github.com/shelflog/appserver/types"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

// fakeStore backs the three repository fakes with shared in-memory maps.
type fakeStore struct {
	mu         sync.Mutex
	users      map[int]types.User
	books      map[int]types.Book
	goals      map[int]types.ReadingGoal
	nextUserID int
	nextBookID int

	// goalErr, when set, is returned by the goal upsert to simulate a
	// persistence failure.
	goalErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      make(map[int]types.User),
		books:      make(map[int]types.Book),
		goals:      make(map[int]types.ReadingGoal),
		nextUserID: 1,
		nextBookID: 1,
	}
}

type fakeUserRepo struct{ *fakeStore }

func (r fakeUserRepo) GetByID(ctx context.Context, id int) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (r fakeUserRepo) GetByUsername(ctx context.Context, username string) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r fakeUserRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == user.Username {
			return types.User{}, store.ErrConflict
		}
	}
	user.ID = r.nextUserID
	r.nextUserID++
	r.users[user.ID] = user
	return user, nil
}

type fakeBookRepo struct{ *fakeStore }

func (r fakeBookRepo) ListByUser(ctx context.Context, userID int) ([]types.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	books := make([]types.Book, 0)
	for _, book := range r.books {
		if book.UserID == userID {
			books = append(books, book)
		}
	}
	return books, nil
}

func (r fakeBookRepo) GetForUser(ctx context.Context, id, userID int) (types.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	book, ok := r.books[id]
	if !ok || book.UserID != userID {
		return types.Book{}, store.ErrNotFound
	}
	return book, nil
}

func (r fakeBookRepo) Create(ctx context.Context, book types.Book) (types.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	book.ID = r.nextBookID
	r.nextBookID++
	r.books[book.ID] = book
	return book, nil
}

// Update mirrors the SQL column list: only the editable fields change,
// rating and the start/finish dates keep their stored values.
func (r fakeBookRepo) Update(ctx context.Context, book types.Book) (types.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.books[book.ID]
	if !ok || existing.UserID != book.UserID {
		return types.Book{}, store.ErrNotFound
	}
	existing.Title = book.Title
	existing.Author = book.Author
	existing.Genre = book.Genre
	existing.PageCount = book.PageCount
	existing.Status = book.Status
	existing.Review = book.Review
	r.books[book.ID] = existing
	return existing, nil
}

func (r fakeBookRepo) Delete(ctx context.Context, id, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	book, ok := r.books[id]
	if !ok || book.UserID != userID {
		return store.ErrNotFound
	}
	delete(r.books, id)
	return nil
}

func (r fakeBookRepo) SetCoverKey(ctx context.Context, id, userID int, coverKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	book, ok := r.books[id]
	if !ok || book.UserID != userID {
		return store.ErrNotFound
	}
	book.CoverKey = &coverKey
	r.books[id] = book
	return nil
}

type fakeGoalRepo struct{ *fakeStore }

func (r fakeGoalRepo) GetByUser(ctx context.Context, userID int) (types.ReadingGoal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	goal, ok := r.goals[userID]
	if !ok {
		return types.ReadingGoal{}, store.ErrNotFound
	}
	return goal, nil
}

func (r fakeGoalRepo) Upsert(ctx context.Context, goal types.ReadingGoal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.goalErr != nil {
		return r.goalErr
	}
	r.goals[goal.UserID] = goal
	return nil
}

func (r fakeGoalRepo) Delete(ctx context.Context, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.goals[userID]; !ok {
		return store.ErrNotFound
	}
	delete(r.goals, userID)
	return nil
}

func newTestRouter(fs *fakeStore) *chi.Mux {
	userService := services.NewUserService(fakeUserRepo{fs})
	bookService := services.NewBookService(fakeBookRepo{fs})
	goalService := services.NewGoalService(fakeGoalRepo{fs})
	secret := []byte(testSecret)

	router := chi.NewRouter()
	handlers.AuthRouter(router, userService, secret)
	router.Group(func(r chi.Router) {
		r.Use(handlers.RequireSession(secret))
		handlers.BookRouter(r, bookService, goalService, userService, nil)
		handlers.GoalRouter(r, goalService)
	})
	return router
}

func seedUser(t *testing.T, fs *fakeStore, username, password string) types.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user, err := fakeUserRepo{fs}.Create(context.Background(), types.User{
		Username:     username,
		PasswordHash: string(hashed),
	})
	require.NoError(t, err)
	return user
}

func seedBook(t *testing.T, fs *fakeStore, userID int, title string, mutate func(*types.Book)) types.Book {
	t.Helper()
	book := types.Book{
		UserID: userID,
		Title:  title,
		Author: "Some Author",
		Status: types.StatusTBR,
	}
	if mutate != nil {
		mutate(&book)
	}
	created, err := fakeBookRepo{fs}.Create(context.Background(), book)
	require.NoError(t, err)
	return created
}

func postForm(router http.Handler, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func get(router http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// login posts credentials and returns the session cookie.
func login(t *testing.T, router http.Handler, username, password string) *http.Cookie {
	t.Helper()
	rec := postForm(router, "/login", url.Values{
		"username": {username},
		"password": {password},
	})
	require.Equal(t, http.StatusFound, rec.Code)
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie, "expected a session cookie after login")
	return cookie
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "session" && cookie.Value != "" && cookie.MaxAge >= 0 {
			return cookie
		}
	}
	return nil
}

func flashMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "flash" && cookie.MaxAge >= 0 {
			message, err := url.QueryUnescape(cookie.Value)
			require.NoError(t, err)
			return message
		}
	}
	return ""
}
