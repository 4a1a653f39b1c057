package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shelflog/appserver/internal/services"
	"github.com/shelflog/appserver/internal/storage"
	"github.com/shelflog/appserver/internal/store"
	"github.com/shelflog/appserver/internal/web"
	"github.com/shelflog/appserver/types"
)

const (
	maxCoverMemory = 8 << 20
	maxCoverBytes  = 5 << 20
	formFieldCover = "cover"
)

var coverExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// BookHandler provides the shelf pages and book CRUD.
type BookHandler struct {
	bookService *services.BookService
	goalService *services.GoalService
	userService *services.UserService

	// covers is nil when no storage backend is configured; the upload
	// field is then ignored and cover requests return not found.
	covers *storage.Storage
}

// NewBookHandler constructs a handler with the provided services.
func NewBookHandler(
	bookService *services.BookService,
	goalService *services.GoalService,
	userService *services.UserService,
	covers *storage.Storage,
) *BookHandler {
	return &BookHandler{
		bookService: bookService,
		goalService: goalService,
		userService: userService,
		covers:      covers,
	}
}

// BookRouter registers the book routes. The caller is expected to have
// applied the session middleware already.
func BookRouter(
	r chi.Router,
	bookService *services.BookService,
	goalService *services.GoalService,
	userService *services.UserService,
	covers *storage.Storage,
) {
	handler := NewBookHandler(bookService, goalService, userService, covers)

	r.Get("/", handler.Home)
	r.Get("/add", handler.AddForm)
	r.Post("/add", handler.Add)
	r.Get("/edit/{bookID}", handler.EditForm)
	r.Post("/edit/{bookID}", handler.Edit)
	r.Get("/delete/{bookID}", handler.Delete)
	r.Get("/book/{bookID}", handler.Detail)
	r.Get("/covers/{bookID}", handler.Cover)
}

type homePage struct {
	Flash    string
	Username string
	Books    []types.Book
	Goal     *types.ReadingGoal
}

type bookPage struct {
	Flash string
	Book  types.Book
}

// Home lists the current user's books along with their goal and username.
func (h *BookHandler) Home(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	books, err := h.bookService.ListByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "failed to load books", http.StatusInternalServerError)
		return
	}

	var goal *types.ReadingGoal
	if found, err := h.goalService.GetByUser(r.Context(), userID); err == nil {
		goal = &found
	} else if !errors.Is(err, store.ErrNotFound) {
		http.Error(w, "failed to load goal", http.StatusInternalServerError)
		return
	}

	username := "User"
	if user, err := h.userService.GetByID(r.Context(), userID); err == nil {
		username = user.Username
	}

	web.Render(w, "index.html", homePage{
		Flash:    popFlash(w, r),
		Username: username,
		Books:    books,
		Goal:     goal,
	})
}

func (h *BookHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	web.Render(w, "add_book.html", authPage{Flash: popFlash(w, r)})
}

// Add creates a book owned by the current user, with an optional cover
// image when storage is configured.
func (h *BookHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxCoverMemory); err != nil {
			flashAndRedirect(w, r, "Invalid form submission!", "/add")
			return
		}
	}

	form, message := parseBookForm(r)
	if message != "" {
		flashAndRedirect(w, r, message, "/add")
		return
	}

	book, err := h.bookService.Create(r.Context(), types.Book{
		UserID:       userID,
		Title:        form.Title,
		Author:       form.Author,
		Genre:        form.Genre,
		PageCount:    form.PageCount,
		DateStarted:  form.DateStarted,
		DateFinished: form.DateFinished,
		Rating:       form.Rating,
		Review:       form.Review,
		Status:       form.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRating):
			flashAndRedirect(w, r, "Rating must be between 0 and 5!", "/add")
		case errors.Is(err, services.ErrInvalidStatus):
			flashAndRedirect(w, r, "Invalid status!", "/add")
		default:
			http.Error(w, "failed to add book", http.StatusInternalServerError)
		}
		return
	}

	if file, header, err := r.FormFile(formFieldCover); err == nil {
		defer file.Close()
		if h.covers != nil {
			if err := h.attachCover(r, book.ID, userID, file, header); err != nil {
				flashAndRedirect(w, r, "Book added, but saving the cover failed!", "/")
				return
			}
		}
	}

	flashAndRedirect(w, r, "Book added successfully!", "/")
}

// EditForm shows the edit page for a book the current user owns. A miss,
// whether the id is wrong or the book belongs to someone else, looks the
// same to the caller.
func (h *BookHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	bookID, err := parseBookID(r)
	if err != nil {
		flashAndRedirect(w, r, "Book not found!", "/")
		return
	}

	book, err := h.bookService.GetForUser(r.Context(), bookID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			flashAndRedirect(w, r, "Book not found!", "/")
			return
		}
		http.Error(w, "failed to load book", http.StatusInternalServerError)
		return
	}

	web.Render(w, "edit_book.html", bookPage{Flash: popFlash(w, r), Book: book})
}

// Edit updates title, author, genre, page count, status, and review.
// Rating and the start/finish dates are left untouched.
func (h *BookHandler) Edit(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	bookID, err := parseBookID(r)
	if err != nil {
		flashAndRedirect(w, r, "Book not found!", "/")
		return
	}

	form, message := parseEditBookForm(r)
	if message != "" {
		flashAndRedirect(w, r, message, fmt.Sprintf("/edit/%d", bookID))
		return
	}

	_, err = h.bookService.Update(r.Context(), types.Book{
		ID:        bookID,
		UserID:    userID,
		Title:     form.Title,
		Author:    form.Author,
		Genre:     form.Genre,
		PageCount: form.PageCount,
		Status:    form.Status,
		Review:    form.Review,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			flashAndRedirect(w, r, "Book not found!", "/")
		case errors.Is(err, services.ErrInvalidStatus):
			flashAndRedirect(w, r, "Invalid status!", fmt.Sprintf("/edit/%d", bookID))
		default:
			http.Error(w, "failed to update book", http.StatusInternalServerError)
		}
		return
	}

	flashAndRedirect(w, r, "Book updated successfully!", "/")
}

// Delete removes a book owned by the current user. A missing or foreign
// id is a no-op that still confirms, so nothing is revealed about other
// users' shelves.
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	bookID, err := parseBookID(r)
	if err != nil {
		flashAndRedirect(w, r, "Book deleted successfully!", "/")
		return
	}

	book, loadErr := h.bookService.GetForUser(r.Context(), bookID, userID)

	if err := h.bookService.Delete(r.Context(), bookID, userID); err != nil && !errors.Is(err, store.ErrNotFound) {
		http.Error(w, "failed to delete book", http.StatusInternalServerError)
		return
	}

	// Best effort: a stranded cover object is harmless.
	if loadErr == nil && book.CoverKey != nil && h.covers != nil {
		_ = h.covers.Delete(r.Context(), *book.CoverKey)
	}

	flashAndRedirect(w, r, "Book deleted successfully!", "/")
}

// Detail shows one book's detail page.
func (h *BookHandler) Detail(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	bookID, err := parseBookID(r)
	if err != nil {
		flashAndRedirect(w, r, "Book not found.", "/")
		return
	}

	book, err := h.bookService.GetForUser(r.Context(), bookID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			flashAndRedirect(w, r, "Book not found.", "/")
			return
		}
		http.Error(w, "failed to load book", http.StatusInternalServerError)
		return
	}

	web.Render(w, "book_detail.html", bookPage{Flash: popFlash(w, r), Book: book})
}

// Cover streams the stored cover image for a book the current user owns.
func (h *BookHandler) Cover(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	bookID, err := parseBookID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	book, err := h.bookService.GetForUser(r.Context(), bookID, userID)
	if err != nil || book.CoverKey == nil || h.covers == nil {
		http.NotFound(w, r)
		return
	}

	object, err := h.covers.Get(r.Context(), *book.CoverKey)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer object.Close()

	if contentType := mime.TypeByExtension(filepath.Ext(*book.CoverKey)); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	_, _ = io.Copy(w, object)
}

func (h *BookHandler) attachCover(r *http.Request, bookID, userID int, file multipart.File, header *multipart.FileHeader) error {
	ext := strings.ToLower(filepath.Ext(filepath.Base(header.Filename)))
	if !coverExtensions[ext] {
		return errors.New("unsupported cover file type")
	}

	data, err := readFileLimited(file, maxCoverBytes)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("covers/%d%s", bookID, ext)
	contentType := mime.TypeByExtension(ext)
	if err := h.covers.Put(r.Context(), key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return err
	}
	return h.bookService.SetCoverKey(r.Context(), bookID, userID, key)
}

func parseBookID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "bookID")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, errors.New("invalid book id")
	}
	return id, nil
}

func readFileLimited(reader io.Reader, limit int64) ([]byte, error) {
	limited := io.LimitReader(reader, limit+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, errors.New("failed to read upload")
	}
	if int64(len(data)) > limit {
		return nil, errors.New("uploaded file too large")
	}
	return data, nil
}
