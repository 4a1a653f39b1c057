package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shelflog/appserver/internal/services"
	"github.com/shelflog/appserver/internal/store"
	"github.com/shelflog/appserver/internal/web"
	"github.com/shelflog/appserver/types"
	"golang.org/x/crypto/bcrypt"
)

// loginFailedMessage is shared between the unknown-user and wrong-password
// branches so a login attempt never reveals whether an account exists.
const loginFailedMessage = "Invalid username or password!"

// AuthHandler provides registration, login, and logout.
type AuthHandler struct {
	userService *services.UserService
	secret      []byte
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(userService *services.UserService, secret []byte) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		secret:      secret,
	}
}

// AuthRouter registers the public auth routes on the given router.
func AuthRouter(r chi.Router, userService *services.UserService, secret []byte) {
	handler := NewAuthHandler(userService, secret)

	r.Get("/register", handler.RegisterForm)
	r.Post("/register", handler.Register)
	r.Get("/login", handler.LoginForm)
	r.Post("/login", handler.Login)
	r.Get("/logout", handler.Logout)
}

type authPage struct {
	Flash string
}

func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	web.Render(w, "register.html", authPage{Flash: popFlash(w, r)})
}

// Register creates a new account and opens a session for it. The raw
// password is never stored, only its bcrypt hash.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	form, message := parseRegisterForm(r)
	if message != "" {
		flashAndRedirect(w, r, message, "/register")
		return
	}

	if _, err := h.userService.GetByUsername(r.Context(), form.Username); err == nil {
		flashAndRedirect(w, r, "Username already taken!", "/register")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		http.Error(w, "failed to check user", http.StatusInternalServerError)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "failed to create user", http.StatusInternalServerError)
		return
	}

	user, err := h.userService.Create(r.Context(), types.User{
		Username:     form.Username,
		PasswordHash: string(hashed),
	})
	if err != nil {
		// A registration racing this one past the pre-check lands here
		// via the unique constraint; the user sees the same message.
		if errors.Is(err, store.ErrConflict) {
			flashAndRedirect(w, r, "Username already taken!", "/register")
			return
		}
		http.Error(w, "failed to create user", http.StatusInternalServerError)
		return
	}

	if err := openSession(w, user.ID, h.secret); err != nil {
		http.Error(w, "failed to open session", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	web.Render(w, "login.html", authPage{Flash: popFlash(w, r)})
}

// Login verifies credentials and opens a session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	form, message := parseLoginForm(r)
	if message != "" {
		flashAndRedirect(w, r, message, "/login")
		return
	}

	user, err := h.userService.GetByUsername(r.Context(), form.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			flashAndRedirect(w, r, loginFailedMessage, "/login")
			return
		}
		http.Error(w, "failed to authenticate", http.StatusInternalServerError)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.Password)); err != nil {
		flashAndRedirect(w, r, loginFailedMessage, "/login")
		return
	}

	if err := openSession(w, user.ID, h.secret); err != nil {
		http.Error(w, "failed to open session", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout clears the session unconditionally.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	clearSession(w)
	flashAndRedirect(w, r, "You have been logged out!", "/login")
}
