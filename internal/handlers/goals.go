package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shelflog/appserver/internal/services"
	"github.com/shelflog/appserver/internal/store"
	"github.com/shelflog/appserver/internal/web"
	"github.com/shelflog/appserver/types"
)

// GoalHandler provides the reading-goal page and mutations.
type GoalHandler struct {
	goalService *services.GoalService
}

// NewGoalHandler constructs a handler with the provided service.
func NewGoalHandler(goalService *services.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// GoalRouter registers the goal routes. The caller is expected to have
// applied the session middleware already.
func GoalRouter(r chi.Router, goalService *services.GoalService) {
	handler := NewGoalHandler(goalService)

	r.Get("/goal", handler.GoalForm)
	r.Post("/goal", handler.SetGoal)
	r.Post("/delete_goal", handler.DeleteGoal)
}

type goalPage struct {
	Flash string
	Goal  *types.ReadingGoal
}

// GoalForm shows the current goal, if any, alongside the form.
func (h *GoalHandler) GoalForm(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	var goal *types.ReadingGoal
	if found, err := h.goalService.GetByUser(r.Context(), userID); err == nil {
		goal = &found
	} else if !errors.Is(err, store.ErrNotFound) {
		http.Error(w, "failed to load goal", http.StatusInternalServerError)
		return
	}

	web.Render(w, "goal.html", goalPage{Flash: popFlash(w, r), Goal: goal})
}

// SetGoal upserts the user's goal. The upsert is a single statement, so a
// goal set concurrently for the same user overwrites rather than errors.
// A persistence failure here surfaces its message instead of a bare 500.
func (h *GoalHandler) SetGoal(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	booksToRead, goalDate, message := parseGoalForm(r)
	if message != "" {
		flashAndRedirect(w, r, message, "/goal")
		return
	}

	if err := h.goalService.Set(r.Context(), userID, booksToRead, goalDate); err != nil {
		if errors.Is(err, services.ErrInvalidGoal) {
			flashAndRedirect(w, r, "Your reading goal must be at least one book!", "/goal")
			return
		}
		flashAndRedirect(w, r, "Error: "+err.Error(), "/goal")
		return
	}

	flashAndRedirect(w, r, "Your reading goal has been set!", "/")
}

// DeleteGoal removes the user's goal; deleting an absent goal still
// confirms.
func (h *GoalHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	if err := h.goalService.Delete(r.Context(), userID); err != nil && !errors.Is(err, store.ErrNotFound) {
		http.Error(w, "failed to delete goal", http.StatusInternalServerError)
		return
	}

	flashAndRedirect(w, r, "Your reading goal has been deleted.", "/")
}
