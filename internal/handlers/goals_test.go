package handlers_test

import (
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGoalUpsertKeepsOneRow(t *testing.T) {
	fs := newFakeStore()
	router := newTestRouter(fs)
	seedUser(t, fs, "alice", "hunter2")
	cookie := login(t, router, "alice", "hunter2")

	first := postForm(router, "/goal", url.Values{
		"books_to_read": {"10"},
		"goal_date":     {"2025-01-01"},
	}, cookie)
	assert.Equal(t, "/", first.Header().Get("Location"))
	assert.Equal(t, "Your reading goal has been set!", flashMessage(t, first))

	second := postForm(router, "/goal", url.Values{
		"books_to_read": {"20"},
		"goal_date":     {"2025-06-01"},
	}, cookie)
	assert.Equal(t, "/", second.Header().Get("Location"))

	require.Len(t, fs.goals, 1, "upsert must keep a single row per user")
	goal := fs.goals[1]
	assert.Equal(t, 20, goal.BooksToRead)
	assert.Equal(t, "2025-06-01", goal.GoalDate.Format("2006-01-02"))
}

func TestSetGoalRequiresBothFields(t *testing.T) {
	fs := newFakeStore()
	router := newTestRouter(fs)
	seedUser(t, fs, "alice", "hunter2")
	cookie := login(t, router, "alice", "hunter2")

	rec := postForm(router, "/goal", url.Values{
		"books_to_read": {"10"},
	}, cookie)

	assert.Equal(t, "/goal", rec.Header().Get("Location"))
	assert.Equal(t, "Both fields are required!", flashMessage(t, rec))
	assert.Empty(t, fs.goals)
}

func TestSetGoalRejectsNonPositiveTarget(t *testing.T) {
	fs := newFakeStore()
	router := newTestRouter(fs)
	seedUser(t, fs, "alice", "hunter2")
	cookie := login(t, router, "alice", "hunter2")

	rec := postForm(router, "/goal", url.Values{
		"books_to_read": {"0"},
		"goal_date":     {"2025-06-01"},
	}, cookie)

	assert.Equal(t, "/goal", rec.Header().Get("Location"))
	assert.Equal(t, "Your reading goal must be at least one book!", flashMessage(t, rec))
	assert.Empty(t, fs.goals)
}

func TestSetGoalSurfacesPersistenceFailure(t *testing.T) {
	fs := newFakeStore()
	fs.goalErr = errors.New("connection reset")
	router := newTestRouter(fs)
	seedUser(t, fs, "alice", "hunter2")
	cookie := login(t, router, "alice", "hunter2")

	rec := postForm(router, "/goal", url.Values{
		"books_to_read": {"10"},
		"goal_date":     {"2025-06-01"},
	}, cookie)

	assert.Equal(t, "/goal", rec.Header().Get("Location"))
	assert.Equal(t, "Error: connection reset", flashMessage(t, rec))
}

func TestDeleteGoalIsNoopWhenAbsent(t *testing.T) {
	fs := newFakeStore()
	router := newTestRouter(fs)
	seedUser(t, fs, "alice", "hunter2")
	cookie := login(t, router, "alice", "hunter2")

	rec := postForm(router, "/delete_goal", url.Values{}, cookie)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, "Your reading goal has been deleted.", flashMessage(t, rec))
}

func TestDeleteGoalRemovesRow(t *testing.T) {
	fs := newFakeStore()
	router := newTestRouter(fs)
	seedUser(t, fs, "alice", "hunter2")
	cookie := login(t, router, "alice", "hunter2")

	set := postForm(router, "/goal", url.Values{
		"books_to_read": {"5"},
		"goal_date":     {"2025-06-01"},
	}, cookie)
	require.Equal(t, "/", set.Header().Get("Location"))
	require.Len(t, fs.goals, 1)

	rec := postForm(router, "/delete_goal", url.Values{}, cookie)

	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, "Your reading goal has been deleted.", flashMessage(t, rec))
	assert.Empty(t, fs.goals)
}
