package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Form inputs are parsed into typed structs and validated up front; a
// failed parse or validation produces a user-facing message and the
// originating form is re-shown with nothing mutated.

var validate = validator.New()

const dateLayout = "2006-01-02"

type registerForm struct {
	Username     string `validate:"required"`
	Password     string `validate:"required"`
	Confirmation string `validate:"required,eqfield=Password"`
}

type loginForm struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

type bookForm struct {
	Title        string `validate:"required"`
	Author       string `validate:"required"`
	Status       string `validate:"required,oneof='TBR' 'In Progress' 'Completed'"`
	Genre        *string
	PageCount    *int
	DateStarted  *time.Time
	DateFinished *time.Time
	Rating       *float64 `validate:"omitempty,gte=0,lte=5"`
	Review       *string
}

type editBookForm struct {
	Title     string `validate:"required"`
	Author    string `validate:"required"`
	Status    string `validate:"required,oneof='TBR' 'In Progress' 'Completed'"`
	Genre     *string
	PageCount *int
	Review    *string
}

func parseRegisterForm(r *http.Request) (registerForm, string) {
	form := registerForm{
		Username:     strings.TrimSpace(r.FormValue("username")),
		Password:     r.FormValue("password"),
		Confirmation: r.FormValue("confirmation"),
	}
	if err := validate.Struct(form); err != nil {
		if hasFailedTag(err, "required") {
			return form, "All fields are required!"
		}
		return form, "Passwords don't match!"
	}
	return form, ""
}

func parseLoginForm(r *http.Request) (loginForm, string) {
	form := loginForm{
		Username: strings.TrimSpace(r.FormValue("username")),
		Password: r.FormValue("password"),
	}
	if err := validate.Struct(form); err != nil {
		return form, "Username and password are required!"
	}
	return form, ""
}

func parseBookForm(r *http.Request) (bookForm, string) {
	form := bookForm{
		Title:  strings.TrimSpace(r.FormValue("title")),
		Author: strings.TrimSpace(r.FormValue("author")),
		Status: strings.TrimSpace(r.FormValue("status")),
		Genre:  optionalString(r.FormValue("genre")),
		Review: optionalString(r.FormValue("review")),
	}

	pageCount, err := optionalInt(r.FormValue("page_count"))
	if err != nil {
		return form, "Page count must be a whole number!"
	}
	form.PageCount = pageCount

	for _, field := range []struct {
		name string
		dest **time.Time
	}{
		{"date_started", &form.DateStarted},
		{"date_finished", &form.DateFinished},
	} {
		parsed, err := optionalDate(r.FormValue(field.name))
		if err != nil {
			return form, "Dates must be in YYYY-MM-DD format!"
		}
		*field.dest = parsed
	}

	rating, err := optionalFloat(r.FormValue("rating"))
	if err != nil {
		return form, "Rating must be between 0 and 5!"
	}
	form.Rating = rating

	if err := validate.Struct(form); err != nil {
		return form, bookFormMessage(err)
	}
	return form, ""
}

func parseEditBookForm(r *http.Request) (editBookForm, string) {
	form := editBookForm{
		Title:  strings.TrimSpace(r.FormValue("title")),
		Author: strings.TrimSpace(r.FormValue("author")),
		Status: strings.TrimSpace(r.FormValue("status")),
		Genre:  optionalString(r.FormValue("genre")),
		Review: optionalString(r.FormValue("review")),
	}

	pageCount, err := optionalInt(r.FormValue("page_count"))
	if err != nil {
		return form, "Page count must be a whole number!"
	}
	form.PageCount = pageCount

	if err := validate.Struct(form); err != nil {
		return form, bookFormMessage(err)
	}
	return form, ""
}

func parseGoalForm(r *http.Request) (booksToRead int, goalDate time.Time, message string) {
	rawBooks := strings.TrimSpace(r.FormValue("books_to_read"))
	rawDate := strings.TrimSpace(r.FormValue("goal_date"))
	if rawBooks == "" || rawDate == "" {
		return 0, time.Time{}, "Both fields are required!"
	}

	booksToRead, err := strconv.Atoi(rawBooks)
	if err != nil {
		return 0, time.Time{}, "Books to read must be a whole number!"
	}

	goalDate, err = time.Parse(dateLayout, rawDate)
	if err != nil {
		return 0, time.Time{}, "Goal date must be a date (YYYY-MM-DD)!"
	}

	return booksToRead, goalDate, ""
}

func bookFormMessage(err error) string {
	if hasFailedField(err, "Rating") {
		return "Rating must be between 0 and 5!"
	}
	if hasFailedTag(err, "oneof") {
		return "Invalid status!"
	}
	return "Title, Author, and Status are required!"
}

func hasFailedTag(err error, tag string) bool {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return false
	}
	for _, fieldErr := range fieldErrs {
		if fieldErr.Tag() == tag {
			return true
		}
	}
	return false
}

func hasFailedField(err error, field string) bool {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return false
	}
	for _, fieldErr := range fieldErrs {
		if fieldErr.Field() == field {
			return true
		}
	}
	return false
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func optionalInt(value string) (*int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func optionalFloat(value string) (*float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func optionalDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
