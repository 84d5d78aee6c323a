package validation

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"assignmenttracker/internal/dates"
	"assignmenttracker/internal/models"
)

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	english := en.New()
	translator, _ = ut.New(english, english).GetTranslator("en")

	validate = validator.New()
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use human labels in messages instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})

	registerTranslation("required", "{0} is required")
}

func registerTranslation(tag, text string) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// FieldError is a problem with a single input field
type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects every field problem found in one pass
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

// Message returns the first message recorded for field, or ""
func (e *ValidationError) Message(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

func (e *ValidationError) add(field, msg string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: msg})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// collect runs the struct tags of s and records each failure under its
// lowerCamel field key.
func (e *ValidationError) collect(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, fe := range verrs {
		e.add(fieldKey(fe.StructField()), fe.Translate(translator))
	}
	return nil
}

func fieldKey(structField string) string {
	if structField == "" {
		return ""
	}
	return strings.ToLower(structField[:1]) + structField[1:]
}

// Form is the raw input of the "add assignment" form
type Form struct {
	Title       string `validate:"required" label:"Title"`
	Description string
	Subject     string `validate:"required" label:"Subject"`
	DueDate     string `validate:"required" label:"Due date"`
	StartDate   string
	Priority    string `validate:"omitempty,oneof=low medium high" label:"Priority"`
}

// ValidateForm checks the form the way the user sees it: required fields,
// a due date that isn't in the past relative to today, and a start date
// strictly before the due date. Dates are read as days in today's location.
// Nothing that fails here is ever sent to the server.
func ValidateForm(f Form, today time.Time) (models.NewAssignment, error) {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.Subject = strings.TrimSpace(f.Subject)
	f.DueDate = strings.TrimSpace(f.DueDate)
	f.StartDate = strings.TrimSpace(f.StartDate)
	f.Priority = strings.ToLower(strings.TrimSpace(f.Priority))

	verr := &ValidationError{}
	if err := verr.collect(f); err != nil {
		return models.NewAssignment{}, err
	}

	loc := today.Location()
	var due, start time.Time
	var hasDue, hasStart bool

	if f.DueDate != "" {
		d, err := time.ParseInLocation(dates.DateOnlyLayout, f.DueDate, loc)
		if err != nil {
			verr.add("dueDate", "Due date must be a date (YYYY-MM-DD)")
		} else {
			due, hasDue = d, true
			if due.Before(dates.StartOfDay(today)) {
				verr.add("dueDate", "Due date cannot be in the past")
			}
		}
	}

	if f.StartDate != "" {
		s, err := time.ParseInLocation(dates.DateOnlyLayout, f.StartDate, loc)
		if err != nil {
			verr.add("startDate", "Start date must be a date (YYYY-MM-DD)")
		} else {
			start, hasStart = s, true
			if hasDue && !start.Before(due) {
				verr.add("startDate", "Start date must be before due date")
			}
		}
	}

	if err := verr.orNil(); err != nil {
		return models.NewAssignment{}, err
	}

	n := models.NewAssignment{
		Title:       f.Title,
		Description: f.Description,
		Subject:     f.Subject,
		DueDate:     due,
		Priority:    models.Priority(f.Priority),
	}
	if n.Priority == "" {
		n.Priority = models.PriorityMedium
	}
	if hasStart {
		n.StartDate = &start
	}
	return n, nil
}

// ValidateNewAssignment enforces the store invariants on creation input.
// Text fields are trimmed in place and a missing priority defaults to medium.
func ValidateNewAssignment(n *models.NewAssignment) error {
	n.Title = strings.TrimSpace(n.Title)
	n.Subject = strings.TrimSpace(n.Subject)
	n.Description = strings.TrimSpace(n.Description)
	if n.Priority == "" {
		n.Priority = models.PriorityMedium
	}

	verr := &ValidationError{}
	if err := verr.collect(n); err != nil {
		return err
	}
	if n.StartDate != nil && !n.DueDate.IsZero() && !n.StartDate.Before(n.DueDate) {
		verr.add("startDate", "Start date must be before due date")
	}
	return verr.orNil()
}

// ValidateAssignment checks a whole assignment, typically after a patch was merged into it
func ValidateAssignment(a models.Assignment) error {
	verr := &ValidationError{}
	if strings.TrimSpace(a.Title) == "" {
		verr.add("title", "Title is required")
	}
	if strings.TrimSpace(a.Subject) == "" {
		verr.add("subject", "Subject is required")
	}
	if a.DueDate.IsZero() {
		verr.add("dueDate", "Due date is required")
	}
	if !a.Priority.Valid() {
		verr.add("priority", "Priority must be one of: low medium high")
	}
	if a.StartDate != nil && !a.StartDate.Before(a.DueDate) {
		verr.add("startDate", "Start date must be before due date")
	}
	return verr.orNil()
}

// ValidateWorkRange requires start not to be after end
func ValidateWorkRange(start, end time.Time) error {
	verr := &ValidationError{}
	if start.IsZero() {
		verr.add("startDate", "Start date is required")
	}
	if end.IsZero() {
		verr.add("endDate", "End date is required")
	}
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		verr.add("endDate", "End date cannot be before start date")
	}
	return verr.orNil()
}
