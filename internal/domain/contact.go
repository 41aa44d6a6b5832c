package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnknownField         = errors.New("unknown contact form field")
	ErrGatewayNotConfigured = errors.New("email service is not configured")
	ErrInvalidForm          = errors.New("contact form has invalid fields")
)

// Field names a single contact form input
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldMessage Field = "message"
)

// Fields lists every contact form field in display order
var Fields = []Field{FieldName, FieldEmail, FieldMessage}

// ParseField converts a raw field name into a Field
func ParseField(raw string) (Field, error) {
	switch Field(raw) {
	case FieldName, FieldEmail, FieldMessage:
		return Field(raw), nil
	}
	return "", ErrUnknownField
}

// FormData represents a contact form submission
type FormData struct {
	Name    string `json:"name" validate:"not_blank"`
	Email   string `json:"email" validate:"required,contact_email"`
	Message string `json:"message" validate:"not_blank"`
}

// With returns a copy of the form with a single field replaced
func (f FormData) With(field Field, value string) (FormData, error) {
	switch field {
	case FieldName:
		f.Name = value
	case FieldEmail:
		f.Email = value
	case FieldMessage:
		f.Message = value
	default:
		return f, ErrUnknownField
	}
	return f, nil
}

// Value returns the current value of a field
func (f FormData) Value(field Field) string {
	switch field {
	case FieldName:
		return f.Name
	case FieldEmail:
		return f.Email
	case FieldMessage:
		return f.Message
	}
	return ""
}

// IsEmpty reports whether every field is blank
func (f FormData) IsEmpty() bool {
	return f == FormData{}
}

// ValidationErrors flags which fields failed validation
type ValidationErrors struct {
	Name    bool `json:"name"`
	Email   bool `json:"email"`
	Message bool `json:"message"`
}

// Any reports whether at least one field is flagged
func (v ValidationErrors) Any() bool {
	return v.Name || v.Email || v.Message
}

// Has reports whether the given field is flagged
func (v ValidationErrors) Has(field Field) bool {
	switch field {
	case FieldName:
		return v.Name
	case FieldEmail:
		return v.Email
	case FieldMessage:
		return v.Message
	}
	return false
}

// Flagged returns the flagged fields in display order
func (v ValidationErrors) Flagged() []Field {
	var fields []Field
	for _, f := range Fields {
		if v.Has(f) {
			fields = append(fields, f)
		}
	}
	return fields
}

// SubmissionStatus is the lifecycle state of a contact form
type SubmissionStatus int

const (
	StatusIdle SubmissionStatus = iota
	StatusSubmitting
	StatusSucceeded
	StatusFailed
)

func (s SubmissionStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSubmitting:
		return "submitting"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

func (s SubmissionStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *SubmissionStatus) UnmarshalText(text []byte) error {
	for _, candidate := range []SubmissionStatus{StatusIdle, StatusSubmitting, StatusSucceeded, StatusFailed} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown submission status %q", text)
}

// SubmissionGateway delivers a validated contact form to an email provider.
// Any non-nil error is treated as a failed delivery.
type SubmissionGateway interface {
	Send(ctx context.Context, payload FormData) error
}

// SubmissionChannel identifies which API surface produced a submission
type SubmissionChannel string

const (
	ChannelDirect  SubmissionChannel = "direct"
	ChannelSession SubmissionChannel = "session"
)

// SubmissionRecord is an archived gateway attempt
type SubmissionRecord struct {
	ID        string            `json:"id"`
	Channel   SubmissionChannel `json:"channel"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Message   string            `json:"message"`
	Succeeded bool              `json:"succeeded"`
	Error     string            `json:"error,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// SubmissionRepository persists gateway attempts
type SubmissionRepository interface {
	Create(ctx context.Context, record *SubmissionRecord) error
}

// ContactUsecase defines the stateless contact form operation
type ContactUsecase interface {
	// SendContactMessage validates and sends a contact form message in one shot.
	// Returns the validation flags when the form is rejected.
	SendContactMessage(ctx context.Context, req FormData) (ValidationErrors, error)
}
