package validation_test

import (
	"testing"

	"portfolio-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
)

type contactFixture struct {
	Name  string `json:"name" validate:"not_blank"`
	Email string `json:"email" validate:"required,contact_email"`
	Skip  string `json:"-" validate:"required"`
	Plain string `validate:"not_blank"`
}

func TestContactEmailRule(t *testing.T) {
	v := validation.New()

	cases := map[string]bool{
		"a@b.c":              true,
		"ann@test.com":       true,
		"first.last@sub.x.y": true,
		"no-at-sign.com":     false,
		"ann@localhost":      false,
		"ann@@test.com":      false,
		"ann smith@test.com": false,
		"@test.com":          false,
		"ann@.":              false,
		" ann@test.com":      false,
	}

	for email, valid := range cases {
		err := v.Var(email, "contact_email")
		if valid {
			assert.NoError(t, err, email)
		} else {
			assert.Error(t, err, email)
		}
	}
}

func TestFailedFields(t *testing.T) {
	v := validation.New()

	t.Run("Should report json names of rejected fields", func(t *testing.T) {
		err := v.Struct(contactFixture{Name: "   ", Email: "bad", Skip: "x", Plain: ""})
		assert.ElementsMatch(t, []string{"name", "email", "Plain"}, validation.FailedFields(err))
	})

	t.Run("Should return nil for a valid struct", func(t *testing.T) {
		err := v.Struct(contactFixture{Name: "Ann", Email: "ann@test.com", Skip: "x", Plain: "p"})
		assert.Nil(t, validation.FailedFields(err))
	})
}

func TestFormatValidationErrors(t *testing.T) {
	v := validation.New()

	err := v.Struct(contactFixture{Name: "", Email: "nope", Skip: "x", Plain: "p"})
	messages := validation.FormatValidationErrors(err)

	assert.Contains(t, messages, "Your Name: This field is required")
	assert.Contains(t, messages, "Email Address: Invalid email format")
}

func TestIsBlank(t *testing.T) {
	assert.True(t, validation.IsBlank(""))
	assert.True(t, validation.IsBlank(" \t\n"))
	assert.False(t, validation.IsBlank(" x "))
}
