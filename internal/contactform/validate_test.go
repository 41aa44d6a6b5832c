package contactform_test

import (
	"testing"

	"portfolio-backend/internal/contactform"
	"portfolio-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	valid := domain.FormData{Name: "Ann", Email: "ann@test.com", Message: "Hello"}

	t.Run("Should accept a complete form", func(t *testing.T) {
		assert.False(t, contactform.Validate(valid).Any())
	})

	t.Run("Should flag exactly the blank field", func(t *testing.T) {
		for _, field := range domain.Fields {
			for _, blank := range []string{"", "   ", "\t\n"} {
				data, err := valid.With(field, blank)
				assert.NoError(t, err)

				flags := contactform.Validate(data)
				assert.Equal(t, []domain.Field{field}, flags.Flagged(), "field %q value %q", field, blank)
			}
		}
	})

	t.Run("Should flag malformed emails", func(t *testing.T) {
		for _, email := range []string{"ann", "ann.test.com", "ann@test", "ann@", "@test.com", "a b@c.d", "ann@te st.com",
			"a\u00a0b@c.d", "a@b\u2003c.d", "a@b.c\u3000", "a\vb@c.d", "\ufeffa@b.c", "a@b\u2028.c",
		} {
			data := valid
			data.Email = email
			assert.Equal(t, domain.ValidationErrors{Email: true}, contactform.Validate(data), email)
		}
	})

	t.Run("Should accept the shortest well formed email", func(t *testing.T) {
		data := valid
		data.Email = "a@b.c"
		assert.False(t, contactform.Validate(data).Email)
	})

	t.Run("Should flag a missing name only", func(t *testing.T) {
		flags := contactform.Validate(domain.FormData{Name: "", Email: "x@y.com", Message: "hi"})
		assert.Equal(t, domain.ValidationErrors{Name: true}, flags)
	})

	t.Run("Should flag every field of an empty form", func(t *testing.T) {
		flags := contactform.Validate(domain.FormData{})
		assert.Equal(t, domain.ValidationErrors{Name: true, Email: true, Message: true}, flags)
	})

	t.Run("Should not mutate its input and be deterministic", func(t *testing.T) {
		data := domain.FormData{Name: " Ann ", Email: "bad", Message: " hi "}
		copied := data

		first := contactform.Validate(data)
		second := contactform.Validate(data)

		assert.Equal(t, copied, data)
		assert.Equal(t, first, second)
	})
}
