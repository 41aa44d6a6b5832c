package contactform

import (
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/validation"
)

var validate = validation.New()

// Validate flags every contact form field that is blank, and the email
// field when it is not shaped like local@domain.tld.
// It never mutates data and always recomputes every flag.
func Validate(data domain.FormData) domain.ValidationErrors {
	var flags domain.ValidationErrors
	for _, name := range validation.FailedFields(validate.Struct(data)) {
		switch domain.Field(name) {
		case domain.FieldName:
			flags.Name = true
		case domain.FieldEmail:
			flags.Email = true
		case domain.FieldMessage:
			flags.Message = true
		}
	}
	return flags
}
