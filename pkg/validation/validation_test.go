package validation

import (
	"testing"

	"github.com/fathoor/library-service/pkg/errs"
	"github.com/stretchr/testify/assert"
)

type samplePayload struct {
	Name     string `json:"name" validate:"required,max=10"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func TestValidateStruct(t *testing.T) {
	type TestCase struct {
		Name            string
		Payload         samplePayload
		ExpectedMessage string
	}

	testCases := []TestCase{
		{
			Name:    "Valid payload",
			Payload: samplePayload{Name: "Alice", Email: "alice@example.com", Password: "secret1"},
		},
		{
			Name:            "Missing field reported by json name",
			Payload:         samplePayload{Email: "alice@example.com", Password: "secret1"},
			ExpectedMessage: "The name field is required",
		},
		{
			Name:            "Bad email",
			Payload:         samplePayload{Name: "Alice", Email: "nope", Password: "secret1"},
			ExpectedMessage: "The email field must be a valid email address",
		},
		{
			Name:            "Too short",
			Payload:         samplePayload{Name: "Alice", Email: "alice@example.com", Password: "12345"},
			ExpectedMessage: "The password field must be at least 6 characters",
		},
		{
			Name:            "Too long",
			Payload:         samplePayload{Name: "A very long name", Email: "alice@example.com", Password: "secret1"},
			ExpectedMessage: "The name field may not be greater than 10 characters",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			err := ValidateStruct(tc.Payload)
			if tc.ExpectedMessage == "" {
				assert.NoError(t, err)
				return
			}

			var validationErr *errs.ValidationError
			assert.ErrorAs(t, err, &validationErr)
			assert.EqualError(t, err, tc.ExpectedMessage)
		})
	}
}
