package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "bistro/internal/errors"
)

type sample struct {
	Title            string `json:"title" validate:"required,min=3"`
	ShortDescription string `form:"shortDescription" validate:"required"`
	Email            string `json:"email,omitempty" validate:"omitempty,email"`
	Type             string `json:"type" validate:"oneof=breakfast lunch dinner"`
}

func TestStruct(t *testing.T) {
	v := New()

	err := Struct(v, &sample{Title: "ab", Email: "nope", Type: "brunch"})
	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr))

	byField := map[string]string{}
	for _, f := range verr.Fields {
		byField[f.Field] = f.Msg
	}
	assert.Equal(t, "Title must be at least 3 characters", byField["title"])
	assert.Equal(t, "Short description is required", byField["shortDescription"])
	assert.Equal(t, "Please include a valid email", byField["email"])
	assert.Equal(t, "Type must be one of: breakfast, lunch, dinner", byField["type"])

	assert.NoError(t, Struct(v, &sample{Title: "Soup", ShortDescription: "hot", Type: "lunch"}))
}

func TestTranslate_PassesThroughOtherErrors(t *testing.T) {
	plain := errors.New("boom")
	assert.Equal(t, plain, Translate(plain))
}
