package errors

import (
	"reflect"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("test_field", "test message", "test_value")

	assert.Equal(t, "test_field", err.Field)
	assert.Equal(t, "test message", err.Message)
	assert.Equal(t, "test_value", err.Value)
	assert.Equal(t, "validation error on field 'test_field': test message", err.Error())
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	assert.Equal(t, "validation failed", errs.Error())

	errs = append(errs, *NewValidationError("field1", "message1", nil))
	assert.Equal(t, "validation failed: field1 message1", errs.Error())

	errs = append(errs, *NewValidationError("field2", "message2", nil))
	assert.Equal(t, "validation failed: 2 field errors", errs.Error())
}

func TestNewValidationErrorWithRule(t *testing.T) {
	err := NewValidationErrorWithRule("test_field", "test message", "required", "test_value")

	assert.Equal(t, "required", err.Rule)
	assert.Equal(t, "test_field", err.Field)
}

type nestedItem struct {
	Marks float64 `json:"marks" validate:"gt=0"`
}

type nestedRequest struct {
	Title string       `json:"title" validate:"required"`
	Items []nestedItem `json:"items" validate:"required,min=1,dive"`
}

func TestToValidationErrors_UsesJSONPaths(t *testing.T) {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})

	err := v.Struct(nestedRequest{Items: []nestedItem{{Marks: 0}}})
	require.Error(t, err)

	errs := ToValidationErrors(err)
	require.Len(t, errs, 2)

	byField := map[string]ValidationError{}
	for _, e := range errs {
		byField[e.Field] = e
	}
	assert.Equal(t, "is required", byField["title"].Message)
	assert.Equal(t, "must be greater than 0", byField["items[0].marks"].Message)
	assert.Equal(t, "gt", byField["items[0].marks"].Rule)
}

func TestToValidationErrors_IgnoresOtherErrors(t *testing.T) {
	assert.Empty(t, ToValidationErrors(assert.AnError))
}
