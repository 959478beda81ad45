package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filledForm() *Form {
	f := NewForm()
	_ = f.UpdateField(FieldName, "Marie Curie")
	_ = f.UpdateField(FieldEmail, "marie@example.com")
	_ = f.UpdateField(FieldAddress, "12 Rue des Lilas, Paris")
	_ = f.UpdateField(FieldClientNumber, "+33 6 12 34 56 78")
	return f
}

func TestForm_Validate_AllFieldsPresent(t *testing.T) {
	require.NoError(t, filledForm().Validate())
}

func TestForm_Validate_MissingFields(t *testing.T) {
	f := NewForm()
	_ = f.UpdateField(FieldName, "Marie Curie")

	err := f.Validate()
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.ElementsMatch(t, []Field{FieldEmail, FieldAddress, FieldClientNumber}, vErr.Missing)
}

func TestForm_Validate_WhitespaceOnlyIsMissing(t *testing.T) {
	f := filledForm()
	_ = f.UpdateField(FieldEmail, "   ")

	err := f.Validate()
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []Field{FieldEmail}, vErr.Missing)
}

func TestForm_UpdateField_Unknown(t *testing.T) {
	err := NewForm().UpdateField("couponCode", "SAVE10")

	var ufErr *UnknownFieldError
	require.ErrorAs(t, err, &ufErr)
	assert.Equal(t, Field("couponCode"), ufErr.Field)
}

func TestForm_DismissClearsEnteredData(t *testing.T) {
	f := filledForm()
	f.Open()
	require.True(t, f.Visible())

	f.Dismiss()

	assert.False(t, f.Visible())
	assert.Equal(t, BuyerInfo{}, f.Info())
}

func TestForm_DataRetainedWhileOpen(t *testing.T) {
	f := filledForm()
	f.Open()

	// A failed attempt leaves the form open with entered data intact.
	assert.Equal(t, "Marie Curie", f.Info().Name)
	assert.True(t, f.Visible())
}
