package validate

import (
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequired(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid title", "Stock low", false},
		{"valid with spaces", "new order", false},
		{"empty string", "", true},
		{"only spaces", "   ", true},
		{"only tabs", "\t\t", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Required(tt.input)
			assert.Equal(t, tt.wantErr, err != nil, "Required(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		})
	}
}

type color string

func TestOneOf(t *testing.T) {
	check := OneOf[color]("red", "green")

	assert.NoError(t, check("red"))

	err := check("blue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "red, green")
}

func TestFieldHelpers(t *testing.T) {
	err := criterio.ValidateStruct(
		RequiredField("title", ""),
		OneOfField[color]("type", "blue", "red"),
	)

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 2)
	assert.Equal(t, "title", fieldErrs[0].Field)
	assert.Equal(t, "type", fieldErrs[1].Field)
}
