package validation

import (
	"testing"

	apperrors "coaching-workers/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
  "type": "object",
  "required": ["candidateId", "state"],
  "properties": {
    "candidateId": {"type": "string", "minLength": 1},
    "state": {"type": "string", "enum": ["todo", "done"]}
  }
}`

func TestSchema_Check(t *testing.T) {
	s := MustCompile("test", testSchema)

	tests := []struct {
		name      string
		doc       string
		wantValid bool
		wantField string
	}{
		{"valid", `{"candidateId":"c1","state":"todo"}`, true, ""},
		{"missing field", `{"state":"todo"}`, false, "(root)"},
		{"bad enum", `{"candidateId":"c1","state":"paused"}`, false, "state"},
		{"malformed", `{"candidateId":`, false, "(root)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.Check([]byte(tt.doc))
			assert.Equal(t, tt.wantValid, res.Valid)
			if !tt.wantValid {
				require.NotEmpty(t, res.Errors)
				assert.Equal(t, tt.wantField, res.Errors[0].Field)
			}
		})
	}
}

func TestSchema_ValidateReturnsValidationError(t *testing.T) {
	s := MustCompile("test", testSchema)

	err := s.Validate([]byte(`{"candidateId":""}`))
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	assert.NoError(t, s.Validate([]byte(`{"candidateId":"c1","state":"done"}`)))
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile("broken", `{"type": "nonsense"}`)
	assert.Error(t, err)
}
