package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInput_PromptSchema(t *testing.T) {
	schema := PromptSchema(5, 500)

	tests := []struct {
		name      string
		input     map[string]interface{}
		wantValid bool
		wantCode  string
		wantField string
	}{
		{"valid", map[string]interface{}{"prompt": "show alice tasks"}, true, "", ""},
		{"exactly min", map[string]interface{}{"prompt": "hello"}, true, "", ""},
		{"too short", map[string]interface{}{"prompt": "hey"}, false, "MIN_LENGTH_VIOLATION", "prompt"},
		{"too long", map[string]interface{}{"prompt": strings.Repeat("a", 501)}, false, "MAX_LENGTH_VIOLATION", "prompt"},
		{"wrong type", map[string]interface{}{"prompt": 42}, false, "INVALID_TYPE", "prompt"},
		{"missing", map[string]interface{}{}, false, "REQUIRED_FIELD_MISSING", "prompt"},
		{"nil input", nil, false, "REQUIRED_FIELD_MISSING", "prompt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateInput(tt.input, schema)
			assert.Equal(t, tt.wantValid, result.Valid)
			if tt.wantValid {
				assert.Empty(t, result.Errors)
				return
			}
			require.NotEmpty(t, result.Errors)
			assert.Equal(t, tt.wantCode, result.Errors[0].Code)
			assert.Equal(t, tt.wantField, result.Errors[0].Field)
			assert.NotEmpty(t, result.GetErrorMessages()[0])
		})
	}
}

func TestValidateInput_RejectsExtraFields(t *testing.T) {
	result := ValidateInput(map[string]interface{}{
		"prompt": "show alice tasks",
		"debug":  true,
	}, PromptSchema(5, 500))

	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "EXTRA_FIELD", result.Errors[0].Code)
}
