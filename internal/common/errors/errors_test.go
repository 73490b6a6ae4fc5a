package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRetryCount(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeDirectoryUnavailable, 3},
		{ErrCodeDirectoryQueryFailed, 3},
		{ErrCodeCacheUnavailable, 2},
		{ErrCodeQueryProcessingFailed, 2},
		{ErrCodeQueryInputInvalid, 0},
		{ErrCodePersonNotSpecified, 0},
		{ErrCodeInternal, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, GetRetryCount(tt.code))
			assert.Equal(t, tt.want > 0, IsRetryableErrorCode(tt.code))
		})
	}
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "INPUT", GetErrorCategory(ErrCodeQueryInputInvalid))
	assert.Equal(t, "INPUT", GetErrorCategory(ErrCodeQueryMeaningless))
	assert.Equal(t, "DISAMBIGUATION", GetErrorCategory(ErrCodePersonNotFound))
	assert.Equal(t, "DISAMBIGUATION", GetErrorCategory(ErrCodeProjectNotSpecified))
	assert.Equal(t, "DIRECTORY", GetErrorCategory(ErrCodeDirectoryQueryFailed))
	assert.Equal(t, "CACHE", GetErrorCategory(ErrCodeCacheUnavailable))
	assert.Equal(t, "INTERNAL", GetErrorCategory(ErrCodeQueryProcessingFailed))
	assert.Equal(t, "OTHER", GetErrorCategory("SOMETHING_ELSE"))
}

func TestConvertToBPMNError(t *testing.T) {
	stdErr := NewDirectoryQueryFailedError("ListTasks", fmt.Errorf("connection reset"))

	bpmnErr := ConvertToBPMNError(stdErr)

	assert.Equal(t, "DIRECTORY_QUERY_FAILED", bpmnErr.Code)
	assert.True(t, bpmnErr.Retryable)
	assert.Equal(t, 3, bpmnErr.Retries)
	assert.Contains(t, bpmnErr.Details, "operation: ListTasks")

	vars := bpmnErr.ToErrorVariables()
	assert.Equal(t, "DIRECTORY_QUERY_FAILED", vars["errorCode"])
	assert.Equal(t, "DIRECTORY_QUERY_FAILED", vars["originalErrorCode"])
	assert.NotEmpty(t, vars["timestamp"])
}

func TestConvertToBPMNError_NonRetryableHasNoRetries(t *testing.T) {
	bpmnErr := ConvertToBPMNError(NewQueryInputInvalidError("prompt is required"))

	assert.Equal(t, "QUERY_INPUT_INVALID", bpmnErr.Code)
	assert.False(t, bpmnErr.Retryable)
	assert.Zero(t, bpmnErr.Retries)
}

func TestConvertToBPMNError_UnmappedCodeFallsBack(t *testing.T) {
	bpmnErr := ConvertToBPMNError(&StandardError{Code: "CUSTOM_CODE", Message: "custom"})
	assert.Equal(t, "CUSTOM_CODE", bpmnErr.Code)
}

func TestAsStandardError_Unwraps(t *testing.T) {
	wrapped := fmt.Errorf("dispatch: %w", NewPersonNotSpecifiedError())

	stdErr, ok := AsStandardError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodePersonNotSpecified, stdErr.Code)
	assert.Contains(t, stdErr.Message, "person")

	_, ok = AsStandardError(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestNewPersonNotFoundError_Details(t *testing.T) {
	assert.Equal(t, "unrecognized: Zed, Quinn", NewPersonNotFoundError([]string{"Zed", "Quinn"}).Details)
	assert.Equal(t, "no known person matched the query", NewPersonNotFoundError(nil).Details)

	withMeta := NewProjectNotSpecifiedError().WithMetadata("intent", "assess_risk")
	assert.Equal(t, "assess_risk", withMeta.Metadata["intent"])
}

func TestNormalizeError(t *testing.T) {
	t.Run("keeps wrapped standard errors", func(t *testing.T) {
		orig := NewDirectoryQueryFailedError("list_tasks", fmt.Errorf("timeout"))
		got := normalizeError(fmt.Errorf("dispatch: %w", orig))
		assert.Same(t, orig, got)
	})

	t.Run("plain errors become internal", func(t *testing.T) {
		got := normalizeError(fmt.Errorf("boom"))
		assert.Equal(t, ErrCodeInternal, got.Code)
		assert.Equal(t, "boom", got.Details)
		assert.False(t, got.Retryable)
		assert.Equal(t, 0, ConvertToBPMNError(got).Retries)
	})
}
