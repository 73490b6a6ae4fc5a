package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-query-workers/internal/common/logger"
)

func TestObservability_ZeroValueIsSafe(t *testing.T) {
	var o *Observability
	ctx, span := o.StartSpan(context.Background(), "parse")
	require.NotNil(t, span)
	span.End()

	o.RecordQueryProcessed(ctx, "query_tasks", "success")
	o.RecordQueryDuration(ctx, time.Millisecond, "query_tasks")
	o.Shutdown(ctx)

	empty := &Observability{}
	_, span = empty.StartSpan(context.Background(), "dispatch")
	assert.False(t, span.SpanContext().IsValid())
	span.End()
}

func TestObservability_RecordsSpans(t *testing.T) {
	o := New("task-query-test", logger.NewTestLogger(t))
	defer o.Shutdown(context.Background())

	ctx, span := o.StartSpan(context.Background(), "parse")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	o.RecordQueryProcessed(ctx, "assess_risk", "success")
	o.RecordQueryDuration(ctx, 12*time.Millisecond, "assess_risk")
}
