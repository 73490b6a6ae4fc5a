// internal/workers/ai-conversation/process-task-query/handler.go
package processtaskquery

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "task-query-workers/internal/common/errors"
	"task-query-workers/internal/common/logger"
	"task-query-workers/internal/common/metrics"
	"task-query-workers/internal/common/validation"
	"task-query-workers/internal/processor"
)

const (
	TaskType = "process-task-query"
)

// QueryProcessor is the part of processor.Processor the worker drives.
type QueryProcessor interface {
	Process(ctx context.Context, query string) *processor.QueryResponse
}

type Handler struct {
	config       *Config
	processor    QueryProcessor
	errorHandler *apperrors.ErrorHandler
	schema       validation.JSONSchema
	logger       logger.Logger
}

func NewHandler(config *Config, proc QueryProcessor, log logger.Logger) *Handler {
	log = log.With(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		processor:    proc,
		errorHandler: apperrors.NewErrorHandler(log),
		schema:       validation.PromptSchema(config.MinPromptLength, config.MaxPromptLength),
		logger:       log,
	}
}

// Handle completes the job with the query response. Unsuccessful responses
// are business results and complete the job too; only malformed input or a
// failed completion reaches the error handler.
func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := h.parseInput(job.Variables)
	if err != nil {
		h.fail(ctx, client, job, err)
		return err
	}

	output := h.execute(ctx, input)

	if err := h.completeJob(ctx, client, job, output); err != nil {
		h.fail(ctx, client, job, err)
		return err
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	return nil
}

// parseInput reads the prompt out of the process variables and checks it
// against the tool schema. Other process variables are ignored.
func (h *Handler) parseInput(variables string) (*Input, error) {
	var vars map[string]interface{}
	if err := json.Unmarshal([]byte(variables), &vars); err != nil {
		return nil, apperrors.NewQueryInputInvalidError(fmt.Sprintf("parse variables: %v", err))
	}

	candidate := map[string]interface{}{}
	if prompt, ok := vars[validation.PromptField]; ok {
		candidate[validation.PromptField] = prompt
	}

	result := validation.ValidateInput(candidate, h.schema)
	if !result.Valid {
		return nil, apperrors.NewQueryInputInvalidError(strings.Join(result.GetErrorMessages(), "; "))
	}

	prompt, _ := candidate[validation.PromptField].(string)
	return &Input{Prompt: prompt}, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) *Output {
	resp := h.processor.Process(ctx, input.Prompt)

	h.logger.Info("query processed", map[string]interface{}{
		"intent":     resp.Analysis.IntentRecognized,
		"confidence": resp.Analysis.ConfidenceScore,
		"success":    resp.Success,
	})

	return &Output{QueryResponse: resp}
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		return apperrors.NewWorkflowEngineError("complete_job", err, false)
	}
	if _, err := cmd.Send(ctx); err != nil {
		return apperrors.NewWorkflowEngineError("complete_job", err, true)
	}
	return nil
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	code := string(apperrors.ErrCodeInternal)
	if stdErr, ok := apperrors.AsStandardError(err); ok {
		code = string(stdErr.Code)
	}
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, code).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, err)
}
