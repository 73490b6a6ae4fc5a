// internal/processor/processor.go
package processor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"task-query-workers/internal/common/config"
	apperrors "task-query-workers/internal/common/errors"
	"task-query-workers/internal/common/logger"
	"task-query-workers/internal/common/metrics"
	"task-query-workers/internal/common/observability"
	"task-query-workers/internal/directory"
	"task-query-workers/internal/models"
	"task-query-workers/internal/nlq"
)

const (
	minExecutableConfidence = 0.3
	gatePenalty             = 0.3
	personFoundConfidence   = 0.5

	defaultRedistributionThreshold = 10
	defaultKnownPeopleSampleSize   = 5
)

var rephraseRecommendations = []string{
	"Rephrase your question using a person's name or a project title",
	`For example: "Show Alice's overdue tasks" or "Assess risk for project Apollo"`,
}

var retryRecommendations = []string{
	"Try the query again in a moment",
	"If the problem persists, simplify the query or contact support",
}

// Options tunes response synthesis.
type Options struct {
	RedistributionThreshold int
	KnownPeopleSampleSize   int
	IncludeDebugInfo        bool
	Timeout                 time.Duration
}

func OptionsFromConfig(q config.QueryConfig) Options {
	return Options{
		RedistributionThreshold: q.RedistributionThreshold,
		KnownPeopleSampleSize:   q.KnownPeopleSampleSize,
		IncludeDebugInfo:        q.IncludeDebugInfo,
		Timeout:                 config.GetDuration(q.ProcessTimeout),
	}
}

// Processor executes parsed queries against the task directory.
type Processor struct {
	parser    *nlq.Parser
	directory directory.Directory
	entities  nlq.EntityProvider
	opts      Options
	logger    logger.Logger
	obs       *observability.Observability
	now       func() time.Time
}

// New builds a processor. obs may be nil.
func New(parser *nlq.Parser, dir directory.Directory, entities nlq.EntityProvider, opts Options, log logger.Logger, obs *observability.Observability) *Processor {
	if opts.RedistributionThreshold <= 0 {
		opts.RedistributionThreshold = defaultRedistributionThreshold
	}
	if opts.KnownPeopleSampleSize <= 0 {
		opts.KnownPeopleSampleSize = defaultKnownPeopleSampleSize
	}
	return &Processor{
		parser:    parser,
		directory: dir,
		entities:  entities,
		opts:      opts,
		logger:    log.With(map[string]interface{}{"component": "query-processor"}),
		obs:       obs,
		now:       time.Now,
	}
}

// outcome is what a dispatch produced.
type outcome struct {
	data            []interface{}
	insights        []string
	recommendations []string
}

// Process parses and executes query. It never returns nil and never panics;
// every failure is reported as a response with Success false.
func (p *Processor) Process(ctx context.Context, query string) (resp *QueryResponse) {
	start := time.Now()
	requestID := uuid.New().String()

	if p.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.Timeout)
		defer cancel()
	}

	ctx, span := p.obs.StartSpan(ctx, "processor.process", attribute.String("request.id", requestID))
	defer span.End()

	log := p.logger.With(map[string]interface{}{"requestId": requestID})

	parsed := p.parser.ParseDetailed(ctx, query)
	resp = newResponse(query, parsed)
	if p.opts.IncludeDebugInfo {
		resp.Analysis.DebugInfo = &DebugInfo{
			RequestID:       requestID,
			UnknownEntities: parsed.Discovery.UnknownEntities,
			PeopleMatches:   parsed.Discovery.People,
			ProjectMatches:  parsed.Discovery.Projects,
		}
	}

	result := metrics.OutcomeSuccess
	defer func() {
		elapsed := time.Since(start)
		resp.Analysis.ProcessingTime = elapsed.Milliseconds()
		intent := string(resp.Analysis.IntentRecognized)

		metrics.QueryRequests.WithLabelValues(intent, result).Inc()
		metrics.QueryConfidence.Observe(resp.Analysis.ConfidenceScore)
		metrics.QueryDuration.WithLabelValues(intent).Observe(elapsed.Seconds())
		p.obs.RecordQueryProcessed(ctx, intent, result)
		p.obs.RecordQueryDuration(ctx, elapsed, intent)

		span.SetAttributes(
			attribute.String("query.intent", intent),
			attribute.String("query.outcome", result),
			attribute.Bool("query.success", resp.Success),
		)
		log.Info("query processed", map[string]interface{}{
			"intent":     intent,
			"confidence": resp.Analysis.ConfidenceScore,
			"success":    resp.Success,
			"outcome":    result,
			"durationMs": resp.Analysis.ProcessingTime,
		})
	}()

	defer func() {
		if r := recover(); r != nil {
			log.Error("query processing panicked", map[string]interface{}{"panic": fmt.Sprint(r)})
			span.SetStatus(codes.Error, "panic")
			result = metrics.OutcomeFailed
			p.fail(resp, apperrors.NewQueryProcessingFailedError(fmt.Errorf("%v", r)), retryRecommendations)
		}
	}()

	pq := parsed.Query
	if pq.Confidence < minExecutableConfidence || IsMeaningless(query) {
		result = metrics.OutcomeRejected
		p.reject(ctx, resp, pq)
		return resp
	}

	out, err := p.dispatch(ctx, pq, parsed.Discovery)
	if err != nil {
		stdErr, ok := apperrors.AsStandardError(err)
		if !ok {
			stdErr = apperrors.NewQueryProcessingFailedError(err)
		}
		recs := retryRecommendations
		if !stdErr.Retryable {
			result = metrics.OutcomeRejected
			recs = p.withKnownPeople(ctx, rephraseRecommendations)
		} else {
			result = metrics.OutcomeFailed
			span.SetStatus(codes.Error, stdErr.Message)
		}
		log.Warn("query dispatch failed", map[string]interface{}{
			"errorCode": stdErr.Code,
			"error":     err,
		})
		p.fail(resp, stdErr, recs)
		return resp
	}

	if pq.Confidence < personFoundConfidence && len(pq.Entities.People) == 0 {
		result = metrics.OutcomeRejected
		stdErr := apperrors.NewPersonNotFoundError(parsed.Discovery.UnknownEntities)
		p.fail(resp, stdErr, p.withKnownPeople(ctx, []string{
			"Check the spelling of the person's name",
			"Use the person's full name as it appears in the task tracker",
		}))
		return resp
	}

	resp.Success = true
	resp.Data = out.data
	resp.Insights = out.insights
	resp.Recommendations = out.recommendations
	return resp
}

func newResponse(query string, parsed *nlq.ParseResult) *QueryResponse {
	pq := parsed.Query
	resp := &QueryResponse{
		Query:           query,
		Data:            []interface{}{},
		Insights:        []string{},
		Recommendations: []string{},
		Analysis: Analysis{
			IntentRecognized: pq.Intent,
			ConfidenceScore:  pq.Confidence,
			EntitiesFound:    pq.Entities,
			FiltersApplied:   pq.Filters,
			Reasoning:        pq.Metadata.Reasoning,
		},
	}
	if len(parsed.Discovery.Suggestions) > 0 {
		resp.Suggestions = parsed.Discovery.Suggestions
	}
	return resp
}

// reject answers a query the gate refused without touching the directory.
// A missing required entity is reported as such; anything else is treated
// as not understood.
func (p *Processor) reject(ctx context.Context, resp *QueryResponse, pq *models.ParsedQuery) {
	var stdErr *apperrors.StandardError
	switch {
	case pq.Intent == models.IntentAnalyzeWorkload && pq.Filters.AssigneeName == "":
		stdErr = apperrors.NewPersonNotSpecifiedError()
	case pq.Intent == models.IntentAssessRisk && pq.Filters.ProjectID == "":
		stdErr = apperrors.NewProjectNotSpecifiedError()
	default:
		stdErr = apperrors.NewQueryMeaninglessError(resp.Query)
	}

	p.fail(resp, stdErr, p.withKnownPeople(ctx, rephraseRecommendations))
	resp.Analysis.ConfidenceScore = math.Max(0, math.Round((pq.Confidence-gatePenalty)*100)/100)
}

func (p *Processor) fail(resp *QueryResponse, stdErr *apperrors.StandardError, recommendations []string) {
	resp.Success = false
	resp.Data = []interface{}{}
	resp.Insights = []string{}
	resp.Error = stdErr.Message
	if stdErr.Details != "" && stdErr.Retryable {
		resp.Error = stdErr.Message + ": " + stdErr.Details
	}
	resp.ErrorCode = string(stdErr.Code)
	resp.Recommendations = append([]string{}, recommendations...)
}

func (p *Processor) withKnownPeople(ctx context.Context, recs []string) []string {
	out := append([]string{}, recs...)
	if p.entities == nil {
		return out
	}
	people := p.entities.People(ctx)
	if len(people) == 0 {
		return out
	}
	if len(people) > p.opts.KnownPeopleSampleSize {
		people = people[:p.opts.KnownPeopleSampleSize]
	}
	return append(out, "Known people include: "+strings.Join(people, ", "))
}

func (p *Processor) dispatch(ctx context.Context, pq *models.ParsedQuery, discovery nlq.DiscoveryResult) (*outcome, error) {
	ctx, span := p.obs.StartSpan(ctx, "processor.dispatch", attribute.String("query.intent", string(pq.Intent)))
	defer span.End()

	switch pq.Intent {
	case models.IntentQueryTasks:
		return p.listTasks(ctx, pq.Filters.ToTaskFilters())

	case models.IntentAnalyzeWorkload:
		if pq.Filters.AssigneeName == "" {
			return nil, apperrors.NewPersonNotSpecifiedError()
		}
		record, err := p.directory.GetWorkloadAnalysis(ctx, pq.Filters.AssigneeName)
		if err != nil {
			return nil, directoryError("get_workload_analysis", err)
		}
		return &outcome{
			data:            []interface{}{record},
			insights:        workloadInsights(record),
			recommendations: workloadRecommendations(record),
		}, nil

	case models.IntentAssessRisk:
		if pq.Filters.ProjectID == "" {
			return nil, apperrors.NewProjectNotSpecifiedError()
		}
		record, err := p.directory.GetRiskAssessment(ctx, pq.Filters.ProjectID)
		if errors.Is(err, directory.ErrProjectNotFound) {
			return nil, apperrors.NewProjectNotSpecifiedError().WithMetadata("projectId", pq.Filters.ProjectID)
		}
		if err != nil {
			return nil, directoryError("get_risk_assessment", err)
		}
		return &outcome{
			data:            []interface{}{record},
			insights:        riskInsights(record),
			recommendations: riskRecommendations(record),
		}, nil

	default:
		return p.listTasks(ctx, generalFilters(pq.Filters, discovery))
	}
}

// directoryError keeps an error the directory already classified and wraps
// anything else as a query failure.
func directoryError(operation string, err error) error {
	if stdErr, ok := apperrors.AsStandardError(err); ok {
		return stdErr
	}
	return apperrors.NewDirectoryQueryFailedError(operation, err)
}

// generalFilters scopes a catch-all query to the discovered person, else the
// discovered project, else nothing.
func generalFilters(f models.QueryFilters, discovery nlq.DiscoveryResult) models.TaskFilters {
	switch {
	case len(discovery.People) > 0:
		return models.TaskFilters{AssigneeName: f.AssigneeName, Status: f.Status, Overdue: f.Overdue}
	case len(discovery.Projects) > 0:
		return models.TaskFilters{ProjectID: f.ProjectID, Status: f.Status, Overdue: f.Overdue}
	default:
		return models.TaskFilters{}
	}
}

func (p *Processor) listTasks(ctx context.Context, filters models.TaskFilters) (*outcome, error) {
	tasks, err := p.directory.ListTasks(ctx, filters)
	if err != nil {
		return nil, directoryError("list_tasks", err)
	}

	now := p.now()
	data := make([]interface{}, 0, len(tasks))
	for _, t := range tasks {
		data = append(data, t)
	}
	return &outcome{
		data:            data,
		insights:        taskInsights(tasks, filters, now),
		recommendations: taskRecommendations(tasks, filters, now, p.opts.RedistributionThreshold),
	}, nil
}
