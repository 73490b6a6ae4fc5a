// internal/nlq/parser.go
package nlq

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"task-query-workers/internal/common/logger"
	"task-query-workers/internal/common/observability"
	"task-query-workers/internal/models"
)

const fallbackParseConfidence = 0.3

var errEmptyQuery = errors.New("query is empty")

// ParseResult pairs the parsed query with the discovery details behind it.
type ParseResult struct {
	Query     *models.ParsedQuery
	Discovery DiscoveryResult
}

// Parser turns free text into a ParsedQuery.
type Parser struct {
	discovery *Discovery
	logger    logger.Logger
	obs       *observability.Observability
}

// NewParser builds a parser. obs may be nil.
func NewParser(discovery *Discovery, log logger.Logger, obs *observability.Observability) *Parser {
	return &Parser{
		discovery: discovery,
		logger:    log.With(map[string]interface{}{"component": "query-parser"}),
		obs:       obs,
	}
}

// Parse never fails. Errors and panics produce a low-confidence fallback.
func (p *Parser) Parse(ctx context.Context, query string) *models.ParsedQuery {
	return p.ParseDetailed(ctx, query).Query
}

func (p *Parser) ParseDetailed(ctx context.Context, query string) (result *ParseResult) {
	start := time.Now()
	ctx, span := p.obs.StartSpan(ctx, "nlq.parse")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Query parsing panicked", map[string]interface{}{
				"query": query,
				"panic": fmt.Sprint(r),
			})
			result = p.fallback(query, fmt.Errorf("%v", r), start)
		}
	}()

	parsed, discovery, err := p.parse(ctx, query)
	if err != nil {
		p.logger.Warn("Query parsing failed, using fallback", map[string]interface{}{
			"query": query,
			"error": err,
		})
		return p.fallback(query, err, start)
	}

	parsed.Metadata.ProcessingTimeMs = time.Since(start).Milliseconds()
	span.SetAttributes(
		attribute.String("query.intent", string(parsed.Intent)),
		attribute.Float64("query.confidence", parsed.Confidence),
	)
	p.logger.Debug("Query parsed", map[string]interface{}{
		"intent":     parsed.Intent,
		"confidence": parsed.Confidence,
		"people":     parsed.Entities.People,
		"projects":   parsed.Entities.Projects,
	})

	return &ParseResult{Query: parsed, Discovery: discovery}
}

func (p *Parser) parse(ctx context.Context, query string) (*models.ParsedQuery, DiscoveryResult, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, DiscoveryResult{}, errEmptyQuery
	}

	intent := Classify(trimmed)
	discovery := p.discovery.Discover(ctx, trimmed)
	conditions := ExtractConditions(trimmed)

	entities := models.ExtractedEntities{
		People:     make([]string, 0, len(discovery.People)),
		Projects:   make([]string, 0, len(discovery.Projects)),
		Conditions: conditions,
	}
	for _, m := range discovery.People {
		entities.People = append(entities.People, m.MatchedValue)
	}
	for _, m := range discovery.Projects {
		entities.Projects = append(entities.Projects, projectIdentifier(m))
	}

	filters := buildFilters(entities)
	confidence, scoring := ScoreConfidence(intent, discovery, filters, trimmed)

	reasoning := []string{fmt.Sprintf("Detected intent: %s", intent)}
	reasoning = append(reasoning, describeMatches("person", discovery.People)...)
	reasoning = append(reasoning, describeMatches("project", discovery.Projects)...)
	reasoning = append(reasoning, describeConditions(conditions)...)
	if len(entities.People) > 1 {
		reasoning = append(reasoning, fmt.Sprintf("Multiple people matched; filtering on %s only", entities.People[0]))
	}
	if len(entities.Projects) > 1 {
		reasoning = append(reasoning, fmt.Sprintf("Multiple projects matched; filtering on %s only", entities.Projects[0]))
	}
	reasoning = append(reasoning, scoring...)

	return &models.ParsedQuery{
		Intent:     intent,
		Entities:   entities,
		Filters:    filters,
		Confidence: confidence,
		Metadata: models.QueryMetadata{
			OriginalQuery: query,
			Reasoning:     reasoning,
		},
	}, discovery, nil
}

func (p *Parser) fallback(query string, err error, start time.Time) *ParseResult {
	return &ParseResult{
		Query: &models.ParsedQuery{
			Intent: models.IntentGeneralQuery,
			Entities: models.ExtractedEntities{
				People:     []string{},
				Projects:   []string{},
				Conditions: map[string]interface{}{},
			},
			Confidence: fallbackParseConfidence,
			Metadata: models.QueryMetadata{
				OriginalQuery:    query,
				ProcessingTimeMs: time.Since(start).Milliseconds(),
				Reasoning: []string{
					"Fallback query created due to parsing error",
					"Error: " + err.Error(),
					"Consider rephrasing your query",
				},
			},
		},
		Discovery: emptyDiscovery(),
	}
}

// buildFilters uses the first person and the first project only.
func buildFilters(entities models.ExtractedEntities) models.QueryFilters {
	var filters models.QueryFilters
	if len(entities.People) > 0 {
		filters.AssigneeName = entities.People[0]
	}
	if len(entities.Projects) > 0 {
		filters.ProjectID = entities.Projects[0]
	}
	if status, ok := entities.Conditions[models.ConditionStatus].(models.TaskStatus); ok {
		filters.Status = status
	}
	if overdue, ok := entities.Conditions[models.ConditionOverdue].(bool); ok {
		filters.Overdue = &overdue
	}
	return filters
}

func projectIdentifier(m models.EntityMatch) string {
	if id, ok := m.Metadata["projectId"].(string); ok && id != "" {
		return id
	}
	return m.MatchedValue
}

func describeMatches(kind string, matches []models.EntityMatch) []string {
	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		lines = append(lines, fmt.Sprintf("Found %s: %s (%s, %.2f)", kind, m.MatchedValue, m.MatchType, m.Confidence))
	}
	return lines
}

func describeConditions(conditions map[string]interface{}) []string {
	keys := make([]string, 0, len(conditions))
	for k := range conditions {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("Condition: %s = %v", k, conditions[k]))
	}
	return lines
}
