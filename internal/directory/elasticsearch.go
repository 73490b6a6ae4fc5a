// internal/directory/elasticsearch.go
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	apperrors "task-query-workers/internal/common/errors"
	"task-query-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
)

// SearchDirectory reads tasks and projects from Elasticsearch indices whose
// documents use snake_case field names.
type SearchDirectory struct {
	client        *elasticsearch.Client
	tasksIndex    string
	projectsIndex string
	maxResults    int
	now           func() time.Time
}

func NewSearchDirectory(client *elasticsearch.Client, tasksIndex, projectsIndex string, maxResults int) *SearchDirectory {
	if maxResults <= 0 {
		maxResults = 500
	}
	return &SearchDirectory{
		client:        client,
		tasksIndex:    tasksIndex,
		projectsIndex: projectsIndex,
		maxResults:    maxResults,
		now:           time.Now,
	}
}

type taskDocument struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	AssigneeName string     `json:"assignee_name"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	DueDate      *time.Time `json:"due_date"`
	ProjectID    string     `json:"project_id"`
}

func (d taskDocument) toTask() models.Task {
	return models.Task{
		ID:           d.ID,
		Title:        d.Title,
		AssigneeName: d.AssigneeName,
		Status:       models.TaskStatus(d.Status),
		Priority:     d.Priority,
		DueDate:      d.DueDate,
		ProjectID:    d.ProjectID,
	}
}

type projectDocument struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

type searchHit struct {
	Source json.RawMessage `json:"_source"`
	Sort   []interface{}   `json:"sort"`
}

type searchResponse struct {
	Hits struct {
		Hits []searchHit `json:"hits"`
	} `json:"hits"`
	Aggregations struct {
		Assignees struct {
			AfterKey map[string]interface{} `json:"after_key"`
			Buckets  []struct {
				Key map[string]interface{} `json:"key"`
			} `json:"buckets"`
		} `json:"assignees"`
	} `json:"aggregations"`
}

func (r *searchResponse) sources() []json.RawMessage {
	out := make([]json.RawMessage, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		out = append(out, hit.Source)
	}
	return out
}

func term(field string, value interface{}) map[string]interface{} {
	return map[string]interface{}{"term": map[string]interface{}{field: value}}
}

// buildTaskQuery mirrors the SQL filters as a bool query.
func buildTaskQuery(filters models.TaskFilters) map[string]interface{} {
	filter := []interface{}{}
	mustNot := []interface{}{}

	if filters.AssigneeName != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{
				"assignee_name": map[string]interface{}{
					"value":            filters.AssigneeName,
					"case_insensitive": true,
				},
			},
		})
	}
	if filters.Status != "" {
		filter = append(filter, term("status", string(filters.Status)))
	}
	if filters.ProjectID != "" {
		filter = append(filter, term("project_id", filters.ProjectID))
	}

	overdue := map[string]interface{}{
		"bool": map[string]interface{}{
			"filter":   []interface{}{map[string]interface{}{"range": map[string]interface{}{"due_date": map[string]interface{}{"lt": "now"}}}},
			"must_not": []interface{}{term("status", string(models.TaskStatusCompleted))},
		},
	}
	if filters.Overdue != nil {
		if *filters.Overdue {
			filter = append(filter, overdue)
		} else {
			mustNot = append(mustNot, overdue)
		}
	}

	boolQuery := map[string]interface{}{"filter": filter}
	if len(mustNot) > 0 {
		boolQuery["must_not"] = mustNot
	}

	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"sort": []interface{}{
			map[string]interface{}{"due_date": map[string]interface{}{"order": "asc", "missing": "_last"}},
			map[string]interface{}{"id": map[string]interface{}{"order": "asc"}},
		},
	}
}

func (d *SearchDirectory) search(ctx context.Context, index string, body map[string]interface{}, size int) (*searchResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	res, err := d.client.Search(
		d.client.Search.WithContext(ctx),
		d.client.Search.WithIndex(index),
		d.client.Search.WithBody(bytes.NewReader(payload)),
		d.client.Search.WithSize(size),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		raw, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("search on %s failed: %s: %s", index, res.Status(), string(raw))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return &parsed, nil
}

func decodeTasks(operation string, sources []json.RawMessage) ([]models.Task, error) {
	tasks := make([]models.Task, 0, len(sources))
	for _, src := range sources {
		var doc taskDocument
		if err := json.Unmarshal(src, &doc); err != nil {
			return nil, apperrors.NewDirectoryQueryFailedError(operation, err)
		}
		tasks = append(tasks, doc.toTask())
	}
	return tasks, nil
}

func (d *SearchDirectory) ListTasks(ctx context.Context, filters models.TaskFilters) ([]models.Task, error) {
	size := filters.Limit
	if size <= 0 || size > d.maxResults {
		size = d.maxResults
	}

	res, err := d.search(ctx, d.tasksIndex, buildTaskQuery(filters), size)
	if err != nil {
		return nil, apperrors.NewDirectoryQueryFailedError("ListTasks", err)
	}
	return decodeTasks("ListTasks", res.sources())
}

// allTasks pages through every matching task with search_after, maxResults
// hits per request.
func (d *SearchDirectory) allTasks(ctx context.Context, operation string, filters models.TaskFilters) ([]models.Task, error) {
	body := buildTaskQuery(filters)

	var sources []json.RawMessage
	for {
		res, err := d.search(ctx, d.tasksIndex, body, d.maxResults)
		if err != nil {
			return nil, apperrors.NewDirectoryQueryFailedError(operation, err)
		}
		hits := res.Hits.Hits
		sources = append(sources, res.sources()...)
		if len(hits) < d.maxResults || len(hits[len(hits)-1].Sort) == 0 {
			break
		}
		body["search_after"] = hits[len(hits)-1].Sort
	}
	return decodeTasks(operation, sources)
}

// ListAssignees collects distinct assignee names with a composite terms
// aggregation, following after_key until the buckets run out.
func (d *SearchDirectory) ListAssignees(ctx context.Context) ([]string, error) {
	composite := map[string]interface{}{
		"size": d.maxResults,
		"sources": []interface{}{
			map[string]interface{}{"name": map[string]interface{}{"terms": map[string]interface{}{"field": "assignee_name"}}},
		},
	}
	body := map[string]interface{}{
		"aggs": map[string]interface{}{
			"assignees": map[string]interface{}{"composite": composite},
		},
	}

	seen := make(map[string]struct{})
	names := []string{}
	for {
		res, err := d.search(ctx, d.tasksIndex, body, 0)
		if err != nil {
			return nil, apperrors.NewDirectoryQueryFailedError("ListAssignees", err)
		}
		agg := res.Aggregations.Assignees
		for _, b := range agg.Buckets {
			name, _ := b.Key["name"].(string)
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
		if len(agg.Buckets) < d.maxResults || len(agg.AfterKey) == 0 {
			break
		}
		composite["after"] = agg.AfterKey
	}

	sort.Strings(names)
	return names, nil
}

func (d *SearchDirectory) ListProjects(ctx context.Context) ([]models.Project, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{"match_all": map[string]interface{}{}},
		"sort":  []interface{}{map[string]interface{}{"name.keyword": map[string]interface{}{"order": "asc", "unmapped_type": "keyword"}}},
	}

	res, err := d.search(ctx, d.projectsIndex, body, d.maxResults)
	if err != nil {
		return nil, apperrors.NewDirectoryQueryFailedError("ListProjects", err)
	}

	sources := res.sources()
	projects := make([]models.Project, 0, len(sources))
	for _, src := range sources {
		var doc projectDocument
		if err := json.Unmarshal(src, &doc); err != nil {
			return nil, apperrors.NewDirectoryQueryFailedError("ListProjects", err)
		}
		projects = append(projects, models.Project(doc))
	}
	return projects, nil
}

func (d *SearchDirectory) GetWorkloadAnalysis(ctx context.Context, personName string) (*models.WorkloadRecord, error) {
	tasks, err := d.allTasks(ctx, "GetWorkloadAnalysis", models.TaskFilters{AssigneeName: personName})
	if err != nil {
		return nil, err
	}
	return AnalyzeWorkload(personName, tasks, d.now()), nil
}

func (d *SearchDirectory) GetRiskAssessment(ctx context.Context, projectID string) (*models.RiskRecord, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{"bool": map[string]interface{}{
			"filter": []interface{}{term("id", projectID)},
		}},
	}

	res, err := d.search(ctx, d.projectsIndex, body, 1)
	if err != nil {
		return nil, apperrors.NewDirectoryQueryFailedError("GetRiskAssessment", err)
	}
	sources := res.sources()
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
	}

	var doc projectDocument
	if err := json.Unmarshal(sources[0], &doc); err != nil {
		return nil, apperrors.NewDirectoryQueryFailedError("GetRiskAssessment", err)
	}

	tasks, err := d.allTasks(ctx, "GetRiskAssessment", models.TaskFilters{ProjectID: doc.ID})
	if err != nil {
		return nil, err
	}
	return AssessRisk(models.Project(doc), tasks, d.now()), nil
}
