// internal/directory/postgres.go
package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "task-query-workers/internal/common/errors"
	"task-query-workers/internal/models"
)

const taskColumns = `id::text, title, COALESCE(assignee_name, ''), status,
		COALESCE(priority, ''), due_date, COALESCE(project_id::text, '')`

// PostgresDirectory reads tasks and projects from the tasks/projects tables.
type PostgresDirectory struct {
	db         *sql.DB
	maxResults int
	now        func() time.Time
}

func NewPostgresDirectory(db *sql.DB, maxResults int) *PostgresDirectory {
	if maxResults <= 0 {
		maxResults = 500
	}
	return &PostgresDirectory{db: db, maxResults: maxResults, now: time.Now}
}

// buildTaskQuery assembles the WHERE clause with positional placeholders,
// capped at maxResults.
func (d *PostgresDirectory) buildTaskQuery(filters models.TaskFilters) (string, []interface{}) {
	limit := filters.Limit
	if limit <= 0 || limit > d.maxResults {
		limit = d.maxResults
	}
	return taskQuery(filters, limit)
}

// taskQuery renders the task SELECT. A zero limit reads every matching row.
func taskQuery(filters models.TaskFilters, limit int) (string, []interface{}) {
	var (
		clauses []string
		args    []interface{}
	)
	next := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.AssigneeName != "" {
		clauses = append(clauses, "LOWER(assignee_name) = LOWER("+next(filters.AssigneeName)+")")
	}
	if filters.Status != "" {
		clauses = append(clauses, "status = "+next(string(filters.Status)))
	}
	if filters.Overdue != nil {
		if *filters.Overdue {
			clauses = append(clauses, "due_date < NOW() AND status <> 'COMPLETED'")
		} else {
			clauses = append(clauses, "(due_date IS NULL OR due_date >= NOW() OR status = 'COMPLETED')")
		}
	}
	if filters.ProjectID != "" {
		clauses = append(clauses, "project_id::text = "+next(filters.ProjectID))
	}

	var b strings.Builder
	b.WriteString("SELECT " + taskColumns + " FROM tasks")
	if len(clauses) > 0 {
		b.WriteString(" WHERE " + strings.Join(clauses, " AND "))
	}
	b.WriteString(" ORDER BY due_date ASC NULLS LAST, id ASC")
	if limit > 0 {
		b.WriteString(" LIMIT " + next(limit))
	}

	return b.String(), args
}

func (d *PostgresDirectory) ListTasks(ctx context.Context, filters models.TaskFilters) ([]models.Task, error) {
	query, args := d.buildTaskQuery(filters)
	return d.queryTasks(ctx, "ListTasks", query, args)
}

// allTasks reads every task matching filters, ignoring maxResults. Workload
// and risk figures must count the full set.
func (d *PostgresDirectory) allTasks(ctx context.Context, operation string, filters models.TaskFilters) ([]models.Task, error) {
	query, args := taskQuery(filters, 0)
	return d.queryTasks(ctx, operation, query, args)
}

func (d *PostgresDirectory) queryTasks(ctx context.Context, operation, query string, args []interface{}) ([]models.Task, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewDirectoryQueryFailedError(operation, err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var (
			t       models.Task
			status  string
			dueDate sql.NullTime
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.AssigneeName, &status, &t.Priority, &dueDate, &t.ProjectID); err != nil {
			return nil, apperrors.NewDirectoryQueryFailedError(operation, err)
		}
		t.Status = models.TaskStatus(status)
		if dueDate.Valid {
			due := dueDate.Time
			t.DueDate = &due
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDirectoryQueryFailedError(operation, err)
	}

	return tasks, nil
}

// ListAssignees returns every distinct, non-blank assignee name.
func (d *PostgresDirectory) ListAssignees(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT DISTINCT TRIM(assignee_name)
		FROM tasks
		WHERE TRIM(COALESCE(assignee_name, '')) <> ''
		ORDER BY 1`)
	if err != nil {
		return nil, apperrors.NewDirectoryQueryFailedError("ListAssignees", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, apperrors.NewDirectoryQueryFailedError("ListAssignees", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDirectoryQueryFailedError("ListAssignees", err)
	}

	return names, nil
}

func (d *PostgresDirectory) ListProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id::text, name, COALESCE(status, ''), COALESCE(description, '')
		FROM projects
		ORDER BY name ASC`)
	if err != nil {
		return nil, apperrors.NewDirectoryQueryFailedError("ListProjects", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Status, &p.Description); err != nil {
			return nil, apperrors.NewDirectoryQueryFailedError("ListProjects", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDirectoryQueryFailedError("ListProjects", err)
	}

	return projects, nil
}

func (d *PostgresDirectory) GetWorkloadAnalysis(ctx context.Context, personName string) (*models.WorkloadRecord, error) {
	tasks, err := d.allTasks(ctx, "GetWorkloadAnalysis", models.TaskFilters{AssigneeName: personName})
	if err != nil {
		return nil, err
	}
	return AnalyzeWorkload(personName, tasks, d.now()), nil
}

func (d *PostgresDirectory) GetRiskAssessment(ctx context.Context, projectID string) (*models.RiskRecord, error) {
	var p models.Project
	err := d.db.QueryRowContext(ctx, `
		SELECT id::text, name, COALESCE(status, ''), COALESCE(description, '')
		FROM projects
		WHERE id::text = $1`, projectID).Scan(&p.ID, &p.Name, &p.Status, &p.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
	}
	if err != nil {
		return nil, apperrors.NewDirectoryQueryFailedError("GetRiskAssessment", err)
	}

	tasks, err := d.allTasks(ctx, "GetRiskAssessment", models.TaskFilters{ProjectID: p.ID})
	if err != nil {
		return nil, err
	}
	return AssessRisk(p, tasks, d.now()), nil
}
