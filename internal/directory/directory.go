// internal/directory/directory.go
package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"task-query-workers/internal/common/config"
	"task-query-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
)

// ErrProjectNotFound is returned by GetRiskAssessment for unknown ids.
var ErrProjectNotFound = errors.New("project not found")

// Directory is the read side of the task tracker.
type Directory interface {
	ListTasks(ctx context.Context, filters models.TaskFilters) ([]models.Task, error)
	ListProjects(ctx context.Context) ([]models.Project, error)
	ListAssignees(ctx context.Context) ([]string, error)
	GetWorkloadAnalysis(ctx context.Context, personName string) (*models.WorkloadRecord, error)
	GetRiskAssessment(ctx context.Context, projectID string) (*models.RiskRecord, error)
}

// New selects the backend named by cfg.Directory.Backend. Only the client
// for the selected backend needs to be non-nil.
func New(cfg *config.Config, db *sql.DB, es *elasticsearch.Client) (Directory, error) {
	switch cfg.Directory.Backend {
	case config.BackendPostgres:
		if db == nil {
			return nil, fmt.Errorf("postgres directory requires a database handle")
		}
		return NewPostgresDirectory(db, cfg.Directory.MaxResults), nil
	case config.BackendElasticsearch:
		if es == nil {
			return nil, fmt.Errorf("elasticsearch directory requires a client")
		}
		return NewSearchDirectory(es, cfg.Database.Elasticsearch.TasksIndex,
			cfg.Database.Elasticsearch.ProjectIndex, cfg.Directory.MaxResults), nil
	default:
		return nil, fmt.Errorf("unsupported directory backend %q", cfg.Directory.Backend)
	}
}
