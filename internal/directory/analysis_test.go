package directory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"task-query-workers/internal/models"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func daysFromNow(d int) *time.Time {
	t := fixedNow.AddDate(0, 0, d)
	return &t
}

func TestAnalyzeWorkload(t *testing.T) {
	tasks := []models.Task{
		{ID: "1", AssigneeName: "bob", Status: models.TaskStatusInProgress, Priority: "high", DueDate: daysFromNow(-2)},
		{ID: "2", AssigneeName: "bob", Status: models.TaskStatusTodo, DueDate: daysFromNow(3)},
		{ID: "3", AssigneeName: "bob", Status: models.TaskStatusCompleted, Priority: "HIGH", DueDate: daysFromNow(-5)},
		{ID: "4", AssigneeName: "bob", Status: models.TaskStatusBlocked},
	}

	rec := AnalyzeWorkload("bob", tasks, fixedNow)

	assert.Equal(t, "bob", rec.PersonName)
	assert.Equal(t, 4, rec.TotalTasks)
	assert.Equal(t, 3, rec.OpenTasks)
	assert.Equal(t, 1, rec.OverdueTasks)
	assert.Equal(t, 1, rec.HighPriorityTasks)
	assert.Equal(t, 1, rec.ByStatus[models.TaskStatusBlocked])
	assert.Equal(t, 1, rec.ByStatus[models.TaskStatusCompleted])
	assert.Equal(t, models.UtilizationBalanced, rec.UtilizationLevel)
}

func TestAnalyzeWorkload_NoTasks(t *testing.T) {
	rec := AnalyzeWorkload("carol", nil, fixedNow)

	assert.Zero(t, rec.TotalTasks)
	assert.Equal(t, models.UtilizationLow, rec.UtilizationLevel)
	assert.Len(t, rec.ByStatus, len(models.AllTaskStatuses))
}

func TestUtilizationFor(t *testing.T) {
	tests := []struct {
		open, overdue int
		want          models.UtilizationLevel
	}{
		{0, 0, models.UtilizationLow},
		{2, 0, models.UtilizationLow},
		{3, 0, models.UtilizationBalanced},
		{4, 2, models.UtilizationHigh},
		{9, 0, models.UtilizationOverloaded},
		{5, 4, models.UtilizationOverloaded},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, utilizationFor(tt.open, tt.overdue), "open=%d overdue=%d", tt.open, tt.overdue)
	}
}

func TestAssessRisk(t *testing.T) {
	project := models.Project{ID: "p1", Name: "Apollo"}
	tasks := []models.Task{
		{ID: "1", AssigneeName: "alice", Status: models.TaskStatusCompleted},
		{ID: "2", AssigneeName: "bob", Status: models.TaskStatusBlocked},
		{ID: "3", Status: models.TaskStatusTodo, DueDate: daysFromNow(-1)},
		{ID: "4", AssigneeName: "alice", Status: models.TaskStatusInProgress, DueDate: daysFromNow(7)},
	}

	rec := AssessRisk(project, tasks, fixedNow)

	assert.Equal(t, "p1", rec.ProjectID)
	assert.Equal(t, "Apollo", rec.ProjectName)
	assert.Equal(t, 4, rec.TotalTasks)
	assert.Equal(t, 1, rec.CompletedTasks)
	assert.Equal(t, 1, rec.BlockedTasks)
	assert.Equal(t, 1, rec.OverdueTasks)
	assert.Equal(t, 1, rec.UnassignedTasks)
	assert.Equal(t, 0.25, rec.CompletionRate)
	// 0.35*0.25 + 0.35*0.25 + 0.2*0.75 + 0.1*0.25 = 0.35
	assert.InDelta(t, 0.35, rec.RiskScore, 0.001)
	assert.Equal(t, models.RiskMedium, rec.RiskLevel)
	assert.Contains(t, rec.Factors, "1 blocked task(s)")
	assert.Contains(t, rec.Factors, "Completion rate is 25%")
}

func TestAssessRisk_EmptyProject(t *testing.T) {
	rec := AssessRisk(models.Project{ID: "p9", Name: "Idle"}, nil, fixedNow)

	assert.Equal(t, models.RiskLow, rec.RiskLevel)
	assert.Zero(t, rec.RiskScore)
	assert.Equal(t, []string{"No tasks recorded for this project"}, rec.Factors)
}

func TestRiskLevelFor(t *testing.T) {
	assert.Equal(t, models.RiskLow, riskLevelFor(0.1))
	assert.Equal(t, models.RiskMedium, riskLevelFor(0.25))
	assert.Equal(t, models.RiskHigh, riskLevelFor(0.6))
	assert.Equal(t, models.RiskCritical, riskLevelFor(0.75))
}
