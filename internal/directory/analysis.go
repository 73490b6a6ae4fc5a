// internal/directory/analysis.go
package directory

import (
	"fmt"
	"math"
	"strings"
	"time"

	"task-query-workers/internal/models"
)

// Open-task counts at which utilization moves up a level.
const (
	balancedOpenTasks   = 3
	highOpenTasks       = 6
	overloadedOpenTasks = 9
)

const highPriority = "HIGH"

// AnalyzeWorkload summarises the tasks assigned to one person.
func AnalyzeWorkload(person string, tasks []models.Task, now time.Time) *models.WorkloadRecord {
	rec := &models.WorkloadRecord{
		PersonName: person,
		ByStatus:   make(map[models.TaskStatus]int, len(models.AllTaskStatuses)),
	}
	for _, s := range models.AllTaskStatuses {
		rec.ByStatus[s] = 0
	}

	for _, t := range tasks {
		rec.TotalTasks++
		rec.ByStatus[t.Status]++
		if t.Status != models.TaskStatusCompleted {
			rec.OpenTasks++
			if strings.EqualFold(t.Priority, highPriority) {
				rec.HighPriorityTasks++
			}
		}
		if t.IsOverdue(now) {
			rec.OverdueTasks++
		}
	}

	rec.UtilizationLevel = utilizationFor(rec.OpenTasks, rec.OverdueTasks)
	return rec
}

func utilizationFor(open, overdue int) models.UtilizationLevel {
	// Each overdue task counts twice toward load.
	load := open + overdue
	switch {
	case load >= overloadedOpenTasks:
		return models.UtilizationOverloaded
	case load >= highOpenTasks:
		return models.UtilizationHigh
	case load >= balancedOpenTasks:
		return models.UtilizationBalanced
	default:
		return models.UtilizationLow
	}
}

// Risk score weights; they sum to 1.
const (
	blockedWeight    = 0.35
	overdueWeight    = 0.35
	incompleteWeight = 0.2
	unassignedWeight = 0.1
)

// AssessRisk scores a project from its tasks. RiskScore is in [0, 1].
func AssessRisk(project models.Project, tasks []models.Task, now time.Time) *models.RiskRecord {
	rec := &models.RiskRecord{
		ProjectID:   project.ID,
		ProjectName: project.Name,
		Factors:     []string{},
	}

	for _, t := range tasks {
		rec.TotalTasks++
		switch t.Status {
		case models.TaskStatusCompleted:
			rec.CompletedTasks++
		case models.TaskStatusBlocked:
			rec.BlockedTasks++
		}
		if t.IsOverdue(now) {
			rec.OverdueTasks++
		}
		if strings.TrimSpace(t.AssigneeName) == "" && t.Status != models.TaskStatusCompleted {
			rec.UnassignedTasks++
		}
	}

	if rec.TotalTasks == 0 {
		rec.RiskLevel = models.RiskLow
		rec.Factors = append(rec.Factors, "No tasks recorded for this project")
		return rec
	}

	total := float64(rec.TotalTasks)
	rec.CompletionRate = round2(float64(rec.CompletedTasks) / total)

	score := blockedWeight*float64(rec.BlockedTasks)/total +
		overdueWeight*float64(rec.OverdueTasks)/total +
		incompleteWeight*(1-float64(rec.CompletedTasks)/total) +
		unassignedWeight*float64(rec.UnassignedTasks)/total
	rec.RiskScore = round2(math.Min(score, 1))
	rec.RiskLevel = riskLevelFor(rec.RiskScore)

	if rec.BlockedTasks > 0 {
		rec.Factors = append(rec.Factors, fmt.Sprintf("%d blocked task(s)", rec.BlockedTasks))
	}
	if rec.OverdueTasks > 0 {
		rec.Factors = append(rec.Factors, fmt.Sprintf("%d overdue task(s)", rec.OverdueTasks))
	}
	if rec.UnassignedTasks > 0 {
		rec.Factors = append(rec.Factors, fmt.Sprintf("%d unassigned open task(s)", rec.UnassignedTasks))
	}
	if rec.CompletionRate < 0.5 {
		rec.Factors = append(rec.Factors, fmt.Sprintf("Completion rate is %.0f%%", rec.CompletionRate*100))
	}

	return rec
}

func riskLevelFor(score float64) models.RiskLevel {
	switch {
	case score >= 0.75:
		return models.RiskCritical
	case score >= 0.5:
		return models.RiskHigh
	case score >= 0.25:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
