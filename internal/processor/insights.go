// internal/processor/insights.go
package processor

import (
	"fmt"
	"strings"
	"time"

	"task-query-workers/internal/models"
)

func taskInsights(tasks []models.Task, filters models.TaskFilters, now time.Time) []string {
	if len(tasks) == 0 {
		return []string{"No tasks found matching your criteria"}
	}

	scope := ""
	if filters.AssigneeName != "" {
		scope = " for " + filters.AssigneeName
	}
	insights := []string{fmt.Sprintf("Found %d task(s)%s", len(tasks), scope)}

	counts := make(map[models.TaskStatus]int)
	overdue := 0
	for _, t := range tasks {
		counts[t.Status]++
		if t.IsOverdue(now) {
			overdue++
		}
	}

	parts := make([]string, 0, len(models.AllTaskStatuses))
	for _, s := range models.AllTaskStatuses {
		if counts[s] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[s], s))
		}
	}
	if len(parts) > 0 {
		insights = append(insights, "Status breakdown: "+strings.Join(parts, ", "))
	}
	if overdue > 0 {
		insights = append(insights, fmt.Sprintf("%d task(s) are overdue", overdue))
	}
	return insights
}

func taskRecommendations(tasks []models.Task, filters models.TaskFilters, now time.Time, redistributionThreshold int) []string {
	if len(tasks) == 0 {
		return []string{"Try broadening your search by removing status or overdue filters"}
	}

	overdue, blocked := 0, 0
	for _, t := range tasks {
		if t.IsOverdue(now) {
			overdue++
		}
		if t.Status == models.TaskStatusBlocked {
			blocked++
		}
	}

	var recs []string
	if overdue > 0 {
		recs = append(recs, fmt.Sprintf("Prioritize the %d overdue task(s) to get back on schedule", overdue))
	}
	if blocked > 0 {
		recs = append(recs, fmt.Sprintf("Review the %d blocked task(s) and remove their impediments", blocked))
	}
	if redistributionThreshold > 0 && len(tasks) > redistributionThreshold {
		if filters.AssigneeName != "" {
			recs = append(recs, fmt.Sprintf("%s has %d tasks; consider redistributing some of them", filters.AssigneeName, len(tasks)))
		} else {
			recs = append(recs, fmt.Sprintf("%d tasks match; consider redistributing work across the team", len(tasks)))
		}
	}
	if len(recs) == 0 {
		recs = append(recs, "No immediate action required")
	}
	return recs
}

func workloadInsights(w *models.WorkloadRecord) []string {
	insights := []string{
		fmt.Sprintf("%s has %d open task(s) out of %d total", w.PersonName, w.OpenTasks, w.TotalTasks),
		fmt.Sprintf("Utilization level: %s", w.UtilizationLevel),
	}
	if w.OverdueTasks > 0 {
		insights = append(insights, fmt.Sprintf("%d task(s) are overdue", w.OverdueTasks))
	}
	if w.HighPriorityTasks > 0 {
		insights = append(insights, fmt.Sprintf("%d open task(s) are high priority", w.HighPriorityTasks))
	}
	return insights
}

func workloadRecommendations(w *models.WorkloadRecord) []string {
	var recs []string
	switch w.UtilizationLevel {
	case models.UtilizationOverloaded, models.UtilizationHigh:
		recs = append(recs, fmt.Sprintf("Consider redistributing some of %s's tasks", w.PersonName))
	case models.UtilizationLow:
		recs = append(recs, fmt.Sprintf("%s has capacity for additional work", w.PersonName))
	}
	if w.OverdueTasks > 0 {
		recs = append(recs, fmt.Sprintf("Prioritize %s's %d overdue task(s)", w.PersonName, w.OverdueTasks))
	}
	if blocked := w.ByStatus[models.TaskStatusBlocked]; blocked > 0 {
		recs = append(recs, fmt.Sprintf("Help unblock %d task(s) assigned to %s", blocked, w.PersonName))
	}
	if len(recs) == 0 {
		recs = append(recs, "Workload is balanced; no action required")
	}
	return recs
}

func riskInsights(r *models.RiskRecord) []string {
	insights := []string{
		fmt.Sprintf("Project %s risk level: %s (score %.2f)", r.ProjectName, r.RiskLevel, r.RiskScore),
		fmt.Sprintf("Completion rate: %.0f%% (%d of %d tasks)", r.CompletionRate*100, r.CompletedTasks, r.TotalTasks),
	}
	return append(insights, r.Factors...)
}

func riskRecommendations(r *models.RiskRecord) []string {
	var recs []string
	if r.BlockedTasks > 0 {
		recs = append(recs, fmt.Sprintf("Unblock the %d blocked task(s)", r.BlockedTasks))
	}
	if r.OverdueTasks > 0 {
		recs = append(recs, fmt.Sprintf("Re-plan the %d overdue task(s)", r.OverdueTasks))
	}
	if r.UnassignedTasks > 0 {
		recs = append(recs, fmt.Sprintf("Assign owners to the %d unassigned task(s)", r.UnassignedTasks))
	}
	if r.RiskLevel == models.RiskHigh || r.RiskLevel == models.RiskCritical {
		recs = append(recs, fmt.Sprintf("Escalate project %s to its stakeholders", r.ProjectName))
	}
	if len(recs) == 0 {
		recs = append(recs, "Project is on track; keep monitoring")
	}
	return recs
}
