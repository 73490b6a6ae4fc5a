// internal/nlq/conditions.go
package nlq

import (
	"regexp"
	"strings"

	"task-query-workers/internal/models"
)

type conditionRule struct {
	name     string
	keywords []string
	status   models.TaskStatus
	overdue  bool
	pattern  *regexp.Regexp
}

// conditionRules are applied in order. Later rules overwrite status, so
// explicit completion language beats the status inferred from "overdue".
var conditionRules = compileConditions([]conditionRule{
	{name: "overdue", keywords: []string{"overdue", "past due", "late"}, status: models.TaskStatusInProgress, overdue: true},
	{name: "in_progress", keywords: []string{"in progress", "working"}, status: models.TaskStatusInProgress},
	{name: "todo", keywords: []string{"todo", "to do", "pending"}, status: models.TaskStatusTodo},
	{name: "blocked", keywords: []string{"blocked", "stuck"}, status: models.TaskStatusBlocked},
	{name: "completed", keywords: []string{"completed", "done", "finished"}, status: models.TaskStatusCompleted},
})

// compileConditions builds each rule's pattern from its keywords. A space in
// a keyword also matches a hyphen.
func compileConditions(rules []conditionRule) []conditionRule {
	for i := range rules {
		alts := make([]string, len(rules[i].keywords))
		for j, k := range rules[i].keywords {
			alts[j] = strings.ReplaceAll(regexp.QuoteMeta(k), " ", "[ -]")
		}
		rules[i].pattern = regexp.MustCompile(`(?i)\b(` + strings.Join(alts, "|") + `)\b`)
	}
	return rules
}

// ExtractConditions scans query for status and overdue keywords. The result
// is never nil. Overdue is dropped when the final status is COMPLETED since
// a finished task is never overdue.
func ExtractConditions(query string) map[string]interface{} {
	conditions := make(map[string]interface{})
	for _, rule := range conditionRules {
		if !rule.pattern.MatchString(query) {
			continue
		}
		conditions[models.ConditionStatus] = rule.status
		if rule.overdue {
			conditions[models.ConditionOverdue] = true
		}
	}
	if conditions[models.ConditionStatus] == models.TaskStatusCompleted {
		delete(conditions, models.ConditionOverdue)
	}
	return conditions
}
