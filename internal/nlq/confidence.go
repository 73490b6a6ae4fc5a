// internal/nlq/confidence.go
package nlq

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"task-query-workers/internal/models"
)

const (
	baseConfidence     = 0.4
	minConfidence      = 0.1
	maxConfidence      = 1.0
	fallbackConfidence = 0.5

	specificIntentBonus  = 0.2
	personBonus          = 0.15
	projectBonus         = 0.10
	personShapePenalty   = 0.3
	missingEntityPenalty = 0.4
	perFilterBonus       = 0.05
	maxFilterBonus       = 0.15
	consistencyBonus     = 0.1
	complexityBonus      = 0.05
	complexityThreshold  = 0.5
	complexityPerEntity  = 0.3
	complexityPerFilter  = 0.2
)

var (
	assignedToShape  = regexp.MustCompile(`(?i)\bassigned to \w+`)
	capitalizedShape = regexp.MustCompile(`\b[A-Z][a-z]+\b`)
	subjectShape     = regexp.MustCompile(`\b([a-z]+)\s+(?:tasks|workload|projects|work)\b`)
)

// subjectExclusions are lowercase words that commonly precede "tasks" without
// naming anyone.
var subjectExclusions = map[string]struct{}{
	"my": {}, "all": {}, "the": {}, "our": {}, "your": {}, "his": {},
	"her": {}, "their": {}, "any": {}, "open": {}, "late": {}, "done": {},
	"finished": {}, "stuck": {}, "progress": {}, "urgent": {}, "current": {},
	"active": {}, "priority": {}, "high": {}, "low": {}, "team": {},
	"these": {}, "those": {}, "of": {}, "me": {}, "us": {},
}

// ScoreConfidence combines intent specificity, matched entities, filters and
// intent/entity consistency into a score within [0.1, 1.0]. Each adjustment
// adds a reasoning line. A panic while scoring yields 0.5.
func ScoreConfidence(intent models.Intent, discovery DiscoveryResult, filters models.QueryFilters, query string) (score float64, reasoning []string) {
	defer func() {
		if r := recover(); r != nil {
			score = fallbackConfidence
			reasoning = append(reasoning, fmt.Sprintf("Confidence scoring failed (%v), using %.2f", r, fallbackConfidence))
		}
	}()

	score = baseConfidence
	reasoning = []string{fmt.Sprintf("Base confidence: %.2f", baseConfidence)}
	adjust := func(delta float64, reason string) {
		score += delta
		reasoning = append(reasoning, fmt.Sprintf("%+.2f %s", delta, reason))
	}

	hasPerson := len(discovery.People) > 0
	hasProject := len(discovery.Projects) > 0

	if intent != models.IntentGeneralQuery {
		adjust(specificIntentBonus, fmt.Sprintf("specific intent recognized (%s)", intent))
	}
	if hasPerson {
		adjust(personBonus, fmt.Sprintf("%d person match(es)", len(discovery.People)))
	}
	if hasProject {
		adjust(projectBonus, fmt.Sprintf("%d project match(es)", len(discovery.Projects)))
	}

	if (intent == models.IntentQueryTasks || intent == models.IntentGeneralQuery) && !hasPerson && referencesPerson(query) {
		adjust(-personShapePenalty, "query appears to reference a person who was not found")
	}
	if intent == models.IntentAnalyzeWorkload && !hasPerson {
		adjust(-missingEntityPenalty, "workload analysis without a person")
	}
	if intent == models.IntentAssessRisk && !hasProject {
		adjust(-missingEntityPenalty, "risk assessment without a project")
	}

	if n := filters.Count(); n > 0 {
		adjust(math.Min(float64(n)*perFilterBonus, maxFilterBonus), fmt.Sprintf("%d filter(s) applied", n))
	}

	if intentConsistent(intent, hasPerson, hasProject) {
		adjust(consistencyBonus, "intent and entities are consistent")
	}

	complexity := math.Min(
		float64(len(discovery.People)+len(discovery.Projects))*complexityPerEntity+
			float64(filters.Count())*complexityPerFilter, 1.0)
	if complexity > complexityThreshold {
		adjust(complexityBonus, fmt.Sprintf("query complexity %.2f", complexity))
	}

	score = math.Round(clamp(score, minConfidence, maxConfidence)*100) / 100
	reasoning = append(reasoning, fmt.Sprintf("Final confidence: %.2f", score))
	return score, reasoning
}

func intentConsistent(intent models.Intent, hasPerson, hasProject bool) bool {
	switch intent {
	case models.IntentAnalyzeWorkload:
		return hasPerson
	case models.IntentAssessRisk:
		return hasProject
	default:
		return true
	}
}

// referencesPerson reports whether the text is shaped like it names someone:
// a possessive, "assigned to X", a capitalized non-keyword, or an unfamiliar
// lowercase word in front of "tasks".
func referencesPerson(query string) bool {
	if possessivePattern.MatchString(query) || assignedToShape.MatchString(query) {
		return true
	}
	for _, w := range capitalizedShape.FindAllString(query, -1) {
		if _, ok := nonEntityWords[strings.ToLower(w)]; !ok {
			return true
		}
	}
	for _, m := range subjectShape.FindAllStringSubmatch(query, -1) {
		word := m[1]
		if _, ok := subjectExclusions[word]; ok {
			continue
		}
		if _, ok := nonEntityWords[word]; ok {
			continue
		}
		return true
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
