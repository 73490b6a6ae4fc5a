// internal/nlq/discovery.go
package nlq

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/sync/errgroup"

	"task-query-workers/internal/common/logger"
	"task-query-workers/internal/models"
)

// Extractor names recorded on pattern-derived matches.
const (
	PatternDirect         = "direct"
	PatternPossessive     = "possessive"
	PatternAssignedTo     = "assigned_to"
	PatternProjectKeyword = "project_keyword"
)

const (
	maxUnknownEntities  = 3
	knownPeopleInPrompt = 5

	rephraseSuggestion = "Try rephrasing your query with specific names or project titles."
)

var (
	possessivePattern     = regexp.MustCompile(`(?i)\b(\w+)'s\s+(?:tasks|workload|projects|work)\b`)
	assignedToPattern     = regexp.MustCompile(`(?i)\bassigned to (\w+)`)
	projectKeywordPattern = regexp.MustCompile(`project ([\w\s-]+?)(?:\s+(?:risk|status|tasks|health)|$|[?.!,])`)
	capitalizedPattern    = regexp.MustCompile(`\b[A-Z][a-zA-Z]*\b`)
)

// nonEntityWords are words that start sentences or name the domain rather
// than a person or project. Every condition and intent keyword is included.
var nonEntityWords = buildNonEntityWords()

var commonWords = []string{
	"give", "tell", "query", "check", "evaluate", "what", "who", "which",
	"when", "where", "why", "are", "is", "can", "could", "please", "the",
	"all", "any", "my", "our", "project", "projects", "status", "for", "and",
	"with", "about",
}

func buildNonEntityWords() map[string]struct{} {
	words := make(map[string]struct{})
	add := func(phrase string) {
		for _, w := range strings.Fields(strings.ToLower(phrase)) {
			words[w] = struct{}{}
		}
	}
	for _, w := range commonWords {
		add(w)
	}
	for _, rule := range conditionRules {
		for _, k := range rule.keywords {
			add(k)
		}
	}
	for _, k := range intentKeywords {
		add(k)
	}
	return words
}

// DiscoveryResult holds the people and project matches for one query.
type DiscoveryResult struct {
	People          []models.EntityMatch `json:"people"`
	Projects        []models.EntityMatch `json:"projects"`
	UnknownEntities []string             `json:"unknownEntities"`
	Suggestions     []string             `json:"suggestions"`
	KnownPeople     []string             `json:"-"`
}

func emptyDiscovery() DiscoveryResult {
	return DiscoveryResult{
		People:          []models.EntityMatch{},
		Projects:        []models.EntityMatch{},
		UnknownEntities: []string{},
		Suggestions:     []string{},
	}
}

// Discovery finds known people and projects referenced by a query.
type Discovery struct {
	entities EntityProvider
	matcher  *FuzzyMatcher
	logger   logger.Logger
}

func NewDiscovery(entities EntityProvider, matcher *FuzzyMatcher, log logger.Logger) *Discovery {
	if matcher == nil {
		matcher = NewFuzzyMatcher(0, 0)
	}
	return &Discovery{
		entities: entities,
		matcher:  matcher,
		logger:   log.With(map[string]interface{}{"component": "entity-discovery"}),
	}
}

// Discover runs the people and project lookups concurrently and joins them.
// Any internal failure yields empty collections plus a rephrase suggestion.
func (d *Discovery) Discover(ctx context.Context, query string) (result DiscoveryResult) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Entity discovery panicked", map[string]interface{}{"panic": fmt.Sprint(r)})
			result = degradedDiscovery()
		}
	}()

	lower := strings.ToLower(query)
	result = emptyDiscovery()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		defer recoverInto(&err)
		people := d.entities.People(gctx)
		result.KnownPeople = people
		result.People = d.discoverPeople(lower, people)
		return nil
	})
	g.Go(func() (err error) {
		defer recoverInto(&err)
		result.Projects = d.discoverProjects(lower, d.entities.Projects(gctx))
		return nil
	})
	if err := g.Wait(); err != nil {
		d.logger.Error("Entity discovery failed", map[string]interface{}{"error": err})
		return degradedDiscovery()
	}

	result.UnknownEntities = unknownEntities(query, result.People, result.Projects)
	result.Suggestions = buildSuggestions(result)
	return result
}

func degradedDiscovery() DiscoveryResult {
	r := emptyDiscovery()
	r.Suggestions = []string{rephraseSuggestion}
	return r
}

func recoverInto(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("panic: %v", r)
	}
}

func (d *Discovery) discoverPeople(lower string, people []string) []models.EntityMatch {
	matches := []models.EntityMatch{}
	words := queryWords(lower)

	for _, name := range people {
		if word, ok := containsEntity(lower, words, name); ok {
			matches = append(matches, models.EntityMatch{
				MatchedValue: name,
				Confidence:   1.0,
				MatchType:    models.MatchTypeExact,
				Pattern:      PatternDirect,
				Metadata:     map[string]interface{}{"matchedOn": word},
			})
		}
	}

	extractors := []struct {
		name    string
		pattern *regexp.Regexp
	}{
		{PatternPossessive, possessivePattern},
		{PatternAssignedTo, assignedToPattern},
	}
	for _, extractor := range extractors {
		for _, m := range extractor.pattern.FindAllStringSubmatch(lower, -1) {
			match := d.matcher.Match(m[1], people)
			if match == nil || hasMatch(matches, match.MatchedValue) {
				continue
			}
			matches = append(matches, tagPatternMatch(*match, extractor.name, m[1]))
		}
	}

	return matches
}

func (d *Discovery) discoverProjects(lower string, projects []models.ProjectSummary) []models.EntityMatch {
	matches := []models.EntityMatch{}
	byName := make(map[string]models.ProjectSummary, len(projects))
	names := make([]string, 0, len(projects))
	for _, p := range projects {
		byName[p.Name] = p
		names = append(names, p.Name)
	}

	words := queryWords(lower)
	for _, p := range projects {
		if word, ok := containsEntity(lower, words, p.Name); ok {
			matches = append(matches, models.EntityMatch{
				MatchedValue: p.Name,
				Confidence:   1.0,
				MatchType:    models.MatchTypeExact,
				Pattern:      PatternDirect,
				Metadata:     projectMetadata(p, word),
			})
		}
	}

	for _, m := range projectKeywordPattern.FindAllStringSubmatch(lower, -1) {
		candidate := strings.TrimSpace(m[1])
		match := d.matcher.Match(candidate, names)
		if match == nil || hasMatch(matches, match.MatchedValue) {
			continue
		}
		tagged := tagPatternMatch(*match, PatternProjectKeyword, candidate)
		for k, v := range projectMetadata(byName[match.MatchedValue], candidate) {
			tagged.Metadata[k] = v
		}
		matches = append(matches, tagged)
	}

	return matches
}

// containsEntity reports whether the lowercased query names entity, either
// in full or by a whole-word component of at least three characters.
func containsEntity(lower string, words map[string]struct{}, entity string) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(entity))
	if name == "" {
		return "", false
	}
	if strings.Contains(lower, name) {
		return name, true
	}

	parts := strings.Fields(name)
	if len(parts) < 2 {
		return "", false
	}
	for _, w := range parts {
		if len(w) < 3 {
			continue
		}
		if _, common := nonEntityWords[w]; common {
			continue
		}
		if _, ok := words[w]; ok {
			return w, true
		}
	}
	return "", false
}

// queryWords splits text into its set of letter/digit words.
func queryWords(lower string) map[string]struct{} {
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	words := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		words[f] = struct{}{}
	}
	return words
}

// tagPatternMatch records which extractor produced a matcher result. Non-exact
// results become pattern matches; exact ones keep confidence 1.0.
func tagPatternMatch(match models.EntityMatch, pattern, captured string) models.EntityMatch {
	match.Pattern = pattern
	if match.MatchType != models.MatchTypeExact {
		match.MatchType = models.MatchTypePattern
	}
	match.Metadata = map[string]interface{}{"captured": captured}
	return match
}

func projectMetadata(p models.ProjectSummary, matchedOn string) map[string]interface{} {
	return map[string]interface{}{
		"projectId":     p.ID,
		"projectStatus": p.Status,
		"matchedOn":     matchedOn,
	}
}

func hasMatch(matches []models.EntityMatch, value string) bool {
	for _, m := range matches {
		if strings.EqualFold(m.MatchedValue, value) {
			return true
		}
	}
	return false
}

// unknownEntities lists capitalized tokens and possessive captures that no
// match accounts for, in first-seen order.
func unknownEntities(query string, people, projects []models.EntityMatch) []string {
	known := make(map[string]struct{})
	for _, group := range [][]models.EntityMatch{people, projects} {
		for _, m := range group {
			known[strings.ToLower(m.MatchedValue)] = struct{}{}
			for _, w := range strings.Fields(strings.ToLower(m.MatchedValue)) {
				known[w] = struct{}{}
			}
			if captured, ok := m.Metadata["captured"].(string); ok {
				known[strings.ToLower(captured)] = struct{}{}
			}
		}
	}

	candidates := capitalizedPattern.FindAllString(query, -1)
	for _, m := range possessivePattern.FindAllStringSubmatch(query, -1) {
		candidates = append(candidates, m[1])
	}

	unknown := []string{}
	seen := make(map[string]struct{})
	for _, token := range candidates {
		key := strings.ToLower(token)
		if len(token) <= 2 {
			continue
		}
		if _, ok := nonEntityWords[key]; ok {
			continue
		}
		if _, ok := known[key]; ok {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unknown = append(unknown, token)
		if len(unknown) == maxUnknownEntities {
			break
		}
	}
	return unknown
}

func buildSuggestions(r DiscoveryResult) []string {
	suggestions := []string{}

	if len(r.UnknownEntities) > 0 {
		quoted := make([]string, len(r.UnknownEntities))
		nameShaped := false
		for i, u := range r.UnknownEntities {
			quoted[i] = "'" + u + "'"
			if isNameShaped(u) {
				nameShaped = true
			}
		}
		suggestions = append(suggestions, fmt.Sprintf(
			"I couldn't find %s in the system. Try using exact names or check spelling.",
			strings.Join(quoted, ", ")))

		if nameShaped && len(r.KnownPeople) > 0 {
			suggestions = append(suggestions, "Known people include: "+strings.Join(samplePeople(r.KnownPeople, knownPeopleInPrompt), ", "))
		}
	}

	for _, group := range [][]models.EntityMatch{r.People, r.Projects} {
		for _, m := range group {
			if m.Suggestion != "" {
				suggestions = append(suggestions, m.Suggestion)
			}
		}
	}
	return suggestions
}

func isNameShaped(token string) bool {
	if strings.ContainsAny(token, " \t") {
		return false
	}
	for _, r := range token {
		return unicode.IsUpper(r)
	}
	return false
}

func samplePeople(people []string, n int) []string {
	if len(people) <= n {
		return append([]string{}, people...)
	}
	return append([]string{}, people[:n]...)
}
