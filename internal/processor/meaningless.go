// internal/processor/meaningless.go
package processor

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minMeaningfulLength = 3
	maxCaseSwitches     = 3
)

var randomCasePattern = regexp.MustCompile(`^[a-z]+[A-Z]{2,}[a-z]+$`)

// commonVocabulary is the set of words at least one of which appears in any
// query the pipeline can act on.
var commonVocabulary = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "my": {}, "me": {}, "i": {}, "we": {},
	"our": {}, "all": {}, "any": {}, "is": {}, "are": {}, "was": {}, "do": {},
	"does": {}, "has": {}, "have": {}, "for": {}, "of": {}, "to": {},
	"in": {}, "on": {}, "at": {}, "by": {}, "and": {}, "or": {}, "with": {},
	"about": {}, "what": {}, "who": {}, "which": {}, "how": {}, "when": {},
	"where": {}, "why": {}, "show": {}, "list": {}, "find": {}, "get": {},
	"give": {}, "display": {}, "tell": {}, "check": {}, "query": {},
	"analyze": {}, "analyse": {}, "assess": {}, "evaluate": {}, "task": {},
	"tasks": {}, "project": {}, "projects": {}, "work": {}, "workload": {},
	"risk": {}, "risks": {}, "status": {}, "health": {}, "overdue": {},
	"late": {}, "due": {}, "completed": {}, "done": {}, "finished": {},
	"pending": {}, "todo": {}, "blocked": {}, "stuck": {}, "progress": {},
	"working": {}, "assigned": {}, "team": {}, "person": {}, "people": {},
	"open": {}, "busy": {}, "capacity": {}, "please": {}, "hello": {},
	"hi": {}, "help": {},
}

// IsMeaningless reports whether a query is too short, has no letters, uses
// none of the common vocabulary, or looks like random mixed-case typing.
func IsMeaningless(query string) bool {
	trimmed := strings.TrimSpace(query)
	if utf8.RuneCountInString(trimmed) < minMeaningfulLength {
		return true
	}
	if strings.IndexFunc(trimmed, unicode.IsLetter) < 0 {
		return true
	}
	if !strings.ContainsAny(trimmed, " \t") && randomCasePattern.MatchString(trimmed) {
		return true
	}

	words := strings.FieldsFunc(trimmed, func(r rune) bool { return !unicode.IsLetter(r) })
	known := false
	for _, w := range words {
		if caseSwitches(w) >= maxCaseSwitches {
			return true
		}
		if _, ok := commonVocabulary[strings.ToLower(w)]; ok {
			known = true
		}
	}
	return !known
}

// caseSwitches counts lower-to-upper transitions inside a word.
func caseSwitches(word string) int {
	n := 0
	prevLower := false
	for _, r := range word {
		if unicode.IsUpper(r) && prevLower {
			n++
		}
		prevLower = unicode.IsLower(r)
	}
	return n
}
