package nlq

import (
	"context"
	"sync"

	"task-query-workers/internal/models"
)

type staticEntities struct {
	people   []string
	projects []models.ProjectSummary
}

func (s staticEntities) People(context.Context) []string { return s.people }

func (s staticEntities) Projects(context.Context) []models.ProjectSummary { return s.projects }

type panickingEntities struct{}

func (panickingEntities) People(context.Context) []string { panic("people index corrupted") }

func (panickingEntities) Projects(context.Context) []models.ProjectSummary { return nil }

type fakeSource struct {
	mu           sync.Mutex
	tasks        []models.Task
	projects     []models.Project
	err          error
	peopleCalls  int
	projectCalls int
}

// ListAssignees hands back raw assignee names, blanks and duplicates included.
func (f *fakeSource) ListAssignees(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.peopleCalls++
	if f.err != nil {
		return nil, f.err
	}
	names := make([]string, 0, len(f.tasks))
	for _, t := range f.tasks {
		names = append(names, t.AssigneeName)
	}
	return names, nil
}

func (f *fakeSource) ListProjects(context.Context) ([]models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projectCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.projects, nil
}

func testEntities() staticEntities {
	return staticEntities{
		people: []string{"alice", "bob", "Carol Danvers", "dave"},
		projects: []models.ProjectSummary{
			{ID: "p-1", Name: "Apollo Redesign", Status: "active"},
			{ID: "p-2", Name: "Billing", Status: "planning"},
		},
	}
}
