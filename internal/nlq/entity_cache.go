// internal/nlq/entity_cache.go
package nlq

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"task-query-workers/internal/common/cache"
	"task-query-workers/internal/common/logger"
	"task-query-workers/internal/common/metrics"
	"task-query-workers/internal/models"
)

const (
	PeopleCacheKey   = "entities:people:all"
	ProjectsCacheKey = "entities:projects:all"

	DefaultEntityCacheTTL = 300 * time.Second
)

// EntitySource is the part of the task directory the entity cache reads.
type EntitySource interface {
	ListAssignees(ctx context.Context) ([]string, error)
	ListProjects(ctx context.Context) ([]models.Project, error)
}

// EntityProvider supplies the current universe of known people and projects.
type EntityProvider interface {
	People(ctx context.Context) []string
	Projects(ctx context.Context) []models.ProjectSummary
}

// EntityCache serves known people and projects from the key-value store,
// rebuilding entries from the directory on miss or expiry. Entries are
// replaced wholesale. On directory failure it serves the last value it saw,
// or an empty slice, and never returns an error.
type EntityCache struct {
	source EntitySource
	store  cache.Store
	ttl    time.Duration
	logger logger.Logger

	mu           sync.RWMutex
	lastPeople   []string
	lastProjects []models.ProjectSummary
}

// NewEntityCache builds a cache. store may be nil, in which case every call
// reads the directory.
func NewEntityCache(source EntitySource, store cache.Store, ttl time.Duration, log logger.Logger) *EntityCache {
	if ttl <= 0 {
		ttl = DefaultEntityCacheTTL
	}
	return &EntityCache{
		source: source,
		store:  store,
		ttl:    ttl,
		logger: log.With(map[string]interface{}{"component": "entity-cache"}),
	}
}

// People returns distinct, trimmed, sorted assignee names.
func (c *EntityCache) People(ctx context.Context) []string {
	var people []string
	if c.readStore(ctx, PeopleCacheKey, "people", &people) {
		c.rememberPeople(people)
		return people
	}

	names, err := c.source.ListAssignees(ctx)
	if err != nil {
		metrics.EntityCacheLookups.WithLabelValues("people", "fallback").Inc()
		c.logger.Warn("Failed to load people from directory, serving last known value", map[string]interface{}{
			"error": err,
		})
		c.mu.RLock()
		defer c.mu.RUnlock()
		return append([]string{}, c.lastPeople...)
	}

	people = normalizePeople(names)
	c.writeStore(ctx, PeopleCacheKey, people)
	c.rememberPeople(people)
	return people
}

// Projects returns project summaries in directory order.
func (c *EntityCache) Projects(ctx context.Context) []models.ProjectSummary {
	var projects []models.ProjectSummary
	if c.readStore(ctx, ProjectsCacheKey, "projects", &projects) {
		c.rememberProjects(projects)
		return projects
	}

	list, err := c.source.ListProjects(ctx)
	if err != nil {
		metrics.EntityCacheLookups.WithLabelValues("projects", "fallback").Inc()
		c.logger.Warn("Failed to load projects from directory, serving last known value", map[string]interface{}{
			"error": err,
		})
		c.mu.RLock()
		defer c.mu.RUnlock()
		return append([]models.ProjectSummary{}, c.lastProjects...)
	}

	projects = make([]models.ProjectSummary, 0, len(list))
	for _, p := range list {
		projects = append(projects, p.Summary())
	}
	c.writeStore(ctx, ProjectsCacheKey, projects)
	c.rememberProjects(projects)
	return projects
}

// Invalidate drops both cache entries so the next read rebuilds them.
func (c *EntityCache) Invalidate(ctx context.Context) {
	if c.store == nil {
		return
	}
	if err := c.store.Delete(ctx, PeopleCacheKey, ProjectsCacheKey); err != nil {
		c.logger.Warn("Failed to invalidate entity cache", map[string]interface{}{"error": err})
	}
}

func (c *EntityCache) readStore(ctx context.Context, key, kind string, dest interface{}) bool {
	if c.store == nil {
		return false
	}

	raw, err := c.store.Get(ctx, key)
	switch {
	case errors.Is(err, cache.ErrMiss):
		metrics.EntityCacheLookups.WithLabelValues(kind, "miss").Inc()
		return false
	case err != nil:
		metrics.EntityCacheLookups.WithLabelValues(kind, "error").Inc()
		c.logger.Warn("Entity cache read failed", map[string]interface{}{"key": key, "error": err})
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		metrics.EntityCacheLookups.WithLabelValues(kind, "error").Inc()
		c.logger.Warn("Discarding corrupt entity cache entry", map[string]interface{}{"key": key, "error": err})
		return false
	}

	metrics.EntityCacheLookups.WithLabelValues(kind, "hit").Inc()
	return true
}

func (c *EntityCache) writeStore(ctx context.Context, key string, value interface{}) {
	if c.store == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("Failed to encode entity cache entry", map[string]interface{}{"key": key, "error": err})
		return
	}
	if err := c.store.Set(ctx, key, raw, c.ttl); err != nil {
		c.logger.Warn("Entity cache write failed", map[string]interface{}{"key": key, "error": err})
	}
}

func (c *EntityCache) rememberPeople(people []string) {
	c.mu.Lock()
	c.lastPeople = append([]string{}, people...)
	c.mu.Unlock()
}

func (c *EntityCache) rememberProjects(projects []models.ProjectSummary) {
	c.mu.Lock()
	c.lastProjects = append([]models.ProjectSummary{}, projects...)
	c.mu.Unlock()
}

func normalizePeople(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	people := make([]string, 0, len(names))
	for _, n := range names {
		name := strings.TrimSpace(n)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		people = append(people, name)
	}
	sort.Strings(people)
	return people
}
