// internal/workers/ai-conversation/process-task-query/config.go
package processtaskquery

import (
	"time"

	"task-query-workers/internal/common/config"
)

type Config struct {
	Timeout         time.Duration
	MinPromptLength int
	MaxPromptLength int
}

func LoadConfig(cfg *config.Config) *Config {
	workerCfg := config.GetWorkerConfig(cfg, TaskType)
	return &Config{
		Timeout:         config.GetDuration(workerCfg.Timeout),
		MinPromptLength: cfg.Query.MinPromptLength,
		MaxPromptLength: cfg.Query.MaxPromptLength,
	}
}
