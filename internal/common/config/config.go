// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig               `mapstructure:"app"`
	Camunda   CamundaConfig           `mapstructure:"camunda"`
	Database  DatabaseConfig          `mapstructure:"database"`
	Directory DirectoryConfig         `mapstructure:"directory"`
	Workers   map[string]WorkerConfig `mapstructure:"workers"`
	Query     QueryConfig             `mapstructure:"query"`
	MCP       MCPConfig               `mapstructure:"mcp"`
	HTTP      HTTPConfig              `mapstructure:"http"`
	Logging   LoggingConfig           `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses    []string `mapstructure:"addresses"`
	Username     string   `mapstructure:"username"`
	Password     string   `mapstructure:"password"`
	TasksIndex   string   `mapstructure:"tasks_index"`
	ProjectIndex string   `mapstructure:"projects_index"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Directory backends.
const (
	BackendPostgres      = "postgres"
	BackendElasticsearch = "elasticsearch"
)

// DirectoryConfig selects where tasks and projects are read from.
type DirectoryConfig struct {
	Backend    string `mapstructure:"backend"`
	MaxResults int    `mapstructure:"max_results"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// QueryConfig tunes the natural-language pipeline.
type QueryConfig struct {
	EntityCacheTTL          int     `mapstructure:"entity_cache_ttl"` // seconds
	FuzzyThreshold          float64 `mapstructure:"fuzzy_threshold"`
	SuggestionThreshold     float64 `mapstructure:"suggestion_threshold"`
	MinPromptLength         int     `mapstructure:"min_prompt_length"`
	MaxPromptLength         int     `mapstructure:"max_prompt_length"`
	RedistributionThreshold int     `mapstructure:"redistribution_threshold"`
	KnownPeopleSampleSize   int     `mapstructure:"known_people_sample_size"`
	ProcessTimeout          int     `mapstructure:"process_timeout"` // milliseconds
	IncludeDebugInfo        bool    `mapstructure:"include_debug_info"`
}

type MCPConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	ServerName string `mapstructure:"server_name"`
}

type HTTPConfig struct {
	Address string `mapstructure:"address"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
