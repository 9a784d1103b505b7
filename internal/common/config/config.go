// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Matching      MatchingConfig          `mapstructure:"matching"`
	Catalog       CatalogConfig           `mapstructure:"catalog"`
	Assessment    AssessmentConfig        `mapstructure:"assessment"`
	Integrations  IntegrationConfig       `mapstructure:"integrations"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Observability ObservabilityConfig     `mapstructure:"observability"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
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
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"` // single address shorthand
}

// GetAddresses returns Addresses, or URL when Addresses is empty.
func (e ElasticsearchConfig) GetAddresses() []string {
	if len(e.Addresses) > 0 {
		return e.Addresses
	}
	if e.URL != "" {
		return []string{e.URL}
	}
	return nil
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- Matching engine ---

// MatchingConfig tunes the scorer, the aggregator and the engine fan-out.
type MatchingConfig struct {
	Weights           WeightsConfig   `mapstructure:"weights"`
	EligibleFloor     float64         `mapstructure:"eligible_floor"`
	IneligibleCeiling float64         `mapstructure:"ineligible_ceiling"`
	GapScale          float64         `mapstructure:"gap_scale"`
	ReachGap          float64         `mapstructure:"reach_gap"`
	StrongScore       float64         `mapstructure:"strong_score"`
	MaxPerTier        int             `mapstructure:"max_per_tier"`
	Concurrency       int             `mapstructure:"concurrency"`
	DeadlineMs        int             `mapstructure:"deadline_ms"`
	Placement         PlacementConfig `mapstructure:"placement"`
}

type WeightsConfig struct {
	Gap           float64 `mapstructure:"gap"`
	Coverage      float64 `mapstructure:"coverage"`
	Affordability float64 `mapstructure:"affordability"`
	Alignment     float64 `mapstructure:"alignment"`
}

// PlacementConfig describes the cluster subject selection rule.
type PlacementConfig struct {
	Compulsory  []string `mapstructure:"compulsory"`
	MinSubjects int      `mapstructure:"min_subjects"`
	MaxSubjects int      `mapstructure:"max_subjects"`
	TargetMax   float64  `mapstructure:"target_max"`
}

// --- Catalog ---

type CatalogConfig struct {
	Source            string `mapstructure:"source"` // postgres | elasticsearch | file
	FilePath          string `mapstructure:"file_path"`
	Index             string `mapstructure:"index"`
	AdmissionYear     int    `mapstructure:"admission_year"`
	RefreshIntervalMs int    `mapstructure:"refresh_interval_ms"`
	CacheTTLMs        int    `mapstructure:"cache_ttl_ms"`
	MaxPrograms       int    `mapstructure:"max_programs"`
}

// --- Assessment ---

type AssessmentConfig struct {
	SessionTTLMs   int    `mapstructure:"session_ttl_ms"`
	InstrumentPath string `mapstructure:"instrument_path"`
	CareerLimit    int    `mapstructure:"career_limit"`
}

// IntegrationConfig holds settings for external services.
type IntegrationConfig struct {
	AWS struct {
		Region string `mapstructure:"region"`
		SNS    struct {
			Enabled         bool   `mapstructure:"enabled"`
			CatalogTopicARN string `mapstructure:"catalog_topic_arn"`
		} `mapstructure:"sns"`
	} `mapstructure:"aws"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ObservabilityConfig holds tracing and metrics endpoints.
type ObservabilityConfig struct {
	ServiceName    string `mapstructure:"service_name"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
	MetricsAddress string `mapstructure:"metrics_address"`
}
