// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Task types known to the worker manager. Workers absent from the config file
// fall back to GetWorkerConfig defaults.
var KnownWorkers = []string{
	"calculate-cluster-points",
	"compute-program-matches",
	"profile-riasec-interests",
	"record-assessment-response",
	"refresh-program-catalog",
}

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml on top,
// expands ${VAR} placeholders and applies defaults.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // env overlay is optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{".env", "../.env", "../../.env"}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills secrets from well-known env names when the file left them blank.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Database.Postgres.User == "" {
		if val := os.Getenv("DB_USER"); val != "" {
			cfg.Database.Postgres.User = val
		}
	}
	if cfg.Database.Postgres.Password == "" {
		if val := os.Getenv("DB_PASSWORD"); val != "" {
			cfg.Database.Postgres.Password = val
		}
	}
	if cfg.Database.Redis.Password == "" {
		if val := os.Getenv("REDIS_PASSWORD"); val != "" {
			cfg.Database.Redis.Password = val
		}
	}
	if cfg.Integrations.AWS.SNS.CatalogTopicARN == "" {
		if val := os.Getenv("CATALOG_TOPIC_ARN"); val != "" {
			cfg.Integrations.AWS.SNS.CatalogTopicARN = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "career-matching-workers"
	}

	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Workers == nil {
		cfg.Workers = make(map[string]WorkerConfig)
	}
	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 30000
		}
		if worker.MaxRetries == 0 {
			worker.MaxRetries = 3
		}
		cfg.Workers[key] = worker
	}

	m := &cfg.Matching
	if m.Weights == (WeightsConfig{}) {
		m.Weights = WeightsConfig{Gap: 0.30, Coverage: 0.20, Affordability: 0.20, Alignment: 0.30}
	}
	if m.EligibleFloor == 0 {
		m.EligibleFloor = 50
	}
	if m.IneligibleCeiling == 0 {
		m.IneligibleCeiling = 49
	}
	if m.GapScale == 0 {
		m.GapScale = 5
	}
	if m.ReachGap == 0 {
		m.ReachGap = 5
	}
	if m.StrongScore == 0 {
		m.StrongScore = 80
	}
	if m.DeadlineMs == 0 {
		m.DeadlineMs = 2000
	}
	if len(m.Placement.Compulsory) == 0 {
		m.Placement.Compulsory = []string{"Mathematics", "English"}
	}
	if m.Placement.MinSubjects == 0 {
		m.Placement.MinSubjects = 4
	}
	if m.Placement.MaxSubjects == 0 {
		m.Placement.MaxSubjects = 7
	}
	if m.Placement.TargetMax == 0 {
		m.Placement.TargetMax = 84
	}

	if cfg.Catalog.Source == "" {
		cfg.Catalog.Source = "postgres"
	}
	if cfg.Catalog.Index == "" {
		cfg.Catalog.Index = "programs"
	}
	if cfg.Catalog.RefreshIntervalMs == 0 {
		cfg.Catalog.RefreshIntervalMs = 15 * 60 * 1000
	}
	if cfg.Catalog.CacheTTLMs == 0 {
		cfg.Catalog.CacheTTLMs = 60 * 60 * 1000
	}
	if cfg.Catalog.AdmissionYear == 0 {
		cfg.Catalog.AdmissionYear = time.Now().Year()
	}
	if cfg.Catalog.MaxPrograms == 0 {
		cfg.Catalog.MaxPrograms = 10000
	}

	if cfg.Assessment.SessionTTLMs == 0 {
		cfg.Assessment.SessionTTLMs = 7 * 24 * 60 * 60 * 1000
	}
	if cfg.Assessment.CareerLimit == 0 {
		cfg.Assessment.CareerLimit = 10
	}

	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = cfg.App.Name
	}
	if cfg.Observability.MetricsAddress == "" {
		cfg.Observability.MetricsAddress = ":8080"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required")
	}

	if cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required")
	}

	switch cfg.Catalog.Source {
	case "postgres":
		if cfg.Database.Postgres.Host == "" || cfg.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.host and database.postgres.database are required for catalog.source=postgres")
		}
	case "elasticsearch":
		if len(cfg.Database.Elasticsearch.GetAddresses()) == 0 {
			return fmt.Errorf("database.elasticsearch.addresses or url is required for catalog.source=elasticsearch")
		}
	case "file":
		if cfg.Catalog.FilePath == "" {
			return fmt.Errorf("catalog.file_path is required for catalog.source=file")
		}
	default:
		return fmt.Errorf("catalog.source must be one of postgres, elasticsearch, file; got %q", cfg.Catalog.Source)
	}

	w := cfg.Matching.Weights
	if w.Gap < 0 || w.Coverage < 0 || w.Affordability < 0 || w.Alignment < 0 {
		return fmt.Errorf("matching.weights must be non-negative")
	}
	if w.Gap+w.Coverage+w.Affordability+w.Alignment == 0 {
		return fmt.Errorf("matching.weights must not all be zero")
	}
	if cfg.Matching.IneligibleCeiling >= cfg.Matching.EligibleFloor {
		return fmt.Errorf("matching.ineligible_ceiling (%v) must be below matching.eligible_floor (%v)",
			cfg.Matching.IneligibleCeiling, cfg.Matching.EligibleFloor)
	}
	if cfg.Matching.EligibleFloor < 50 || cfg.Matching.EligibleFloor > 100 {
		return fmt.Errorf("matching.eligible_floor must be within 50-100, got %v", cfg.Matching.EligibleFloor)
	}
	if p := cfg.Matching.Placement; p.MaxSubjects > 8 || p.MinSubjects < 4 || p.MinSubjects > p.MaxSubjects {
		return fmt.Errorf("matching.placement must satisfy 4 <= min_subjects <= max_subjects <= 8")
	}

	if cfg.Integrations.AWS.SNS.Enabled && cfg.Integrations.AWS.SNS.CatalogTopicARN == "" {
		return fmt.Errorf("integrations.aws.sns.catalog_topic_arn is required when sns is enabled")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetWorkerConfig retrieves worker-specific configuration with fallback to defaults
func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}

	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30000,
		MaxRetries:    3,
	}
}

// IsWorkerEnabled checks if a specific worker is enabled
func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker.Enabled
	}
	return true
}
