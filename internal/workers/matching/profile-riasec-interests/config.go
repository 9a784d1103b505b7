// internal/workers/matching/profile-riasec-interests/config.go
package profileriasecinterests

import (
	"time"

	"career-matching-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Timeout: config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
	}
}
