// internal/workers/matching/compute-program-matches/config.go
package computeprogrammatches

import (
	"fmt"
	"time"

	"career-matching-workers/internal/common/config"
)

type Config struct {
	Timeout  time.Duration
	Deadline time.Duration // scoring budget inside Timeout; exceeding it truncates
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Timeout:  config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
		Deadline: config.GetDuration(cfg.Matching.DeadlineMs),
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.Deadline > c.Timeout {
		return fmt.Errorf("deadline %s exceeds job timeout %s", c.Deadline, c.Timeout)
	}
	return nil
}
