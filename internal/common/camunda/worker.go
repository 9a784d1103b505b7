// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"sync"
	"time"

	"career-matching-workers/internal/common/config"
	"career-matching-workers/internal/common/logger"
	"career-matching-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// JobHandler completes, fails or throws every job it receives.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

// HandlerFunc adapts a plain function to JobHandler.
type HandlerFunc func(client worker.JobClient, job entities.Job)

func (f HandlerFunc) Handle(client worker.JobClient, job entities.Job) { f(client, job) }

// Manager opens one job worker per registered task type and closes them together.
type Manager struct {
	client  zbc.Client
	cfg     *config.Config
	obs     *observability.Observability
	logger  logger.Logger
	mu      sync.Mutex
	workers map[string]worker.JobWorker
}

func NewManager(client zbc.Client, cfg *config.Config, obs *observability.Observability, log logger.Logger) *Manager {
	return &Manager{
		client:  client,
		cfg:     cfg,
		obs:     obs,
		logger:  log,
		workers: make(map[string]worker.JobWorker),
	}
}

// Register opens a worker for taskType unless it is disabled in config.
// It reports whether the worker was opened.
func (m *Manager) Register(taskType string, handler JobHandler) bool {
	if !config.IsWorkerEnabled(m.cfg, taskType) {
		m.logger.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return false
	}
	wc := config.GetWorkerConfig(m.cfg, taskType)

	jw := m.client.NewJobWorker().
		JobType(taskType).
		Handler(m.instrument(taskType, handler)).
		MaxJobsActive(wc.MaxJobsActive).
		Timeout(config.GetDuration(wc.Timeout) + 5*time.Second).
		Name(m.cfg.App.Name).
		Open()

	m.mu.Lock()
	if prev, ok := m.workers[taskType]; ok {
		prev.Close()
	}
	m.workers[taskType] = jw
	m.mu.Unlock()

	m.logger.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wc.MaxJobsActive,
		"timeoutMs":     wc.Timeout,
	})
	return true
}

// instrument records an OpenTelemetry count and duration for every job.
// Outcome-specific Prometheus counters stay in the handlers.
func (m *Manager) instrument(taskType string, handler JobHandler) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		handler.Handle(client, job)
		ctx := context.Background()
		m.obs.RecordJobProcessed(ctx, taskType, "handled")
		m.obs.RecordJobDuration(ctx, taskType, time.Since(start), "handled")
	}
}

// Registered returns the task types with an open worker.
func (m *Manager) Registered() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.workers))
	for t := range m.workers {
		out = append(out, t)
	}
	return out
}

// Close stops every worker and waits for in-flight jobs.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for taskType, jw := range m.workers {
		m.logger.Info("stopping worker", map[string]interface{}{"taskType": taskType})
		jw.Close()
		jw.AwaitClose()
	}
	m.workers = make(map[string]worker.JobWorker)
}
