// internal/workers/catalog/refresh-program-catalog/handler.go
package refreshprogramcatalog

import (
	"context"
	"encoding/json"
	"time"

	"career-matching-workers/internal/catalog"
	"career-matching-workers/internal/common/camunda"
	"career-matching-workers/internal/common/errors"
	"career-matching-workers/internal/common/logger"
	"career-matching-workers/internal/common/metrics"
	"career-matching-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "refresh-program-catalog"

var inputSchema = validation.MustCompile(TaskType, map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"reason":      map[string]interface{}{"type": "string"},
		"requestedBy": map[string]interface{}{"type": "string"},
	},
})

type Handler struct {
	config    *Config
	refresher *catalog.Refresher
	logger    logger.Logger
	errors    *errors.ErrorHandler
}

func NewHandler(config *Config, refresher *catalog.Refresher, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		refresher: refresher,
		logger:    log,
		errors:    errors.NewErrorHandler(log),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.handle(ctx, job)
	if err == nil {
		err = camunda.CompleteJob(ctx, client, job, output)
	}
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.Normalize(err).Code)).Inc()
		h.errors.HandleJobError(ctx, client, job, err)
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

func (h *Handler) handle(ctx context.Context, job entities.Job) (*Output, error) {
	var input Input
	if vars := []byte(job.Variables); len(vars) > 0 {
		if err := inputSchema.Validate(vars); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(vars, &input); err != nil {
			return nil, errors.NewValidationError("decode job variables: "+err.Error(), nil)
		}
	}
	return h.Execute(ctx, &input)
}

// Execute forces a catalog reload outside the periodic schedule.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	h.logger.Info("catalog refresh requested", map[string]interface{}{
		"reason":      input.Reason,
		"requestedBy": input.RequestedBy,
	})

	res, err := h.refresher.Refresh(ctx)
	if err != nil {
		return nil, err
	}

	return &Output{
		RefreshResult: res,
		RefreshedAt:   time.Now().UTC().Format(time.RFC3339),
	}, nil
}
