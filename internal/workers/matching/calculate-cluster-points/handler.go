// internal/workers/matching/calculate-cluster-points/handler.go
package calculateclusterpoints

import (
	"context"
	"encoding/json"
	"time"

	"career-matching-workers/internal/common/camunda"
	"career-matching-workers/internal/common/errors"
	"career-matching-workers/internal/common/logger"
	"career-matching-workers/internal/common/metrics"
	"career-matching-workers/internal/common/validation"
	"career-matching-workers/internal/matching/cluster"
	"career-matching-workers/internal/matching/engine"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "calculate-cluster-points"

var inputSchema = validation.MustCompile(TaskType, map[string]interface{}{
	"type":     "object",
	"required": []string{"subjects"},
	"properties": map[string]interface{}{
		"subjects": map[string]interface{}{
			"type":     "array",
			"minItems": 1,
			"items": map[string]interface{}{
				"type":     "object",
				"required": []string{"subject", "grade"},
				"properties": map[string]interface{}{
					"subject": map[string]interface{}{"type": "string", "minLength": 1},
					"grade":   map[string]interface{}{"type": "string", "minLength": 1},
				},
			},
		},
	},
})

type Handler struct {
	config *Config
	engine *engine.Engine
	logger logger.Logger
	errors *errors.ErrorHandler
}

func NewHandler(config *Config, eng *engine.Engine, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		engine: eng,
		logger: log,
		errors: errors.NewErrorHandler(log),
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
	input, err := parseInput([]byte(job.Variables))
	if err != nil {
		return nil, err
	}
	return h.Execute(ctx, input)
}

func parseInput(vars []byte) (*Input, error) {
	if err := inputSchema.Validate(vars); err != nil {
		return nil, err
	}
	var input Input
	if err := json.Unmarshal(vars, &input); err != nil {
		return nil, errors.NewValidationError("decode job variables: "+err.Error(), nil)
	}
	return &input, nil
}

// Execute is exported for testing.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := h.engine.ClusterPoints(cluster.Profile{Subjects: input.Subjects})
	if err != nil {
		return nil, err
	}

	h.logger.Info("cluster points calculated", map[string]interface{}{
		"clusterPoints": res.Points,
		"rawPoints":     res.RawPoints,
		"subjects":      len(input.Subjects),
	})

	return &Output{
		ClusterPoints:    res.Points,
		RawPoints:        res.RawPoints,
		MaxPoints:        res.MaxPoints,
		SelectedSubjects: res.Selected,
		Warnings:         res.Warnings,
	}, nil
}
