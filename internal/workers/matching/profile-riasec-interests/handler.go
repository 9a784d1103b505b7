// internal/workers/matching/profile-riasec-interests/handler.go
package profileriasecinterests

import (
	"context"
	"encoding/json"
	"time"

	"career-matching-workers/internal/common/camunda"
	"career-matching-workers/internal/common/errors"
	"career-matching-workers/internal/common/logger"
	"career-matching-workers/internal/common/metrics"
	"career-matching-workers/internal/common/validation"
	"career-matching-workers/internal/matching/engine"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "profile-riasec-interests"

var inputSchema = validation.MustCompile(TaskType, map[string]interface{}{
	"type":     "object",
	"required": []string{"responses"},
	"properties": map[string]interface{}{
		"responses": map[string]interface{}{
			"type":     "array",
			"minItems": 1,
			"items": map[string]interface{}{
				"type":     "object",
				"required": []string{"questionId", "value"},
				"properties": map[string]interface{}{
					"questionId": map[string]interface{}{"type": "string", "minLength": 1},
					"dimension":  map[string]interface{}{"type": "string"},
					"value":      map[string]interface{}{"type": "integer"},
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
	vars := []byte(job.Variables)
	if err := inputSchema.Validate(vars); err != nil {
		return nil, err
	}
	var input Input
	if err := json.Unmarshal(vars, &input); err != nil {
		return nil, errors.NewValidationError("decode job variables: "+err.Error(), nil)
	}
	return h.Execute(ctx, &input)
}

// Execute scores a complete or partial batch of responses in one go.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	profile, careers, err := h.engine.Interests(input.Responses)
	if err != nil {
		return nil, err
	}

	h.logger.Info("interest profile built", map[string]interface{}{
		"hollandCode": profile.HollandCode,
		"answered":    profile.Answered,
		"total":       profile.Total,
		"incomplete":  profile.Incomplete,
	})

	return &Output{
		InstrumentVersion: h.engine.Questionnaire().Version(),
		RiasecProfile:     profile,
		CareerMatches:     careers,
	}, nil
}
