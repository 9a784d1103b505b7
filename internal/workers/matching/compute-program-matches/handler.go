// internal/workers/matching/compute-program-matches/handler.go
package computeprogrammatches

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
	"career-matching-workers/internal/matching/cluster"
	"career-matching-workers/internal/matching/engine"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "compute-program-matches"

var (
	subjectSchema = map[string]interface{}{
		"type":     "object",
		"required": []string{"subject", "grade"},
		"properties": map[string]interface{}{
			"subject": map[string]interface{}{"type": "string", "minLength": 1},
			"grade":   map[string]interface{}{"type": "string", "minLength": 1},
		},
	}
	responseSchema = map[string]interface{}{
		"type":     "object",
		"required": []string{"questionId", "value"},
		"properties": map[string]interface{}{
			"questionId": map[string]interface{}{"type": "string", "minLength": 1},
			"value":      map[string]interface{}{"type": "integer"},
		},
	}
	scoreSchema         = map[string]interface{}{"type": "number", "minimum": 0, "maximum": 100}
	riasecProfileSchema = map[string]interface{}{
		"type":     "object",
		"required": []string{"scores"},
		"properties": map[string]interface{}{
			"scores": map[string]interface{}{
				"type":     "object",
				"required": []string{"R", "I", "A", "S", "E", "C"},
				"properties": map[string]interface{}{
					"R": scoreSchema, "I": scoreSchema, "A": scoreSchema,
					"S": scoreSchema, "E": scoreSchema, "C": scoreSchema,
				},
				"additionalProperties": false,
			},
			"answered": map[string]interface{}{"type": "integer", "minimum": 0},
			"total":    map[string]interface{}{"type": "integer", "minimum": 0},
		},
	}
	preferencesSchema = map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"annualBudgetCeiling": map[string]interface{}{"type": []string{"number", "null"}, "minimum": 0},
			"careerInterests":     map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
			"preferredLocations":  map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
		},
	}
)

var inputSchema = validation.MustCompile(TaskType, map[string]interface{}{
	"type":     "object",
	"required": []string{"subjects"},
	"properties": map[string]interface{}{
		"subjects":        map[string]interface{}{"type": "array", "minItems": 1, "items": subjectSchema},
		"preferences":     preferencesSchema,
		"riasecProfile":   riasecProfileSchema,
		"riasecResponses": map[string]interface{}{"type": "array", "items": responseSchema},
		"programIds":      map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
		"targetYear":      map[string]interface{}{"type": "integer", "minimum": 1900},
	},
})

type Handler struct {
	config *Config
	engine *engine.Engine
	store  *catalog.Store
	logger logger.Logger
	errors *errors.ErrorHandler
}

func NewHandler(config *Config, eng *engine.Engine, store *catalog.Store, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		engine: eng,
		store:  store,
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

// Execute scores the current catalog snapshot for one student.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	snap, err := h.store.Current()
	if err != nil {
		return nil, err
	}

	req := engine.Request{
		Profile:       cluster.Profile{Subjects: input.Subjects},
		Preferences:   input.Preferences,
		RiasecProfile: input.RiasecProfile,
		Responses:     input.RiasecResponses,
		ProgramIDs:    input.ProgramIDs,
		TargetYear:    input.TargetYear,
	}
	if h.config.Deadline > 0 {
		req.Deadline = time.Now().Add(h.config.Deadline)
	}

	res, err := h.engine.Match(ctx, req, snap)
	if err != nil {
		return nil, err
	}

	if res.Truncated {
		h.logger.Warn("match run truncated", map[string]interface{}{
			"runId":   res.RunID,
			"scanned": res.Scanned,
			"total":   res.Total,
		})
	}

	return &Output{Result: res, DurationMs: res.Duration.Milliseconds()}, nil
}
