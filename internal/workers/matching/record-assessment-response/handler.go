// internal/workers/matching/record-assessment-response/handler.go
package recordassessmentresponse

import (
	"context"
	"encoding/json"
	"time"

	"career-matching-workers/internal/assessment"
	"career-matching-workers/internal/common/camunda"
	"career-matching-workers/internal/common/errors"
	"career-matching-workers/internal/common/logger"
	"career-matching-workers/internal/common/metrics"
	"career-matching-workers/internal/common/validation"
	"career-matching-workers/internal/matching/engine"
	"career-matching-workers/internal/matching/riasec"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "record-assessment-response"

var inputSchema = validation.MustCompile(TaskType, map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"sessionId": map[string]interface{}{"type": "string"},
		"finish":    map[string]interface{}{"type": "boolean"},
		"responses": map[string]interface{}{
			"type": "array",
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
	store  *assessment.RedisStore
	engine *engine.Engine
	logger logger.Logger
	errors *errors.ErrorHandler
}

func NewHandler(config *Config, store *assessment.RedisStore, eng *engine.Engine, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		store:  store,
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

// Execute records a batch of answers against a stored session. Career
// matches are attached once the session completes.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	q := h.engine.Questionnaire()

	sessionID := input.SessionID
	created := false
	if sessionID == "" {
		// reject a bad opening batch before anything is written
		if len(input.Responses) > 0 {
			if err := riasec.ValidateResponses(q, input.Responses); err != nil {
				return nil, err
			}
		}
		sess, err := h.store.Create(ctx, q)
		if err != nil {
			return nil, err
		}
		sessionID = sess.ID
		created = true
	}

	sess, err := h.store.Record(ctx, sessionID, q, input.Responses, input.Finish)
	if err != nil {
		if created {
			if delErr := h.store.Delete(ctx, sessionID); delErr != nil {
				h.logger.WithError(delErr).Warn("failed to drop rejected session", map[string]interface{}{"sessionId": sessionID})
			}
		}
		return nil, err
	}

	answered, total := sess.Progress(q)
	out := &Output{
		SessionID:         sess.ID,
		InstrumentVersion: sess.InstrumentVersion,
		State:             sess.State,
		Answered:          answered,
		Total:             total,
	}
	if sess.State == riasec.StateCompleted && sess.Profile != nil {
		out.RiasecProfile = sess.Profile
		out.CareerMatches = h.engine.Careers(*sess.Profile)
	}

	h.logger.Info("assessment responses recorded", map[string]interface{}{
		"sessionId": sess.ID,
		"state":     string(sess.State),
		"answered":  answered,
		"total":     total,
	})
	return out, nil
}
