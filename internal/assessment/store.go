// Package assessment persists RIASEC questionnaire sessions between job
// invocations so answers can arrive one at a time.
package assessment

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"career-matching-workers/internal/common/errors"
	"career-matching-workers/internal/common/logger"
	"career-matching-workers/internal/common/metrics"
	"career-matching-workers/internal/matching/riasec"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "assessment:session:"
	maxTxRetries     = 5
)

// RedisStore keeps one JSON document per session with a sliding TTL.
type RedisStore struct {
	rdb    redis.UniversalClient
	ttl    time.Duration
	logger logger.Logger
}

func NewRedisStore(rdb redis.UniversalClient, ttl time.Duration, log logger.Logger) *RedisStore {
	return &RedisStore{
		rdb:    rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "assessment-store"}),
	}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

// Create starts an empty session for q.
func (s *RedisStore) Create(ctx context.Context, q *riasec.Questionnaire) (*riasec.Session, error) {
	sess := riasec.NewSession(uuid.NewString(), q)
	if err := s.save(ctx, s.rdb, sess); err != nil {
		return nil, err
	}
	s.logger.Debug("assessment session created", map[string]interface{}{
		"sessionId":         sess.ID,
		"instrumentVersion": sess.InstrumentVersion,
	})
	return sess, nil
}

// Get loads a session. Unknown or expired IDs return ASSESSMENT_SESSION_NOT_FOUND.
func (s *RedisStore) Get(ctx context.Context, id string) (*riasec.Session, error) {
	return s.load(ctx, s.rdb, id)
}

// Record applies responses (and optionally finishes) under WATCH so that two
// workers answering the same session never lose each other's writes.
func (s *RedisStore) Record(ctx context.Context, id string, q *riasec.Questionnaire, responses []riasec.Response, finish bool) (*riasec.Session, error) {
	key := sessionKey(id)
	var result *riasec.Session

	txf := func(tx *redis.Tx) error {
		sess, err := s.load(ctx, tx, id)
		if err != nil {
			return err
		}
		if sess.InstrumentVersion != q.Version() {
			return errors.NewValidationError(
				fmt.Sprintf("session %s uses instrument %s, not %s", id, sess.InstrumentVersion, q.Version()),
				map[string]interface{}{"sessionId": id},
			)
		}

		if len(responses) > 0 {
			if err := sess.SubmitBatch(q, responses); err != nil {
				return err
			}
		}
		if finish && sess.State != riasec.StateCompleted {
			if _, err := sess.Finish(q); err != nil {
				return err
			}
		}

		data, err := json.Marshal(sess)
		if err != nil {
			return errors.NewCacheOperationFailedError("encode session", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		result = sess
		return nil
	}

	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err := s.rdb.Watch(ctx, txf, key)
		if err == nil {
			s.countResponses(q, responses)
			return result, nil
		}
		if stderrors.Is(err, redis.TxFailedErr) {
			continue
		}
		var stdErr *errors.StandardError
		if stderrors.As(err, &stdErr) {
			return nil, stdErr
		}
		return nil, errors.NewCacheOperationFailedError("record responses", err)
	}
	return nil, errors.NewCacheOperationFailedError("record responses",
		fmt.Errorf("session %s changed concurrently %d times", id, maxTxRetries))
}

// Delete removes a session. Deleting an unknown session is not an error.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, sessionKey(id)).Err(); err != nil {
		return errors.NewCacheOperationFailedError("delete session", err)
	}
	return nil
}

func (s *RedisStore) load(ctx context.Context, c redis.Cmdable, id string) (*riasec.Session, error) {
	data, err := c.Get(ctx, sessionKey(id)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, errors.NewSessionNotFoundError(id)
	}
	if err != nil {
		return nil, errors.NewCacheOperationFailedError("read session", err)
	}

	var sess riasec.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, errors.NewCacheOperationFailedError("decode session", err)
	}
	return &sess, nil
}

func (s *RedisStore) save(ctx context.Context, c redis.Cmdable, sess *riasec.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return errors.NewCacheOperationFailedError("encode session", err)
	}
	if err := c.Set(ctx, sessionKey(sess.ID), data, s.ttl).Err(); err != nil {
		return errors.NewCacheOperationFailedError("write session", err)
	}
	return nil
}

func (s *RedisStore) countResponses(q *riasec.Questionnaire, responses []riasec.Response) {
	for _, r := range responses {
		if item, ok := q.Item(r.QuestionID); ok {
			metrics.AssessmentResponses.WithLabelValues(string(item.Dimension)).Inc()
		}
	}
}
