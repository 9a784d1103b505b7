package assessment

import (
	"context"
	"testing"
	"time"

	"career-matching-workers/internal/common/errors"
	"career-matching-workers/internal/common/logger"
	"career-matching-workers/internal/matching/riasec"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func miniQuestionnaire(t *testing.T, version string) *riasec.Questionnaire {
	t.Helper()
	var items []riasec.Item
	for _, d := range riasec.Dimensions {
		items = append(items, riasec.Item{ID: string(d) + "1", Dimension: d, Text: "item " + string(d)})
	}
	q, err := riasec.NewQuestionnaire(version, items)
	require.NoError(t, err)
	return q
}

func setup(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, NewRedisStore(rdb, 24*time.Hour, logger.NewTestLogger(t))
}

func TestRedisStore_CreateGet(t *testing.T) {
	mr, store := setup(t)
	q := miniQuestionnaire(t, "mini-v1")
	ctx := context.Background()

	sess, err := store.Create(ctx, q)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, riasec.StateNotStarted, sess.State)
	assert.Equal(t, 24*time.Hour, mr.TTL(sessionKey(sess.ID)))

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, "mini-v1", got.InstrumentVersion)

	_, err = store.Get(ctx, "nope")
	assert.ErrorIs(t, err, errors.ErrSessionNotFound)
}

func TestRedisStore_RecordToCompletion(t *testing.T) {
	_, store := setup(t)
	q := miniQuestionnaire(t, "mini-v1")
	ctx := context.Background()

	sess, err := store.Create(ctx, q)
	require.NoError(t, err)

	sess, err = store.Record(ctx, sess.ID, q, []riasec.Response{{QuestionID: "R1", Value: 4}}, false)
	require.NoError(t, err)
	assert.Equal(t, riasec.StateInProgress, sess.State)

	// overwrite while in progress
	sess, err = store.Record(ctx, sess.ID, q, []riasec.Response{{QuestionID: "R1", Value: 3}}, false)
	require.NoError(t, err)
	assert.Equal(t, 3, sess.Answers["R1"])

	rest := []riasec.Response{
		{QuestionID: "I1", Value: 2},
		{QuestionID: "A1", Value: 1},
		{QuestionID: "S1", Value: 4},
		{QuestionID: "E1", Value: 0},
		{QuestionID: "C1", Value: 2},
	}
	sess, err = store.Record(ctx, sess.ID, q, rest, false)
	require.NoError(t, err)
	assert.Equal(t, riasec.StateCompleted, sess.State)
	require.NotNil(t, sess.Profile)
	assert.Equal(t, "SRI", sess.Profile.HollandCode)
	assert.False(t, sess.Profile.Incomplete)

	stored, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.Profile.HollandCode, stored.Profile.HollandCode)

	_, err = store.Record(ctx, sess.ID, q, []riasec.Response{{QuestionID: "R1", Value: 1}}, false)
	assert.ErrorIs(t, err, errors.ErrSessionClosed)
}

func TestRedisStore_FinishPartial(t *testing.T) {
	_, store := setup(t)
	q := miniQuestionnaire(t, "mini-v1")
	ctx := context.Background()

	sess, err := store.Create(ctx, q)
	require.NoError(t, err)

	_, err = store.Record(ctx, sess.ID, q, nil, true)
	assert.ErrorIs(t, err, errors.ErrValidationFailed)

	sess, err = store.Record(ctx, sess.ID, q, []riasec.Response{{QuestionID: "A1", Value: 4}}, true)
	require.NoError(t, err)
	assert.Equal(t, riasec.StateCompleted, sess.State)
	assert.True(t, sess.Profile.Incomplete)
	assert.Equal(t, riasec.Artistic, sess.Profile.PrimaryType)

	// finishing again returns the same profile
	again, err := store.Record(ctx, sess.ID, q, nil, true)
	require.NoError(t, err)
	assert.Equal(t, sess.Profile, again.Profile)
}

func TestRedisStore_RecordErrors(t *testing.T) {
	_, store := setup(t)
	q := miniQuestionnaire(t, "mini-v1")
	ctx := context.Background()

	_, err := store.Record(ctx, "missing", q, []riasec.Response{{QuestionID: "R1", Value: 1}}, false)
	assert.ErrorIs(t, err, errors.ErrSessionNotFound)

	sess, err := store.Create(ctx, q)
	require.NoError(t, err)

	_, err = store.Record(ctx, sess.ID, q, []riasec.Response{{QuestionID: "R1", Value: 9}}, false)
	assert.ErrorIs(t, err, errors.ErrInvalidResponse)

	other := miniQuestionnaire(t, "mini-v2")
	_, err = store.Record(ctx, sess.ID, other, []riasec.Response{{QuestionID: "R1", Value: 1}}, false)
	assert.ErrorIs(t, err, errors.ErrValidationFailed)

	// rejected batches leave the session untouched
	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Answers)
}

func TestRedisStore_Expiry(t *testing.T) {
	mr, store := setup(t)
	q := miniQuestionnaire(t, "mini-v1")
	ctx := context.Background()

	sess, err := store.Create(ctx, q)
	require.NoError(t, err)

	mr.FastForward(25 * time.Hour)
	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, errors.ErrSessionNotFound)
}

func TestRedisStore_Delete(t *testing.T) {
	_, store := setup(t)
	q := miniQuestionnaire(t, "mini-v1")
	ctx := context.Background()

	sess, err := store.Create(ctx, q)
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, sess.ID))
	require.NoError(t, store.Delete(ctx, sess.ID))

	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, errors.ErrSessionNotFound)
}
