// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"career-matching-workers/internal/assessment"
	"career-matching-workers/internal/catalog"
	"career-matching-workers/internal/common/camunda"
	"career-matching-workers/internal/common/config"
	"career-matching-workers/internal/common/database"
	"career-matching-workers/internal/common/logger"
	"career-matching-workers/internal/common/observability"
	"career-matching-workers/internal/matching/cluster"
	"career-matching-workers/internal/matching/engine"
	"career-matching-workers/internal/matching/recommend"
	"career-matching-workers/internal/matching/riasec"

	refreshprogramcatalog "career-matching-workers/internal/workers/catalog/refresh-program-catalog"
	calculateclusterpoints "career-matching-workers/internal/workers/matching/calculate-cluster-points"
	computeprogrammatches "career-matching-workers/internal/workers/matching/compute-program-matches"
	recordassessmentresponse "career-matching-workers/internal/workers/matching/record-assessment-response"
)

// ==========================
// Environment
// ==========================

type testEnvironment struct {
	store     *catalog.Store
	cache     *catalog.RedisCache
	engine    *engine.Engine
	refresh   *refreshprogramcatalog.Handler
	cluster   *calculateclusterpoints.Handler
	matches   *computeprogrammatches.Handler
	responses *recordassessmentresponse.Handler
}

func setupEnvironment(t *testing.T) *testEnvironment {
	t.Helper()
	log := logger.NewTestLogger(t)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	feed, err := filepath.Abs("../../configs/programs.json")
	require.NoError(t, err)

	store := catalog.NewStore()
	cache := catalog.NewRedisCache(rdb, time.Hour)
	refresher := catalog.NewRefresher(catalog.NewFileSource(feed, log), store, 2024, log,
		catalog.WithCache(cache), catalog.WithObservability(observability.Noop()))

	eng, err := engine.New(engine.OptionsFromConfig(defaultMatchingConfig(t), 5), observability.Noop(), log)
	require.NoError(t, err)

	sessions := assessment.NewRedisStore(rdb, time.Hour, log)
	timeout := 5 * time.Second

	return &testEnvironment{
		store:     store,
		cache:     cache,
		engine:    eng,
		refresh:   refreshprogramcatalog.NewHandler(&refreshprogramcatalog.Config{Timeout: timeout}, refresher, log),
		cluster:   calculateclusterpoints.NewHandler(&calculateclusterpoints.Config{Timeout: timeout}, eng, log),
		matches:   computeprogrammatches.NewHandler(&computeprogrammatches.Config{Timeout: timeout, Deadline: 2 * time.Second}, eng, store, log),
		responses: recordassessmentresponse.NewHandler(&recordassessmentresponse.Config{Timeout: timeout}, sessions, eng, log),
	}
}

// defaultMatchingConfig loads the shipped config file so the journey runs
// with the same weights and placement rule as production.
func defaultMatchingConfig(t *testing.T) config.MatchingConfig {
	t.Helper()
	t.Setenv("ZEEBE_ADDRESS", "localhost:26500")
	t.Setenv("REDIS_ADDRESS", "localhost:6379")
	t.Setenv("DB_HOST", "localhost")

	cfg, err := config.LoadFromFile("../../configs/config.yaml")
	require.NoError(t, err)
	return cfg.Matching
}

func answer(d riasec.Dimension, value int) []riasec.Response {
	var out []riasec.Response
	for _, it := range riasec.DefaultItems() {
		if it.Dimension == d {
			out = append(out, riasec.Response{QuestionID: it.ID, Value: value})
		}
	}
	return out
}

func tierOf(res *computeprogrammatches.Output, programID string) recommend.Tier {
	for _, g := range res.Tiers {
		for _, p := range g.Programs {
			if p.ProgramID == programID {
				return g.Tier
			}
		}
	}
	return ""
}

// ==========================
// Student journey
// ==========================

func TestStudentJourney(t *testing.T) {
	env := setupEnvironment(t)
	ctx := context.Background()

	// 1. Catalog load
	loaded, err := env.refresh.Execute(ctx, &refreshprogramcatalog.Input{Reason: "startup"})
	require.NoError(t, err)
	require.True(t, loaded.Changed)
	assert.Equal(t, 4, loaded.Programs)

	cached, err := env.cache.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, loaded.Version, cached.Version())

	// 2. Cluster points
	subjects := []cluster.SubjectGrade{
		{Subject: "Mathematics", Grade: "A"},
		{Subject: "English", Grade: "A-"},
		{Subject: "Biology", Grade: "A"},
		{Subject: "Chemistry", Grade: "A-"},
		{Subject: "Physics", Grade: "B+"},
		{Subject: "History", Grade: "B"},
		{Subject: "Kiswahili", Grade: "B+"},
	}
	points, err := env.cluster.Execute(ctx, &calculateclusterpoints.Input{Subjects: subjects})
	require.NoError(t, err)
	assert.Greater(t, points.ClusterPoints, 60.0)
	assert.LessOrEqual(t, points.ClusterPoints, 84.0)

	// 3. Assessment, one dimension per job
	var session *recordassessmentresponse.Output
	values := map[riasec.Dimension]int{
		riasec.Realistic:     2,
		riasec.Investigative: 4,
		riasec.Artistic:      1,
		riasec.Social:        3,
		riasec.Enterprising:  1,
		riasec.Conventional:  2,
	}
	for _, d := range riasec.Dimensions {
		in := &recordassessmentresponse.Input{Responses: answer(d, values[d])}
		if session != nil {
			in.SessionID = session.SessionID
		}
		session, err = env.responses.Execute(ctx, in)
		require.NoError(t, err)
	}
	require.Equal(t, riasec.StateCompleted, session.State)
	require.NotNil(t, session.RiasecProfile)
	assert.Equal(t, riasec.Investigative, session.RiasecProfile.PrimaryType)
	assert.LessOrEqual(t, len(session.CareerMatches), 5)

	// 4. Matching
	budget := 700000.0
	res, err := env.matches.Execute(ctx, &computeprogrammatches.Input{
		Subjects:      subjects,
		Preferences:   engine.Preferences{BudgetCeiling: &budget, PreferredLocations: []string{"Nairobi"}},
		RiasecProfile: session.RiasecProfile,
		TargetYear:    2024,
	})
	require.NoError(t, err)

	assert.Equal(t, loaded.Version, res.CatalogVersion)
	assert.Equal(t, points.ClusterPoints, res.ClusterPoints)
	assert.False(t, res.Truncated)
	assert.Equal(t, 4, res.Scanned)
	assert.Len(t, res.Tiers, len(recommend.TierOrder))
	assert.Equal(t, recommend.TierEligibleStrong, tierOf(res, "uon-mbchb"))
	assert.Equal(t, recommend.TierExploratory, tierOf(res, "moi-law"))
	assert.NotEmpty(t, res.CareerMatches)
	assert.NotEmpty(t, res.Advisories)
}

func TestStudentJourney_CatalogNotLoaded(t *testing.T) {
	env := setupEnvironment(t)

	_, err := env.matches.Execute(context.Background(), &computeprogrammatches.Input{
		Subjects: []cluster.SubjectGrade{
			{Subject: "Mathematics", Grade: "A"},
			{Subject: "English", Grade: "A"},
			{Subject: "Biology", Grade: "A"},
			{Subject: "Chemistry", Grade: "A"},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CATALOG_UNAVAILABLE")
}

// ==========================
// Real services (opt-in)
// ==========================

// TestServiceConnectivity checks the live backing services when E2E=1.
func TestServiceConnectivity(t *testing.T) {
	if os.Getenv("E2E") != "1" {
		t.Skip("set E2E=1 to run against live services")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg, err := config.Load()
	require.NoError(t, err)

	rdb := database.NewRedis(cfg.Database.Redis)
	defer rdb.Close()
	assert.NoError(t, database.PingRedis(ctx, rdb), "redis ping")

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	defer pg.Close()
	require.NoError(t, pg.Ping(ctx), "postgres ping")
	assert.NoError(t, pg.EnsureCatalogSchema(ctx), "catalog schema")

	if len(cfg.Database.Elasticsearch.GetAddresses()) > 0 {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		require.NoError(t, err)
		assert.NoError(t, database.PingElasticsearch(ctx, es), "elasticsearch ping")
	}

	zc, err := camunda.NewClient(ctx, camunda.ConfigFrom(cfg.Camunda))
	require.NoError(t, err, "zeebe topology")
	defer zc.Close()
}
