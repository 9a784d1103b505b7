// internal/workers/matching/compute-program-matches/handler_test.go
package computeprogrammatches

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"career-matching-workers/internal/catalog"
	"career-matching-workers/internal/common/errors"
	"career-matching-workers/internal/common/logger"
	"career-matching-workers/internal/common/observability"
	"career-matching-workers/internal/matching/cluster"
	"career-matching-workers/internal/matching/engine"
	"career-matching-workers/internal/matching/recommend"
	"career-matching-workers/internal/matching/riasec"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func testSubjects() []cluster.SubjectGrade {
	return []cluster.SubjectGrade{
		{Subject: "Math", Grade: "A"},
		{Subject: "English", Grade: "B+"},
		{Subject: "Physics", Grade: "B"},
		{Subject: "Chemistry", Grade: "B-"},
		{Subject: "Biology", Grade: "C+"},
	}
}

func loadedStore(t *testing.T) *catalog.Store {
	t.Helper()
	snap, err := catalog.NewSnapshot("2024-test", 2024, []catalog.Program{
		{
			ID: "med", Name: "Bachelor of Medicine", UniversityID: "u1",
			RequiredSubjects: []string{"Biology", "Chemistry"}, CutoffsByYear: map[int]float64{2024: 44.0},
			RiasecCodes: "ISR", Location: "Nairobi",
		},
		{
			ID: "eng", Name: "BSc Civil Engineering", UniversityID: "u2",
			RequiredSubjects: []string{"Mathematics", "Physics"}, CutoffsByYear: map[int]float64{2024: 48.5},
			RiasecCodes: "RIC", Location: "Juja",
		},
		{
			ID: "law", Name: "Bachelor of Laws", UniversityID: "u1",
			RequiredSubjects: []string{"English", "History"}, CutoffsByYear: map[int]float64{2024: 60.0},
			RiasecCodes: "ESA", Location: "Nairobi",
		},
	})
	require.NoError(t, err)
	store := catalog.NewStore()
	store.Swap(snap)
	return store
}

func newTestHandler(t *testing.T, store *catalog.Store) *Handler {
	t.Helper()
	eng, err := engine.New(engine.DefaultOptions(), observability.Noop(), logger.NewTestLogger(t))
	require.NoError(t, err)
	cfg := &Config{Timeout: 5 * time.Second, Deadline: 2 * time.Second}
	require.NoError(t, cfg.Validate())
	return NewHandler(cfg, eng, store, logger.NewTestLogger(t))
}

func tierIDs(out *Output, tier recommend.Tier) []string {
	var ids []string
	for _, g := range out.Tiers {
		if g.Tier != tier {
			continue
		}
		for _, p := range g.Programs {
			ids = append(ids, p.ProgramID)
		}
	}
	return ids
}

// ==========================
// Execute
// ==========================

func TestHandler_Execute(t *testing.T) {
	h := newTestHandler(t, loadedStore(t))

	out, err := h.Execute(context.Background(), &Input{Subjects: testSubjects()})
	require.NoError(t, err)

	assert.Equal(t, 46.0, out.ClusterPoints)
	assert.Equal(t, "2024-test", out.CatalogVersion)
	assert.False(t, out.Truncated)
	assert.Equal(t, 3, out.Scanned)
	assert.Equal(t, []string{"med"}, tierIDs(out, recommend.TierEligibleStrong))
	assert.Equal(t, []string{"eng"}, tierIDs(out, recommend.TierReach))
	assert.Equal(t, []string{"law"}, tierIDs(out, recommend.TierUnlikely))
}

func TestHandler_Execute_ProgramFilter(t *testing.T) {
	h := newTestHandler(t, loadedStore(t))

	out, err := h.Execute(context.Background(), &Input{
		Subjects:   testSubjects(),
		ProgramIDs: []string{"law", "missing"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, out.Total)
	assert.Equal(t, []string{"law"}, tierIDs(out, recommend.TierUnlikely))
	assert.Empty(t, tierIDs(out, recommend.TierEligibleStrong))
}

func TestHandler_Execute_CatalogUnavailable(t *testing.T) {
	h := newTestHandler(t, catalog.NewStore())

	_, err := h.Execute(context.Background(), &Input{Subjects: testSubjects()})
	assert.ErrorIs(t, err, errors.ErrCatalogUnavailable)
}

func TestHandler_Execute_InvalidGrade(t *testing.T) {
	h := newTestHandler(t, loadedStore(t))
	subjects := testSubjects()
	subjects[1].Grade = "Q"

	_, err := h.Execute(context.Background(), &Input{Subjects: subjects})
	assert.ErrorIs(t, err, errors.ErrInvalidGrade)
}

// ==========================
// Input parsing
// ==========================

func TestParseInput(t *testing.T) {
	vars := `{
		"subjects": [{"subject": "Math", "grade": "A"}],
		"preferences": {"annualBudgetCeiling": 120000, "preferredLocations": ["Nairobi"]},
		"riasecResponses": [{"questionId": "R1", "value": 4}],
		"targetYear": 2024
	}`
	input, err := parseInput([]byte(vars))
	require.NoError(t, err)
	require.NotNil(t, input.Preferences.BudgetCeiling)
	assert.Equal(t, 120000.0, *input.Preferences.BudgetCeiling)
	assert.Equal(t, []string{"Nairobi"}, input.Preferences.PreferredLocations)
	assert.Equal(t, 4, input.RiasecResponses[0].Value)
	assert.Equal(t, 2024, input.TargetYear)

	withProfile, err := parseInput([]byte(`{
		"subjects": [{"subject": "Math", "grade": "A"}],
		"riasecProfile": {"scores": {"R": 20, "I": 90, "A": 10, "S": 75, "E": 30, "C": 40}, "hollandCode": "ISC"}
	}`))
	require.NoError(t, err)
	require.NotNil(t, withProfile.RiasecProfile)
	assert.Equal(t, 90.0, withProfile.RiasecProfile.Scores[riasec.Investigative])

	tests := map[string]string{
		"no subjects":     `{"preferences": {}}`,
		"negative budget": `{"subjects": [{"subject": "Math", "grade": "A"}], "preferences": {"annualBudgetCeiling": -1}}`,
		"bad year":        `{"subjects": [{"subject": "Math", "grade": "A"}], "targetYear": 24.5}`,
		"bad response":    `{"subjects": [{"subject": "Math", "grade": "A"}], "riasecResponses": [{"value": 3}]}`,
		"score above 100": `{"subjects": [{"subject": "Math", "grade": "A"}], "riasecProfile": {"scores": {"R": 500, "I": 0, "A": 0, "S": 0, "E": 0, "C": 0}}}`,
		"negative score":  `{"subjects": [{"subject": "Math", "grade": "A"}], "riasecProfile": {"scores": {"R": 10, "I": -40, "A": 0, "S": 0, "E": 0, "C": 0}}}`,
		"missing score":   `{"subjects": [{"subject": "Math", "grade": "A"}], "riasecProfile": {"scores": {"R": 10, "I": 40}}}`,
		"unknown letter":  `{"subjects": [{"subject": "Math", "grade": "A"}], "riasecProfile": {"scores": {"R": 1, "I": 1, "A": 1, "S": 1, "E": 1, "C": 1, "Z": 1}}}`,
	}
	for name, vars := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parseInput([]byte(vars))
			assert.ErrorIs(t, err, errors.ErrValidationFailed)
		})
	}
}

func TestOutput_FlattensResult(t *testing.T) {
	h := newTestHandler(t, loadedStore(t))
	out, err := h.Execute(context.Background(), &Input{Subjects: testSubjects()})
	require.NoError(t, err)

	data, err := json.Marshal(out)
	require.NoError(t, err)

	var vars map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &vars))
	assert.Contains(t, vars, "tiers")
	assert.Contains(t, vars, "runId")
	assert.Contains(t, vars, "durationMs")
	assert.Equal(t, "2024-test", vars["catalogVersion"])
}

func TestConfig_Validate(t *testing.T) {
	assert.Error(t, (&Config{}).Validate())
	assert.Error(t, (&Config{Timeout: time.Second, Deadline: 2 * time.Second}).Validate())
	assert.NoError(t, (&Config{Timeout: time.Second}).Validate())
}
