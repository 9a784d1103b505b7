package riasec

import (
	"testing"

	"career-matching-workers/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

// answerAll answers every item, using valueFor per dimension.
func answerAll(q *Questionnaire, valueFor func(Dimension) int) []Response {
	items := q.Items()
	out := make([]Response, len(items))
	for i, it := range items {
		out[i] = Response{QuestionID: it.ID, Dimension: it.Dimension, Value: valueFor(it.Dimension)}
	}
	return out
}

// ==========================
// Questionnaire
// ==========================

func TestDefaultQuestionnaire(t *testing.T) {
	q := DefaultQuestionnaire()

	assert.Equal(t, 96, q.Len())
	assert.Equal(t, DefaultInstrumentVersion, q.Version())

	first, ok := q.Item("R01")
	require.True(t, ok)
	assert.Equal(t, Realistic, first.Dimension)

	last, ok := q.Item("C16")
	require.True(t, ok)
	assert.Equal(t, Conventional, last.Dimension)

	_, ok = q.Item("C17")
	assert.False(t, ok)
}

func TestNewQuestionnaire_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		items []Item
	}{
		{"empty", nil},
		{"bad dimension", append(DefaultItems(), Item{ID: "X01", Dimension: "X"})},
		{"duplicate id", append(DefaultItems(), Item{ID: "R01", Dimension: Realistic})},
		{"missing dimension", DefaultItems()[:80]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewQuestionnaire("v", tt.items)
			assert.ErrorIs(t, err, errors.ErrValidationFailed)
		})
	}
}

func TestParseDimension(t *testing.T) {
	d, ok := ParseDimension(" investigative ")
	assert.True(t, ok)
	assert.Equal(t, Investigative, d)

	d, ok = ParseDimension("s")
	assert.True(t, ok)
	assert.Equal(t, Social, d)

	_, ok = ParseDimension("Q")
	assert.False(t, ok)
}

// ==========================
// Profiling
// ==========================

func TestBuildProfile_AllRealistic(t *testing.T) {
	q := DefaultQuestionnaire()
	responses := answerAll(q, func(d Dimension) int {
		if d == Realistic {
			return 4
		}
		return 0
	})

	p, err := BuildProfile(q, responses)
	require.NoError(t, err)

	assert.Equal(t, Realistic, p.PrimaryType)
	assert.Equal(t, "R", p.HollandCode[:1])
	// remaining ties resolve in R,I,A,S,E,C order
	assert.Equal(t, "RIA", p.HollandCode)
	assert.Equal(t, 100.0, p.Scores[Realistic])
	assert.Equal(t, 0.0, p.Scores[Conventional])
	assert.False(t, p.Incomplete)
	assert.Equal(t, 96, p.Answered)
	assert.Equal(t, 96, p.Total)
}

func TestBuildProfile_ScoresBoundedAndCodeDistinct(t *testing.T) {
	q := DefaultQuestionnaire()
	values := map[Dimension]int{Realistic: 1, Investigative: 3, Artistic: 2, Social: 4, Enterprising: 0, Conventional: 3}

	p, err := BuildProfile(q, answerAll(q, func(d Dimension) int { return values[d] }))
	require.NoError(t, err)

	for _, d := range Dimensions {
		assert.GreaterOrEqual(t, p.Scores[d], 0.0)
		assert.LessOrEqual(t, p.Scores[d], 100.0)
	}
	assert.Equal(t, 75.0, p.Scores[Investigative])
	assert.Equal(t, "SIC", p.HollandCode)

	seen := map[rune]bool{}
	for _, r := range p.HollandCode {
		assert.False(t, seen[r])
		seen[r] = true
	}
	assert.Len(t, p.HollandCode, 3)
}

func TestBuildProfile_PartialNormalisesByAnswered(t *testing.T) {
	q := DefaultQuestionnaire()
	responses := []Response{
		{QuestionID: "I01", Value: 4},
		{QuestionID: "I02", Value: 2},
		{QuestionID: "A01", Value: 1},
	}

	p, err := BuildProfile(q, responses)
	require.NoError(t, err)

	assert.True(t, p.Incomplete)
	assert.Equal(t, 3, p.Answered)
	assert.Equal(t, 75.0, p.Scores[Investigative])
	assert.Equal(t, 25.0, p.Scores[Artistic])
	assert.Equal(t, 0.0, p.Scores[Realistic])
	assert.Equal(t, "IAR", p.HollandCode)
}

func TestBuildProfile_InvalidResponses(t *testing.T) {
	q := DefaultQuestionnaire()

	tests := []struct {
		name      string
		responses []Response
		expected  error
		question  string
	}{
		{"no responses", nil, errors.ErrValidationFailed, ""},
		{"unknown question", []Response{{QuestionID: "Z99", Value: 1}}, errors.ErrInvalidResponse, "Z99"},
		{"dimension mismatch", []Response{{QuestionID: "R01", Dimension: Social, Value: 1}}, errors.ErrInvalidResponse, "R01"},
		{"value too high", []Response{{QuestionID: "S02", Value: 5}}, errors.ErrInvalidResponse, "S02"},
		{"negative value", []Response{{QuestionID: "S03", Value: -1}}, errors.ErrInvalidResponse, "S03"},
		{"duplicate in batch", []Response{{QuestionID: "E01", Value: 1}, {QuestionID: "E01", Value: 2}}, errors.ErrInvalidResponse, "E01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildProfile(q, tt.responses)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.expected)
			if tt.question != "" {
				assert.Equal(t, tt.question, err.(*errors.StandardError).Metadata["questionId"])
			}
		})
	}
}

func TestHollandCode_TieOrder(t *testing.T) {
	scores := map[Dimension]float64{
		Realistic: 50, Investigative: 50, Artistic: 50, Social: 50, Enterprising: 50, Conventional: 50,
	}
	assert.Equal(t, "RIA", HollandCode(scores))

	scores[Conventional] = 51
	scores[Enterprising] = 51
	assert.Equal(t, "ECR", HollandCode(scores))
}

// ==========================
// Session FSM
// ==========================

func TestSession_CompletesWhenAllAnswered(t *testing.T) {
	q := DefaultQuestionnaire()
	s := NewSession("sess-1", q)
	assert.Equal(t, StateNotStarted, s.State)

	responses := answerAll(q, func(d Dimension) int { return 2 })
	require.NoError(t, s.Submit(q, responses[0]))
	assert.Equal(t, StateInProgress, s.State)
	assert.Nil(t, s.Profile)

	// re-answering overwrites rather than double counting
	require.NoError(t, s.Submit(q, Response{QuestionID: responses[0].QuestionID, Value: 3}))
	answered, total := s.Progress(q)
	assert.Equal(t, 1, answered)
	assert.Equal(t, 96, total)

	require.NoError(t, s.SubmitBatch(q, responses[1:]))
	assert.Equal(t, StateCompleted, s.State)
	require.NotNil(t, s.Profile)
	assert.False(t, s.Profile.Incomplete)

	err := s.Submit(q, responses[0])
	assert.ErrorIs(t, err, errors.ErrSessionClosed)
}

func TestSession_FinishPartial(t *testing.T) {
	q := DefaultQuestionnaire()
	s := NewSession("sess-2", q)

	_, err := s.Finish(q)
	assert.ErrorIs(t, err, errors.ErrValidationFailed)

	require.NoError(t, s.Submit(q, Response{QuestionID: "S01", Value: 4}))
	p, err := s.Finish(q)
	require.NoError(t, err)

	assert.True(t, p.Incomplete)
	assert.Equal(t, Social, p.PrimaryType)
	assert.Equal(t, StateCompleted, s.State)

	again, err := s.Finish(q)
	require.NoError(t, err)
	assert.Equal(t, p, again)
}

func TestSession_InvalidBatchRecordsNothing(t *testing.T) {
	q := DefaultQuestionnaire()
	s := NewSession("sess-3", q)

	err := s.SubmitBatch(q, []Response{{QuestionID: "R01", Value: 2}, {QuestionID: "R02", Value: 9}})
	assert.ErrorIs(t, err, errors.ErrInvalidResponse)
	assert.Empty(t, s.Answers)
	assert.Equal(t, StateNotStarted, s.State)
}

// ==========================
// Career matching
// ==========================

func TestMatchCareers(t *testing.T) {
	p := Profile{Scores: map[Dimension]float64{
		Realistic: 20, Investigative: 90, Artistic: 10, Social: 70, Enterprising: 30, Conventional: 40,
	}}
	careers := []Career{
		{Name: "Medical Doctor", Code: "ISR", Pathway: "STEM"},
		{Name: "Nurse", Code: "SIR", Pathway: "STEM"},
		{Name: "Graphic Designer", Code: "AER", Pathway: "Arts"},
		{Name: "Bad Code", Code: "XYZ"},
	}

	matches := MatchCareers(p, careers, 0)
	require.Len(t, matches, 3)

	// 0.5*90 + 0.3*70 + 0.2*20 = 70
	assert.Equal(t, "Medical Doctor", matches[0].CareerName)
	assert.Equal(t, 70.0, matches[0].Compatibility)
	assert.Equal(t, []string{"Strong Investigative interest (90/100)", "Strong Social interest (70/100)"}, matches[0].Reasons)

	// 0.5*70 + 0.3*90 + 0.2*20 = 66
	assert.Equal(t, "Nurse", matches[1].CareerName)
	assert.Equal(t, 66.0, matches[1].Compatibility)

	assert.Equal(t, "Graphic Designer", matches[2].CareerName)
	assert.Empty(t, matches[2].Reasons)

	assert.Len(t, MatchCareers(p, careers, 1), 1)
}

func TestMatchCareers_TieBreaksByName(t *testing.T) {
	p := Profile{Scores: map[Dimension]float64{Realistic: 50}}
	matches := MatchCareers(p, []Career{{Name: "Welder", Code: "R"}, {Name: "Carpenter", Code: "R"}}, 0)

	require.Len(t, matches, 2)
	assert.Equal(t, "Carpenter", matches[0].CareerName)
	assert.Equal(t, 50.0, matches[0].Compatibility)
}

func TestDefaultCareers_AllCodesValid(t *testing.T) {
	for _, c := range DefaultCareers() {
		assert.Len(t, careerLetters(c.Code), 3, c.Name)
	}
}
