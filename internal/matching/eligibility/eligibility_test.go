package eligibility

import (
	"math"
	"testing"

	"career-matching-workers/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze(t *testing.T) {
	cutoffs := map[int]float64{2014: 40.1, 2015: 41.5, 2016: 42}

	tests := []struct {
		name         string
		points       float64
		targetYear   int
		wantEligible bool
		wantGap      float64
		wantYear     int
		wantWarnings int
	}{
		{"above cutoff", 46, 2016, true, 0, 2016, 0},
		{"exactly at cutoff", 42, 2016, true, 0, 2016, 0},
		{"below cutoff", 39.5, 2016, false, 2.5, 2016, 0},
		{"latest when year unset", 41.8, 0, false, 0.2, 2016, 0},
		{"future year falls back", 42.5, 2018, true, 0, 2016, 1},
		{"years after target ignored", 41, 2015, false, 0.5, 2015, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Analyze(tt.points, cutoffs, tt.targetYear)

			assert.Equal(t, StatusKnown, res.Status)
			assert.Equal(t, tt.wantEligible, res.Eligible)
			assert.InDelta(t, tt.wantGap, res.PointsGap, 1e-9)
			assert.Equal(t, tt.wantYear, res.CutoffYear)
			assert.Len(t, res.Warnings, tt.wantWarnings)
			assert.Nil(t, res.Err)
		})
	}
}

func TestAnalyze_FallsBackToOldestAvailable(t *testing.T) {
	res := AnalyzeFor("prog-1", 38, map[int]float64{2014: 40}, 2016)

	assert.Equal(t, 2014, res.CutoffYear)
	assert.Equal(t, 40.0, res.Cutoff)
	assert.False(t, res.Eligible)
	assert.Equal(t, 2.0, res.PointsGap)

	require.Len(t, res.Warnings, 1)
	w := res.Warnings[0]
	assert.Equal(t, errors.ErrCodePartialDataWarning, w.Code)
	assert.Equal(t, 2014, w.Metadata["yearUsed"])
	assert.Equal(t, 2016, w.Metadata["requestedYear"])
	assert.Equal(t, "prog-1", w.Metadata["programId"])
}

func TestAnalyze_NoData(t *testing.T) {
	cases := map[string]map[int]float64{
		"nil map":           nil,
		"only future years": {2020: 40},
		"non-positive":      {2015: 0, 2016: -1},
		"not a number":      {2016: math.NaN()},
	}

	for name, cutoffs := range cases {
		t.Run(name, func(t *testing.T) {
			res := AnalyzeFor("prog-x", 50, cutoffs, 2016)

			assert.Equal(t, StatusUnknown, res.Status)
			assert.False(t, res.Eligible)
			assert.Zero(t, res.PointsGap)
			require.NotNil(t, res.Err)
			assert.ErrorIs(t, res.Err, errors.ErrDataUnavailable)
			assert.Equal(t, "prog-x", res.Err.Metadata["programId"])
		})
	}
}

func TestAnalyze_GapLaw(t *testing.T) {
	cutoffs := map[int]float64{2016: 40}
	for p := 30.0; p <= 50; p += 0.25 {
		res := Analyze(p, cutoffs, 2016)
		if p >= 40 {
			assert.True(t, res.Eligible, "points %v", p)
			assert.Zero(t, res.PointsGap)
		} else {
			assert.False(t, res.Eligible, "points %v", p)
			assert.Greater(t, res.PointsGap, 0.0)
			assert.InDelta(t, 40-p, res.PointsGap, 0.001)
		}
	}
}

func TestAnalyze_SubPrecisionShortfallStaysPositive(t *testing.T) {
	res := Analyze(41.9999, map[int]float64{2016: 42}, 2016)
	assert.False(t, res.Eligible)
	assert.Equal(t, 0.001, res.PointsGap)
}
