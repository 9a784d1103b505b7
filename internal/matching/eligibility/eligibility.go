// Package eligibility compares cluster points against a program's cutoff history.
package eligibility

import (
	"fmt"
	"math"
	"sort"

	"career-matching-workers/internal/common/errors"
)

type Status string

const (
	StatusKnown   Status = "known"
	StatusUnknown Status = "unknown"
)

type Result struct {
	Eligible   bool                  `json:"eligible"`
	Status     Status                `json:"eligibilityStatus"`
	PointsGap  float64               `json:"pointsGap"`
	Cutoff     float64               `json:"cutoffUsed,omitempty"`
	CutoffYear int                   `json:"cutoffYearUsed,omitempty"`
	Warnings   []errors.Warning      `json:"warnings,omitempty"`
	Err        *errors.StandardError `json:"-"` // set when no year has data
}

// Analyze is AnalyzeFor without a program ID.
func Analyze(points float64, cutoffsByYear map[int]float64, targetYear int) Result {
	return AnalyzeFor("", points, cutoffsByYear, targetYear)
}

// AnalyzeFor picks the cutoff for targetYear, or the most recent earlier year with
// data, and derives eligibility and gap. targetYear 0 means the latest year on record.
// Non-positive or NaN cutoffs count as missing.
func AnalyzeFor(programID string, points float64, cutoffsByYear map[int]float64, targetYear int) Result {
	year, cutoff, ok := pickYear(cutoffsByYear, targetYear)
	if !ok {
		return Result{
			Eligible: false,
			Status:   StatusUnknown,
			Err:      errors.NewDataUnavailableError(programID),
		}
	}

	res := Result{
		Status:     StatusKnown,
		Cutoff:     cutoff,
		CutoffYear: year,
		Eligible:   points >= cutoff,
	}
	if !res.Eligible {
		// keep the gap positive when the shortfall is below rounding precision
		res.PointsGap = math.Max(round3(cutoff-points), 0.001)
	}

	if targetYear != 0 && year != targetYear {
		meta := map[string]interface{}{"requestedYear": targetYear, "yearUsed": year}
		if programID != "" {
			meta["programId"] = programID
		}
		res.Warnings = append(res.Warnings, errors.NewPartialDataWarning(
			fmt.Sprintf("no %d cutoff; using %d", targetYear, year), meta))
	}

	return res
}

func pickYear(cutoffs map[int]float64, targetYear int) (int, float64, bool) {
	years := make([]int, 0, len(cutoffs))
	for y, c := range cutoffs {
		if math.IsNaN(c) || c <= 0 {
			continue
		}
		if targetYear != 0 && y > targetYear {
			continue
		}
		years = append(years, y)
	}
	if len(years) == 0 {
		return 0, 0, false
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years[0], cutoffs[years[0]], true
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
