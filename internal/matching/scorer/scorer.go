// Package scorer blends eligibility, subject coverage, affordability and career
// alignment into a single 0-100 match score per program.
package scorer

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"career-matching-workers/internal/common/errors"
	"career-matching-workers/internal/matching/cluster"
	"career-matching-workers/internal/matching/eligibility"
)

const (
	FactorGap           = "gap"
	FactorCoverage      = "coverage"
	FactorAffordability = "affordability"
	FactorAlignment     = "alignment"
)

var factorLabels = map[string]string{
	FactorGap:           "cutoff proximity",
	FactorCoverage:      "subject coverage",
	FactorAffordability: "affordability",
	FactorAlignment:     "career alignment",
}

type Weights struct {
	Gap           float64 `json:"gap"`
	Coverage      float64 `json:"coverage"`
	Affordability float64 `json:"affordability"`
	Alignment     float64 `json:"alignment"`
}

func DefaultWeights() Weights {
	return Weights{Gap: 0.30, Coverage: 0.20, Affordability: 0.20, Alignment: 0.30}
}

// Bands maps the blended factor score onto disjoint ranges so an eligible
// program always scores above an ineligible one.
type Bands struct {
	EligibleFloor     float64 `json:"eligibleFloor"`
	IneligibleCeiling float64 `json:"ineligibleCeiling"`
	GapScale          float64 `json:"gapScale"`
}

// MinEligibleFloor keeps every eligible score at 50 or above, which the
// eligible and eligible_strong tiers rely on.
const MinEligibleFloor = 50.0

func DefaultBands() Bands {
	return Bands{EligibleFloor: 50, IneligibleCeiling: 49, GapScale: 5}
}

// Input is everything the scorer knows about one student/program pair.
// Pointer fields are optional; nil means not supplied.
type Input struct {
	ProgramID      string
	ProgramName    string
	UniversityID   string
	UniversityName string
	Location       string

	ClusterPoints float64
	Eligibility   eligibility.Result

	RequiredSubjects []string
	StudentSubjects  []string

	AnnualFees    *float64
	BudgetCeiling *float64

	CareerOutcomes   []string
	ProgramRiasec    string // e.g. "IRC"
	CareerInterests  []string
	CareerMatchNames []string
	HollandCode      string

	EmploymentRate *float64
	AverageSalary  *float64
}

type Factor struct {
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	Weight   float64 `json:"weight"` // effective weight after renormalisation; 0 when excluded
	Included bool    `json:"included"`
}

type MatchResult struct {
	ProgramID         string             `json:"programId"`
	ProgramName       string             `json:"programName"`
	UniversityID      string             `json:"universityId"`
	UniversityName    string             `json:"universityName,omitempty"`
	Location          string             `json:"location,omitempty"`
	Eligible          bool               `json:"eligible"`
	EligibilityStatus eligibility.Status `json:"eligibilityStatus"`
	PointsGap         float64            `json:"pointsGap"`
	ClusterPoints     float64            `json:"clusterPoints"`
	CutoffUsed        float64            `json:"cutoffUsed,omitempty"`
	CutoffYearUsed    int                `json:"cutoffYearUsed,omitempty"`
	MatchScore        float64            `json:"matchScore"`
	AffordabilityTier AffordabilityTier  `json:"affordabilityTier"`
	Factors           []Factor           `json:"factors"`
	Rationale         string             `json:"rationale"`
	Warnings          []errors.Warning   `json:"warnings,omitempty"`
	EmploymentRate    *float64           `json:"employmentRate,omitempty"`
	AverageSalary     *float64           `json:"averageSalary,omitempty"`
}

type Scorer struct {
	weights Weights
	bands   Bands
}

func New(weights Weights, bands Bands) (*Scorer, error) {
	if weights.Gap < 0 || weights.Coverage < 0 || weights.Affordability < 0 || weights.Alignment < 0 {
		return nil, errors.NewValidationError("scoring weights must be non-negative", nil)
	}
	if weights.Gap+weights.Coverage+weights.Affordability+weights.Alignment == 0 {
		return nil, errors.NewValidationError("scoring weights must not all be zero", nil)
	}
	if bands.EligibleFloor < MinEligibleFloor || bands.EligibleFloor > 100 ||
		bands.IneligibleCeiling < 0 || bands.IneligibleCeiling >= bands.EligibleFloor {
		return nil, errors.NewValidationError(fmt.Sprintf(
			"score bands need 0 <= ineligibleCeiling < eligibleFloor, %v <= eligibleFloor <= 100, got %v/%v",
			MinEligibleFloor, bands.IneligibleCeiling, bands.EligibleFloor), nil)
	}
	if bands.GapScale <= 0 {
		return nil, errors.NewValidationError("gapScale must be positive", nil)
	}
	return &Scorer{weights: weights, bands: bands}, nil
}

// Score computes the match result for one program. It never fails: missing
// optional data drops the matching factor instead.
func (s *Scorer) Score(in Input) MatchResult {
	el := in.Eligibility
	tier, affordability, affordable := affordabilityFactor(in.AnnualFees, in.BudgetCeiling)
	alignment, aligned := alignmentFactor(in)

	factors := []Factor{
		{Name: FactorGap, Value: s.gapFactor(el), Weight: s.weights.Gap, Included: el.Status == eligibility.StatusKnown},
		{Name: FactorCoverage, Value: coverageFactor(in.RequiredSubjects, in.StudentSubjects), Weight: s.weights.Coverage, Included: true},
		{Name: FactorAffordability, Value: affordability, Weight: s.weights.Affordability, Included: affordable},
		{Name: FactorAlignment, Value: alignment, Weight: s.weights.Alignment, Included: aligned},
	}

	total := 0.0
	for _, f := range factors {
		if f.Included {
			total += f.Weight
		}
	}
	blend := 0.0
	for i := range factors {
		if !factors[i].Included || total == 0 {
			factors[i].Weight = 0
			continue
		}
		factors[i].Weight = factors[i].Weight / total
		blend += factors[i].Weight * factors[i].Value
	}
	for i := range factors {
		factors[i].Value = round4(factors[i].Value)
		factors[i].Weight = round4(factors[i].Weight)
	}

	var score float64
	if el.Eligible {
		score = s.bands.EligibleFloor + blend*(100-s.bands.EligibleFloor)
	} else {
		score = blend * s.bands.IneligibleCeiling
	}

	warnings := append([]errors.Warning(nil), el.Warnings...)
	if el.Err != nil {
		warnings = append(warnings, errors.AsWarning(el.Err))
	}

	return MatchResult{
		ProgramID:         in.ProgramID,
		ProgramName:       in.ProgramName,
		UniversityID:      in.UniversityID,
		UniversityName:    in.UniversityName,
		Location:          in.Location,
		Eligible:          el.Eligible,
		EligibilityStatus: el.Status,
		PointsGap:         el.PointsGap,
		ClusterPoints:     in.ClusterPoints,
		CutoffUsed:        el.Cutoff,
		CutoffYearUsed:    el.CutoffYear,
		MatchScore:        round2(score),
		AffordabilityTier: tier,
		Factors:           factors,
		Rationale:         rationale(in, factors),
		Warnings:          warnings,
		EmploymentRate:    in.EmploymentRate,
		AverageSalary:     in.AverageSalary,
	}
}

func (s *Scorer) gapFactor(el eligibility.Result) float64 {
	if el.Status != eligibility.StatusKnown {
		return 0
	}
	if el.Eligible {
		return 1
	}
	return 1 / (1 + el.PointsGap/s.bands.GapScale)
}

func coverageFactor(required, have []string) float64 {
	if len(required) == 0 {
		return 1
	}
	present := make(map[string]bool, len(have))
	for _, h := range have {
		present[cluster.SubjectKey(h)] = true
	}
	hits := 0
	for _, r := range required {
		if present[cluster.SubjectKey(r)] {
			hits++
		}
	}
	return float64(hits) / float64(len(required))
}

// alignmentFactor is included only when both the student and the program carry
// some career signal.
func alignmentFactor(in Input) (float64, bool) {
	studentSide := len(in.CareerInterests) > 0 || len(in.CareerMatchNames) > 0 || in.HollandCode != ""
	programSide := len(in.CareerOutcomes) > 0 || in.ProgramRiasec != ""
	if !studentSide || !programSide {
		return 0, false
	}

	wanted := make(map[string]bool)
	for _, list := range [][]string{in.CareerInterests, in.CareerMatchNames} {
		for _, c := range list {
			if k := normalizeCareer(c); k != "" {
				wanted[k] = true
			}
		}
	}
	for _, outcome := range in.CareerOutcomes {
		if wanted[normalizeCareer(outcome)] {
			return 1, true
		}
	}

	return HollandOverlap(in.HollandCode, in.ProgramRiasec), true
}

// HollandOverlap weights the student's code positions 3, 2, 1 and counts those
// present among the program's letters, scaled to [0,1].
func HollandOverlap(studentCode, programCodes string) float64 {
	programCodes = strings.ToUpper(programCodes)
	weights := []float64{3, 2, 1}
	sum := 0.0
	for i, r := range strings.ToUpper(studentCode) {
		if i >= len(weights) {
			break
		}
		if strings.ContainsRune(programCodes, r) {
			sum += weights[i]
		}
	}
	return sum / 6
}

func normalizeCareer(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func rationale(in Input, factors []Factor) string {
	el := in.Eligibility
	var parts []string

	switch {
	case el.Status != eligibility.StatusKnown:
		parts = append(parts, "Cutoff data unavailable; eligibility unknown.")
	case el.Eligible:
		parts = append(parts, fmt.Sprintf("Eligible: %.3f points meets the %d cutoff of %.3f.",
			in.ClusterPoints, el.CutoffYear, el.Cutoff))
	default:
		parts = append(parts, fmt.Sprintf("Not yet eligible: %.3f points short of the %d cutoff of %.3f.",
			el.PointsGap, el.CutoffYear, el.Cutoff))
	}

	type contribution struct {
		idx   int
		value float64
	}
	contribs := make([]contribution, 0, len(factors))
	for i, f := range factors {
		if c := f.Weight * f.Value; f.Included && c > 0 {
			contribs = append(contribs, contribution{idx: i, value: c})
		}
	}
	sort.SliceStable(contribs, func(i, j int) bool { return contribs[i].value > contribs[j].value })
	if len(contribs) > 2 {
		contribs = contribs[:2]
	}
	if len(contribs) > 0 {
		names := make([]string, len(contribs))
		for i, c := range contribs {
			names[i] = factorLabels[factors[c.idx].Name]
		}
		parts = append(parts, "Strongest factors: "+strings.Join(names, " and ")+".")
	}

	return strings.Join(parts, " ")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
