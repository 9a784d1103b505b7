// Package recommend groups scored programs into tiers and writes advisories.
package recommend

import (
	"fmt"
	"sort"

	"career-matching-workers/internal/common/errors"
	"career-matching-workers/internal/matching/eligibility"
	"career-matching-workers/internal/matching/riasec"
	"career-matching-workers/internal/matching/scorer"
)

type Tier string

const (
	TierEligibleStrong Tier = "eligible_strong"
	TierEligible       Tier = "eligible"
	TierReach          Tier = "reach"
	TierUnlikely       Tier = "unlikely"
	TierExploratory    Tier = "exploratory"
)

// TierOrder is the presentation order of tiers.
var TierOrder = []Tier{TierEligibleStrong, TierEligible, TierReach, TierUnlikely, TierExploratory}

// advisoryLimit caps advisories of each kind.
const advisoryLimit = 3

type Options struct {
	StrongScore float64 `json:"strongScore"`
	ReachGap    float64 `json:"reachGap"`
	MaxPerTier  int     `json:"maxPerTier"` // 0 keeps every program
}

func DefaultOptions() Options {
	return Options{StrongScore: 80, ReachGap: 5}
}

type TierGroup struct {
	Tier     Tier                 `json:"tier"`
	Programs []scorer.MatchResult `json:"programs"`
	Total    int                  `json:"total"` // before MaxPerTier
}

type Recommendations struct {
	Tiers          []TierGroup          `json:"tiers"`
	Advisories     []string             `json:"advisories"`
	RiasecProfile  *riasec.Profile      `json:"riasecProfile,omitempty"`
	CareerMatches  []riasec.CareerMatch `json:"careerMatches"`
	Truncated      bool                 `json:"truncated"`
	CatalogVersion string               `json:"catalogVersion,omitempty"`
	ClusterPoints  float64              `json:"clusterPoints"`
	Warnings       []errors.Warning     `json:"warnings,omitempty"`
}

// Tier returns the tier a single result belongs to.
func (o Options) Tier(r scorer.MatchResult) Tier {
	switch {
	case r.EligibilityStatus != eligibility.StatusKnown:
		return TierExploratory
	case r.Eligible && r.MatchScore >= o.StrongScore:
		return TierEligibleStrong
	case r.Eligible:
		return TierEligible
	case r.PointsGap <= o.ReachGap:
		return TierReach
	default:
		return TierUnlikely
	}
}

// SortResults orders by match score desc, then program name, then program ID.
func SortResults(results []scorer.MatchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.MatchScore != b.MatchScore {
			return a.MatchScore > b.MatchScore
		}
		if a.ProgramName != b.ProgramName {
			return a.ProgramName < b.ProgramName
		}
		return a.ProgramID < b.ProgramID
	})
}

// Aggregate builds recommendations. results is not modified.
func Aggregate(results []scorer.MatchResult, profile *riasec.Profile, careers []riasec.CareerMatch, opts Options) Recommendations {
	byTier := make(map[Tier][]scorer.MatchResult, len(TierOrder))
	for _, r := range results {
		t := opts.Tier(r)
		byTier[t] = append(byTier[t], r)
	}

	groups := make([]TierGroup, 0, len(TierOrder))
	for _, t := range TierOrder {
		list := byTier[t]
		SortResults(list)
		total := len(list)
		if opts.MaxPerTier > 0 && len(list) > opts.MaxPerTier {
			list = list[:opts.MaxPerTier]
		}
		if list == nil {
			list = []scorer.MatchResult{}
		}
		groups = append(groups, TierGroup{Tier: t, Programs: list, Total: total})
	}

	if careers == nil {
		careers = []riasec.CareerMatch{}
	}

	return Recommendations{
		Tiers:         groups,
		Advisories:    advisories(groups, profile),
		RiasecProfile: profile,
		CareerMatches: careers,
	}
}

func advisories(groups []TierGroup, profile *riasec.Profile) []string {
	out := []string{}
	get := func(t Tier) []scorer.MatchResult {
		for _, g := range groups {
			if g.Tier == t {
				return g.Programs
			}
		}
		return nil
	}

	for i, r := range get(TierEligibleStrong) {
		if i == advisoryLimit {
			break
		}
		out = append(out, fmt.Sprintf("Strong match for %s.", label(r)))
	}

	eligibleCount := len(get(TierEligibleStrong)) + len(get(TierEligible))
	if eligibleCount == 0 && len(get(TierReach))+len(get(TierUnlikely)) > 0 {
		out = append(out, "No eligible programs at current cluster points; review the reach list.")
	}

	for i, r := range get(TierReach) {
		if i == advisoryLimit {
			break
		}
		out = append(out, fmt.Sprintf("Close to eligibility for %s; improve by %.3f points.", label(r), r.PointsGap))
	}

	stretched := 0
	for _, t := range []Tier{TierEligibleStrong, TierEligible} {
		for _, r := range get(t) {
			if stretched == advisoryLimit {
				break
			}
			switch r.AffordabilityTier {
			case scorer.TierStretch:
				out = append(out, fmt.Sprintf("Fees for %s are slightly above your budget.", label(r)))
				stretched++
			case scorer.TierExpensive:
				out = append(out, fmt.Sprintf("Fees for %s are well above your budget; look into bursaries or loans.", label(r)))
				stretched++
			}
		}
	}

	for i, r := range get(TierExploratory) {
		if i == advisoryLimit {
			break
		}
		out = append(out, fmt.Sprintf("Cutoff data unavailable for %s; treat as exploratory.", label(r)))
	}

	if profile != nil && profile.Incomplete {
		out = append(out, fmt.Sprintf(
			"Interest assessment incomplete (%d of %d answered); career alignment is provisional.",
			profile.Answered, profile.Total))
	}

	return out
}

func label(r scorer.MatchResult) string {
	if r.UniversityName != "" {
		return fmt.Sprintf("%s at %s", r.ProgramName, r.UniversityName)
	}
	return r.ProgramName
}
