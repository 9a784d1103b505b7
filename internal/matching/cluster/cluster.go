// Package cluster computes KCSE cluster points from a student's subject grades.
package cluster

import (
	"fmt"
	"math"
	"sort"

	"career-matching-workers/internal/common/errors"
	"career-matching-workers/internal/matching/grades"
)

// HardSubjectCap bounds how many subjects any placement rule may count.
const HardSubjectCap = 8

// SubjectGrade is one exam subject result.
type SubjectGrade struct {
	Subject string `json:"subject"`
	Grade   string `json:"grade"`
}

// Profile is a student's submitted academic record.
type Profile struct {
	Subjects []SubjectGrade `json:"subjects"`
}

// Rule selects which subjects count and how the raw sum is scaled.
type Rule struct {
	Compulsory  []string `json:"compulsory"`
	MinSubjects int      `json:"minSubjects"`
	MaxSubjects int      `json:"maxSubjects"`
	TargetMax   float64  `json:"targetMax"`
}

// DefaultRule counts Mathematics and English plus the best five others on an 84-point scale.
func DefaultRule() Rule {
	return Rule{
		Compulsory:  []string{"Mathematics", "English"},
		MinSubjects: 4,
		MaxSubjects: 7,
		TargetMax:   84,
	}
}

func (r Rule) Validate() error {
	if r.MinSubjects < 4 || r.MaxSubjects > HardSubjectCap || r.MinSubjects > r.MaxSubjects {
		return errors.NewInvalidPlacementRuleError(fmt.Sprintf(
			"need 4 <= minSubjects <= maxSubjects <= %d, got min=%d max=%d",
			HardSubjectCap, r.MinSubjects, r.MaxSubjects))
	}
	if r.TargetMax <= 0 {
		return errors.NewInvalidPlacementRuleError(fmt.Sprintf("targetMax must be positive, got %v", r.TargetMax))
	}
	if len(r.Compulsory) > r.MaxSubjects {
		return errors.NewInvalidPlacementRuleError("more compulsory subjects than maxSubjects")
	}
	seen := make(map[string]bool, len(r.Compulsory))
	for _, c := range r.Compulsory {
		k := SubjectKey(c)
		if seen[k] {
			return errors.NewInvalidPlacementRuleError(fmt.Sprintf("compulsory subject %q listed twice", c))
		}
		seen[k] = true
	}
	return nil
}

// SelectedSubject is a subject counted towards the cluster total.
type SelectedSubject struct {
	Subject    string `json:"subject"`
	Grade      string `json:"grade"`
	Points     int    `json:"points"`
	Compulsory bool   `json:"compulsory"`
}

type Result struct {
	Points    float64           `json:"clusterPoints"`
	RawPoints int               `json:"rawPoints"`
	MaxPoints float64           `json:"maxPoints"`
	Selected  []SelectedSubject `json:"selectedSubjects"`
	Subjects  []string          `json:"subjects"` // every canonical subject in the profile
	Warnings  []errors.Warning  `json:"warnings,omitempty"`
}

type graded struct {
	subject string
	grade   string
	points  int
}

// Normalize canonicalises subject names and grades, rejecting unknown grades
// and duplicate subjects. The returned slice is in KCSE order.
func Normalize(profile Profile) ([]SubjectGrade, error) {
	items, err := normalize(profile)
	if err != nil {
		return nil, err
	}
	out := make([]SubjectGrade, len(items))
	for i, it := range items {
		out[i] = SubjectGrade{Subject: it.subject, Grade: it.grade}
	}
	return out, nil
}

func normalize(profile Profile) ([]graded, error) {
	items := make([]graded, 0, len(profile.Subjects))
	seen := make(map[string]bool, len(profile.Subjects))

	for _, sg := range profile.Subjects {
		name := CanonicalSubject(sg.Subject)
		if name == "" {
			return nil, errors.NewValidationError("subject name is empty", map[string]interface{}{"grade": sg.Grade})
		}
		key := SubjectKey(name)
		if seen[key] {
			return nil, errors.NewDuplicateSubjectError(name)
		}
		seen[key] = true

		p, err := grades.PointsFor(name, sg.Grade)
		if err != nil {
			return nil, err
		}
		items = append(items, graded{subject: name, grade: grades.Canonical(sg.Grade), points: p})
	}

	sort.Slice(items, func(i, j int) bool { return lessSubject(items[i].subject, items[j].subject) })
	return items, nil
}

// Calculate selects the counted subjects under rule and scales their sum to rule.TargetMax.
// Input order never affects the result.
func Calculate(profile Profile, rule Rule) (Result, error) {
	if err := rule.Validate(); err != nil {
		return Result{}, err
	}

	items, err := normalize(profile)
	if err != nil {
		return Result{}, err
	}
	if len(items) < rule.MinSubjects {
		return Result{}, errors.NewInsufficientSubjectsError(len(items), rule.MinSubjects)
	}

	bySubject := make(map[string]graded, len(items))
	for _, it := range items {
		bySubject[SubjectKey(it.subject)] = it
	}

	var (
		selected []SelectedSubject
		warnings []errors.Warning
		used     = make(map[string]bool)
	)

	for _, c := range rule.Compulsory {
		key := SubjectKey(c)
		it, ok := bySubject[key]
		if !ok {
			warnings = append(warnings, errors.NewPartialDataWarning(
				fmt.Sprintf("compulsory subject %s missing; best remaining subject counted instead", CanonicalSubject(c)),
				map[string]interface{}{"subject": CanonicalSubject(c)},
			))
			continue
		}
		used[key] = true
		selected = append(selected, SelectedSubject{Subject: it.subject, Grade: it.grade, Points: it.points, Compulsory: true})
	}

	rest := make([]graded, 0, len(items))
	for _, it := range items {
		if !used[SubjectKey(it.subject)] {
			rest = append(rest, it)
		}
	}
	// items is already in subject order, so a stable sort on points keeps the tie-break.
	sort.SliceStable(rest, func(i, j int) bool { return rest[i].points > rest[j].points })

	for _, it := range rest {
		if len(selected) >= rule.MaxSubjects {
			break
		}
		selected = append(selected, SelectedSubject{Subject: it.subject, Grade: it.grade, Points: it.points})
	}

	raw := 0
	for _, s := range selected {
		raw += s.Points
	}

	subjects := make([]string, len(items))
	for i, it := range items {
		subjects[i] = it.subject
	}

	return Result{
		Points:    round3(float64(raw) * rule.TargetMax / float64(rule.MaxSubjects*grades.MaxPoints)),
		RawPoints: raw,
		MaxPoints: rule.TargetMax,
		Selected:  selected,
		Subjects:  subjects,
		Warnings:  warnings,
	}, nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
