package riasec

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"career-matching-workers/internal/common/errors"
)

type Response struct {
	QuestionID string    `json:"questionId"`
	Dimension  Dimension `json:"dimension,omitempty"` // optional; must agree with the item when set
	Value      int       `json:"value"`
}

type Profile struct {
	Scores      map[Dimension]float64 `json:"scores"`
	HollandCode string                `json:"hollandCode"`
	PrimaryType Dimension             `json:"primaryType"`
	Incomplete  bool                  `json:"incomplete"`
	Answered    int                   `json:"answered"`
	Total       int                   `json:"total"`
}

// Top returns the Holland code letters as dimensions.
func (p Profile) Top() []Dimension {
	out := make([]Dimension, 0, len(p.HollandCode))
	for _, r := range p.HollandCode {
		out = append(out, Dimension(string(r)))
	}
	return out
}

// ValidateResponse checks one response against the questionnaire.
func ValidateResponse(q *Questionnaire, r Response) error {
	item, ok := q.Item(r.QuestionID)
	if !ok {
		return errors.NewInvalidResponseError(r.QuestionID, "unknown question")
	}
	if r.Dimension != "" {
		d, ok := ParseDimension(string(r.Dimension))
		if !ok || d != item.Dimension {
			return errors.NewInvalidResponseError(r.QuestionID,
				fmt.Sprintf("dimension %q does not match item dimension %s", r.Dimension, item.Dimension))
		}
	}
	if r.Value < 0 || r.Value > MaxValue {
		return errors.NewInvalidResponseError(r.QuestionID,
			fmt.Sprintf("value %d outside 0-%d", r.Value, MaxValue))
	}
	return nil
}

// ValidateResponses checks a batch, rejecting empty batches and repeated questions.
func ValidateResponses(q *Questionnaire, responses []Response) error {
	if len(responses) == 0 {
		return errors.NewValidationError("no assessment responses supplied", nil)
	}
	seen := make(map[string]bool, len(responses))
	for _, r := range responses {
		if err := ValidateResponse(q, r); err != nil {
			return err
		}
		if seen[r.QuestionID] {
			return errors.NewInvalidResponseError(r.QuestionID, "answered more than once in the same batch")
		}
		seen[r.QuestionID] = true
	}
	return nil
}

// BuildProfile scores a batch of responses. Unanswered items are never inferred.
func BuildProfile(q *Questionnaire, responses []Response) (Profile, error) {
	if err := ValidateResponses(q, responses); err != nil {
		return Profile{}, err
	}
	answers := make(map[string]int, len(responses))
	for _, r := range responses {
		answers[r.QuestionID] = r.Value
	}
	return fromAnswers(q, answers), nil
}

// ValidateProfile checks a profile built elsewhere, e.g. one carried in job
// variables. Every dimension needs a finite score in [0,100]. The Holland code
// and primary type are recomputed from the scores; whatever the caller sent is
// ignored.
func ValidateProfile(p Profile) (Profile, error) {
	if len(p.Scores) == 0 {
		return Profile{}, errors.NewValidationError("riasec profile has no scores", nil)
	}
	scores := make(map[Dimension]float64, len(Dimensions))
	for d, v := range p.Scores {
		if d.rank() == len(Dimensions) {
			return Profile{}, errors.NewValidationError(
				fmt.Sprintf("riasec profile has unknown dimension %q", d),
				map[string]interface{}{"dimension": string(d)})
		}
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 100 {
			return Profile{}, errors.NewValidationError(
				fmt.Sprintf("riasec score for %s must be within 0-100, got %v", d, v),
				map[string]interface{}{"dimension": string(d)})
		}
		scores[d] = v
	}
	for _, d := range Dimensions {
		if _, ok := scores[d]; !ok {
			return Profile{}, errors.NewValidationError(
				fmt.Sprintf("riasec profile is missing a %s score", d.Name()),
				map[string]interface{}{"dimension": string(d)})
		}
	}
	if p.Answered < 0 || p.Total < 0 {
		return Profile{}, errors.NewValidationError("riasec profile counts must not be negative", nil)
	}

	code := HollandCode(scores)
	p.Scores = scores
	p.HollandCode = code
	p.PrimaryType = Dimension(code[:1])
	return p, nil
}

// fromAnswers assumes every key is a known item and every value in range.
func fromAnswers(q *Questionnaire, answers map[string]int) Profile {
	sums := make(map[Dimension]int, len(Dimensions))
	counts := make(map[Dimension]int, len(Dimensions))
	for _, it := range q.items {
		v, ok := answers[it.ID]
		if !ok {
			continue
		}
		sums[it.Dimension] += v
		counts[it.Dimension]++
	}

	scores := make(map[Dimension]float64, len(Dimensions))
	for _, d := range Dimensions {
		if counts[d] == 0 {
			scores[d] = 0
			continue
		}
		scores[d] = math.Round(float64(sums[d])/float64(counts[d]*MaxValue)*100*100) / 100
	}

	code := HollandCode(scores)
	answered := len(answers)
	return Profile{
		Scores:      scores,
		HollandCode: code,
		PrimaryType: Dimension(code[:1]),
		Incomplete:  answered < q.Len(),
		Answered:    answered,
		Total:       q.Len(),
	}
}

// HollandCode takes the three highest-scoring dimensions; ties follow R,I,A,S,E,C.
func HollandCode(scores map[Dimension]float64) string {
	dims := append([]Dimension(nil), Dimensions...)
	sort.SliceStable(dims, func(i, j int) bool {
		si, sj := scores[dims[i]], scores[dims[j]]
		if si != sj {
			return si > sj
		}
		return dims[i].rank() < dims[j].rank()
	})

	var b strings.Builder
	for _, d := range dims[:3] {
		b.WriteString(string(d))
	}
	return b.String()
}
