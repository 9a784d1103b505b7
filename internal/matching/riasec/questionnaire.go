// Package riasec scores Holland (RIASEC) interest questionnaires, tracks
// assessment progress and ranks careers against the resulting profile.
package riasec

import (
	"fmt"
	"strings"

	"career-matching-workers/internal/common/errors"
)

type Dimension string

const (
	Realistic     Dimension = "R"
	Investigative Dimension = "I"
	Artistic      Dimension = "A"
	Social        Dimension = "S"
	Enterprising  Dimension = "E"
	Conventional  Dimension = "C"
)

// Dimensions in canonical order; also the tie-break order for Holland codes.
var Dimensions = []Dimension{Realistic, Investigative, Artistic, Social, Enterprising, Conventional}

var dimensionNames = map[Dimension]string{
	Realistic:     "Realistic",
	Investigative: "Investigative",
	Artistic:      "Artistic",
	Social:        "Social",
	Enterprising:  "Enterprising",
	Conventional:  "Conventional",
}

func (d Dimension) Name() string {
	return dimensionNames[d]
}

func (d Dimension) rank() int {
	for i, x := range Dimensions {
		if x == d {
			return i
		}
	}
	return len(Dimensions)
}

// ParseDimension accepts a letter or full name, case-insensitively.
func ParseDimension(s string) (Dimension, bool) {
	s = strings.TrimSpace(s)
	for _, d := range Dimensions {
		if strings.EqualFold(s, string(d)) || strings.EqualFold(s, d.Name()) {
			return d, true
		}
	}
	return "", false
}

// MaxValue is the top of the 0-4 agreement scale.
const MaxValue = 4

type Item struct {
	ID        string    `json:"id"`
	Dimension Dimension `json:"dimension"`
	Text      string    `json:"text"`
}

// Questionnaire is an ordered, fixed-length list of items. It is immutable once built.
type Questionnaire struct {
	version string
	items   []Item
	byID    map[string]int
}

func NewQuestionnaire(version string, items []Item) (*Questionnaire, error) {
	if len(items) == 0 {
		return nil, errors.NewValidationError("questionnaire has no items", nil)
	}

	q := &Questionnaire{
		version: version,
		items:   make([]Item, len(items)),
		byID:    make(map[string]int, len(items)),
	}
	perDim := make(map[Dimension]int)

	for i, it := range items {
		if it.ID == "" {
			return nil, errors.NewValidationError(fmt.Sprintf("item %d has no id", i), nil)
		}
		d, ok := ParseDimension(string(it.Dimension))
		if !ok {
			return nil, errors.NewValidationError(
				fmt.Sprintf("item %s has unknown dimension %q", it.ID, it.Dimension),
				map[string]interface{}{"questionId": it.ID})
		}
		if _, dup := q.byID[it.ID]; dup {
			return nil, errors.NewValidationError(
				fmt.Sprintf("item %s listed twice", it.ID),
				map[string]interface{}{"questionId": it.ID})
		}
		it.Dimension = d
		q.items[i] = it
		q.byID[it.ID] = i
		perDim[d]++
	}

	for _, d := range Dimensions {
		if perDim[d] == 0 {
			return nil, errors.NewValidationError(
				fmt.Sprintf("questionnaire has no %s items", d.Name()),
				map[string]interface{}{"dimension": string(d)})
		}
	}

	return q, nil
}

func (q *Questionnaire) Version() string { return q.version }

func (q *Questionnaire) Len() int { return len(q.items) }

// Items returns a copy of the items in questionnaire order.
func (q *Questionnaire) Items() []Item {
	out := make([]Item, len(q.items))
	copy(out, q.items)
	return out
}

func (q *Questionnaire) Item(id string) (Item, bool) {
	i, ok := q.byID[id]
	if !ok {
		return Item{}, false
	}
	return q.items[i], true
}
