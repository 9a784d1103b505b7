// Package grades maps KCSE letter grades onto the 12-point scale.
package grades

import (
	"strings"

	"career-matching-workers/internal/common/errors"
)

// MaxPoints is the value of the top grade.
const MaxPoints = 12

// vocabulary in descending rank; index i is worth MaxPoints-i.
var vocabulary = []string{"A", "A-", "B+", "B", "B-", "C+", "C", "C-", "D+", "D", "D-", "E"}

var points = func() map[string]int {
	m := make(map[string]int, len(vocabulary))
	for i, g := range vocabulary {
		m[g] = MaxPoints - i
	}
	return m
}()

var dashes = strings.NewReplacer("−", "-", "–", "-")

// Canonical trims, upper-cases and folds the unicode minus and en-dash into '-'.
func Canonical(letter string) string {
	return dashes.Replace(strings.ToUpper(strings.TrimSpace(letter)))
}

// Points returns the point value of a letter grade.
func Points(letter string) (int, error) {
	return PointsFor("", letter)
}

// PointsFor is Points with the subject recorded on the error.
func PointsFor(subject, letter string) (int, error) {
	p, ok := points[Canonical(letter)]
	if !ok {
		return 0, errors.NewInvalidGradeError(subject, letter)
	}
	return p, nil
}

// Vocabulary lists the recognised grades, best first.
func Vocabulary() []string {
	out := make([]string, len(vocabulary))
	copy(out, vocabulary)
	return out
}

// Letter maps a point value back to its grade. ok is false outside 1..12.
func Letter(p int) (string, bool) {
	if p < 1 || p > MaxPoints {
		return "", false
	}
	return vocabulary[MaxPoints-p], true
}
