package riasec

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// StrongScore is the dimension score at which an interest counts as a reason.
const StrongScore = 60

var codeWeights = []float64{0.5, 0.3, 0.2}

type Career struct {
	Name    string `json:"name"`
	Code    string `json:"code"` // Holland code, up to three letters
	Pathway string `json:"pathway"`
}

type CareerMatch struct {
	CareerName    string   `json:"careerName"`
	Code          string   `json:"code"`
	Compatibility float64  `json:"compatibility"`
	Pathway       string   `json:"pathway"`
	Reasons       []string `json:"reasons"`
}

// MatchCareers scores each career code as the 0.5/0.3/0.2 weighted mean of the
// student's dimension scores. limit <= 0 returns every career.
func MatchCareers(p Profile, careers []Career, limit int) []CareerMatch {
	matches := make([]CareerMatch, 0, len(careers))

	for _, c := range careers {
		letters := careerLetters(c.Code)
		if len(letters) == 0 {
			continue
		}

		var sum, weight float64
		reasons := make([]string, 0, len(letters))
		for i, d := range letters {
			score := p.Scores[d]
			sum += codeWeights[i] * score
			weight += codeWeights[i]
			if score >= StrongScore {
				reasons = append(reasons, fmt.Sprintf("Strong %s interest (%.0f/100)", d.Name(), score))
			}
		}

		matches = append(matches, CareerMatch{
			CareerName:    c.Name,
			Code:          string(joinLetters(letters)),
			Compatibility: math.Round(sum/weight*100) / 100,
			Pathway:       c.Pathway,
			Reasons:       reasons,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Compatibility != matches[j].Compatibility {
			return matches[i].Compatibility > matches[j].Compatibility
		}
		return matches[i].CareerName < matches[j].CareerName
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// careerLetters parses up to three distinct dimension letters; unknown letters are skipped.
func careerLetters(code string) []Dimension {
	out := make([]Dimension, 0, 3)
	seen := make(map[Dimension]bool, 3)
	for _, r := range strings.ToUpper(code) {
		d, ok := ParseDimension(string(r))
		if !ok || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
		if len(out) == len(codeWeights) {
			break
		}
	}
	return out
}

func joinLetters(ds []Dimension) []byte {
	b := make([]byte, 0, len(ds))
	for _, d := range ds {
		b = append(b, d[0])
	}
	return b
}

// CareerNames lists match names, for alignment against program outcomes.
func CareerNames(matches []CareerMatch) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.CareerName
	}
	return out
}
