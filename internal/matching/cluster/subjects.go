package cluster

import "strings"

// Canonical KCSE subject order; used to break ties between equal grades.
var subjectOrder = []string{
	"English",
	"Kiswahili",
	"Mathematics",
	"Biology",
	"Physics",
	"Chemistry",
	"General Science",
	"History",
	"Geography",
	"CRE",
	"IRE",
	"HRE",
	"Home Science",
	"Art & Design",
	"Agriculture",
	"Woodwork",
	"Metalwork",
	"Building Construction",
	"Power Mechanics",
	"Electricity",
	"Drawing & Design",
	"Aviation Technology",
	"Computer Studies",
	"French",
	"German",
	"Arabic",
	"Kenya Sign Language",
	"Music",
	"Business Studies",
}

var aliases = map[string]string{
	"math":                          "Mathematics",
	"maths":                         "Mathematics",
	"mathematics alt a":             "Mathematics",
	"eng":                           "English",
	"kisw":                          "Kiswahili",
	"swahili":                       "Kiswahili",
	"bio":                           "Biology",
	"phy":                           "Physics",
	"phys":                          "Physics",
	"chem":                          "Chemistry",
	"hist":                          "History",
	"history and government":        "History",
	"history & government":          "History",
	"geo":                           "Geography",
	"c.r.e":                         "CRE",
	"c.r.e.":                        "CRE",
	"christian religious education": "CRE",
	"i.r.e":                         "IRE",
	"islamic religious education":   "IRE",
	"hindu religious education":     "HRE",
	"agric":                         "Agriculture",
	"computer":                      "Computer Studies",
	"computers":                     "Computer Studies",
	"business":                      "Business Studies",
	"art and design":                "Art & Design",
	"drawing and design":            "Drawing & Design",
	"ksl":                           "Kenya Sign Language",
}

var (
	orderIndex = map[string]int{}
	known      = map[string]string{}
)

func init() {
	for i, s := range subjectOrder {
		orderIndex[s] = i
		known[strings.ToLower(s)] = s
	}
	for k, v := range aliases {
		known[k] = v
	}
}

// CanonicalSubject folds case, whitespace and common aliases
// ("Maths" -> "Mathematics"). Unknown names come back whitespace-normalised.
func CanonicalSubject(name string) string {
	collapsed := strings.Join(strings.Fields(name), " ")
	if s, ok := known[strings.ToLower(collapsed)]; ok {
		return s
	}
	return collapsed
}

// SubjectKey is the comparison key for duplicate detection and set lookups.
func SubjectKey(name string) string {
	return strings.ToLower(CanonicalSubject(name))
}

// lessSubject orders known subjects by KCSE order, then unknown ones alphabetically.
func lessSubject(a, b string) bool {
	ia, aKnown := orderIndex[a]
	ib, bKnown := orderIndex[b]
	switch {
	case aKnown && bKnown:
		return ia < ib
	case aKnown != bKnown:
		return aKnown
	default:
		return strings.ToLower(a) < strings.ToLower(b)
	}
}
