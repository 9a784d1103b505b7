// internal/workers/matching/profile-riasec-interests/models.go
package profileriasecinterests

import "career-matching-workers/internal/matching/riasec"

type Input struct {
	Responses []riasec.Response `json:"responses"`
}

type Output struct {
	InstrumentVersion string               `json:"instrumentVersion"`
	RiasecProfile     riasec.Profile       `json:"riasecProfile"`
	CareerMatches     []riasec.CareerMatch `json:"careerMatches"`
}
