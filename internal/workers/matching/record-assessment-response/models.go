// internal/workers/matching/record-assessment-response/models.go
package recordassessmentresponse

import "career-matching-workers/internal/matching/riasec"

// Input with an empty SessionID starts a new session.
type Input struct {
	SessionID string            `json:"sessionId,omitempty"`
	Responses []riasec.Response `json:"responses,omitempty"`
	Finish    bool              `json:"finish,omitempty"`
}

type Output struct {
	SessionID         string               `json:"sessionId"`
	InstrumentVersion string               `json:"instrumentVersion"`
	State             riasec.State         `json:"assessmentState"`
	Answered          int                  `json:"answered"`
	Total             int                  `json:"total"`
	RiasecProfile     *riasec.Profile      `json:"riasecProfile,omitempty"`
	CareerMatches     []riasec.CareerMatch `json:"careerMatches,omitempty"`
}
