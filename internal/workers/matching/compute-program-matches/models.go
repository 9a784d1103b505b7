// internal/workers/matching/compute-program-matches/models.go
package computeprogrammatches

import (
	"career-matching-workers/internal/matching/cluster"
	"career-matching-workers/internal/matching/engine"
	"career-matching-workers/internal/matching/riasec"
)

type Input struct {
	Subjects        []cluster.SubjectGrade `json:"subjects"`
	Preferences     engine.Preferences     `json:"preferences"`
	RiasecProfile   *riasec.Profile        `json:"riasecProfile,omitempty"`
	RiasecResponses []riasec.Response      `json:"riasecResponses,omitempty"`
	ProgramIDs      []string               `json:"programIds,omitempty"`
	TargetYear      int                    `json:"targetYear,omitempty"`
}

// Output flattens the engine result into the process variables.
type Output struct {
	engine.Result
	DurationMs int64 `json:"durationMs"`
}
