// internal/workers/matching/calculate-cluster-points/models.go
package calculateclusterpoints

import (
	"career-matching-workers/internal/common/errors"
	"career-matching-workers/internal/matching/cluster"
)

type Input struct {
	Subjects []cluster.SubjectGrade `json:"subjects"`
}

type Output struct {
	ClusterPoints    float64                   `json:"clusterPoints"`
	RawPoints        int                       `json:"rawPoints"`
	MaxPoints        float64                   `json:"maxPoints"`
	SelectedSubjects []cluster.SelectedSubject `json:"selectedSubjects"`
	Warnings         []errors.Warning          `json:"warnings,omitempty"`
}
