// internal/workers/catalog/refresh-program-catalog/models.go
package refreshprogramcatalog

import "career-matching-workers/internal/catalog"

type Input struct {
	Reason      string `json:"reason,omitempty"`
	RequestedBy string `json:"requestedBy,omitempty"`
}

type Output struct {
	catalog.RefreshResult
	RefreshedAt string `json:"refreshedAt"`
}
