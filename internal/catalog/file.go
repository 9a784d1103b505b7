package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"career-matching-workers/internal/common/errors"
	"career-matching-workers/internal/common/logger"
	"career-matching-workers/internal/common/validation"
)

var (
	stringList = map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}}
	optNumber  = []interface{}{"number", "null"}
)

var programSchema = validation.MustCompile("catalog-program", map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"programId", "programName", "universityId"},
	"properties": map[string]interface{}{
		"programId":          map[string]interface{}{"type": "string", "minLength": 1},
		"programName":        map[string]interface{}{"type": "string", "minLength": 1},
		"universityId":       map[string]interface{}{"type": "string", "minLength": 1},
		"universityName":     map[string]interface{}{"type": "string"},
		"requiredSubjects":   stringList,
		"careerOutcomes":     stringList,
		"riasecCodes":        map[string]interface{}{"type": "string", "pattern": "^[RIASECriasec]{0,6}$"},
		"annualFees":         map[string]interface{}{"type": optNumber, "minimum": 0},
		"employmentRate":     map[string]interface{}{"type": optNumber, "minimum": 0, "maximum": 1},
		"averageSalary":      map[string]interface{}{"type": optNumber, "minimum": 0},
		"cutoffPointsByYear": map[string]interface{}{"type": "object", "additionalProperties": map[string]interface{}{"type": "number"}},
	},
})

// feed is the on-disk catalog layout.
type feed struct {
	Programs []json.RawMessage `json:"programs"`
}

// FileSource reads a JSON feed from disk. Records that fail validation are
// skipped and logged rather than failing the whole load.
type FileSource struct {
	path   string
	logger logger.Logger
}

func NewFileSource(path string, log logger.Logger) *FileSource {
	return &FileSource{path: path, logger: log.WithFields(map[string]interface{}{"catalogFile": path})}
}

func (s *FileSource) Name() string { return "file" }

func (s *FileSource) Fetch(ctx context.Context) ([]Program, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewCatalogLoadFailedError(s.Name(), err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.NewCatalogLoadFailedError(s.Name(), err)
	}
	return ParseFeed(data, s.logger)
}

// ParseFeed decodes a catalog feed document.
func ParseFeed(data []byte, log logger.Logger) ([]Program, error) {
	var f feed
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.NewCatalogLoadFailedError("file", fmt.Errorf("decode feed: %w", err))
	}

	programs := make([]Program, 0, len(f.Programs))
	for i, raw := range f.Programs {
		if res := programSchema.ValidateJSON(raw); !res.Valid {
			log.Warn("skipping invalid catalog record", map[string]interface{}{
				"index":  i,
				"errors": res.GetErrorMessages(),
			})
			continue
		}
		var p Program
		if err := json.Unmarshal(raw, &p); err != nil {
			log.WithError(err).Warn("skipping undecodable catalog record", map[string]interface{}{"index": i})
			continue
		}
		if p.CutoffsByYear == nil {
			p.CutoffsByYear = map[int]float64{}
		}
		programs = append(programs, p)
	}
	return programs, nil
}
