// Package catalog loads the program/cutoff catalog from a feed source and
// publishes immutable snapshots to the matching engine.
package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"sort"
	"time"

	"career-matching-workers/internal/common/errors"
)

// Program is one read-only catalog record. Optional numeric fields are nil when
// the feed leaves them out.
type Program struct {
	ID               string          `json:"programId"`
	Name             string          `json:"programName"`
	UniversityID     string          `json:"universityId"`
	UniversityName   string          `json:"universityName"`
	RequiredSubjects []string        `json:"requiredSubjects"`
	CutoffsByYear    map[int]float64 `json:"cutoffPointsByYear"`
	AnnualFees       *float64        `json:"annualFees,omitempty"`
	EmploymentRate   *float64        `json:"employmentRate,omitempty"`
	AverageSalary    *float64        `json:"averageSalary,omitempty"`
	CareerOutcomes   []string        `json:"careerOutcomes"`
	RiasecCodes      string          `json:"riasecCodes"`
	Location         string          `json:"location"`
}

// clone copies p deeply so a snapshot never shares maps, slices or pointer
// targets with its feed or its readers.
func (p Program) clone() Program {
	out := p
	out.RequiredSubjects = slices.Clone(p.RequiredSubjects)
	out.CareerOutcomes = slices.Clone(p.CareerOutcomes)
	out.CutoffsByYear = maps.Clone(p.CutoffsByYear)
	out.AnnualFees = cloneFloat(p.AnnualFees)
	out.EmploymentRate = cloneFloat(p.EmploymentRate)
	out.AverageSalary = cloneFloat(p.AverageSalary)
	return out
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Snapshot is an immutable, versioned view of the catalog.
type Snapshot struct {
	version       string
	admissionYear int
	loadedAt      time.Time
	programs      []Program
	byID          map[string]int
}

// snapshotDoc is the cache encoding of a Snapshot.
type snapshotDoc struct {
	Version       string    `json:"version"`
	AdmissionYear int       `json:"admissionYear"`
	LoadedAt      time.Time `json:"loadedAt"`
	Programs      []Program `json:"programs"`
}

// NewSnapshot deep-copies programs into a snapshot sorted by program ID. An
// empty version is replaced by a content hash, so identical feeds share a version.
func NewSnapshot(version string, admissionYear int, programs []Program) (*Snapshot, error) {
	ps := make([]Program, len(programs))
	for i, p := range programs {
		ps[i] = p.clone()
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].ID < ps[j].ID })

	byID := make(map[string]int, len(ps))
	for i, p := range ps {
		if p.ID == "" {
			return nil, errors.NewValidationError("catalog program without id",
				map[string]interface{}{"programName": p.Name})
		}
		if _, dup := byID[p.ID]; dup {
			return nil, errors.NewValidationError(fmt.Sprintf("duplicate program %s in catalog", p.ID),
				map[string]interface{}{"programId": p.ID})
		}
		byID[p.ID] = i
	}

	if version == "" {
		v, err := contentVersion(admissionYear, ps)
		if err != nil {
			return nil, err
		}
		version = v
	}

	return &Snapshot{
		version:       version,
		admissionYear: admissionYear,
		loadedAt:      time.Now().UTC(),
		programs:      ps,
		byID:          byID,
	}, nil
}

func contentVersion(year int, programs []Program) (string, error) {
	data, err := json.Marshal(programs)
	if err != nil {
		return "", fmt.Errorf("hash catalog: %w", err)
	}
	sum := sha256.Sum256(append([]byte(fmt.Sprintf("%d:", year)), data...))
	return fmt.Sprintf("%d-%s", year, hex.EncodeToString(sum[:6])), nil
}

func (s *Snapshot) Version() string     { return s.version }
func (s *Snapshot) AdmissionYear() int  { return s.admissionYear }
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }
func (s *Snapshot) Len() int            { return len(s.programs) }
func (s *Snapshot) At(i int) Program    { return s.programs[i].clone() }

// Lookup finds a program by ID.
func (s *Snapshot) Lookup(id string) (Program, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Program{}, false
	}
	return s.programs[i].clone(), true
}

// Filter returns the programs whose IDs are listed, in snapshot order. Unknown IDs are skipped.
func (s *Snapshot) Filter(ids []string) []Program {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make([]Program, 0, len(ids))
	for _, p := range s.programs {
		if want[p.ID] {
			out = append(out, p.clone())
		}
	}
	return out
}

// Programs returns a deep copy of the program list.
func (s *Snapshot) Programs() []Program {
	out := make([]Program, len(s.programs))
	for i, p := range s.programs {
		out[i] = p.clone()
	}
	return out
}

func (s *Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshotDoc{
		Version:       s.version,
		AdmissionYear: s.admissionYear,
		LoadedAt:      s.loadedAt,
		Programs:      s.programs,
	})
}

func decodeSnapshot(data []byte) (*Snapshot, error) {
	var doc snapshotDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	snap, err := NewSnapshot(doc.Version, doc.AdmissionYear, doc.Programs)
	if err != nil {
		return nil, err
	}
	snap.loadedAt = doc.LoadedAt
	return snap, nil
}
