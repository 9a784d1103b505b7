package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"career-matching-workers/internal/common/errors"
)

const (
	programsQuery = `
		SELECT p.id, p.name, p.university_id, u.name, u.location,
		       p.required_subjects, p.career_outcomes, p.riasec_codes,
		       p.annual_fees, p.employment_rate, p.average_salary
		FROM programs p
		JOIN universities u ON u.id = p.university_id
		WHERE p.active = TRUE
		ORDER BY p.id
		LIMIT $1`

	cutoffsQuery = `
		SELECT program_id, year, points
		FROM program_cutoffs
		ORDER BY program_id, year`
)

// PostgresSource reads programs and their cutoff history from the catalog tables.
type PostgresSource struct {
	db    *sql.DB
	limit int
}

func NewPostgresSource(db *sql.DB, maxPrograms int) *PostgresSource {
	if maxPrograms <= 0 {
		maxPrograms = 10000
	}
	return &PostgresSource{db: db, limit: maxPrograms}
}

func (s *PostgresSource) Name() string { return "postgres" }

func (s *PostgresSource) Fetch(ctx context.Context) ([]Program, error) {
	rows, err := s.db.QueryContext(ctx, programsQuery, s.limit)
	if err != nil {
		return nil, errors.NewCatalogLoadFailedError(s.Name(), err)
	}
	defer rows.Close()

	var (
		programs []Program
		index    = map[string]int{}
	)
	for rows.Next() {
		var (
			p                  Program
			required, outcomes []byte
			fees, emp, salary  sql.NullFloat64
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.UniversityID, &p.UniversityName, &p.Location,
			&required, &outcomes, &p.RiasecCodes, &fees, &emp, &salary); err != nil {
			return nil, errors.NewCatalogLoadFailedError(s.Name(), err)
		}
		if err := decodeList(required, &p.RequiredSubjects); err != nil {
			return nil, errors.NewCatalogLoadFailedError(s.Name(), fmt.Errorf("program %s required_subjects: %w", p.ID, err))
		}
		if err := decodeList(outcomes, &p.CareerOutcomes); err != nil {
			return nil, errors.NewCatalogLoadFailedError(s.Name(), fmt.Errorf("program %s career_outcomes: %w", p.ID, err))
		}
		p.AnnualFees = nullable(fees)
		p.EmploymentRate = nullable(emp)
		p.AverageSalary = nullable(salary)
		p.CutoffsByYear = map[int]float64{}

		index[p.ID] = len(programs)
		programs = append(programs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewCatalogLoadFailedError(s.Name(), err)
	}

	if err := s.attachCutoffs(ctx, programs, index); err != nil {
		return nil, err
	}
	return programs, nil
}

func (s *PostgresSource) attachCutoffs(ctx context.Context, programs []Program, index map[string]int) error {
	rows, err := s.db.QueryContext(ctx, cutoffsQuery)
	if err != nil {
		return errors.NewCatalogLoadFailedError(s.Name(), err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			programID string
			year      int
			points    float64
		)
		if err := rows.Scan(&programID, &year, &points); err != nil {
			return errors.NewCatalogLoadFailedError(s.Name(), err)
		}
		// cutoffs for inactive or beyond-limit programs are ignored
		if i, ok := index[programID]; ok {
			programs[i].CutoffsByYear[year] = points
		}
	}
	if err := rows.Err(); err != nil {
		return errors.NewCatalogLoadFailedError(s.Name(), err)
	}
	return nil
}

func decodeList(raw []byte, dst *[]string) error {
	if len(raw) == 0 {
		*dst = []string{}
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return err
	}
	if *dst == nil {
		*dst = []string{}
	}
	return nil
}

func nullable(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
