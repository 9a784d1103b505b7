package catalog

import (
	"context"
	stderrors "errors"
	"testing"

	"career-matching-workers/internal/common/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var programColumns = []string{
	"id", "name", "university_id", "university_name", "location",
	"required_subjects", "career_outcomes", "riasec_codes",
	"annual_fees", "employment_rate", "average_salary",
}

func TestPostgresSource_Fetch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT p.id, p.name, p.university_id, u.name, u.location`).
		WithArgs(50).
		WillReturnRows(sqlmock.NewRows(programColumns).
			AddRow("p1", "BSc Computer Science", "u1", "JKUAT", "Juja",
				[]byte(`["Mathematics","Physics"]`), []byte(`["Software Engineer"]`), "IRC",
				120000.0, 0.82, nil).
			AddRow("p2", "BA Fine Art", "u2", "Kenyatta University", "Nairobi",
				nil, []byte(`[]`), "AES",
				nil, nil, nil))

	mock.ExpectQuery(`SELECT program_id, year, points FROM program_cutoffs`).
		WillReturnRows(sqlmock.NewRows([]string{"program_id", "year", "points"}).
			AddRow("p1", 2023, 41.2).
			AddRow("p1", 2024, 42.0).
			AddRow("p9", 2024, 30.0))

	src := NewPostgresSource(db, 50)
	assert.Equal(t, "postgres", src.Name())

	programs, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, programs, 2)

	cs := programs[0]
	assert.Equal(t, "JKUAT", cs.UniversityName)
	assert.Equal(t, []string{"Mathematics", "Physics"}, cs.RequiredSubjects)
	assert.Equal(t, map[int]float64{2023: 41.2, 2024: 42.0}, cs.CutoffsByYear)
	require.NotNil(t, cs.AnnualFees)
	assert.Equal(t, 120000.0, *cs.AnnualFees)
	assert.Nil(t, cs.AverageSalary)

	art := programs[1]
	assert.Equal(t, []string{}, art.RequiredSubjects)
	assert.Empty(t, art.CutoffsByYear)
	assert.Nil(t, art.AnnualFees)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM programs p`).WillReturnError(stderrors.New("connection refused"))

	_, err = NewPostgresSource(db, 0).Fetch(context.Background())
	assert.ErrorIs(t, err, errors.ErrCatalogLoadFailed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_BadJSONB(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM programs p`).
		WillReturnRows(sqlmock.NewRows(programColumns).
			AddRow("p1", "X", "u1", "U", "", []byte(`{not json`), []byte(`[]`), "", nil, nil, nil))

	_, err = NewPostgresSource(db, 10).Fetch(context.Background())
	assert.ErrorIs(t, err, errors.ErrCatalogLoadFailed)
	assert.Contains(t, err.Error(), "required_subjects")
}
