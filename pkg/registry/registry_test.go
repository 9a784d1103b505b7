package registry

import (
	"path/filepath"
	"testing"

	"career-matching-workers/internal/matching/riasec"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	inst := Default()
	require.NoError(t, inst.Validate())

	q, err := inst.Questionnaire()
	require.NoError(t, err)
	assert.Equal(t, 96, q.Len())
	assert.Equal(t, riasec.DefaultInstrumentVersion, q.Version())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "instrument.json")
	inst := Default()
	inst.LastUpdated = "2025-01-15"
	require.NoError(t, inst.Save(path))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, inst, back)
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte(`{"items": [`))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Instrument)
		wantErr string
	}{
		{"missing version", func(i *Instrument) { i.Version = "" }, "missing version"},
		{"no careers", func(i *Instrument) { i.Careers = nil }, "no careers"},
		{"duplicate career", func(i *Instrument) { i.Careers = append(i.Careers, i.Careers[0]) }, "duplicate career"},
		{"bad code letter", func(i *Instrument) { i.Careers[0].Code = "RXZ" }, "unknown letter"},
		{"repeated letter", func(i *Instrument) { i.Careers[0].Code = "RR" }, "repeats"},
		{"code too long", func(i *Instrument) { i.Careers[0].Code = "RIAS" }, "1 to 3 letters"},
		{"missing dimension", func(i *Instrument) { i.Items = i.Items[:16] }, "no"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := Default()
			tt.mutate(inst)
			err := inst.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAddCareer(t *testing.T) {
	inst := Default()
	before := len(inst.Careers)

	require.NoError(t, inst.AddCareer(riasec.Career{Name: "Marine Biologist", Code: "irs", Pathway: "STEM"}))
	assert.Len(t, inst.Careers, before+1)
	assert.Equal(t, "IRS", inst.Careers[before].Code)

	require.NoError(t, inst.AddCareer(riasec.Career{Name: "marine biologist", Code: "IR", Pathway: "STEM"}))
	assert.Len(t, inst.Careers, before+1)
	assert.Equal(t, "IR", inst.Careers[before].Code)

	assert.Error(t, inst.AddCareer(riasec.Career{Name: "Bad", Code: "Q"}))
}
