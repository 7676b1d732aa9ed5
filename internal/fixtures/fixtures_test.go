package fixtures

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	mem "patient-portal/internal/adapters/storage/memory"
	"patient-portal/internal/domain/encounters"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
patients:
  - id: patient-1
    encounters:
      - id: ENC-1
        institution: City Hospital
        encounter_type: Lab Reports
        occurred_at: 2024-01-05T10:30:00Z
        source: nehr
      - institution: MOH Office
        encounter_type: Appoinments
        occurred_at: "2024-03-01T09:15:00+05:30"
  - id: patient-2
    encounters:
      - institution: Base Hospital
        encounter_type: OPD Encounters
        occurred_at: 2024-02-10T08:00:00Z
`

func TestRead_AndInputs(t *testing.T) {
	f, err := Read(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, f.Patients, 2)

	in, err := f.Patients[0].Inputs()
	require.NoError(t, err)
	require.Len(t, in, 2)

	assert.Equal(t, "ENC-1", in[0].ID)
	assert.Equal(t, encounters.EncounterTypeLabReport(), in[0].Type)
	assert.Equal(t, encounters.SourceNEHR, in[0].Source)
	assert.True(t, in[0].OccurredAt.Equal(time.Date(2024, 1, 5, 10, 30, 0, 0, time.UTC)))

	assert.Equal(t, encounters.EncounterTypeAppointment(), in[1].Type)
	assert.True(t, in[1].OccurredAt.Equal(time.Date(2024, 3, 1, 3, 45, 0, 0, time.UTC)))
}

func TestRead_Empty(t *testing.T) {
	f, err := Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Patients)
}

func TestRead_UnknownField(t *testing.T) {
	_, err := Read(strings.NewReader("patients:\n  - id: p\n    color: red\n"))
	assert.ErrorIs(t, err, ErrInvalidFixture)
}

func TestInputs_RejectsUnknownType(t *testing.T) {
	p := Patient{ID: "p", Encounters: []Encounter{{Institution: "H", EncounterType: "Dental", OccurredAt: "2024-01-01T00:00:00Z"}}}
	_, err := p.Inputs()
	assert.True(t, errors.Is(err, ErrInvalidFixture))
}

func TestInputs_RejectsBadDate(t *testing.T) {
	p := Patient{ID: "p", Encounters: []Encounter{{Institution: "H", EncounterType: "Vaccinations", OccurredAt: "05/01/2024"}}}
	_, err := p.Inputs()
	assert.ErrorIs(t, err, ErrInvalidFixture)
}

func TestSeed(t *testing.T) {
	f, err := Read(strings.NewReader(sample))
	require.NoError(t, err)

	svc := encounters.NewService(mem.NewEncounterRepo())
	created, skipped, err := Seed(context.Background(), svc, f)
	require.NoError(t, err)
	assert.Equal(t, 3, created)
	assert.Zero(t, skipped)

	items, err := svc.ListByPatient(context.Background(), "patient-1", encounters.ListFilter{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, encounters.EncounterTypeAppointment(), items[0].Type)
	assert.Equal(t, "ENC-1", items[1].ID)
}

func TestSeed_TwiceIsIdempotent(t *testing.T) {
	f, err := Read(strings.NewReader(sample))
	require.NoError(t, err)

	svc := encounters.NewService(mem.NewEncounterRepo())
	_, _, err = Seed(context.Background(), svc, f)
	require.NoError(t, err)

	created, skipped, err := Seed(context.Background(), svc, f)
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Equal(t, 3, skipped)

	items, err := svc.ListByPatient(context.Background(), "patient-1", encounters.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestInputs_StableIDWithoutExplicitID(t *testing.T) {
	f, err := Read(strings.NewReader(sample))
	require.NoError(t, err)

	a, err := f.Patients[0].Inputs()
	require.NoError(t, err)
	b, err := f.Patients[0].Inputs()
	require.NoError(t, err)

	assert.NotEmpty(t, a[1].ID)
	assert.Equal(t, a[1].ID, b[1].ID)
	assert.Equal(t, "ENC-1", a[0].ID)
}
