package portal

import (
	"testing"
	"time"

	"patient-portal/internal/domain/encounters"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMilestones_FormatsInLocationAndKeepsOrder(t *testing.T) {
	colombo, err := time.LoadLocation("Asia/Colombo")
	require.NoError(t, err)

	items := []encounters.Encounter{
		{ID: "B", Institution: "Base Hospital", Type: encounters.EncounterTypeOPD(), OccurredAt: time.Date(2024, 2, 10, 20, 0, 0, 0, time.UTC)},
		{ID: "A", Institution: "City Hospital", Type: encounters.EncounterTypeLabReport(), OccurredAt: time.Date(2024, 1, 5, 5, 0, 0, 0, time.UTC)},
	}

	ms := Milestones(items, colombo)
	require.Len(t, ms, 2)

	// UTC+05:30 cruza la medianoche
	assert.Equal(t, "B", ms[0].ID)
	assert.Equal(t, "2024-02-11", ms[0].Date)
	assert.Equal(t, "01:30", ms[0].Time)

	assert.Equal(t, "A", ms[1].ID)
	assert.Equal(t, "2024-01-05", ms[1].Date)
	assert.Equal(t, "10:30", ms[1].Time)
	assert.Equal(t, encounters.EncounterTypeLabReport(), ms[1].EncounterType)
	assert.Equal(t, "City Hospital", ms[1].Institution)
}

func TestMilestones_NilLocationIsUTC(t *testing.T) {
	ms := Milestones([]encounters.Encounter{
		{ID: "A", Type: encounters.EncounterTypeOPD(), OccurredAt: time.Date(2024, 1, 5, 23, 59, 0, 0, time.UTC)},
	}, nil)
	assert.Equal(t, "2024-01-05", ms[0].Date)
	assert.Equal(t, "23:59", ms[0].Time)
}
