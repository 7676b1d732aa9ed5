package encounters

import "time"

// Encounter es un evento clínico del paciente tal como lo guarda el portal.
// La línea de tiempo recibe una versión ya formateada (ver ui/timeline).
type Encounter struct {
	ID        string
	PatientID string

	Institution string
	Type        EncounterType

	OccurredAt time.Time
	RecordedAt time.Time

	Source Source
}

// Count agrupa totales de un tipo (o de todos) para las tarjetas del dashboard.
type Count struct {
	Total     int
	LastMonth int
}

type Summary struct {
	All    Count
	ByType map[EncounterType]Count
}

// Of devuelve el conteo de un tipo; cero si el paciente no tiene ninguno.
func (s Summary) Of(t EncounterType) Count {
	return s.ByType[t]
}
