package encounters

import (
	"errors"
	"strings"
)

var ErrUnknownEncounterType = errors.New("unknown encounter type")

// Color es un color CSS en formato hex (#rrggbb).
type Color string

// EncounterType es una enumeración cerrada: fuera de este paquete no se pueden
// construir variantes nuevas. Cada variante se declara junto con su color
// (literal posicional), así que una variante sin color no compila.
type EncounterType struct {
	label string
	color Color
}

// Las variantes no son exportadas como variables: nadie fuera del paquete puede
// reasignarlas. Se obtienen con las funciones EncounterTypeX.
var (
	opdEncounter         = EncounterType{"OPD Encounters", "#10b981"}
	admissionEncounter   = EncounterType{"Admission Summary", "#eab308"}
	screeningEncounter   = EncounterType{"HCL Screening", "#ef4444"}
	labReportEncounter   = EncounterType{"Lab Reports", "#06b6d4"}
	appointmentEncounter = EncounterType{"Appointments", "#3b82f6"}
	vaccinationEncounter = EncounterType{"Vaccinations", "#d946ef"}
)

func EncounterTypeOPD() EncounterType         { return opdEncounter }
func EncounterTypeAdmission() EncounterType   { return admissionEncounter }
func EncounterTypeScreening() EncounterType   { return screeningEncounter }
func EncounterTypeLabReport() EncounterType   { return labReportEncounter }
func EncounterTypeAppointment() EncounterType { return appointmentEncounter }
func EncounterTypeVaccination() EncounterType { return vaccinationEncounter }

// Orden de presentación (filtros, tarjetas, docs).
var encounterTypes = [...]EncounterType{
	opdEncounter,
	admissionEncounter,
	screeningEncounter,
	labReportEncounter,
	appointmentEncounter,
	vaccinationEncounter,
}

// Grafías que todavía manda el sistema upstream.
var legacyLabels = map[string]EncounterType{
	"admission summery": admissionEncounter,
	"appoinments":       appointmentEncounter,
}

// EncounterTypes devuelve las seis variantes en orden de presentación.
func EncounterTypes() []EncounterType {
	out := make([]EncounterType, len(encounterTypes))
	copy(out, encounterTypes[:])
	return out
}

// ParseEncounterType convierte texto externo (JSON, SQL, API upstream) en una variante.
func ParseEncounterType(s string) (EncounterType, error) {
	s = strings.TrimSpace(s)
	for _, t := range encounterTypes {
		if strings.EqualFold(t.label, s) {
			return t, nil
		}
	}
	if t, ok := legacyLabels[strings.ToLower(s)]; ok {
		return t, nil
	}
	return EncounterType{}, ErrUnknownEncounterType
}

// ColorOf es total sobre las seis variantes. No hay color por defecto: el valor
// cero es un bug de quien construyó el registro, no un caso a suavizar en gris.
func ColorOf(t EncounterType) Color {
	if t.color == "" {
		panic("encounters: ColorOf called with zero EncounterType")
	}
	return t.color
}

func (t EncounterType) String() string { return t.label }

func (t EncounterType) IsZero() bool { return t == EncounterType{} }

func (t EncounterType) MarshalText() ([]byte, error) {
	if t.IsZero() {
		return nil, ErrUnknownEncounterType
	}
	return []byte(t.label), nil
}

func (t *EncounterType) UnmarshalText(b []byte) error {
	parsed, err := ParseEncounterType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

type Source string

const (
	SourceManual      Source = "manual"
	SourceNEHR        Source = "nehr"
	SourceIntegration Source = "integration"
)

type Order string

const (
	OrderNewestFirst Order = "desc"
	OrderOldestFirst Order = "asc"
)
