package encounters

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

// Ventana usada para el "último mes" de las tarjetas del dashboard.
const lastMonthWindow = 30 * 24 * time.Hour

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	// ID opcional: referencias upstream (NEHR) se conservan tal cual.
	ID          string
	Institution string
	Type        EncounterType
	OccurredAt  time.Time
	Source      Source
}

func (s *Service) Create(ctx context.Context, patientID string, in CreateInput) (Encounter, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return Encounter{}, fmt.Errorf("%w: patient id required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Institution) == "" {
		return Encounter{}, fmt.Errorf("%w: institution required", ErrInvalidInput)
	}
	if in.Type.IsZero() {
		return Encounter{}, fmt.Errorf("%w: encounter type required", ErrInvalidInput)
	}
	if in.OccurredAt.IsZero() {
		return Encounter{}, fmt.Errorf("%w: occurred_at required", ErrInvalidInput)
	}

	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.NewString()
	}
	src := in.Source
	if src == "" {
		src = SourceManual
	}

	e := Encounter{
		ID:          id,
		PatientID:   patientID,
		Institution: strings.TrimSpace(in.Institution),
		Type:        in.Type,
		OccurredAt:  in.OccurredAt,
		RecordedAt:  s.now(),
		Source:      src,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return Encounter{}, err
	}
	return e, nil
}

// GetByID solo devuelve encounters del paciente; los ajenos se reportan como ErrNotFound
// para no filtrar su existencia.
func (s *Service) GetByID(ctx context.Context, patientID, id string) (Encounter, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Encounter{}, ErrInvalidInput
	}
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Encounter{}, err
	}
	if e.PatientID != patientID {
		return Encounter{}, ErrNotFound
	}
	return e, nil
}

// ListByPatient devuelve los encounters ya ordenados cronológicamente; la línea de
// tiempo los pinta en el orden recibido.
func (s *Service) ListByPatient(ctx context.Context, patientID string, filter ListFilter) ([]Encounter, error) {
	if strings.TrimSpace(patientID) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByPatient(ctx, patientID, filter.Normalized())
}

func (s *Service) Summarize(ctx context.Context, patientID string) (Summary, error) {
	if strings.TrimSpace(patientID) == "" {
		return Summary{}, ErrInvalidInput
	}

	counts, err := s.repo.CountByPatient(ctx, patientID, s.now().Add(-lastMonthWindow))
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{ByType: make(map[EncounterType]Count, len(encounterTypes))}
	for t, c := range counts {
		if c == (Count{}) {
			continue
		}
		sum.ByType[t] = c
		sum.All.Total += c.Total
		sum.All.LastMonth += c.LastMonth
	}
	return sum, nil
}
