package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"patient-portal/internal/domain/encounters"
)

// ErrNotFound es el mismo sentinel del dominio para que errors.Is funcione en handlers.
var ErrNotFound = encounters.ErrNotFound

type encounterRepo struct {
	mu   sync.RWMutex
	byID map[string]encounters.Encounter
}

func NewEncounterRepo() encounters.Repository {
	return &encounterRepo{
		byID: make(map[string]encounters.Encounter),
	}
}

func (r *encounterRepo) Create(ctx context.Context, e encounters.Encounter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID == "" {
		return errors.New("encounter id required")
	}
	if _, exists := r.byID[e.ID]; exists {
		return encounters.ErrConflict
	}

	r.byID[e.ID] = e
	return nil
}

func (r *encounterRepo) GetByID(ctx context.Context, id string) (encounters.Encounter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return encounters.Encounter{}, ErrNotFound
	}
	return e, nil
}

func (r *encounterRepo) ListByPatient(ctx context.Context, patientID string, filter encounters.ListFilter) ([]encounters.Encounter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filter = filter.Normalized()

	out := make([]encounters.Encounter, 0)
	for _, e := range r.byID {
		if e.PatientID != patientID {
			continue
		}
		if !filter.Matches(e) {
			continue
		}
		out = append(out, e)
	}

	encounters.SortEncounters(out, filter.Order)

	if len(out) > filter.Limit {
		out = out[:filter.Limit]
	}

	return out, nil
}

func (r *encounterRepo) CountByPatient(ctx context.Context, patientID string, since time.Time) (map[encounters.EncounterType]encounters.Count, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[encounters.EncounterType]encounters.Count)
	for _, e := range r.byID {
		if e.PatientID != patientID {
			continue
		}
		c := out[e.Type]
		c.Total++
		if !e.OccurredAt.Before(since) {
			c.LastMonth++
		}
		out[e.Type] = c
	}
	return out, nil
}
