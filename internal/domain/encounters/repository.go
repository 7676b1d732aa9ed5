package encounters

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
)

var (
	// ErrNotFound lo devuelven los repos cuando el encounter no existe.
	ErrNotFound = errors.New("encounter not found")

	// ErrConflict: ya existe un encounter con ese ID (de este u otro paciente).
	ErrConflict = errors.New("encounter already exists")
)

type Repository interface {
	Create(ctx context.Context, e Encounter) error
	GetByID(ctx context.Context, id string) (Encounter, error)
	ListByPatient(ctx context.Context, patientID string, filter ListFilter) ([]Encounter, error)

	// CountByPatient cuenta todos los encounters del paciente por tipo; LastMonth
	// cuenta los que ocurrieron en o después de since.
	CountByPatient(ctx context.Context, patientID string, since time.Time) (map[EncounterType]Count, error)
}

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

type ListFilter struct {
	Types []EncounterType
	From  *time.Time
	To    *time.Time
	Query string
	Limit int
	Order Order
}

// Normalized aplica defaults (limit, order) para que todos los repos se comporten igual.
func (f ListFilter) Normalized() ListFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Order != OrderOldestFirst {
		f.Order = OrderNewestFirst
	}
	return f
}

// SortEncounters ordena in place por occurred_at y desempata por ID para que el
// orden sea estable entre llamadas y entre repos.
func SortEncounters(items []Encounter, order Order) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.OccurredAt.Equal(b.OccurredAt) {
			if order == OrderOldestFirst {
				return a.OccurredAt.Before(b.OccurredAt)
			}
			return a.OccurredAt.After(b.OccurredAt)
		}
		return a.ID < b.ID
	})
}

// Matches evalúa el filtro en memoria (repo in-memory y tests).
func (f ListFilter) Matches(e Encounter) bool {
	if len(f.Types) > 0 {
		ok := false
		for _, t := range f.Types {
			if e.Type == t {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if f.From != nil && e.OccurredAt.Before(*f.From) {
		return false
	}
	if f.To != nil && e.OccurredAt.After(*f.To) {
		return false
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		if !strings.Contains(strings.ToLower(e.Institution), strings.ToLower(q)) {
			return false
		}
	}
	return true
}
