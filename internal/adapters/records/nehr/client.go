package nehr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"patient-portal/internal/domain/encounters"
	"patient-portal/internal/platform/httpclient"
)

var (
	ErrNEHRNotConfigured = errors.New("nehr client not configured")
	ErrNEHRUpstream      = errors.New("nehr upstream error")
)

type Config struct {
	BaseURL string
	APIKey  string

	// Si está vacío se usa "X-Api-Key".
	APIKeyHeader string
	Timeout      time.Duration

	Transport http.RoundTripper
}

// Repo implementa encounters.Repository contra la API de registros del NEHR.
// El portal no guarda nada: lee y registra directamente upstream.
type Repo struct {
	http *httpclient.Client
}

func New(cfg Config) (*Repo, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNEHRNotConfigured
	}
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}

	c, err := httpclient.New(httpclient.Config{
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		Headers:   map[string]string{h: strings.TrimSpace(cfg.APIKey)},
		Transport: cfg.Transport,
	})
	if err != nil {
		return nil, err
	}
	return &Repo{http: c}, nil
}

// encounterDTO es el formato del NEHR (snake_case, tipo como etiqueta).
type encounterDTO struct {
	ID            string    `json:"id"`
	PatientID     string    `json:"patient_id"`
	Institution   string    `json:"institution"`
	EncounterType string    `json:"encounter_type"`
	OccurredAt    time.Time `json:"occurred_at"`
	RecordedAt    time.Time `json:"recorded_at"`
}

func (r *Repo) Create(ctx context.Context, e encounters.Encounter) error {
	in := fromEncounter(e)
	path := "/v1/patients/" + url.PathEscape(e.PatientID) + "/encounters"
	if err := r.http.DoJSON(ctx, http.MethodPost, path, in, nil); err != nil {
		if httpclient.IsStatus(err, http.StatusConflict) {
			return encounters.ErrConflict
		}
		return fmt.Errorf("%w: %v", ErrNEHRUpstream, err)
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (encounters.Encounter, error) {
	var out encounterDTO
	if err := r.http.DoJSON(ctx, http.MethodGet, "/v1/encounters/"+url.PathEscape(id), nil, &out); err != nil {
		if httpclient.IsStatus(err, http.StatusNotFound) {
			return encounters.Encounter{}, encounters.ErrNotFound
		}
		return encounters.Encounter{}, fmt.Errorf("%w: %v", ErrNEHRUpstream, err)
	}
	return out.toEncounter()
}

func (r *Repo) ListByPatient(ctx context.Context, patientID string, filter encounters.ListFilter) ([]encounters.Encounter, error) {
	filter = filter.Normalized()

	q := url.Values{}
	q.Set("limit", strconv.Itoa(filter.Limit))
	q.Set("order", string(filter.Order))
	if len(filter.Types) > 0 {
		labels := make([]string, 0, len(filter.Types))
		for _, t := range filter.Types {
			labels = append(labels, t.String())
		}
		q.Set("types", strings.Join(labels, ","))
	}
	if filter.From != nil {
		q.Set("from", filter.From.Format(time.RFC3339))
	}
	if filter.To != nil {
		q.Set("to", filter.To.Format(time.RFC3339))
	}
	if filter.Query != "" {
		q.Set("institution", filter.Query)
	}

	var out []encounterDTO
	path := "/v1/patients/" + url.PathEscape(patientID) + "/encounters?" + q.Encode()
	if err := r.http.DoJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNEHRUpstream, err)
	}

	items := make([]encounters.Encounter, 0, len(out))
	for _, d := range out {
		e, err := d.toEncounter()
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}

	// El orden y el límite son contrato del repo, no del upstream.
	encounters.SortEncounters(items, filter.Order)
	if len(items) > filter.Limit {
		items = items[:filter.Limit]
	}
	return items, nil
}

type countDTO struct {
	EncounterType string `json:"encounter_type"`
	Total         int    `json:"total"`
	LastMonth     int    `json:"last_month"`
}

// CountByPatient usa el endpoint de conteos del NEHR: listar no sirve porque está paginado.
func (r *Repo) CountByPatient(ctx context.Context, patientID string, since time.Time) (map[encounters.EncounterType]encounters.Count, error) {
	q := url.Values{}
	q.Set("since", since.UTC().Format(time.RFC3339))

	var rows []countDTO
	path := "/v1/patients/" + url.PathEscape(patientID) + "/encounters/counts?" + q.Encode()
	if err := r.http.DoJSON(ctx, http.MethodGet, path, nil, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNEHRUpstream, err)
	}

	out := make(map[encounters.EncounterType]encounters.Count, len(rows))
	for _, row := range rows {
		t, err := encounters.ParseEncounterType(row.EncounterType)
		if err != nil {
			return nil, fmt.Errorf("%w: count type %q: %v", ErrNEHRUpstream, row.EncounterType, err)
		}
		// "Appoinments" y "Appointments" caen en la misma variante.
		c := out[t]
		c.Total += row.Total
		c.LastMonth += row.LastMonth
		out[t] = c
	}
	return out, nil
}

func (d encounterDTO) toEncounter() (encounters.Encounter, error) {
	t, err := encounters.ParseEncounterType(d.EncounterType)
	if err != nil {
		// Un tipo que no conocemos es un problema de clasificación upstream: no se muestra con color inventado.
		return encounters.Encounter{}, fmt.Errorf("%w: encounter %s has type %q: %v", ErrNEHRUpstream, d.ID, d.EncounterType, err)
	}
	return encounters.Encounter{
		ID:          d.ID,
		PatientID:   d.PatientID,
		Institution: d.Institution,
		Type:        t,
		OccurredAt:  d.OccurredAt,
		RecordedAt:  d.RecordedAt,
		Source:      encounters.SourceNEHR,
	}, nil
}

func fromEncounter(e encounters.Encounter) encounterDTO {
	return encounterDTO{
		ID:            e.ID,
		PatientID:     e.PatientID,
		Institution:   e.Institution,
		EncounterType: e.Type.String(),
		OccurredAt:    e.OccurredAt,
		RecordedAt:    e.RecordedAt,
	}
}
