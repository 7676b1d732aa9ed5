package encounters

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"patient-portal/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api/v1", func(ar chi.Router) {
		ar.Get("/encounters", listEncountersHandler(svc))
		ar.Post("/encounters", createEncounterHandler(svc))
		ar.Get("/encounters/{encounterID}", getEncounterHandler(svc))

		ar.Get("/summary", summaryHandler(svc))
	})
}

// createEncounterRequest es el cuerpo para registrar un encounter del paciente autenticado.
type createEncounterRequest struct {
	ID            string `json:"id"` // opcional, referencia upstream
	Institution   string `json:"institution"`
	EncounterType string `json:"encounter_type" enums:"OPD Encounters,Admission Summary,HCL Screening,Lab Reports,Appointments,Vaccinations"`
	OccurredAt    string `json:"occurred_at"` // RFC3339
	Source        Source `json:"source"`      // opcional
}

// encounterResponse representa un encounter devuelto por la API.
type encounterResponse struct {
	ID            string        `json:"id"`
	PatientID     string        `json:"patient_id"`
	Institution   string        `json:"institution"`
	EncounterType EncounterType `json:"encounter_type" swaggertype:"string"`
	Color         Color         `json:"color"`
	OccurredAt    time.Time     `json:"occurred_at"`
	RecordedAt    time.Time     `json:"recorded_at"`
	Source        Source        `json:"source"`
}

type countResponse struct {
	Total     int `json:"total"`
	LastMonth int `json:"last_month"`
}

// summaryResponse agrupa conteos totales y por tipo (clave = etiqueta del tipo).
type summaryResponse struct {
	All    countResponse            `json:"all"`
	ByType map[string]countResponse `json:"by_type"`
}

// listEncountersHandler godoc
// @Summary Listar encounters del paciente
// @Description Lista los encounters clínicos del paciente autenticado, ordenados por fecha (desc por defecto). Autenticación: `X-Debug-User-ID` (dev), cookie de sesión o `Authorization: Bearer <token>`.
// @Tags encounters
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de paciente para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param limit query int false "Máximo de encounters a devolver (1-200). Por defecto 50"
// @Param types query string false "Lista CSV de tipos (ej: Lab Reports,Vaccinations)"
// @Param from query string false "Fecha/hora mínima occurred_at (RFC3339)"
// @Param to query string false "Fecha/hora máxima occurred_at (RFC3339)"
// @Param q query string false "Texto de búsqueda en institución"
// @Param order query string false "asc o desc"
// @Success 200 {array} encounterResponse
// @Failure 400 {string} string "Parámetros de filtro inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /api/v1/encounters [get]
func listEncountersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		filter, err := ParseListFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.ListByPatient(r.Context(), claims.UserID, filter)
		if err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("list encounters")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]encounterResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toEncounterResponse(e))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// createEncounterHandler godoc
// @Summary Registrar encounter
// @Description Registra un encounter para el paciente autenticado. Si no viene `id` se genera un UUID. Un `id` ya usado responde 409.
// @Tags encounters
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de paciente para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createEncounterRequest true "Datos del encounter; occurred_at en formato RFC3339"
// @Success 201 {object} encounterResponse
// @Failure 400 {string} string "invalid json / occurred_at inválido / tipo desconocido"
// @Failure 401 {string} string "unauthorized"
// @Failure 409 {string} string "encounter id already exists"
// @Failure 500 {string} string "internal error"
// @Router /api/v1/encounters [post]
func createEncounterHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createEncounterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		typ, err := ParseEncounterType(req.EncounterType)
		if err != nil {
			http.Error(w, "unknown encounter_type", http.StatusBadRequest)
			return
		}

		t, err := time.Parse(time.RFC3339, req.OccurredAt)
		if err != nil {
			http.Error(w, "occurred_at must be RFC3339", http.StatusBadRequest)
			return
		}

		e, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			ID:          req.ID,
			Institution: req.Institution,
			Type:        typ,
			OccurredAt:  t,
			Source:      req.Source,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if errors.Is(err, ErrConflict) {
				// Mismo mensaje sea de este u otro paciente.
				http.Error(w, "encounter id already exists", http.StatusConflict)
				return
			}
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("create encounter")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toEncounterResponse(e))
	}
}

// getEncounterHandler godoc
// @Summary Obtener encounter
// @Description Devuelve un encounter del paciente autenticado. Los encounters de otros pacientes responden 404.
// @Tags encounters
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de paciente para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param encounterID path string true "ID del encounter"
// @Success 200 {object} encounterResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "encounter not found"
// @Failure 500 {string} string "internal error"
// @Router /api/v1/encounters/{encounterID} [get]
func getEncounterHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		e, err := svc.GetByID(r.Context(), claims.UserID, chi.URLParam(r, "encounterID"))
		if err != nil {
			if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) {
				http.Error(w, "encounter not found", http.StatusNotFound)
				return
			}
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("get encounter")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toEncounterResponse(e))
	}
}

// summaryHandler godoc
// @Summary Resumen de encounters
// @Description Conteos totales y del último mes (30 días), globales y por tipo. Alimenta las tarjetas del dashboard.
// @Tags encounters
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de paciente para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {object} summaryResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /api/v1/summary [get]
func summaryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		sum, err := svc.Summarize(r.Context(), claims.UserID)
		if err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("summarize encounters")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := summaryResponse{
			All:    countResponse{Total: sum.All.Total, LastMonth: sum.All.LastMonth},
			ByType: make(map[string]countResponse, len(encounterTypes)),
		}
		for _, t := range encounterTypes {
			c := sum.Of(t)
			out.ByType[t.String()] = countResponse{Total: c.Total, LastMonth: c.LastMonth}
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// ParseListFilter lee los filtros de query. Lo comparten la API JSON y las páginas del portal.
func ParseListFilter(r *http.Request) (ListFilter, error) {
	q := r.URL.Query()

	limit := DefaultLimit
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= MaxLimit {
			limit = n
		}
	}

	filter := ListFilter{Limit: limit}

	// types=Lab Reports,Vaccinations
	if v := strings.TrimSpace(q.Get("types")); v != "" {
		parts := strings.Split(v, ",")
		out := make([]EncounterType, 0, len(parts))
		for _, p := range parts {
			if strings.TrimSpace(p) == "" {
				continue
			}
			t, err := ParseEncounterType(p)
			if err != nil {
				return ListFilter{}, errors.New("types contains an unknown encounter type")
			}
			out = append(out, t)
		}
		if len(out) > 0 {
			filter.Types = out
		}
	}

	if v := strings.TrimSpace(q.Get("from")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ListFilter{}, errors.New("from must be RFC3339")
		}
		filter.From = &t
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ListFilter{}, errors.New("to must be RFC3339")
		}
		filter.To = &t
	}

	if v := strings.TrimSpace(q.Get("q")); v != "" {
		filter.Query = v
	}

	switch Order(strings.ToLower(strings.TrimSpace(q.Get("order")))) {
	case "", OrderNewestFirst:
		filter.Order = OrderNewestFirst
	case OrderOldestFirst:
		filter.Order = OrderOldestFirst
	default:
		return ListFilter{}, errors.New("order must be asc or desc")
	}

	return filter, nil
}

func toEncounterResponse(e Encounter) encounterResponse {
	return encounterResponse{
		ID:            e.ID,
		PatientID:     e.PatientID,
		Institution:   e.Institution,
		EncounterType: e.Type,
		Color:         ColorOf(e.Type),
		OccurredAt:    e.OccurredAt,
		RecordedAt:    e.RecordedAt,
		Source:        e.Source,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
