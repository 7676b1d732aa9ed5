package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"patient-portal/internal/domain/encounters"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE unique_violation
const uniqueViolation = "23505"

type EncountersRepo struct {
	db *sql.DB
}

func NewEncountersRepo(db *sql.DB) *EncountersRepo {
	return &EncountersRepo{db: db}
}

const selectEncounter = `
	SELECT
		id, patient_id,
		institution, encounter_type,
		occurred_at, recorded_at,
		source
	FROM patient_encounters
`

func (r *EncountersRepo) Create(ctx context.Context, e encounters.Encounter) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO patient_encounters (
			id, patient_id,
			institution, encounter_type,
			occurred_at, recorded_at,
			source
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		e.ID,
		e.PatientID,
		e.Institution,
		e.Type.String(),
		e.OccurredAt,
		e.RecordedAt,
		string(e.Source),
	)
	if isUniqueViolation(err) {
		return encounters.ErrConflict
	}
	return err
}

func (r *EncountersRepo) GetByID(ctx context.Context, id string) (encounters.Encounter, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return encounters.Encounter{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, selectEncounter+` WHERE id = $1`, id)

	e, err := scanEncounter(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return encounters.Encounter{}, ErrNotFound
		}
		return encounters.Encounter{}, err
	}
	return e, nil
}

func (r *EncountersRepo) ListByPatient(ctx context.Context, patientID string, filter encounters.ListFilter) ([]encounters.Encounter, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, nil
	}

	query, args := buildListQuery(patientID, filter.Normalized())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]encounters.Encounter, 0)
	for rows.Next() {
		e, err := scanEncounter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	return out, rows.Err()
}

// CountByPatient agrupa en la base: no depende de ningún límite de listado.
func (r *EncountersRepo) CountByPatient(ctx context.Context, patientID string, since time.Time) (map[encounters.EncounterType]encounters.Count, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			encounter_type,
			COUNT(*),
			COUNT(*) FILTER (WHERE occurred_at >= $2)
		FROM patient_encounters
		WHERE patient_id = $1
		GROUP BY encounter_type
	`, strings.TrimSpace(patientID), since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[encounters.EncounterType]encounters.Count)
	for rows.Next() {
		var typ string
		var c encounters.Count
		if err := rows.Scan(&typ, &c.Total, &c.LastMonth); err != nil {
			return nil, err
		}
		t, err := encounters.ParseEncounterType(typ)
		if err != nil {
			return nil, fmt.Errorf("count %q: %w", typ, err)
		}
		out[t] = c
	}
	return out, rows.Err()
}

func buildListQuery(patientID string, filter encounters.ListFilter) (string, []any) {
	sb := strings.Builder{}
	sb.WriteString(selectEncounter)
	sb.WriteString(" WHERE patient_id = $1")

	args := []any{patientID}
	argN := 2

	if len(filter.Types) > 0 {
		placeholders := make([]string, 0, len(filter.Types))
		for _, t := range filter.Types {
			placeholders = append(placeholders, fmt.Sprintf("$%d", argN))
			args = append(args, t.String())
			argN++
		}
		sb.WriteString(" AND encounter_type IN (" + strings.Join(placeholders, ",") + ")")
	}

	if filter.From != nil {
		sb.WriteString(fmt.Sprintf(" AND occurred_at >= $%d", argN))
		args = append(args, *filter.From)
		argN++
	}
	if filter.To != nil {
		sb.WriteString(fmt.Sprintf(" AND occurred_at <= $%d", argN))
		args = append(args, *filter.To)
		argN++
	}

	if q := strings.TrimSpace(filter.Query); q != "" {
		sb.WriteString(fmt.Sprintf(` AND institution ILIKE $%d ESCAPE '\'`, argN))
		args = append(args, "%"+escapeLike(q)+"%")
		argN++
	}

	if filter.Order == encounters.OrderOldestFirst {
		sb.WriteString(" ORDER BY occurred_at ASC, id ASC")
	} else {
		sb.WriteString(" ORDER BY occurred_at DESC, id ASC")
	}
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", argN))
	args = append(args, filter.Limit)

	return sb.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike hace que el texto de búsqueda se compare literal, igual que el repo en memoria.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEncounter(s rowScanner) (encounters.Encounter, error) {
	var e encounters.Encounter
	var typ, source string
	if err := s.Scan(
		&e.ID,
		&e.PatientID,
		&e.Institution,
		&typ,
		&e.OccurredAt,
		&e.RecordedAt,
		&source,
	); err != nil {
		return encounters.Encounter{}, err
	}

	t, err := encounters.ParseEncounterType(typ)
	if err != nil {
		return encounters.Encounter{}, fmt.Errorf("encounter %s: %w", e.ID, err)
	}
	e.Type = t
	e.Source = encounters.Source(source)
	return e, nil
}
