package postgres

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"patient-portal/internal/domain/encounters"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestEscapeLike(t *testing.T) {
	cases := map[string]string{
		"City":       "City",
		"_":          `\_`,
		"100%":       `100\%`,
		`a\b`:        `a\\b`,
		"ward_5%":    `ward\_5\%`,
		"St. Mary's": "St. Mary's",
	}
	for in, want := range cases {
		if got := escapeLike(in); got != want {
			t.Fatalf("%q: expected %q, got %q", in, want, got)
		}
	}
}

func TestBuildListQuery_QueryIsLiteral(t *testing.T) {
	query, args := buildListQuery("p-1", encounters.ListFilter{Query: " _ "}.Normalized())

	if !strings.Contains(query, `institution ILIKE $2 ESCAPE '\'`) {
		t.Fatalf("expected escaped ILIKE, got %s", query)
	}
	if args[1] != `%\_%` {
		t.Fatalf("expected escaped pattern, got %v", args[1])
	}
	if !strings.HasSuffix(query, "LIMIT $3") || args[2] != encounters.DefaultLimit {
		t.Fatalf("unexpected limit binding: %s %v", query, args)
	}
}

func TestBuildListQuery_AllFilters(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)
	query, args := buildListQuery("p-1", encounters.ListFilter{
		Types: []encounters.EncounterType{encounters.EncounterTypeLabReport(), encounters.EncounterTypeVaccination()},
		From:  &from,
		To:    &to,
		Limit: 10,
		Order: encounters.OrderOldestFirst,
	}.Normalized())

	for _, frag := range []string{
		"WHERE patient_id = $1",
		"encounter_type IN ($2,$3)",
		"occurred_at >= $4",
		"occurred_at <= $5",
		"ORDER BY occurred_at ASC, id ASC",
		"LIMIT $6",
	} {
		if !strings.Contains(query, frag) {
			t.Fatalf("missing %q in %s", frag, query)
		}
	}
	if len(args) != 6 || args[1] != "Lab Reports" || args[5] != 10 {
		t.Fatalf("unexpected args %v", args)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	if !isUniqueViolation(dup) {
		t.Fatalf("expected unique violation")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) || isUniqueViolation(errors.New("boom")) || isUniqueViolation(nil) {
		t.Fatalf("unexpected unique violation match")
	}
}
