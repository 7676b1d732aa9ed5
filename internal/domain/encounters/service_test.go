package encounters

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Encounter
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Encounter{}}
}

func (r *testRepo) Create(ctx context.Context, e Encounter) error {
	if _, ok := r.byID[e.ID]; ok {
		return ErrConflict
	}
	r.byID[e.ID] = e
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Encounter, error) {
	e, ok := r.byID[id]
	if !ok {
		return Encounter{}, ErrNotFound
	}
	return e, nil
}

func (r *testRepo) ListByPatient(ctx context.Context, patientID string, filter ListFilter) ([]Encounter, error) {
	out := make([]Encounter, 0)
	for _, e := range r.byID {
		if e.PatientID == patientID && filter.Matches(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt.After(out[j].OccurredAt) })
	if len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *testRepo) CountByPatient(ctx context.Context, patientID string, since time.Time) (map[EncounterType]Count, error) {
	out := map[EncounterType]Count{}
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

// -------------------------
// Tests
// -------------------------

func TestService_Create_DefaultsAndGeneratedID(t *testing.T) {
	svc := NewService(newTestRepo())
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	e, err := svc.Create(context.Background(), "p-1", CreateInput{
		Institution: "  City Hospital ",
		Type:        EncounterTypeLabReport(),
		OccurredAt:  now.Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.ID == "" {
		t.Fatalf("expected generated id")
	}
	if e.Institution != "City Hospital" {
		t.Fatalf("expected trimmed institution, got %q", e.Institution)
	}
	if e.Source != SourceManual {
		t.Fatalf("expected default source manual, got %q", e.Source)
	}
	if !e.RecordedAt.Equal(now) {
		t.Fatalf("expected recorded_at=%v, got %v", now, e.RecordedAt)
	}
}

func TestService_Create_KeepsUpstreamID(t *testing.T) {
	svc := NewService(newTestRepo())

	e, err := svc.Create(context.Background(), "p-1", CreateInput{
		ID:          "NEHR-0042",
		Institution: "MOH Office",
		Type:        EncounterTypeVaccination(),
		OccurredAt:  time.Now(),
		Source:      SourceNEHR,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.ID != "NEHR-0042" || e.Source != SourceNEHR {
		t.Fatalf("unexpected encounter %+v", e)
	}
}

func TestService_Create_Validation(t *testing.T) {
	svc := NewService(newTestRepo())
	ok := CreateInput{Institution: "H", Type: EncounterTypeOPD(), OccurredAt: time.Now()}

	cases := map[string]struct {
		patient string
		in      CreateInput
	}{
		"no patient":     {"", ok},
		"no institution": {"p-1", CreateInput{Type: EncounterTypeOPD(), OccurredAt: time.Now()}},
		"zero type":      {"p-1", CreateInput{Institution: "H", OccurredAt: time.Now()}},
		"no occurred_at": {"p-1", CreateInput{Institution: "H", Type: EncounterTypeOPD()}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.patient, tc.in)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestService_GetByID_HidesOtherPatients(t *testing.T) {
	svc := NewService(newTestRepo())
	e, err := svc.Create(context.Background(), "p-1", CreateInput{Institution: "H", Type: EncounterTypeOPD(), OccurredAt: time.Now()})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.GetByID(context.Background(), "p-1", e.ID); err != nil {
		t.Fatalf("owner should see encounter: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), "p-2", e.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for another patient, got %v", err)
	}
}

func TestService_ListByPatient_NormalizesFilter(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < MaxLimit+10; i++ {
		_, err := svc.Create(context.Background(), "p-1", CreateInput{
			Institution: "H",
			Type:        EncounterTypeOPD(),
			OccurredAt:  base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	items, err := svc.ListByPatient(context.Background(), "p-1", ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != DefaultLimit {
		t.Fatalf("expected default limit %d, got %d", DefaultLimit, len(items))
	}

	items, err = svc.ListByPatient(context.Background(), "p-1", ListFilter{Limit: 10000})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != MaxLimit {
		t.Fatalf("expected capped limit %d, got %d", MaxLimit, len(items))
	}

	if _, err := svc.ListByPatient(context.Background(), " ", ListFilter{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank patient, got %v", err)
	}
}

func TestService_Summarize_CountsLastMonth(t *testing.T) {
	svc := NewService(newTestRepo())
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	add := func(typ EncounterType, ago time.Duration) {
		t.Helper()
		if _, err := svc.Create(context.Background(), "p-1", CreateInput{Institution: "H", Type: typ, OccurredAt: now.Add(-ago)}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	add(EncounterTypeLabReport(), 2*24*time.Hour)
	add(EncounterTypeLabReport(), 60*24*time.Hour)
	add(EncounterTypeVaccination(), 10*24*time.Hour)
	add(EncounterTypeOPD(), 400*24*time.Hour)

	// otro paciente no cuenta
	if _, err := svc.Create(context.Background(), "p-2", CreateInput{Institution: "H", Type: EncounterTypeOPD(), OccurredAt: now}); err != nil {
		t.Fatalf("create: %v", err)
	}

	sum, err := svc.Summarize(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}

	if sum.All != (Count{Total: 4, LastMonth: 2}) {
		t.Fatalf("unexpected overall count %+v", sum.All)
	}
	if c := sum.Of(EncounterTypeLabReport()); c != (Count{Total: 2, LastMonth: 1}) {
		t.Fatalf("unexpected lab count %+v", c)
	}
	if c := sum.Of(EncounterTypeVaccination()); c != (Count{Total: 1, LastMonth: 1}) {
		t.Fatalf("unexpected vaccination count %+v", c)
	}
	if c := sum.Of(EncounterTypeAppointment()); c != (Count{}) {
		t.Fatalf("expected zero appointments, got %+v", c)
	}
}

func TestService_Summarize_CountsBeyondListLimit(t *testing.T) {
	svc := NewService(newTestRepo())
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	const n = MaxLimit + 50
	for i := 0; i < n; i++ {
		if _, err := svc.Create(context.Background(), "p-1", CreateInput{
			Institution: "H",
			Type:        EncounterTypeOPD(),
			OccurredAt:  now.Add(-time.Duration(i) * 24 * time.Hour),
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	sum, err := svc.Summarize(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if sum.All.Total != n {
		t.Fatalf("expected total %d, got %d", n, sum.All.Total)
	}
	if c := sum.Of(EncounterTypeOPD()); c.Total != n || c.LastMonth != 31 {
		t.Fatalf("unexpected OPD count %+v", c)
	}
}

func TestService_Create_DuplicateIDIsConflict(t *testing.T) {
	svc := NewService(newTestRepo())
	in := CreateInput{ID: "ENC-1", Institution: "H", Type: EncounterTypeOPD(), OccurredAt: time.Now()}

	if _, err := svc.Create(context.Background(), "p-1", in); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(context.Background(), "p-2", in); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestSortEncounters(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	items := []Encounter{
		{ID: "b", OccurredAt: base},
		{ID: "c", OccurredAt: base.Add(time.Hour)},
		{ID: "a", OccurredAt: base},
	}

	SortEncounters(items, OrderNewestFirst)
	if got := items[0].ID + items[1].ID + items[2].ID; got != "cab" {
		t.Fatalf("expected cab, got %s", got)
	}
	SortEncounters(items, OrderOldestFirst)
	if got := items[0].ID + items[1].ID + items[2].ID; got != "abc" {
		t.Fatalf("expected abc, got %s", got)
	}
}

func TestListFilter_Matches(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	f := ListFilter{
		Types: []EncounterType{EncounterTypeLabReport()},
		From:  &from,
		To:    &to,
		Query: "city",
	}

	e := Encounter{Institution: "City Hospital", Type: EncounterTypeLabReport(), OccurredAt: from}
	if !f.Matches(e) {
		t.Fatalf("expected match on lower bound")
	}

	other := e
	other.Type = EncounterTypeOPD()
	if f.Matches(other) {
		t.Fatalf("type filter ignored")
	}

	late := e
	late.OccurredAt = to.Add(time.Second)
	if f.Matches(late) {
		t.Fatalf("to filter ignored")
	}

	elsewhere := e
	elsewhere.Institution = "Base Hospital"
	if f.Matches(elsewhere) {
		t.Fatalf("query filter ignored")
	}
}
