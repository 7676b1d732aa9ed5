// Package fixtures lee archivos YAML de encounters para sembrar el repo en dev
// y para el comando render.
package fixtures

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"patient-portal/internal/domain/encounters"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

var ErrInvalidFixture = errors.New("invalid fixture")

// File es el formato del archivo:
//
//	patients:
//	  - id: patient-1
//	    encounters:
//	      - id: ENC-1
//	        institution: City Hospital
//	        encounter_type: Lab Reports
//	        occurred_at: 2024-01-05T10:30:00Z
type File struct {
	Patients []Patient `yaml:"patients"`
}

type Patient struct {
	ID         string      `yaml:"id"`
	Encounters []Encounter `yaml:"encounters"`
}

type Encounter struct {
	ID            string `yaml:"id"`
	Institution   string `yaml:"institution"`
	EncounterType string `yaml:"encounter_type"`
	OccurredAt    string `yaml:"occurred_at"`
	Source        string `yaml:"source"`
}

func Read(r io.Reader) (File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return File{}, nil
		}
		return File{}, fmt.Errorf("%w: %v", ErrInvalidFixture, err)
	}
	return f, nil
}

func ReadFile(path string) (File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return File{}, err
	}
	defer fh.Close()
	return Read(fh)
}

// Inputs valida y convierte los encounters de un paciente.
func (p Patient) Inputs() ([]encounters.CreateInput, error) {
	out := make([]encounters.CreateInput, 0, len(p.Encounters))
	for i, e := range p.Encounters {
		typ, err := encounters.ParseEncounterType(e.EncounterType)
		if err != nil {
			return nil, fmt.Errorf("%w: patient %q encounter %d: %v", ErrInvalidFixture, p.ID, i, err)
		}
		at, err := time.Parse(time.RFC3339, strings.TrimSpace(e.OccurredAt))
		if err != nil {
			return nil, fmt.Errorf("%w: patient %q encounter %d: occurred_at must be RFC3339", ErrInvalidFixture, p.ID, i)
		}
		id := strings.TrimSpace(e.ID)
		if id == "" {
			id = stableID(p.ID, typ, at, e.Institution)
		}
		out = append(out, encounters.CreateInput{
			ID:          id,
			Institution: e.Institution,
			Type:        typ,
			OccurredAt:  at,
			Source:      encounters.Source(strings.TrimSpace(e.Source)),
		})
	}
	return out, nil
}

// stableID deriva un ID determinista para encounters sin id, así sembrar dos veces
// el mismo archivo no duplica registros.
func stableID(patientID string, t encounters.EncounterType, at time.Time, institution string) string {
	key := strings.Join([]string{patientID, t.String(), at.UTC().Format(time.RFC3339), strings.TrimSpace(institution)}, "|")
	return uuid.NewSHA1(seedNamespace, []byte(key)).String()
}

var seedNamespace = uuid.MustParse("6f1c2a0e-8d5b-4f3a-9c1e-2b7d4e5f6a70")

// Seed registra los encounters del archivo vía el service. Los IDs que ya existen
// se saltan, así que es seguro correrlo en cada arranque.
func Seed(ctx context.Context, svc *encounters.Service, f File) (created, skipped int, err error) {
	for _, p := range f.Patients {
		inputs, err := p.Inputs()
		if err != nil {
			return created, skipped, err
		}
		for _, in := range inputs {
			if _, err := svc.Create(ctx, p.ID, in); err != nil {
				if errors.Is(err, encounters.ErrConflict) {
					skipped++
					continue
				}
				return created, skipped, fmt.Errorf("seed patient %q: %w", p.ID, err)
			}
			created++
		}
	}
	return created, skipped, nil
}
