// Package timeline pinta la línea de tiempo de encounters del paciente.
//
// Es una transformación pura: recibe registros ya formateados y en el orden
// en que se deben mostrar, y devuelve HTML. No ordena, no parsea fechas y no
// valida textos; eso es responsabilidad de quien arma los Milestone.
package timeline

import (
	"bytes"
	"html/template"
	"io"

	"patient-portal/internal/domain/encounters"
	"patient-portal/internal/ui/icons"
)

// Milestone es un encounter listo para mostrar. Date y Time llegan formateados.
type Milestone struct {
	ID            string
	Institution   string
	Date          string
	Time          string
	EncounterType encounters.EncounterType
}

var milestoneTemplate = template.Must(template.New("milestone").Parse(
	`<div class="flex gap-x-4 mb-2" data-role="milestone">` +
		`<div class="flex flex-col items-center gap-y-2">` +
		`<div class="w-7 h-7 flex justify-center items-center rounded-full text-white" data-role="badge" style="{{.Fill}}">{{.Glyph}}</div>` +
		`{{if not .Last}}<div class="w-0.5 bg-slate-200 flex-1" data-role="connector"></div>{{end}}` +
		`</div>` +
		`<div class="w-80 border border-slate-200 rounded-lg px-4 py-3 mb-5 cursor-pointer hover:ring-4 hover:ring-slate-200 hover:bg-slate-50 transition-all" data-role="card">` +
		`<p class="mb-1 font-medium" data-role="institution">{{.Institution}}</p>` +
		`<div class="flex items-center text-xs gap-x-2 mb-1">` +
		`<div class="flex items-center gap-x-0.5 text-slate-500" data-role="when"><p>{{.Date}},</p><p>{{.Time}}</p></div>` +
		`<div class="w-1.5 aspect-square rounded-full -translate-y-[0.7px]" data-role="type-dot" style="{{.Fill}}"></div>` +
		`<div class="flex items-center gap-x-0.5"><p class="-translate-y-[0.7px]">Type</p>{{.Chevron}}<p class="text-slate-500" data-role="type">{{.Type}}</p></div>` +
		`</div>` +
		`<p class="font-mono" data-role="reference">#{{.ID}}</p>` +
		`</div>` +
		`</div>`))

var containerTemplate = template.Must(template.New("timeline").Parse(
	`<div{{with .Class}} class="{{.}}"{{end}} data-role="timeline">{{range .Children}}{{.}}{{end}}</div>`))

type milestoneView struct {
	ID          string
	Institution string
	Date        string
	Time        string
	Type        string
	Fill        template.CSS
	Last        bool
	Glyph       template.HTML
	Chevron     template.HTML
}

// RenderMilestone pinta un nodo. last=true omite el conector hacia el siguiente nodo.
// El color del badge y del punto de tipo sale de encounters.ColorOf: un tipo sin
// color es un bug y hace panic, nunca se pinta gris.
func RenderMilestone(m Milestone, last bool) (template.HTML, error) {
	// El color viene de la enumeración cerrada, no de input del usuario.
	fill := template.CSS("background-color: " + string(encounters.ColorOf(m.EncounterType)))

	var buf bytes.Buffer
	if err := milestoneTemplate.Execute(&buf, milestoneView{
		ID:          m.ID,
		Institution: m.Institution,
		Date:        m.Date,
		Time:        m.Time,
		Type:        m.EncounterType.String(),
		Fill:        fill,
		Last:        last,
		Glyph:       icons.Landmark,
		Chevron:     icons.ChevronRight,
	}); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// Container agrupa nodos ya renderizados. No itera registros ni decide cuál es el
// último: así quien llama puede intercalar contenido que no sea un Milestone.
func Container(class string, children []template.HTML) (template.HTML, error) {
	var buf bytes.Buffer
	if err := containerTemplate.Execute(&buf, struct {
		Class    string
		Children []template.HTML
	}{class, children}); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// Items pinta cada Milestone calculando last por posición (i == len-1).
// Es el camino recomendado para no equivocarse con el flag.
func Items(ms []Milestone) ([]template.HTML, error) {
	out := make([]template.HTML, 0, len(ms))
	for i, m := range ms {
		node, err := RenderMilestone(m, i == len(ms)-1)
		if err != nil {
			return nil, err
		}
		out = append(out, node)
	}
	return out, nil
}

// Render escribe la línea de tiempo completa de ms en w.
func Render(w io.Writer, class string, ms []Milestone) error {
	items, err := Items(ms)
	if err != nil {
		return err
	}
	html, err := Container(class, items)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, string(html))
	return err
}
