package portal

import (
	"bytes"
	"html/template"
	"net/http"
	"time"

	"patient-portal/internal/domain/encounters"
	"patient-portal/internal/ui/timeline"

	"github.com/rs/zerolog"
)

const (
	htmlContentType = "text/html; charset=utf-8"

	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

var layoutTemplate = template.Must(template.New("layout").Parse(`<!DOCTYPE html>
<html lang="{{.Locale}}">
<head>
	<meta charset="utf-8">
	<meta name="viewport" content="width=device-width, initial-scale=1">
	<title>{{.Title}}</title>
</head>
<body class="min-h-screen flex flex-col">
<header class="flex items-center justify-between px-8 py-4 border-b border-slate-200">
	<h1 class="text-xl font-semibold">{{.Title}}</h1>
	<div class="flex items-center gap-x-4">{{if .PatientName}}<span class="text-sm text-slate-500" data-role="patient">{{.PatientName}}</span>{{end}}{{.SignOut}}</div>
</header>
<main class="flex-1 px-8 py-6">
{{.Content}}
</main>
{{.Footer}}
</body>
</html>
`))

var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<div>{{.Overview}}</div>
<section class="mt-8"><h2 class="mb-4 text-lg font-medium">{{.RecentTitle}}</h2>{{if .Timeline}}{{.Timeline}}{{else}}<p class="text-slate-500" data-role="empty">{{.Empty}}</p>{{end}}</section>`))

var timelinePageTemplate = template.Must(template.New("timeline-page").Parse(`<section>{{if .Timeline}}{{.Timeline}}{{else}}<p class="text-slate-500" data-role="empty">{{.Empty}}</p>{{end}}</section>`))

var internalErrorTemplate = template.Must(template.New("").Parse(`<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8">
	<title>Internal Server Error</title>
</head>
<body>
	Internal Server Error
</body>
</html>
`))

type layoutContext struct {
	Locale      string
	Title       string
	PatientName string
	SignOut     template.HTML
	Content     template.HTML
	Footer      template.HTML
}

// Milestones formatea encounters para la línea de tiempo en la zona horaria del portal.
// Respeta el orden recibido (el repo ya ordenó).
func Milestones(items []encounters.Encounter, loc *time.Location) []timeline.Milestone {
	if loc == nil {
		loc = time.UTC
	}
	out := make([]timeline.Milestone, 0, len(items))
	for _, e := range items {
		at := e.OccurredAt.In(loc)
		out = append(out, timeline.Milestone{
			ID:            e.ID,
			Institution:   e.Institution,
			Date:          at.Format(dateLayout),
			Time:          at.Format(timeLayout),
			EncounterType: e.Type,
		})
	}
	return out
}

func renderFragment(t *template.Template, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func templateResponse(w http.ResponseWriter, r *http.Request, code int, t *template.Template, data any) {
	w.Header().Set("Content-Type", htmlContentType)
	w.WriteHeader(code)
	if err := t.Execute(w, data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("template", t.Name()).Msg("render template")
	}
}

func internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	zerolog.Ctx(r.Context()).Error().Err(err).Msg("portal page failed")
	templateResponse(w, r, http.StatusInternalServerError, internalErrorTemplate, nil)
}
