package portal

import (
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"patient-portal/internal/domain/encounters"
	"patient-portal/internal/middleware"
	"patient-portal/internal/ports/auth"
	"patient-portal/internal/ports/i18n"
	"patient-portal/internal/ui/components"
	"patient-portal/internal/ui/icons"
	"patient-portal/internal/ui/timeline"

	"github.com/go-chi/chi/v5"
)

const (
	SignOutPath = "/auth/signout"

	recentLimit = 5
)

type Options struct {
	Encounters *encounters.Service
	Translator i18n.Translator

	// Zona horaria para formatear fecha/hora de los milestones.
	Location *time.Location

	// Si viene, las páginas sin sesión redirigen aquí en vez de responder 401.
	SignInURL     string
	SessionCookie string
	DefaultLocale string
	FooterLinks   components.FooterLinks

	Now func() time.Time
}

type pages struct {
	opts Options
}

func RegisterRoutes(r chi.Router, opts Options) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	p := &pages{opts: opts}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})
	r.Get("/dashboard", p.dashboard)
	r.Get("/records/timeline", p.timelinePage)
	r.Post(SignOutPath, p.signOut)
}

func (p *pages) dashboard(w http.ResponseWriter, r *http.Request) {
	claims, ok := p.requirePatient(w, r)
	if !ok {
		return
	}
	loc := p.locale(r)
	dash := func(key string) string { return p.opts.Translator.T(loc, i18n.NamespaceDashboard, key) }

	sum, err := p.opts.Encounters.Summarize(r.Context(), claims.UserID)
	if err != nil {
		internalServerError(w, r, err)
		return
	}

	card := func(titleKey string, c encounters.Count, icon template.HTML) components.OverviewCard {
		return components.OverviewCard{
			Title:   dash(titleKey),
			Value:   strconv.Itoa(c.Total),
			Caption: components.FromLastMonth(p.opts.Translator, loc, c.LastMonth),
			Icon:    icon,
		}
	}
	overview, err := components.OverviewCards([]components.OverviewCard{
		card("encounters", sum.All, icons.Clinic),
		card("labReports", sum.Of(encounters.EncounterTypeLabReport()), icons.FileMedical),
		card("vaccinations", sum.Of(encounters.EncounterTypeVaccination()), icons.Syringe),
		card("appointments", sum.Of(encounters.EncounterTypeAppointment()), icons.Calendar),
	})
	if err != nil {
		internalServerError(w, r, err)
		return
	}

	recent, err := p.opts.Encounters.ListByPatient(r.Context(), claims.UserID, encounters.ListFilter{
		Limit: recentLimit,
		Order: encounters.OrderNewestFirst,
	})
	if err != nil {
		internalServerError(w, r, err)
		return
	}
	tl, err := p.renderTimeline(recent)
	if err != nil {
		internalServerError(w, r, err)
		return
	}

	content, err := renderFragment(dashboardTemplate, struct {
		Overview    template.HTML
		RecentTitle string
		Timeline    template.HTML
		Empty       string
	}{overview, dash("recentEncounters"), tl, dash("noEncounters")})
	if err != nil {
		internalServerError(w, r, err)
		return
	}

	p.page(w, r, claims, dash("encounters"), content)
}

func (p *pages) timelinePage(w http.ResponseWriter, r *http.Request) {
	claims, ok := p.requirePatient(w, r)
	if !ok {
		return
	}
	loc := p.locale(r)

	filter, err := encounters.ParseListFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	items, err := p.opts.Encounters.ListByPatient(r.Context(), claims.UserID, filter)
	if err != nil {
		internalServerError(w, r, err)
		return
	}
	tl, err := p.renderTimeline(items)
	if err != nil {
		internalServerError(w, r, err)
		return
	}

	content, err := renderFragment(timelinePageTemplate, struct {
		Timeline template.HTML
		Empty    string
	}{tl, p.opts.Translator.T(loc, i18n.NamespaceDashboard, "noEncounters")})
	if err != nil {
		internalServerError(w, r, err)
		return
	}

	p.page(w, r, claims, p.opts.Translator.T(loc, i18n.NamespaceDashboard, "timeline"), content)
}

// signOut borra la cookie de sesión. El proveedor de identidad maneja el resto.
func (p *pages) signOut(w http.ResponseWriter, r *http.Request) {
	if p.opts.SessionCookie != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     p.opts.SessionCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Expires:  time.Unix(0, 0),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	target := p.opts.SignInURL
	if strings.TrimSpace(target) == "" {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// renderTimeline devuelve "" si no hay encounters (la página muestra el mensaje vacío).
func (p *pages) renderTimeline(items []encounters.Encounter) (template.HTML, error) {
	if len(items) == 0 {
		return "", nil
	}
	nodes, err := timeline.Items(Milestones(items, p.opts.Location))
	if err != nil {
		return "", err
	}
	return timeline.Container("max-w-xl", nodes)
}

func (p *pages) page(w http.ResponseWriter, r *http.Request, claims auth.Claims, title string, content template.HTML) {
	loc := p.locale(r)

	signOut, err := components.SignOutButton(p.opts.Translator, loc, SignOutPath)
	if err != nil {
		internalServerError(w, r, err)
		return
	}
	footer, err := components.Footer(p.opts.Translator, loc, p.opts.FooterLinks, p.opts.Now().In(p.opts.Location).Year())
	if err != nil {
		internalServerError(w, r, err)
		return
	}

	doc, err := renderFragment(layoutTemplate, layoutContext{
		Locale:      loc,
		Title:       title,
		PatientName: claims.Name,
		SignOut:     signOut,
		Content:     content,
		Footer:      footer,
	})
	if err != nil {
		internalServerError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", htmlContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

func (p *pages) requirePatient(w http.ResponseWriter, r *http.Request) (auth.Claims, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if ok && strings.TrimSpace(claims.UserID) != "" {
		return claims, true
	}
	if p.opts.SignInURL != "" {
		http.Redirect(w, r, p.opts.SignInURL, http.StatusFound)
		return auth.Claims{}, false
	}
	http.Error(w, "unauthorized", http.StatusUnauthorized)
	return auth.Claims{}, false
}

func (p *pages) locale(r *http.Request) string {
	if l := middleware.GetLocale(r.Context()); l != "" {
		return l
	}
	if p.opts.DefaultLocale != "" {
		return p.opts.DefaultLocale
	}
	return "en"
}
