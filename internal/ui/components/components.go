// Package components tiene las piezas de layout del portal: botón de salida,
// footer y tarjetas del dashboard. Todas reciben los textos ya traducidos o un
// i18n.Translator; ninguna guarda estado.
package components

import (
	"bytes"
	"html/template"
	"strconv"
	"strings"

	"patient-portal/internal/ports/i18n"
	"patient-portal/internal/ui/icons"
)

var templates = template.Must(template.New("components").Parse(`
{{define "signout"}}<form method="post" action="{{.Action}}" class="inline-flex" data-role="signout"><button type="submit" class="group relative inline-flex h-10 w-10 items-center justify-center rounded-md border border-input bg-background hover:bg-accent" title="{{.Tooltip}}">{{.Icon}}<span class="sr-only">sign out</span><span role="tooltip" class="pointer-events-none absolute top-full mt-2 hidden rounded-md border bg-popover px-3 py-1.5 text-sm group-hover:block">{{.Tooltip}}</span></button></form>{{end}}

{{define "footer"}}<footer class="sticky top-full bg-slate-900 flex w-full flex-col justify-center pt-8 max-md:pt-0 px-40 pb-8 max-md:px-4 max-md:max-w-full" data-role="footer">
<div class="flex w-full max-w-full items-stretch justify-between gap-5 max-md:flex-wrap">
<div class="gap-5 flex max-md:flex-col max-md:items-stretch max-md:gap-0">
{{range .Sections}}<div class="text-white text-base leading-7 tracking-normal max-md:mt-10"><h4 class="text-xl font-semibold tracking-tight">{{.Title}}</h4><ul>{{range .Links}}<li><a href="{{.Href}}">{{.Label}}</a></li>{{end}}</ul></div>
{{end}}</div>
<div class="flex flex-col items-stretch self-start max-md:mt-10"><div class="text-white text-xl font-extrabold leading-7 whitespace-nowrap">{{.SocialTitle}}</div><div class="flex justify-start gap-5 mt-9 max-md:justify-center text-white">{{range .Social}}<a href="{{.Href}}" aria-label="{{.Label}}">{{.Icon}}</a>{{end}}</div></div>
</div>
<div class="flex justify-center text-slate-600 text-xs leading-7 whitespace-nowrap items-center mt-32 max-md:mt-10" data-role="copyright">{{.Year}} {{.Copyright}}</div>
</footer>{{end}}

{{define "overview"}}<div class="grid gap-4 md:grid-cols-2 lg:grid-cols-4" data-role="overview">{{range .}}<div class="rounded-xl border bg-card text-card-foreground shadow" data-role="overview-card"><div class="p-6 flex flex-row items-center justify-between space-y-0 pb-2"><h3 class="tracking-tight text-sm font-medium">{{.Title}}</h3><span class="h-5 w-5 text-muted-foreground">{{.Icon}}</span></div><div class="p-6 pt-0"><div class="text-2xl font-bold" data-role="value">{{.Value}}</div><p class="text-xs text-muted-foreground" data-role="caption">{{.Caption}}</p></div></div>{{end}}</div>{{end}}
`))

func execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// SignOutButton pinta el botón de salida: un form POST a action, con el tooltip traducido.
func SignOutButton(tr i18n.Translator, locale, action string) (template.HTML, error) {
	return execute("signout", struct {
		Action  string
		Tooltip string
		Icon    template.HTML
	}{action, tr.T(locale, i18n.NamespaceCommons, "signOut"), icons.SignOut})
}

type Link struct {
	Href  string
	Label string
	Icon  template.HTML
}

type FooterSection struct {
	Title string
	Links []Link
}

// FooterLinks son los destinos del footer. Vacío => "#".
type FooterLinks struct {
	AboutNEHR                 string
	ContributingOrganizations string
	ContactUs                 string
	MinistryOfHealth          string
	HealthInformationUnit     string
	Facebook                  string
	Instagram                 string
}

func href(s string) string {
	if strings.TrimSpace(s) == "" {
		return "#"
	}
	return s
}

// Footer pinta el pie de página. year lo pasa quien llama (reloj inyectable).
func Footer(tr i18n.Translator, locale string, links FooterLinks, year int) (template.HTML, error) {
	home := func(key string) string { return tr.T(locale, i18n.NamespaceHomepage, key) }

	return execute("footer", struct {
		Sections    []FooterSection
		SocialTitle string
		Social      []Link
		Year        string
		Copyright   string
	}{
		Sections: []FooterSection{
			{Title: home("aboutThePortal"), Links: []Link{
				{Href: href(links.AboutNEHR), Label: home("aboutNEHR")},
				{Href: href(links.ContributingOrganizations), Label: home("contributingOrganizations")},
				{Href: href(links.ContactUs), Label: tr.T(locale, i18n.NamespaceCommons, "contactUs")},
			}},
			{Title: home("importantLinks"), Links: []Link{
				{Href: href(links.MinistryOfHealth), Label: home("ministryOfHealth")},
				{Href: href(links.HealthInformationUnit), Label: home("healthInformationUnit")},
			}},
		},
		SocialTitle: home("socialMedia"),
		Social: []Link{
			{Href: href(links.Facebook), Label: "Facebook", Icon: icons.Facebook},
			{Href: href(links.Instagram), Label: "Instagram", Icon: icons.Instagram},
		},
		Year:      strconv.Itoa(year),
		Copyright: home("copyRightInfo"),
	})
}

// OverviewCard es una tarjeta del dashboard con textos ya resueltos.
type OverviewCard struct {
	Title   string
	Value   string
	Caption string
	Icon    template.HTML
}

func OverviewCards(cards []OverviewCard) (template.HTML, error) {
	return execute("overview", cards)
}

// FromLastMonth arma el caption "+N from last month" traducido.
func FromLastMonth(tr i18n.Translator, locale string, n int) string {
	return strings.ReplaceAll(tr.T(locale, i18n.NamespaceDashboard, "fromLastMonth"), "{count}", strconv.Itoa(n))
}
