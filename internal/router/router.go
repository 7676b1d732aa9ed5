package router

import (
	"net/http"
	"time"

	_ "patient-portal/docs"

	"patient-portal/internal/adapters/i18n/yamlcatalog"
	mem "patient-portal/internal/adapters/storage/memory"
	"patient-portal/internal/domain/encounters"
	"patient-portal/internal/domain/portal"
	"patient-portal/internal/middleware"
	"patient-portal/internal/ports/auth"
	"patient-portal/internal/ports/i18n"
	"patient-portal/internal/ui/components"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Repo explícito (NEHR o Postgres). Si no viene, in-memory.
	Encounters encounters.Repository

	// Si no viene, usa el catálogo embebido con DefaultLocale.
	Translator    i18n.Translator
	DefaultLocale string

	Logger zerolog.Logger

	SessionCookie string
	SignInURL     string
	Location      *time.Location
	FooterLinks   components.FooterLinks

	Now func() time.Time
}

func NewRouter(opts Options) (http.Handler, error) {
	if opts.DefaultLocale == "" {
		opts.DefaultLocale = "en"
	}
	if opts.Translator == nil {
		catalog, err := yamlcatalog.Load(opts.DefaultLocale)
		if err != nil {
			return nil, err
		}
		opts.Translator = catalog
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(middleware.Recover)

	r.Use(middleware.AuthContext(opts.AuthVerifier, opts.SessionCookie))
	r.Use(middleware.Locale(opts.Translator.Locales(), opts.DefaultLocale))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	encountersSvc := encounters.NewService(selectRepo(opts))

	encounters.RegisterRoutes(r, encountersSvc)
	portal.RegisterRoutes(r, portal.Options{
		Encounters:    encountersSvc,
		Translator:    opts.Translator,
		Location:      opts.Location,
		SignInURL:     opts.SignInURL,
		SessionCookie: opts.SessionCookie,
		DefaultLocale: opts.DefaultLocale,
		FooterLinks:   opts.FooterLinks,
		Now:           opts.Now,
	})

	return r, nil
}

func selectRepo(opts Options) encounters.Repository {
	if opts.Encounters != nil {
		return opts.Encounters
	}
	return mem.NewEncounterRepo()
}
