package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"patient-portal/internal/adapters/auth/jwtsession"
	"patient-portal/internal/adapters/records/nehr"
	mem "patient-portal/internal/adapters/storage/memory"
	pg "patient-portal/internal/adapters/storage/postgres"
	"patient-portal/internal/config"
	"patient-portal/internal/domain/encounters"
	"patient-portal/internal/domain/portal"
	"patient-portal/internal/fixtures"
	"patient-portal/internal/platform/logger"
	"patient-portal/internal/ports/auth"
	"patient-portal/internal/router"
	"patient-portal/internal/ui/timeline"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// @title Patient Portal API
// @version 1.0
// @description API del portal del paciente: encounters clínicos y resumen para el dashboard.
// @BasePath /
func main() {
	rootCmd := &cobra.Command{
		Use:   "patient-portal",
		Short: "Portal del paciente (NEHR)",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(renderCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica el schema de Postgres (DB_DSN)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DBDSN == "" {
				return errors.New("DB_DSN is required")
			}

			db, err := pg.Open(cfg.DBDSN)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			if err := pg.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
			return nil
		},
	}
}

// render pinta la línea de tiempo de un archivo de fixtures, sin servidor.
func renderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Pinta la línea de tiempo HTML de un archivo YAML de encounters",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			patientID, _ := cmd.Flags().GetString("patient")
			tz, _ := cmd.Flags().GetString("tz")
			class, _ := cmd.Flags().GetString("class")
			order, _ := cmd.Flags().GetString("order")

			loc, err := time.LoadLocation(tz)
			if err != nil {
				return fmt.Errorf("invalid --tz: %w", err)
			}

			f, err := fixtures.ReadFile(file)
			if err != nil {
				return err
			}
			if patientID == "" && len(f.Patients) > 0 {
				patientID = f.Patients[0].ID
			}

			ctx := cmd.Context()
			svc := encounters.NewService(mem.NewEncounterRepo())
			if _, _, err := fixtures.Seed(ctx, svc, f); err != nil {
				return err
			}
			items, err := svc.ListByPatient(ctx, patientID, encounters.ListFilter{
				Limit: encounters.MaxLimit,
				Order: encounters.Order(order),
			})
			if err != nil {
				return err
			}

			return timeline.Render(cmd.OutOrStdout(), class, portal.Milestones(items, loc))
		},
	}
	cmd.Flags().String("file", "fixtures/demo.yaml", "Archivo YAML de encounters")
	cmd.Flags().String("patient", "", "Paciente a pintar (por defecto el primero del archivo)")
	cmd.Flags().String("tz", "Asia/Colombo", "Zona horaria para fecha/hora")
	cmd.Flags().String("class", "max-w-xl", "Clase CSS del contenedor")
	cmd.Flags().String("order", string(encounters.OrderNewestFirst), "desc o asc")
	return cmd
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	loc, _ := cfg.Location()

	var verifier auth.AuthVerifier
	if cfg.SessionSecret != "" {
		v, err := jwtsession.NewVerifier(jwtsession.Config{
			Secret:   []byte(cfg.SessionSecret),
			Issuer:   cfg.SessionIssuer,
			Audience: cfg.SessionAudience,
			Leeway:   30 * time.Second,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to build session verifier")
		}
		verifier = v
	} else {
		log.Warn().Str("header", "X-Debug-User-ID").Msg("no SESSION_SECRET: dev auth mode")
	}

	repo, closeRepo, err := buildRepo(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init encounters storage")
	}
	defer closeRepo()

	if cfg.SeedFile != "" {
		f, err := fixtures.ReadFile(cfg.SeedFile)
		if err != nil {
			log.Fatal().Err(err).Str("file", cfg.SeedFile).Msg("failed to read seed file")
		}
		created, skipped, err := fixtures.Seed(context.Background(), encounters.NewService(repo), f)
		if err != nil {
			log.Fatal().Err(err).Str("file", cfg.SeedFile).Msg("failed to seed encounters")
		}
		log.Info().Int("created", created).Int("skipped", skipped).Str("file", cfg.SeedFile).Msg("seeded encounters")
	}

	h, err := router.NewRouter(router.Options{
		AuthVerifier:  verifier,
		Encounters:    repo,
		DefaultLocale: cfg.DefaultLocale,
		Logger:        log,
		SessionCookie: cfg.SessionCookie,
		SignInURL:     cfg.SignInURL,
		Location:      loc,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      h,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

// buildRepo elige el almacenamiento: NEHR upstream > Postgres > memoria.
func buildRepo(cfg *config.Config, log zerolog.Logger) (encounters.Repository, func(), error) {
	noop := func() {}

	if cfg.NEHRBaseURL != "" {
		repo, err := nehr.New(nehr.Config{
			BaseURL: cfg.NEHRBaseURL,
			APIKey:  cfg.NEHRAPIKey,
			Timeout: cfg.NEHRTimeout,
		})
		if err != nil {
			return nil, noop, err
		}
		log.Info().Str("base_url", cfg.NEHRBaseURL).Msg("using NEHR records API")
		return repo, noop, nil
	}

	if cfg.DBDSN != "" {
		db, err := pg.Open(cfg.DBDSN)
		if err != nil {
			return nil, noop, fmt.Errorf("open db: %w", err)
		}
		log.Info().Msg("connected to database")
		return pg.NewEncountersRepo(db), func() { _ = db.Close() }, nil
	}

	log.Warn().Msg("no NEHR_BASE_URL or DB_DSN: using in-memory storage")
	return mem.NewEncounterRepo(), noop, nil
}
