/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"net/http"
	"time"

	"github.com/flamego/csrf"
	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"
	"github.com/urfave/cli/v3"

	"github.com/humaidq/pulseboard/config"
	"github.com/humaidq/pulseboard/db"
	"github.com/humaidq/pulseboard/metrics"
	"github.com/humaidq/pulseboard/routes"
	"github.com/humaidq/pulseboard/static"
	"github.com/humaidq/pulseboard/templates"
	"github.com/humaidq/pulseboard/vitals"
)

const (
	devCSRFSecret   = "pulseboard-development-only"
	shutdownTimeout = 10 * time.Second
)

var CmdStart = &cli.Command{
	Name:    "start",
	Aliases: []string{"run"},
	Usage:   "Start the web server",
	Flags: []cli.Flag{
		configFlag(),
		&cli.StringFlag{
			Name:  "port",
			Value: "8080",
			Usage: "the web server port",
		},
		databaseURLFlag(),
		&cli.BoolFlag{
			Name:  "dev",
			Value: false,
			Usage: "enables development mode (templates from disk, insecure cookies)",
		},
		logLevelFlag(),
	},
	Action: start,
}

// statusClass maps a reading status to its stylesheet class.
func statusClass(status vitals.Status) string {
	switch status {
	case vitals.BelowRange:
		return "status-below"
	case vitals.AboveRange:
		return "status-above"
	case vitals.NormalRange:
		return "status-normal"
	default:
		return "status-none"
	}
}

func templateFuncs() htmltemplate.FuncMap {
	return htmltemplate.FuncMap{
		"statusClass": statusClass,
	}
}

func templateOptions(dev bool) (template.Options, error) {
	opts := template.Options{
		FuncMaps: []htmltemplate.FuncMap{templateFuncs()},
	}

	if dev {
		opts.Directory = "templates"
		return opts, nil
	}

	fs, err := template.EmbedFS(templates.Templates, ".", []string{".html"})
	if err != nil {
		return template.Options{}, fmt.Errorf("failed to load templates: %w", err)
	}

	opts.FileSystem = fs

	return opts, nil
}

func configureEmptyNotFoundHandler(f *flamego.Flame) {
	f.NotFound(func(c flamego.Context) {
		c.ResponseWriter().WriteHeader(http.StatusNotFound)
	})
}

func settingsFrom(cfg config.Config) (*routes.Settings, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	passwords := cfg.TierPasswords()
	if len(passwords) == 0 {
		return nil, errPasswordRequired
	}

	return &routes.Settings{
		Location:  loc,
		Passwords: passwords,
		Metrics:   metrics.Default(),
	}, nil
}

func csrfSecret(cfg config.Config) (string, error) {
	if cfg.CSRFSecret != "" {
		return cfg.CSRFSecret, nil
	}

	if !cfg.Dev {
		return "", errCSRFSecretRequired
	}

	appLogger.Warn("Using the development CSRF secret")

	return devCSRFSecret, nil
}

func sessionOptions(cfg config.Config) session.Options {
	return session.Options{
		Initer: db.PostgresSessionIniter(),
		Config: db.PostgresSessionConfig{Lifetime: cfg.SessionLifetime},
		Cookie: session.CookieOptions{
			MaxAge:   int(cfg.SessionLifetime.Seconds()),
			Secure:   !cfg.Dev,
			HTTPOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
	}
}

func newWebApp(cfg config.Config, settings *routes.Settings, sessOpts session.Options, secret string) (*flamego.Flame, error) {
	tplOpts, err := templateOptions(cfg.Dev)
	if err != nil {
		return nil, err
	}

	f := flamego.New()
	f.Use(flamego.Recovery())
	f.Use(flamego.Static(flamego.StaticOptions{
		FileSystem: http.FS(static.Static),
	}))

	f.Map(settings)

	f.Use(session.Sessioner(sessOpts))
	f.Use(csrf.Csrfer(csrf.Options{Secret: secret}))
	f.Use(template.Templater(tplOpts))
	f.Use(routes.SessionContextInjector())
	f.Use(routes.RequestLogger)
	f.Use(routes.NoCacheHeaders())
	f.Use(routes.SiteTitle(cfg.SiteTitle))
	f.Use(routes.SessionTemplateData())
	f.Use(routes.FlashInjector())
	f.Use(routes.CSRFInjector())

	configureEmptyNotFoundHandler(f)

	// Public routes
	f.Get("/login", routes.LoginForm)
	f.Post("/login", csrf.Validate, routes.Login)

	// Tier 1: browse patients and record vitals
	f.Group("", func() {
		f.Get("/", routes.Dashboard)
		f.Get("/logout", routes.Logout)
		f.Get("/patients", routes.ListPatients)
		f.Get("/patients/pending", routes.PendingPatients)
		f.Get("/patients/recorded", routes.RecordedPatients)
		f.Get("/patients/new", routes.NewPatientForm)
		f.Post("/patients/new", csrf.Validate, routes.CreatePatient)
		f.Get("/patients/{id}", routes.ViewPatient)
		f.Get("/patients/{id}/edit", routes.EditPatientForm)
		f.Post("/patients/{id}/edit", csrf.Validate, routes.UpdatePatient)
		f.Post("/patients/{id}/vitals", csrf.Validate, routes.AddVitals)
		f.Get("/patients/{id}/vitals.json", routes.VitalsJSON)
		f.Get("/patients/{id}/vitals/{index}/edit", routes.EditVitalForm)
		f.Post("/patients/{id}/vitals/{index}", csrf.Validate, routes.ReplaceVital)
	}, routes.RequireTier(routes.TierViewer))

	// Tier 2: bulk export and administration
	f.Group("", func() {
		f.Post("/patients/{id}/delete", csrf.Validate, routes.DeletePatient)
		f.Get("/export", routes.ExportForm)
		f.Get("/export.xlsx", routes.ExportWorkbook)
		f.Get("/metrics", routes.Metrics)
		f.Get("/security", routes.Security)
		f.Post("/security/invalidate", csrf.Validate, routes.InvalidateOtherSessions)
	}, routes.RequireTier(routes.TierAdmin))

	return f, nil
}

func start(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if cfg.DatabaseURL == "" {
		return errDatabaseURLRequired
	}

	settings, err := settingsFrom(cfg)
	if err != nil {
		return err
	}

	secret, err := csrfSecret(cfg)
	if err != nil {
		return err
	}

	appLogger.Info("Connecting to database")

	if err := db.Init(ctx, cfg.DatabaseURL); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	appLogger.Info("Syncing database schema")

	if err := db.SyncSchema(ctx); err != nil {
		return fmt.Errorf("failed to sync schema: %w", err)
	}

	f, err := newWebApp(cfg, settings, sessionOptions(cfg), secret)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%s", cfg.Port),
		Handler:      f,
		ErrorLog:     requestStdLogger,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		appLogger.Info("Starting web server", "port", cfg.Port, "timezone", settings.Location.String(), "dev", cfg.Dev)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	case <-ctx.Done():
	}

	appLogger.Info("Shutting down web server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
