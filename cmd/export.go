/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/humaidq/pulseboard/config"
	"github.com/humaidq/pulseboard/db"
	"github.com/humaidq/pulseboard/export"
	"github.com/humaidq/pulseboard/metrics"
	"github.com/humaidq/pulseboard/routes"
)

var CmdExport = &cli.Command{
	Name:  "export",
	Usage: "Write every patient's vitals to an xlsx workbook",
	Flags: []cli.Flag{
		configFlag(),
		databaseURLFlag(),
		logLevelFlag(),
		&cli.StringFlag{
			Name:  "range",
			Value: "all",
			Usage: "date range: all, 7d, 30d, 6m, over120d or FROM..TO",
		},
		&cli.StringFlag{
			Name:  "layout",
			Value: string(export.LayoutSingle),
			Usage: "workbook layout: single or per-patient",
		},
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "output file (defaults to the layout's file name)",
		},
	},
	Action: runExport,
}

// connect opens the database named by cfg for a one-shot command.
func connect(ctx context.Context, cfg config.Config) error {
	if cfg.DatabaseURL == "" {
		return errDatabaseURLRequired
	}

	if err := db.Init(ctx, cfg.DatabaseURL); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.SyncSchema(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to sync schema: %w", err)
	}

	return nil
}

func runExport(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	settings := &routes.Settings{Location: loc, Metrics: metrics.Default()}

	layout, err := export.ParseLayout(cmd.String("layout"))
	if err != nil {
		return err
	}

	r, err := settings.Normalizer().ParseRange(cmd.String("range"))
	if err != nil {
		return err
	}

	out := cmd.String("out")
	if out == "" {
		out = layout.FileName()
	}

	if err := connect(ctx, cfg); err != nil {
		return err
	}
	defer db.Close()

	patients, err := db.ListPatients(ctx)
	if err != nil {
		return fmt.Errorf("failed to load patients: %w", err)
	}

	file, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}

	rows, err := export.Write(file, layout, routes.BuildExport(patients, settings, r))
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	exportLogger.Info("Export written", "file", out, "layout", layout, "range", r.String(), "patients", len(patients), "rows", rows)

	return nil
}
