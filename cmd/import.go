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

	"github.com/humaidq/pulseboard/db"
)

var CmdImport = &cli.Command{
	Name:      "import",
	Usage:     "Load patient documents from a JSON array file",
	ArgsUsage: "<file.json>",
	Flags: []cli.Flag{
		configFlag(),
		databaseURLFlag(),
		logLevelFlag(),
	},
	Action: runImport,
}

func readPatientDocuments(path string) ([]db.PatientDocument, error) {
	if path == "" {
		return nil, errInputRequired
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	docs, err := db.ParsePatientDocuments(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return docs, nil
}

func runImport(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	docs, err := readPatientDocuments(cmd.Args().First())
	if err != nil {
		return err
	}

	if err := connect(ctx, cfg); err != nil {
		return err
	}
	defer db.Close()

	imported, err := db.ImportPatients(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to import patients: %w", err)
	}

	importLogger.Info("Import finished", "documents", len(docs), "imported", imported)

	return nil
}
