/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/urfave/cli/v3"

	"github.com/humaidq/pulseboard/cmd"
	"github.com/humaidq/pulseboard/logging"
)

func main() {
	logging.Init()

	logger := logging.Logger(logging.SourceApp)

	app := &cli.Command{
		Name:  "pulseboard",
		Usage: "Pulseboard - Patient Vitals Dashboard",
		Commands: []*cli.Command{
			cmd.CmdStart,
			cmd.CmdMigrate,
			cmd.CmdExport,
			cmd.CmdImport,
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		logger.Error("Command failed", "error", err)
		stop()
		os.Exit(1)
	}
}
