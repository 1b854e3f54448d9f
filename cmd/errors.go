/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import "errors"

var (
	errDatabaseURLRequired   = errors.New("database-url is required (set via --database-url, DATABASE_URL or " + databaseURLEnvVar + ")")
	errMigrationNameRequired = errors.New("migration name is required")
	errCSRFSecretRequired    = errors.New("csrf_secret is required outside development mode")
	errPasswordRequired      = errors.New("at least one of viewer_password or admin_password is required")
	errInputRequired         = errors.New("an input file is required")
)
