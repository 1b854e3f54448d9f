/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import "errors"

var (
	ErrDatabaseURLNotSet                = errors.New("database URL is not set")
	ErrDatabaseNameNotSpecified         = errors.New("database name not specified in URL")
	ErrDatabaseConnectionNotInitialized = errors.New("database connection not initialized")
	ErrInvalidSessionConfig             = errors.New("invalid PostgresSessionConfig")
	ErrPatientNotFound                  = errors.New("patient not found")
	ErrInvalidPatientID                 = errors.New("invalid patient id")
	ErrFirstNameRequired                = errors.New("first name is required")
	ErrVitalsNotArray                   = errors.New("vitals must be a JSON array")
)
