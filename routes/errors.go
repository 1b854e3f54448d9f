/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import "errors"

var (
	errInvalidIndex = errors.New("invalid entry index")
	errNoEntries    = errors.New("no vitals entered")
)
