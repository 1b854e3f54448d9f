/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package config

import "errors"

var (
	ErrPortRequired           = errors.New("port must not be empty")
	ErrInvalidSessionLifetime = errors.New("session_lifetime must be positive")
	ErrUnknownTimezone        = errors.New("unknown timezone")
)
