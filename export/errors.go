/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package export

import "errors"

// ErrUnknownLayout is returned for a workbook layout that does not exist.
var ErrUnknownLayout = errors.New("unknown export layout")
