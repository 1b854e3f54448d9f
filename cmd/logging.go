/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import "github.com/humaidq/pulseboard/logging"

var appLogger = logging.Logger(logging.SourceApp)
var importLogger = logging.Logger(logging.SourceImport)
var exportLogger = logging.Logger(logging.SourceExport)
var requestStdLogger = logging.StdLogger(logging.SourceWebRequest)
