/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"net/http"

	"github.com/flamego/flamego"
	"github.com/flamego/template"

	"github.com/humaidq/pulseboard/db"
)

const recentPendingLimit = 5

// Dashboard renders patient counters and the patients still waiting for
// their first vitals.
func Dashboard(c flamego.Context, t template.Template, data template.Data) {
	ctx := c.Request().Context()

	counts, err := db.CountPatients(ctx)
	if err != nil {
		logger.Error("Error fetching patient counts", "error", err)
		data["Error"] = "Failed to load patient counts"
	}

	data["Counts"] = counts

	pending, err := db.ListPendingPatients(ctx)
	if err != nil {
		logger.Error("Error fetching pending patients", "error", err)
	} else {
		if len(pending) > recentPendingLimit {
			pending = pending[:recentPendingLimit]
		}

		data["Pending"] = pending
	}

	data["IsDashboard"] = true
	data["PageTitle"] = "Dashboard"
	t.HTML(http.StatusOK, "dashboard")
}
