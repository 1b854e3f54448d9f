/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"fmt"
	"net/http"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/humaidq/pulseboard/db"
)

// TierSessions is the number of signed-in sessions of one tier.
type TierSessions struct {
	Label string
	Count int
}

func tierLabel(tier int) string {
	switch tier {
	case TierViewer:
		return "Viewer"
	case TierAdmin:
		return "Administrator"
	default:
		return "Signed out"
	}
}

// Security renders the signed-in session counts per tier.
func Security(c flamego.Context, store session.Store, t template.Template, data template.Data) {
	data["IsSecurity"] = true
	data["PageTitle"] = "Security"
	data["Breadcrumbs"] = []BreadcrumbItem{currentBreadcrumb("Security")}

	postgresStore, ok := store.(*db.PostgresSessionStore)
	if !ok {
		data["Error"] = "Unable to access session information"
		t.HTML(http.StatusInternalServerError, "security")

		return
	}

	counts, err := postgresStore.CountActiveSessions(c.Request().Context())
	if err != nil {
		logger.Error("Error counting sessions", "error", err)
		data["Error"] = "Failed to load session information"
		t.HTML(http.StatusInternalServerError, "security")

		return
	}

	data["Sessions"] = []TierSessions{
		{Label: tierLabel(TierViewer), Count: counts[TierViewer]},
		{Label: tierLabel(TierAdmin), Count: counts[TierAdmin]},
	}

	t.HTML(http.StatusOK, "security")
}

// InvalidateOtherSessions signs out every other session.
func InvalidateOtherSessions(c flamego.Context, s session.Session, store session.Store) {
	postgresStore, ok := store.(*db.PostgresSessionStore)
	if !ok {
		SetErrorFlash(s, "Unable to access session information")
		c.Redirect("/security", http.StatusSeeOther)

		return
	}

	deleted, err := postgresStore.InvalidateOtherSessions(c.Request().Context(), s.ID())
	if err != nil {
		logger.Error("Error invalidating sessions", "error", err)
		SetErrorFlash(s, "Failed to invalidate other sessions")
		c.Redirect("/security", http.StatusSeeOther)

		return
	}

	if deleted == 0 {
		SetInfoFlash(s, "No other sessions to invalidate")
		c.Redirect("/security", http.StatusSeeOther)

		return
	}

	logger.Info("Invalidated other sessions", "count", deleted)
	SetSuccessFlash(s, fmt.Sprintf("Invalidated %d other session(s)", deleted))
	c.Redirect("/security", http.StatusSeeOther)
}
