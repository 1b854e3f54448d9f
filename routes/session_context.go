/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"net/http"
	"net/url"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/humaidq/pulseboard/db"
)

// Access tiers. A higher tier includes every lower one.
const (
	TierNone   = 0
	TierViewer = 1
	TierAdmin  = 2
)

// SessionContext is the access state of the current request.
type SessionContext struct {
	Tier int
}

// SignedIn reports whether any tier is unlocked.
func (sc SessionContext) SignedIn() bool {
	return sc.Tier > TierNone
}

// Allows reports whether tier is unlocked.
func (sc SessionContext) Allows(tier int) bool {
	return sc.Tier >= tier
}

func sessionTier(s session.Session) int {
	switch v := s.Get(db.SessionTierKey).(type) {
	case int:
		return v
	case int64:
		return int(v)
	default:
		return TierNone
	}
}

// SessionContextInjector resolves the SessionContext once per request and
// maps it for later handlers.
func SessionContextInjector() flamego.Handler {
	return func(c flamego.Context, s session.Session) {
		c.Map(SessionContext{Tier: sessionTier(s)})
		c.Next()
	}
}

// SessionTemplateData exposes the SessionContext to templates.
func SessionTemplateData() flamego.Handler {
	return func(sc SessionContext, data template.Data) {
		data["IsAuthenticated"] = sc.SignedIn()
		data["IsAdmin"] = sc.Allows(TierAdmin)
		data["Tier"] = sc.Tier
	}
}

// RequireTier blocks requests below tier. Anonymous requests go to the
// login page; signed-in ones without enough access go back to the dashboard.
func RequireTier(tier int) flamego.Handler {
	return func(c flamego.Context, s session.Session, sc SessionContext) {
		if sc.Allows(tier) {
			c.Next()
			return
		}

		if !sc.SignedIn() {
			target := "/login?next=" + url.QueryEscape(c.Request().URL.RequestURI())
			logAccessDenied(c, sc, "not_authenticated", http.StatusFound, target)
			c.Redirect(target)

			return
		}

		logAccessDenied(c, sc, "insufficient_tier", http.StatusSeeOther, "/", "required_tier", tier)
		SetErrorFlash(s, "Access restricted")
		c.Redirect("/", http.StatusSeeOther)
	}
}
