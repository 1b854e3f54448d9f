/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"crypto/subtle"
	"net/http"
	"net/url"
	"strings"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/humaidq/pulseboard/db"
)

// LoginForm renders the login page
func LoginForm(c flamego.Context, sc SessionContext, t template.Template, data template.Data) {
	next := sanitizeNextPath(c.Query("next"))
	if sc.SignedIn() {
		c.Redirect(next, http.StatusSeeOther)
		return
	}

	data["HeaderOnly"] = true
	data["Next"] = next
	data["PageTitle"] = "Sign in"
	t.HTML(http.StatusOK, "login")
}

// Login unlocks the highest tier whose password matches.
func Login(c flamego.Context, s session.Session, sc SessionContext, settings *Settings) {
	if err := c.Request().ParseForm(); err != nil {
		SetErrorFlash(s, "Failed to parse form")
		c.Redirect("/login", http.StatusSeeOther)

		return
	}

	next := sanitizeNextPath(c.Request().Form.Get("next"))
	loginURL := "/login?next=" + url.QueryEscape(next)

	tier := settings.tierFor(c.Request().Form.Get("password"))
	if tier == TierNone {
		logAccessDenied(c, sc, "bad_password", http.StatusSeeOther, loginURL)
		SetErrorFlash(s, "Incorrect password")
		c.Redirect(loginURL, http.StatusSeeOther)

		return
	}

	if err := s.RegenerateID(c.ResponseWriter(), c.Request().Request); err != nil {
		logger.Error("Failed to regenerate session id", "error", err)
		SetErrorFlash(s, "Failed to start session")
		c.Redirect(loginURL, http.StatusSeeOther)

		return
	}

	s.Set(db.SessionTierKey, tier)
	logger.Info("Signed in", "tier", tier, "ip", clientIP(c))

	c.Redirect(next, http.StatusSeeOther)
}

// Logout handles logout request
func Logout(s session.Session, c flamego.Context) {
	s.Delete(db.SessionTierKey)
	c.Redirect("/login")
}

// tierFor compares password with every configured tier password and returns
// the highest match.
func (s *Settings) tierFor(password string) int {
	if password == "" {
		return TierNone
	}

	matched := TierNone

	for tier, want := range s.Passwords {
		if want == "" {
			continue
		}

		if subtle.ConstantTimeCompare([]byte(password), []byte(want)) == 1 && tier > matched {
			matched = tier
		}
	}

	return matched
}

func sanitizeNextPath(raw string) string {
	raw = strings.TrimSpace(raw)

	switch {
	case raw == "",
		!strings.HasPrefix(raw, "/"),
		strings.HasPrefix(raw, "//"),
		strings.HasPrefix(raw, "/login"),
		strings.Contains(raw, "://"),
		strings.ContainsAny(raw, "\r\n\\"):
		return "/"
	}

	return raw
}
