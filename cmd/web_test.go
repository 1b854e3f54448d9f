// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/flamego/flamego"
	"github.com/flamego/session"

	"github.com/humaidq/pulseboard/config"
	"github.com/humaidq/pulseboard/vitals"
)

func TestStatusClassRendersInTemplates(t *testing.T) {
	t.Parallel()

	tpl, err := template.New("cell").Funcs(templateFuncs()).Parse(`<td class="{{ statusClass .Status }}">{{ .Status.Label }}</td>`)
	if err != nil {
		t.Fatalf("failed to parse template: %v", err)
	}

	var rendered strings.Builder

	if err := tpl.Execute(&rendered, map[string]vitals.Status{"Status": vitals.AboveRange}); err != nil {
		t.Fatalf("failed to execute template: %v", err)
	}

	if out := rendered.String(); !strings.Contains(out, `class="status-above"`) {
		t.Fatalf("expected above range class, got %q", out)
	}
}

func TestStatusClassCoversEveryStatus(t *testing.T) {
	t.Parallel()

	tests := map[vitals.Status]string{
		vitals.BelowRange:  "status-below",
		vitals.AboveRange:  "status-above",
		vitals.NormalRange: "status-normal",
		vitals.NoReading:   "status-none",
	}

	for status, want := range tests {
		if got := statusClass(status); got != want {
			t.Fatalf("%s: expected %q, got %q", status, want, got)
		}
	}
}

func TestConfigureEmptyNotFoundHandlerReturnsStatusOnly(t *testing.T) {
	t.Parallel()

	f := flamego.New()
	configureEmptyNotFoundHandler(f)

	req := httptest.NewRequest(http.MethodGet, "/does-not-exist", nil)
	rec := httptest.NewRecorder()
	f.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}

	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty 404 body, got %q", rec.Body.String())
	}
}

func TestSettingsFrom(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Timezone = "UTC"

	if _, err := settingsFrom(cfg); !errors.Is(err, errPasswordRequired) {
		t.Fatalf("expected errPasswordRequired, got %v", err)
	}

	cfg.AdminPassword = "admin"

	settings, err := settingsFrom(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if settings.Location != time.UTC || settings.Passwords[2] != "admin" || settings.Metrics == nil {
		t.Fatalf("unexpected settings %+v", settings)
	}
}

func TestCSRFSecret(t *testing.T) {
	t.Parallel()

	cfg := config.Default()

	if _, err := csrfSecret(cfg); !errors.Is(err, errCSRFSecretRequired) {
		t.Fatalf("expected errCSRFSecretRequired, got %v", err)
	}

	cfg.Dev = true
	if got, err := csrfSecret(cfg); err != nil || got != devCSRFSecret {
		t.Fatalf("expected development secret, got %q (%v)", got, err)
	}

	cfg.CSRFSecret = "configured"
	if got, _ := csrfSecret(cfg); got != "configured" {
		t.Fatalf("expected configured secret, got %q", got)
	}
}

func newTestWebApp(t *testing.T) *flamego.Flame {
	t.Helper()

	cfg := config.Default()
	cfg.Timezone = "UTC"
	cfg.ViewerPassword = "viewer"
	cfg.SiteTitle = "Ward Vitals"

	settings, err := settingsFrom(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := newWebApp(cfg, settings, session.Options{}, "test-secret")
	if err != nil {
		t.Fatalf("failed to build app: %v", err)
	}

	return f
}

func TestNewWebAppServesStaticFiles(t *testing.T) {
	t.Parallel()

	f := newTestWebApp(t)

	rec := httptest.NewRecorder()
	f.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/style.css", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	if !strings.Contains(rec.Body.String(), ".status-above") {
		t.Fatalf("expected stylesheet body")
	}
}

func TestNewWebAppRendersLoginAndGuardsPages(t *testing.T) {
	t.Parallel()

	f := newTestWebApp(t)

	rec := httptest.NewRecorder()
	f.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login?next=/patients", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	for _, want := range []string{"Ward Vitals", `name="password"`, `name="_csrf"`, `value="/patients"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected login page to contain %q", want)
		}
	}

	if got := rec.Header().Get("Cache-Control"); got != "no-store, max-age=0" {
		t.Fatalf("expected no-store page, got %q", got)
	}

	rec = httptest.NewRecorder()
	f.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/patients", nil))

	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login?next=%2Fpatients" {
		t.Fatalf("expected redirect to login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = httptest.NewRecorder()
	f.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("password=viewer")))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected login without a CSRF token to be rejected, got %d", rec.Code)
	}
}
