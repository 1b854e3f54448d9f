// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package logging

import "testing"

func TestLoggerInitializers(t *testing.T) {
	t.Parallel()

	Init()
	if l := Logger(SourceApp); l == nil {
		t.Fatal("Logger returned nil")
	}
	if l := StdLogger(SourceWeb); l == nil {
		t.Fatal("StdLogger returned nil")
	}
}

func TestSetLevel(t *testing.T) {
	if err := SetLevel(""); err != nil {
		t.Fatalf("expected empty level to be accepted, got %v", err)
	}

	if err := SetLevel("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}

	if err := SetLevel("debug"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
