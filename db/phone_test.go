// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package db

import "testing"

func TestNormalizePhone(t *testing.T) {
	t.Parallel()

	if got := NormalizePhone("+1 (650) 555-0123"); got != "16505550123" {
		t.Fatalf("NormalizePhone returned %q", got)
	}

	if got := NormalizePhone("abc"); got != "" {
		t.Fatalf("expected empty normalized phone, got %q", got)
	}
}

func TestPhoneSearchDigits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		term string
		want string
	}{
		{name: "formatted number", term: "+971 50-123", want: "97150123"},
		{name: "too short", term: "123", want: ""},
		{name: "name with digits", term: "Room 1234", want: ""},
		{name: "symbols only", term: "%", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := phoneSearchDigits(tt.term); got != tt.want {
				t.Fatalf("phoneSearchDigits(%q) = %q, want %q", tt.term, got, tt.want)
			}
		})
	}
}
