/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"regexp"
	"unicode"
)

var nonDigitRegex = regexp.MustCompile(`[^\d]`)

// minPhoneSearchDigits keeps short numbers in names or ages from matching
// every phone.
const minPhoneSearchDigits = 4

// NormalizePhone removes all non-digit characters.
func NormalizePhone(phone string) string {
	return nonDigitRegex.ReplaceAllString(phone, "")
}

// phoneSearchDigits returns the digits of a search term that looks like a
// phone number, or "" when it does not.
func phoneSearchDigits(term string) string {
	for _, r := range term {
		if unicode.IsLetter(r) {
			return ""
		}
	}

	digits := NormalizePhone(term)
	if len(digits) < minPhoneSearchDigits {
		return ""
	}

	return digits
}
