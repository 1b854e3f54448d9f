/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/humaidq/pulseboard/vitals"
)

// Gender values offered by the patient form. Stored values are free text.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
)

// Patient is one patient document: profile fields plus the raw vitals array.
type Patient struct {
	ID         uuid.UUID         `db:"id"`
	LegacyID   *string           `db:"legacy_id"`
	FirstName  string            `db:"first_name"`
	MiddleName string            `db:"middle_name"`
	LastName   string            `db:"last_name"`
	Gender     string            `db:"gender"`
	DOB        string            `db:"dob"`
	Age        string            `db:"age"`
	Weight     string            `db:"weight"`
	Height     string            `db:"height"`
	Phone      string            `db:"phone"`
	Email      string            `db:"email"`
	Vitals     []vitals.RawEntry `db:"vitals"`
	CreatedAt  time.Time         `db:"created_at"`
	UpdatedAt  time.Time         `db:"updated_at"`
}

// FullName joins the non-empty name parts.
func (p *Patient) FullName() string {
	return p.Info().Name()
}

// HasVitals reports whether any vitals entry has been recorded.
func (p *Patient) HasVitals() bool {
	return len(p.Vitals) > 0
}

// AgeAt returns the age in whole years at atDate from the date of birth,
// read with n. It is nil when the date of birth cannot be read.
func (p *Patient) AgeAt(n *vitals.Normalizer, atDate time.Time) *int {
	dob := n.ParseDate(p.DOB)
	if !dob.Resolved() {
		return nil
	}

	born := dob.Time()
	years := atDate.Year() - born.Year()
	// Birthday not reached yet this year.
	if atDate.Month() < born.Month() ||
		(atDate.Month() == born.Month() && atDate.Day() < born.Day()) {
		years--
	}

	return &years
}

// DisplayAge returns the stored age, falling back to one computed from the
// date of birth.
func (p *Patient) DisplayAge(n *vitals.Normalizer, now time.Time) string {
	if age := strings.TrimSpace(p.Age); age != "" {
		return age
	}

	if age := p.AgeAt(n, now); age != nil && *age >= 0 {
		return strconv.Itoa(*age)
	}

	return ""
}

// Info returns the profile columns of an export row.
func (p *Patient) Info() vitals.PatientInfo {
	return vitals.PatientInfo{
		FirstName:  p.FirstName,
		MiddleName: p.MiddleName,
		LastName:   p.LastName,
		Gender:     p.Gender,
		DOB:        p.DOB,
		Age:        p.Age,
		Weight:     p.Weight,
		Height:     p.Height,
		Phone:      p.Phone,
	}
}

// PatientCounts summarises the patient list for the dashboard.
type PatientCounts struct {
	Total      int
	WithVitals int
	Pending    int
}

// PatientInput holds editable profile fields.
type PatientInput struct {
	FirstName  string
	MiddleName string
	LastName   string
	Gender     string
	DOB        string
	Age        string
	Weight     string
	Height     string
	Phone      string
	Email      string
}

// normalized trims every field and title-cases names and gender.
func (in PatientInput) normalized() PatientInput {
	return PatientInput{
		FirstName:  capitalizeWords(in.FirstName),
		MiddleName: capitalizeWords(in.MiddleName),
		LastName:   capitalizeWords(in.LastName),
		Gender:     capitalizeWords(in.Gender),
		DOB:        strings.TrimSpace(in.DOB),
		Age:        strings.TrimSpace(in.Age),
		Weight:     strings.TrimSpace(in.Weight),
		Height:     strings.TrimSpace(in.Height),
		Phone:      strings.TrimSpace(in.Phone),
		Email:      strings.TrimSpace(in.Email),
	}
}

func capitalizeWords(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		lower := strings.ToLower(word)
		r := []rune(lower)
		words[i] = strings.ToUpper(string(r[0])) + string(r[1:])
	}

	return strings.Join(words, " ")
}

// LooseString decodes a JSON string, number or boolean as text. Exported
// documents hold fields such as age as either.
type LooseString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *LooseString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)

	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		*s = ""
	case trimmed[0] == '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		*s = LooseString(strings.TrimSpace(text))
	default:
		var number json.Number
		if err := json.Unmarshal(trimmed, &number); err == nil {
			*s = LooseString(number.String())
			return nil
		}

		var flag bool
		if err := json.Unmarshal(trimmed, &flag); err != nil {
			return err
		}
		*s = LooseString(strconv.FormatBool(flag))
	}

	return nil
}

// PatientDocument is one patient as exported from the document store.
type PatientDocument struct {
	ID         string          `json:"id"`
	FirstName  LooseString     `json:"firstName"`
	MiddleName LooseString     `json:"middleName"`
	LastName   LooseString     `json:"lastName"`
	Gender     LooseString     `json:"gender"`
	DOB        LooseString     `json:"dob"`
	Age        LooseString     `json:"age"`
	Weight     LooseString     `json:"weight"`
	Height     LooseString     `json:"height"`
	Phone      LooseString     `json:"phone"`
	Email      LooseString     `json:"email"`
	Vitals     json.RawMessage `json:"vitals"`
}

// ParsePatientDocuments decodes a JSON array of patient documents.
func ParsePatientDocuments(data []byte) ([]PatientDocument, error) {
	var docs []PatientDocument
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, err
	}

	return docs, nil
}

// Input returns the profile fields of the document.
func (d PatientDocument) Input() PatientInput {
	return PatientInput{
		FirstName:  string(d.FirstName),
		MiddleName: string(d.MiddleName),
		LastName:   string(d.LastName),
		Gender:     string(d.Gender),
		DOB:        string(d.DOB),
		Age:        string(d.Age),
		Weight:     string(d.Weight),
		Height:     string(d.Height),
		Phone:      string(d.Phone),
		Email:      string(d.Email),
	}
}

// RawVitals returns the vitals array exactly as exported, or an empty array.
func (d PatientDocument) RawVitals() ([]byte, error) {
	trimmed := bytes.TrimSpace(d.Vitals)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []byte("[]"), nil
	}

	if trimmed[0] != '[' {
		return nil, ErrVitalsNotArray
	}

	if _, err := vitals.DecodeEntries(trimmed); err != nil {
		return nil, ErrVitalsNotArray
	}

	return trimmed, nil
}
