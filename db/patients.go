/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/humaidq/pulseboard/vitals"
)

const patientColumns = `id, legacy_id, first_name, middle_name, last_name, gender, dob, age,
	weight, height, phone, email, vitals, created_at, updated_at`

const patientOrder = `ORDER BY first_name ASC, last_name ASC, id ASC`

func scanPatient(row pgx.Row) (*Patient, error) {
	var (
		patient Patient
		raw     []byte
	)

	err := row.Scan(
		&patient.ID, &patient.LegacyID,
		&patient.FirstName, &patient.MiddleName, &patient.LastName,
		&patient.Gender, &patient.DOB, &patient.Age,
		&patient.Weight, &patient.Height, &patient.Phone, &patient.Email,
		&raw,
		&patient.CreatedAt, &patient.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	entries, err := vitals.DecodeEntries(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode vitals of patient %s: %w", patient.ID, err)
	}

	patient.Vitals = entries

	return &patient, nil
}

func queryPatients(ctx context.Context, query string, args ...any) ([]Patient, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	defer rows.Close()

	var patients []Patient

	for rows.Next() {
		patient, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan patient: %w", err)
		}

		patients = append(patients, *patient)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating patients: %w", err)
	}

	return patients, nil
}

// ListPatients returns every patient ordered by name.
func ListPatients(ctx context.Context) ([]Patient, error) {
	return queryPatients(ctx, `SELECT `+patientColumns+` FROM patients `+patientOrder)
}

// ListPatientsWithVitals returns patients with at least one vitals entry.
func ListPatientsWithVitals(ctx context.Context) ([]Patient, error) {
	return queryPatients(ctx, `SELECT `+patientColumns+` FROM patients
		WHERE jsonb_array_length(vitals) > 0 `+patientOrder)
}

// ListPendingPatients returns patients still waiting for their first vitals.
func ListPendingPatients(ctx context.Context) ([]Patient, error) {
	return queryPatients(ctx, `SELECT `+patientColumns+` FROM patients
		WHERE jsonb_array_length(vitals) = 0 `+patientOrder)
}

// SearchPatients matches term against first, last and full names, ignoring
// case. A term that looks like a phone number also matches stored phones
// regardless of their formatting. A blank term lists every patient.
func SearchPatients(ctx context.Context, term string) ([]Patient, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return ListPatients(ctx)
	}

	pattern := "%" + escapeLike(term) + "%"

	return queryPatients(ctx, `SELECT `+patientColumns+` FROM patients
		WHERE first_name ILIKE $1
			OR last_name ILIKE $1
			OR concat_ws(' ', first_name, last_name) ILIKE $1
			OR concat_ws(' ', first_name, middle_name, last_name) ILIKE $1
			OR ($2::text <> '' AND regexp_replace(phone, '[^0-9]', '', 'g') LIKE '%' || $2::text || '%')
		`+patientOrder, pattern, phoneSearchDigits(term))
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// CountPatients returns the dashboard counters.
func CountPatients(ctx context.Context) (PatientCounts, error) {
	if pool == nil {
		return PatientCounts{}, ErrDatabaseConnectionNotInitialized
	}

	var counts PatientCounts

	err := pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE jsonb_array_length(vitals) > 0),
			COUNT(*) FILTER (WHERE jsonb_array_length(vitals) = 0)
		FROM patients
	`).Scan(&counts.Total, &counts.WithVitals, &counts.Pending)
	if err != nil {
		return PatientCounts{}, fmt.Errorf("failed to count patients: %w", err)
	}

	return counts, nil
}

func parsePatientID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidPatientID, id)
	}

	return parsed, nil
}

// GetPatient returns one patient.
func GetPatient(ctx context.Context, id string) (*Patient, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	patientID, err := parsePatientID(id)
	if err != nil {
		return nil, err
	}

	patient, err := scanPatient(pool.QueryRow(ctx,
		`SELECT `+patientColumns+` FROM patients WHERE id = $1`, patientID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPatientNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	return patient, nil
}

// CreatePatient registers a patient with no vitals and returns its id.
func CreatePatient(ctx context.Context, input PatientInput) (string, error) {
	if pool == nil {
		return "", ErrDatabaseConnectionNotInitialized
	}

	input = input.normalized()
	if input.FirstName == "" {
		return "", ErrFirstNameRequired
	}

	id := uuid.New()

	_, err := pool.Exec(ctx, `
		INSERT INTO patients (id, first_name, middle_name, last_name, gender, dob, age, weight, height, phone, email)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, id, input.FirstName, input.MiddleName, input.LastName, input.Gender, input.DOB,
		input.Age, input.Weight, input.Height, input.Phone, input.Email)
	if err != nil {
		return "", fmt.Errorf("failed to create patient: %w", err)
	}

	return id.String(), nil
}

// UpdatePatient replaces the profile fields of a patient. Vitals are kept.
func UpdatePatient(ctx context.Context, id string, input PatientInput) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	patientID, err := parsePatientID(id)
	if err != nil {
		return err
	}

	input = input.normalized()
	if input.FirstName == "" {
		return ErrFirstNameRequired
	}

	tag, err := pool.Exec(ctx, `
		UPDATE patients
		SET first_name = $1, middle_name = $2, last_name = $3, gender = $4, dob = $5,
			age = $6, weight = $7, height = $8, phone = $9, email = $10, updated_at = NOW()
		WHERE id = $11
	`, input.FirstName, input.MiddleName, input.LastName, input.Gender, input.DOB,
		input.Age, input.Weight, input.Height, input.Phone, input.Email, patientID)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrPatientNotFound
	}

	return nil
}

// DeletePatient removes a patient and their vitals.
func DeletePatient(ctx context.Context, id string) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	patientID, err := parsePatientID(id)
	if err != nil {
		return err
	}

	tag, err := pool.Exec(ctx, `DELETE FROM patients WHERE id = $1`, patientID)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrPatientNotFound
	}

	return nil
}

// AppendVitals adds entries to the end of a patient's vitals array.
func AppendVitals(ctx context.Context, id string, entries []vitals.RawEntry) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	if len(entries) == 0 {
		return nil
	}

	patientID, err := parsePatientID(id)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode vitals: %w", err)
	}

	tag, err := pool.Exec(ctx, `
		UPDATE patients
		SET vitals = vitals || $1::jsonb, updated_at = NOW()
		WHERE id = $2
	`, string(payload), patientID)
	if err != nil {
		return fmt.Errorf("failed to append vitals: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrPatientNotFound
	}

	return nil
}

// EditVital replaces the entry stored at originalIndex with what edit builds
// from it. Other entries are left byte for byte as stored. The row stays
// locked while edit runs; an error from edit is returned as is and nothing
// is written.
func EditVital(ctx context.Context, id string, originalIndex int, edit func(stored vitals.RawEntry) (vitals.RawEntry, error)) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	patientID, err := parsePatientID(id)
	if err != nil {
		return err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			logger.Warn("Failed to roll back vitals update", "error", err)
		}
	}()

	var raw []byte

	err = tx.QueryRow(ctx, `SELECT vitals FROM patients WHERE id = $1 FOR UPDATE`, patientID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrPatientNotFound
	}

	if err != nil {
		return fmt.Errorf("failed to lock patient vitals: %w", err)
	}

	entries, err := vitals.DecodeEntries(raw)
	if err != nil {
		return fmt.Errorf("failed to decode vitals: %w", err)
	}

	if originalIndex < 0 || originalIndex >= len(entries) {
		return fmt.Errorf("%w: %d of %d", vitals.ErrIndexOutOfRange, originalIndex, len(entries))
	}

	entry, err := edit(entries[originalIndex])
	if err != nil {
		return err
	}

	replaced, err := vitals.ReplaceAt(entries, originalIndex, entry)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(replaced[originalIndex])
	if err != nil {
		return fmt.Errorf("failed to encode vitals entry: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE patients
		SET vitals = jsonb_set(vitals, ARRAY[$1::text], $2::jsonb), updated_at = NOW()
		WHERE id = $3
	`, strconv.Itoa(originalIndex), string(payload), patientID)
	if err != nil {
		return fmt.Errorf("failed to replace vitals entry: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit vitals update: %w", err)
	}

	return nil
}

// ImportPatients upserts exported documents keyed by their document id and
// returns how many were written. Vitals arrays are stored as exported.
func ImportPatients(ctx context.Context, docs []PatientDocument) (int, error) {
	if pool == nil {
		return 0, ErrDatabaseConnectionNotInitialized
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			logger.Warn("Failed to roll back import", "error", err)
		}
	}()

	imported := 0

	for i, doc := range docs {
		input := doc.Input().normalized()
		if input.FirstName == "" {
			return 0, fmt.Errorf("document %d (%s): %w", i, doc.ID, ErrFirstNameRequired)
		}

		raw, err := doc.RawVitals()
		if err != nil {
			return 0, fmt.Errorf("document %d (%s): %w", i, doc.ID, err)
		}

		var legacyID *string
		if id := strings.TrimSpace(doc.ID); id != "" {
			legacyID = &id
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO patients (id, legacy_id, first_name, middle_name, last_name, gender, dob, age,
				weight, height, phone, email, vitals)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13::jsonb)
			ON CONFLICT (legacy_id) DO UPDATE SET
				first_name = EXCLUDED.first_name,
				middle_name = EXCLUDED.middle_name,
				last_name = EXCLUDED.last_name,
				gender = EXCLUDED.gender,
				dob = EXCLUDED.dob,
				age = EXCLUDED.age,
				weight = EXCLUDED.weight,
				height = EXCLUDED.height,
				phone = EXCLUDED.phone,
				email = EXCLUDED.email,
				vitals = EXCLUDED.vitals,
				updated_at = NOW()
		`, uuid.New(), legacyID, input.FirstName, input.MiddleName, input.LastName, input.Gender,
			input.DOB, input.Age, input.Weight, input.Height, input.Phone, input.Email, string(raw))
		if err != nil {
			return 0, fmt.Errorf("failed to import document %d (%s): %w", i, doc.ID, err)
		}

		imported++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}

	return imported, nil
}
