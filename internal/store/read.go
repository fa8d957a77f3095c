package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a submission ID does not exist.
var ErrNotFound = errors.New("submission not found")

// GetSubmission fetches one submission by ID. Returns ErrNotFound when
// the ID is absent.
func (s *Store) GetSubmission(ctx context.Context, id string) (*Submission, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, form_name, fields, valid, errors, submitted_at
		FROM submissions
		WHERE id = ?
	`, id)

	sub, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get submission %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get submission %q: %w", id, err)
	}
	return sub, nil
}

// ListSubmissions returns submissions for a form, newest first.
// A limit of 0 means no limit.
func (s *Store) ListSubmissions(ctx context.Context, formName string, limit int) ([]Submission, error) {
	query := `
		SELECT id, form_name, fields, valid, errors, submitted_at
		FROM submissions
		WHERE form_name = ?
		ORDER BY submitted_at DESC, id DESC
	`
	args := []any{formName}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var subs []Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("list submissions: %w", err)
		}
		subs = append(subs, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return subs, nil
}

// CountSubmissions returns the total and invalid submission counts for
// a form.
func (s *Store) CountSubmissions(ctx context.Context, formName string) (total, invalid int, err error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN valid = 0 THEN 1 ELSE 0 END), 0)
		FROM submissions
		WHERE form_name = ?
	`, formName)
	if err := row.Scan(&total, &invalid); err != nil {
		return 0, 0, fmt.Errorf("count submissions: %w", err)
	}
	return total, invalid, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (*Submission, error) {
	var (
		sub         Submission
		fieldsJSON  string
		errorsJSON  string
		valid       int
		submittedAt string
	)
	if err := row.Scan(&sub.ID, &sub.FormName, &fieldsJSON, &valid, &errorsJSON, &submittedAt); err != nil {
		return nil, err
	}

	fields, err := unmarshalFields(fieldsJSON)
	if err != nil {
		return nil, err
	}
	sub.Fields = fields

	errs, err := unmarshalErrors(errorsJSON)
	if err != nil {
		return nil, err
	}
	sub.Errors = errs

	sub.Valid = valid != 0
	sub.SubmittedAt, err = time.Parse(time.RFC3339Nano, submittedAt)
	if err != nil {
		return nil, fmt.Errorf("parse submitted_at: %w", err)
	}

	return &sub, nil
}
