package store

import (
	"context"
	"fmt"
	"time"
)

// WriteSubmission inserts a submission record. Uses ON CONFLICT(id) DO
// NOTHING for idempotency - duplicate IDs are silently ignored. Other
// constraint violations still return errors.
//
// Fields and errors are serialized to canonical JSON so a rewritten
// submission is byte-identical to the original row.
func (s *Store) WriteSubmission(ctx context.Context, sub Submission) error {
	fieldsJSON, err := marshalFields(sub.Fields)
	if err != nil {
		return fmt.Errorf("write submission: %w", err)
	}

	errorsJSON, err := marshalErrors(sub.Errors)
	if err != nil {
		return fmt.Errorf("write submission: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO submissions
		(id, form_name, fields, valid, errors, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		sub.ID,
		sub.FormName,
		fieldsJSON,
		boolToInt(sub.Valid),
		errorsJSON,
		sub.SubmittedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("write submission: %w", err)
	}

	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
