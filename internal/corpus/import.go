package corpus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fpdrill/fpdrill/internal/store"
)

// Parse reads a corpus file and returns its questions. The input is either a
// JSON array of questions or an object with a "questions" array.
//
// Every record is checked before anything is returned; any problem yields a
// *ValidationError listing all rejected records.
func Parse(r io.Reader) ([]store.Question, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}

	records, err := splitRecords(data)
	if err != nil {
		return nil, &ValidationError{Issues: []Issue{{Index: -1, Reason: err.Error()}}}
	}

	var (
		issues []Issue
		out    = make([]store.Question, 0, len(records))
		seen   = make(map[string]int, len(records))
	)
	for i, raw := range records {
		reason, err := validateRecord(raw)
		if err != nil {
			return nil, fmt.Errorf("validate record %d: %w", i, err)
		}
		if reason != "" {
			issues = append(issues, Issue{Index: i, ID: peekID(raw), Reason: reason})
			continue
		}

		var q store.Question
		if err := json.Unmarshal(raw, &q); err != nil {
			issues = append(issues, Issue{Index: i, ID: peekID(raw), Reason: err.Error()})
			continue
		}
		if q.CorrectAnswer >= len(q.Options) {
			issues = append(issues, Issue{Index: i, ID: q.ID, Reason: fmt.Sprintf(
				"correctAnswer %d out of range for %d options", q.CorrectAnswer, len(q.Options))})
			continue
		}
		if first, dup := seen[q.ID]; dup {
			issues = append(issues, Issue{Index: i, ID: q.ID, Reason: fmt.Sprintf(
				"duplicate id (first seen at record %d)", first)})
			continue
		}
		seen[q.ID] = i
		out = append(out, q)
	}

	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}
	return out, nil
}

// Import parses r and upserts every question by ID in one batch. Re-importing
// the same file is idempotent. Missing timestamps default to the import time.
// It returns the number of questions written.
func Import(ctx context.Context, repo store.QuestionRepo, r io.Reader) (int, error) {
	qs, err := Parse(r)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	for i := range qs {
		if qs[i].CreatedAt.IsZero() {
			qs[i].CreatedAt = now
		}
		if qs[i].UpdatedAt.IsZero() {
			qs[i].UpdatedAt = qs[i].CreatedAt
		}
	}

	if err := repo.BulkPut(ctx, qs); err != nil {
		return 0, fmt.Errorf("import questions: %w", err)
	}
	return len(qs), nil
}

// splitRecords returns the raw question records from either accepted shape.
func splitRecords(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty corpus file")
	}

	var records []json.RawMessage
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("malformed JSON: %w", err)
		}
	case '{':
		var wrapper struct {
			Questions *[]json.RawMessage `json:"questions"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, fmt.Errorf("malformed JSON: %w", err)
		}
		if wrapper.Questions == nil {
			return nil, fmt.Errorf(`object input must contain a "questions" array`)
		}
		records = *wrapper.Questions
	default:
		return nil, fmt.Errorf("corpus must be a JSON array or an object with a questions array")
	}
	return records, nil
}

// peekID extracts the id field for error reporting, if there is one.
func peekID(raw json.RawMessage) string {
	var v struct {
		ID any `json:"id"`
	}
	if json.Unmarshal(raw, &v) != nil {
		return ""
	}
	if s, ok := v.ID.(string); ok {
		return s
	}
	return ""
}
