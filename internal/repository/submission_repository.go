package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codebloom/codebloom-backend/internal/model"
)

// ErrDuplicateSubmission means a submission already exists for the
// (student, question, session) triple. The unique index raises it on
// insert even when two requests pass the application pre-check together.
var ErrDuplicateSubmission = errors.New("submission already exists for this student, question and session")

// SubmissionRepository handles the append-only submission ledger.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

// Create appends one immutable ledger entry. The stored verdict is the one
// already present on s; it is never recomputed.
func (r *SubmissionRepository) Create(ctx context.Context, s *model.Submission) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO submissions (student_id, question_id, session_id, submitted_code, is_correct)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, submitted_at`,
		s.StudentID, s.QuestionID, s.SessionID, s.SubmittedCode, s.IsCorrect,
	).Scan(&s.ID, &s.SubmittedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateSubmission
		}
		return err
	}
	return nil
}

// Exists reports whether the student already submitted the question.
// An empty sessionID widens the check to any session.
func (r *SubmissionRepository) Exists(ctx context.Context, studentID, questionID, sessionID string) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM submissions
		WHERE student_id = $1 AND question_id = $2`
	args := []any{studentID, questionID}

	if sessionID != "" {
		query += ` AND session_id = $3`
		args = append(args, sessionID)
	}
	query += `)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// GetByTriple reads back a single ledger entry.
func (r *SubmissionRepository) GetByTriple(ctx context.Context, studentID, questionID, sessionID string) (*model.Submission, error) {
	s := &model.Submission{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, student_id, question_id, session_id, submitted_code, is_correct, submitted_at
		 FROM submissions
		 WHERE student_id = $1 AND question_id = $2 AND session_id = $3`,
		studentID, questionID, sessionID,
	).Scan(&s.ID, &s.StudentID, &s.QuestionID, &s.SessionID, &s.SubmittedCode, &s.IsCorrect, &s.SubmittedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// LatestSessionID returns the session id of the student's most recent
// submission, or "" when the student has none. The read is serialized per
// student with a transaction-scoped advisory lock so two near-simultaneous
// sequencer calls do not interleave; the unique index on the triple remains
// the correctness backstop for session allocation.
func (r *SubmissionRepository) LatestSessionID(ctx context.Context, studentID string) (string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, studentID); err != nil {
		return "", err
	}

	var sessionID string
	err = tx.QueryRow(ctx,
		`SELECT session_id FROM submissions
		 WHERE student_id = $1
		 ORDER BY submitted_at DESC, id DESC
		 LIMIT 1`, studentID,
	).Scan(&sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", tx.Commit(ctx)
		}
		return "", err
	}

	return sessionID, tx.Commit(ctx)
}

// Rollup returns the ledger deduplicated per (student, question) within the
// scope, keeping the most recent verdict (last-write-wins by submitted_at).
// An empty sessionID scopes the rollup to the whole ledger.
func (r *SubmissionRepository) Rollup(ctx context.Context, sessionID string) ([]model.LedgerRow, error) {
	query := `SELECT DISTINCT ON (student_id, question_id)
			student_id, question_id, session_id, is_correct, submitted_at
		 FROM submissions`
	var args []any

	if sessionID != "" {
		query += ` WHERE session_id = $1`
		args = append(args, sessionID)
	}
	query += ` ORDER BY student_id, question_id, submitted_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ledger []model.LedgerRow
	for rows.Next() {
		var row model.LedgerRow
		if err := rows.Scan(&row.StudentID, &row.QuestionID, &row.SessionID, &row.IsCorrect, &row.SubmittedAt); err != nil {
			return nil, err
		}
		ledger = append(ledger, row)
	}
	return ledger, rows.Err()
}
