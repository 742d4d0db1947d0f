package model

import "time"

// Submission is one immutable ledger entry: a graded attempt at a question
// within a session. Never updated or deleted after insert.
type Submission struct {
	ID            int64     `json:"id"`
	StudentID     string    `json:"student_id"`
	QuestionID    string    `json:"question_id"`
	SessionID     string    `json:"session_id"`
	SubmittedCode string    `json:"submitted_code"`
	IsCorrect     bool      `json:"is_correct"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// SubmitRequest is the payload for submitting code against a question.
// The session id is chosen by the client once per attempt and reused for
// every question within that attempt.
type SubmitRequest struct {
	QuestionID string `json:"question_id" binding:"required,min=1,max=64"`
	SessionID  string `json:"session_id" binding:"required,min=1,max=64"`
	Code       string `json:"code" binding:"required,min=1"`
}

// LedgerRow is the projection of a submission used by the aggregation
// engine. Rows come out of the store already deduplicated per
// (student, question) in scope, but consumers must not rely on that.
type LedgerRow struct {
	StudentID   string
	QuestionID  string
	SessionID   string
	IsCorrect   bool
	SubmittedAt time.Time
}

// Answer is one graded question inside a scoreboard entry.
type Answer struct {
	QuestionID string `json:"question_id"`
	IsCorrect  bool   `json:"is_correct"`
}

// ScoreboardEntry is a per-student rollup of the ledger. Derived on demand,
// never persisted; the submission ledger stays the source of truth.
type ScoreboardEntry struct {
	StudentID    string   `json:"student_id"`
	SessionID    string   `json:"session_id,omitempty"`
	Answers      []Answer `json:"answers"`
	CorrectCount int      `json:"correct_count"`
	WrongCount   int      `json:"wrong_count"`
}
