package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/codebloom/codebloom-backend/internal/config"
	"github.com/codebloom/codebloom-backend/internal/grader"
	"github.com/codebloom/codebloom-backend/internal/model"
	"github.com/codebloom/codebloom-backend/internal/repository"
)

// Submission service errors.
var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrMissingField     = errors.New("question_id, session_id and code are required")
)

// SubmissionStore is the ledger surface the submission workflow writes
// through. Satisfied by repository.SubmissionRepository; replaced by an
// in-memory fake in tests.
type SubmissionStore interface {
	Create(ctx context.Context, s *model.Submission) error
	Exists(ctx context.Context, studentID, questionID, sessionID string) (bool, error)
}

// QuestionGetter resolves a question with its answer key.
type QuestionGetter interface {
	GetByQuestionID(ctx context.Context, questionID string) (*model.Question, error)
}

// SubmissionService runs the submit workflow: validate, resolve the
// question, reject duplicates in scope, grade, append to the ledger.
type SubmissionService struct {
	subs      SubmissionStore
	questions QuestionGetter
	grader    grader.Grader
	rdb       *redis.Client
	scope     config.SubmissionScope
	log       zerolog.Logger
}

// NewSubmissionService creates a new SubmissionService. rdb may be nil, in
// which case scoreboard events are not published.
func NewSubmissionService(
	subs SubmissionStore,
	questions QuestionGetter,
	g grader.Grader,
	rdb *redis.Client,
	scope config.SubmissionScope,
	log zerolog.Logger,
) *SubmissionService {
	return &SubmissionService{
		subs:      subs,
		questions: questions,
		grader:    g,
		rdb:       rdb,
		scope:     scope,
		log:       log.With().Str("component", "submission_service").Logger(),
	}
}

// Submit grades one submission and appends it to the ledger. The returned
// record carries the same verdict that was stored, never a recomputed one.
// No ledger write happens on validation, duplicate, or grader failure.
func (s *SubmissionService) Submit(ctx context.Context, studentID string, req *model.SubmitRequest) (*model.Submission, error) {
	questionID := strings.TrimSpace(req.QuestionID)
	sessionID := strings.TrimSpace(req.SessionID)
	if questionID == "" || sessionID == "" || strings.TrimSpace(req.Code) == "" {
		return nil, ErrMissingField
	}

	question, err := s.questions.GetByQuestionID(ctx, questionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("load question: %w", err)
	}

	// Fast pre-check for a friendly 409. The unique index on the triple is
	// what actually closes the check-then-insert race below.
	dupSessionID := sessionID
	if s.scope == config.ScopeQuestion {
		dupSessionID = ""
	}
	exists, err := s.subs.Exists(ctx, studentID, questionID, dupSessionID)
	if err != nil {
		return nil, fmt.Errorf("check duplicate: %w", err)
	}
	if exists {
		return nil, repository.ErrDuplicateSubmission
	}

	verdict, err := s.grader.Grade(ctx, req.Code, question.TestInput, question.ExpectedOutput)
	if err != nil {
		// Not recorded: a failed grading call must never become a stored
		// "incorrect" verdict.
		return nil, fmt.Errorf("grade submission: %w", err)
	}

	sub := &model.Submission{
		StudentID:     studentID,
		QuestionID:    questionID,
		SessionID:     sessionID,
		SubmittedCode: req.Code,
		IsCorrect:     verdict,
	}
	if err := s.subs.Create(ctx, sub); err != nil {
		return nil, err
	}

	s.publishScoreboardEvent(ctx, studentID)

	return sub, nil
}

// publishScoreboardEvent notifies live scoreboard subscribers. Best-effort:
// a failed publish only logs.
func (s *SubmissionService) publishScoreboardEvent(ctx context.Context, studentID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Publish(ctx, config.CacheKey.ScoreboardChannel(), studentID).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Failed to publish scoreboard event")
	}
}
