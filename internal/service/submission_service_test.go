package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/codebloom/codebloom-backend/internal/config"
	"github.com/codebloom/codebloom-backend/internal/grader"
	"github.com/codebloom/codebloom-backend/internal/model"
	"github.com/codebloom/codebloom-backend/internal/repository"
	"github.com/codebloom/codebloom-backend/internal/service"
)

/* ---------------- In-memory fakes satisfying the service store interfaces ---------------- */

func tripleKey(studentID, questionID, sessionID string) string {
	return fmt.Sprintf("%s|%s|%s", studentID, questionID, sessionID)
}

type fakeLedger struct {
	rows   map[string]model.Submission
	nextID int64
	// blindPreCheck makes Exists always report false, simulating two
	// requests racing past the application pre-check.
	blindPreCheck bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{rows: map[string]model.Submission{}}
}

func (f *fakeLedger) Create(_ context.Context, s *model.Submission) error {
	k := tripleKey(s.StudentID, s.QuestionID, s.SessionID)
	if _, ok := f.rows[k]; ok {
		return repository.ErrDuplicateSubmission
	}
	f.nextID++
	s.ID = f.nextID
	s.SubmittedAt = time.Now()
	f.rows[k] = *s
	return nil
}

func (f *fakeLedger) Exists(_ context.Context, studentID, questionID, sessionID string) (bool, error) {
	if f.blindPreCheck {
		return false, nil
	}
	if sessionID == "" {
		for _, row := range f.rows {
			if row.StudentID == studentID && row.QuestionID == questionID {
				return true, nil
			}
		}
		return false, nil
	}
	_, ok := f.rows[tripleKey(studentID, questionID, sessionID)]
	return ok, nil
}

type fakeQuestionBank struct {
	questions map[string]model.Question
}

func (f *fakeQuestionBank) GetByQuestionID(_ context.Context, questionID string) (*model.Question, error) {
	q, ok := f.questions[questionID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &q, nil
}

type fakeGrader struct {
	verdict bool
	err     error
	calls   int
}

func (f *fakeGrader) Grade(_ context.Context, _, _, _ string) (bool, error) {
	f.calls++
	return f.verdict, f.err
}

func newBank(ids ...string) *fakeQuestionBank {
	bank := &fakeQuestionBank{questions: map[string]model.Question{}}
	for _, id := range ids {
		bank.questions[id] = model.Question{QuestionID: id, ExpectedOutput: "42"}
	}
	return bank
}

func newSubmissionService(ledger *fakeLedger, bank *fakeQuestionBank, g grader.Grader, scope config.SubmissionScope) *service.SubmissionService {
	return service.NewSubmissionService(ledger, bank, g, nil, scope, zerolog.Nop())
}

/* ---------------- Tests ---------------- */

func TestSubmitStoresVerdictItReturns(t *testing.T) {
	for _, verdict := range []bool{true, false} {
		t.Run(fmt.Sprintf("verdict_%t", verdict), func(t *testing.T) {
			ledger := newFakeLedger()
			svc := newSubmissionService(ledger, newBank("Q1"), &fakeGrader{verdict: verdict}, config.ScopeSession)

			sub, err := svc.Submit(context.Background(), "SV001", &model.SubmitRequest{
				QuestionID: "Q1",
				SessionID:  "PHIEN_1",
				Code:       "print(42)",
			})
			if err != nil {
				t.Fatalf("Submit: %v", err)
			}
			if sub.IsCorrect != verdict {
				t.Errorf("returned verdict = %t, want %t", sub.IsCorrect, verdict)
			}

			stored, ok := ledger.rows[tripleKey("SV001", "Q1", "PHIEN_1")]
			if !ok {
				t.Fatal("submission not stored")
			}
			if stored.IsCorrect != sub.IsCorrect {
				t.Errorf("stored verdict = %t, returned = %t; they must agree", stored.IsCorrect, sub.IsCorrect)
			}
			if stored.SubmittedAt.IsZero() {
				t.Error("stored submission has no timestamp")
			}
		})
	}
}

func TestSubmitDuplicateRejected(t *testing.T) {
	ledger := newFakeLedger()
	svc := newSubmissionService(ledger, newBank("Q1"), &fakeGrader{verdict: true}, config.ScopeSession)

	req := &model.SubmitRequest{QuestionID: "Q1", SessionID: "PHIEN_1", Code: "x"}
	if _, err := svc.Submit(context.Background(), "SV001", req); err != nil {
		t.Fatalf("first Submit: %v", err)
	}

	_, err := svc.Submit(context.Background(), "SV001", req)
	if !errors.Is(err, repository.ErrDuplicateSubmission) {
		t.Fatalf("second Submit err = %v, want ErrDuplicateSubmission", err)
	}
	if len(ledger.rows) != 1 {
		t.Errorf("ledger has %d rows after duplicate, want 1", len(ledger.rows))
	}
}

func TestSubmitDuplicateCaughtByStoreConstraint(t *testing.T) {
	// Two requests race past the pre-check; the store-level uniqueness
	// constraint must still reject the second insert.
	ledger := newFakeLedger()
	ledger.blindPreCheck = true
	svc := newSubmissionService(ledger, newBank("Q1"), &fakeGrader{verdict: true}, config.ScopeSession)

	req := &model.SubmitRequest{QuestionID: "Q1", SessionID: "PHIEN_1", Code: "x"}
	if _, err := svc.Submit(context.Background(), "SV001", req); err != nil {
		t.Fatalf("first Submit: %v", err)
	}

	_, err := svc.Submit(context.Background(), "SV001", req)
	if !errors.Is(err, repository.ErrDuplicateSubmission) {
		t.Fatalf("racing Submit err = %v, want ErrDuplicateSubmission", err)
	}
	if len(ledger.rows) != 1 {
		t.Errorf("ledger has %d rows, want 1", len(ledger.rows))
	}
}

func TestSubmitSameQuestionNewSessionAllowed(t *testing.T) {
	ledger := newFakeLedger()
	svc := newSubmissionService(ledger, newBank("Q1"), &fakeGrader{verdict: true}, config.ScopeSession)

	if _, err := svc.Submit(context.Background(), "SV001", &model.SubmitRequest{QuestionID: "Q1", SessionID: "PHIEN_1", Code: "x"}); err != nil {
		t.Fatalf("Submit session 1: %v", err)
	}
	if _, err := svc.Submit(context.Background(), "SV001", &model.SubmitRequest{QuestionID: "Q1", SessionID: "PHIEN_2", Code: "x"}); err != nil {
		t.Fatalf("Submit session 2: %v", err)
	}
	if len(ledger.rows) != 2 {
		t.Errorf("ledger has %d rows, want 2", len(ledger.rows))
	}
}

func TestSubmitQuestionScopeRejectsAcrossSessions(t *testing.T) {
	ledger := newFakeLedger()
	svc := newSubmissionService(ledger, newBank("Q1"), &fakeGrader{verdict: true}, config.ScopeQuestion)

	if _, err := svc.Submit(context.Background(), "SV001", &model.SubmitRequest{QuestionID: "Q1", SessionID: "PHIEN_1", Code: "x"}); err != nil {
		t.Fatalf("first Submit: %v", err)
	}

	_, err := svc.Submit(context.Background(), "SV001", &model.SubmitRequest{QuestionID: "Q1", SessionID: "PHIEN_2", Code: "x"})
	if !errors.Is(err, repository.ErrDuplicateSubmission) {
		t.Fatalf("cross-session Submit err = %v, want ErrDuplicateSubmission", err)
	}
}

func TestSubmitUnknownQuestion(t *testing.T) {
	ledger := newFakeLedger()
	svc := newSubmissionService(ledger, newBank(), &fakeGrader{verdict: true}, config.ScopeSession)

	_, err := svc.Submit(context.Background(), "SV001", &model.SubmitRequest{QuestionID: "NOPE", SessionID: "PHIEN_1", Code: "x"})
	if !errors.Is(err, service.ErrQuestionNotFound) {
		t.Fatalf("err = %v, want ErrQuestionNotFound", err)
	}
	if len(ledger.rows) != 0 {
		t.Error("ledger written for unknown question")
	}
}

func TestSubmitMissingFields(t *testing.T) {
	cases := []struct {
		name string
		req  model.SubmitRequest
	}{
		{"missing_code", model.SubmitRequest{QuestionID: "Q1", SessionID: "PHIEN_1"}},
		{"missing_session", model.SubmitRequest{QuestionID: "Q1", Code: "x"}},
		{"missing_question", model.SubmitRequest{SessionID: "PHIEN_1", Code: "x"}},
		{"blank_code", model.SubmitRequest{QuestionID: "Q1", SessionID: "PHIEN_1", Code: "   "}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ledger := newFakeLedger()
			judge := &fakeGrader{verdict: true}
			svc := newSubmissionService(ledger, newBank("Q1"), judge, config.ScopeSession)

			_, err := svc.Submit(context.Background(), "SV001", &tc.req)
			if !errors.Is(err, service.ErrMissingField) {
				t.Fatalf("err = %v, want ErrMissingField", err)
			}
			if len(ledger.rows) != 0 {
				t.Error("ledger written despite invalid input")
			}
			if judge.calls != 0 {
				t.Error("grader called despite invalid input")
			}
		})
	}
}

func TestSubmitGraderUnavailableNotRecorded(t *testing.T) {
	ledger := newFakeLedger()
	judge := &fakeGrader{err: fmt.Errorf("%w: connection refused", grader.ErrUnavailable)}
	svc := newSubmissionService(ledger, newBank("Q1"), judge, config.ScopeSession)

	_, err := svc.Submit(context.Background(), "SV001", &model.SubmitRequest{QuestionID: "Q1", SessionID: "PHIEN_1", Code: "x"})
	if !errors.Is(err, grader.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	if len(ledger.rows) != 0 {
		t.Error("failed grading call must not produce a ledger entry")
	}
}
