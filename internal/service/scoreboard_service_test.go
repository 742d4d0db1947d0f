package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/codebloom/codebloom-backend/internal/model"
	"github.com/codebloom/codebloom-backend/internal/service"
)

type fakeLedgerReader struct {
	rows []model.LedgerRow
	err  error
}

func (f *fakeLedgerReader) Rollup(_ context.Context, _ string) ([]model.LedgerRow, error) {
	return f.rows, f.err
}

func at(sec int) time.Time {
	return time.Date(2025, 9, 1, 8, 0, sec, 0, time.UTC)
}

func findEntry(t *testing.T, entries []model.ScoreboardEntry, studentID string) model.ScoreboardEntry {
	t.Helper()
	for _, e := range entries {
		if e.StudentID == studentID {
			return e
		}
	}
	t.Fatalf("no scoreboard entry for %s", studentID)
	return model.ScoreboardEntry{}
}

func TestSummarizeGroupsByStudent(t *testing.T) {
	ledger := &fakeLedgerReader{rows: []model.LedgerRow{
		{StudentID: "SV001", QuestionID: "Q1", SessionID: "PHIEN_1", IsCorrect: true, SubmittedAt: at(1)},
		{StudentID: "SV001", QuestionID: "Q2", SessionID: "PHIEN_1", IsCorrect: false, SubmittedAt: at(2)},
		{StudentID: "SV002", QuestionID: "Q1", SessionID: "PHIEN_1", IsCorrect: true, SubmittedAt: at(3)},
	}}
	svc := service.NewScoreboardService(ledger)

	entries, err := svc.Summarize(context.Background(), "")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	s1 := findEntry(t, entries, "SV001")
	if s1.CorrectCount != 1 || s1.WrongCount != 1 {
		t.Errorf("SV001 counts = %d/%d, want 1/1", s1.CorrectCount, s1.WrongCount)
	}
	if len(s1.Answers) != 2 {
		t.Errorf("SV001 has %d answers, want 2", len(s1.Answers))
	}

	s2 := findEntry(t, entries, "SV002")
	if s2.CorrectCount != 1 || s2.WrongCount != 0 {
		t.Errorf("SV002 counts = %d/%d, want 1/0", s2.CorrectCount, s2.WrongCount)
	}
	if len(s2.Answers) != 1 || s2.Answers[0].QuestionID != "Q1" {
		t.Errorf("SV002 answers = %+v, want exactly Q1", s2.Answers)
	}
}

func TestSummarizeEmptyLedger(t *testing.T) {
	svc := service.NewScoreboardService(&fakeLedgerReader{})

	entries, err := svc.Summarize(context.Background(), "")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if entries == nil {
		t.Fatal("Summarize returned nil, want empty slice")
	}
	if len(entries) != 0 {
		t.Fatalf("got %d entries, want 0", len(entries))
	}
}

func TestSummarizeLastWriteWins(t *testing.T) {
	// Duplicate (student, question) pairs should be impossible under the
	// ledger's uniqueness constraint, but the aggregation tolerates them
	// by keeping the most recent verdict.
	rows := []model.LedgerRow{
		{StudentID: "SV001", QuestionID: "Q1", SessionID: "PHIEN_1", IsCorrect: false, SubmittedAt: at(1)},
		{StudentID: "SV001", QuestionID: "Q1", SessionID: "PHIEN_1", IsCorrect: true, SubmittedAt: at(5)},
	}

	for _, order := range []string{"oldest_first", "newest_first"} {
		t.Run(order, func(t *testing.T) {
			ordered := rows
			if order == "newest_first" {
				ordered = []model.LedgerRow{rows[1], rows[0]}
			}
			svc := service.NewScoreboardService(&fakeLedgerReader{rows: ordered})

			entries, err := svc.Summarize(context.Background(), "")
			if err != nil {
				t.Fatalf("Summarize: %v", err)
			}
			if len(entries) != 1 {
				t.Fatalf("got %d entries, want 1", len(entries))
			}
			e := entries[0]
			if len(e.Answers) != 1 {
				t.Fatalf("got %d answers, want 1", len(e.Answers))
			}
			if !e.Answers[0].IsCorrect || e.CorrectCount != 1 || e.WrongCount != 0 {
				t.Errorf("entry = %+v, want the later (correct) verdict kept", e)
			}
		})
	}
}

func TestSummarizeSessionScopeStampsEntries(t *testing.T) {
	ledger := &fakeLedgerReader{rows: []model.LedgerRow{
		{StudentID: "SV001", QuestionID: "Q1", SessionID: "PHIEN_2", IsCorrect: true, SubmittedAt: at(1)},
	}}
	svc := service.NewScoreboardService(ledger)

	entries, err := svc.Summarize(context.Background(), "PHIEN_2")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if len(entries) != 1 || entries[0].SessionID != "PHIEN_2" {
		t.Errorf("entries = %+v, want one entry stamped with PHIEN_2", entries)
	}
}
