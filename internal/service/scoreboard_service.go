package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/codebloom/codebloom-backend/internal/model"
)

// LedgerReader is the read surface of the submission ledger used by the
// aggregation engine. An empty sessionID means the whole ledger.
type LedgerReader interface {
	Rollup(ctx context.Context, sessionID string) ([]model.LedgerRow, error)
}

// ScoreboardService aggregates the ledger into per-student scoreboard
// entries for teacher consumption. Entries are derived on demand and never
// persisted.
type ScoreboardService struct {
	ledger LedgerReader
}

// NewScoreboardService creates a new ScoreboardService.
func NewScoreboardService(ledger LedgerReader) *ScoreboardService {
	return &ScoreboardService{ledger: ledger}
}

// Summarize groups ledger entries by student, counting correct and wrong
// verdicts. sessionID narrows the scope to one session; "" covers the whole
// ledger. An empty ledger yields an empty slice, not an error.
//
// The SQL rollup already keeps only the latest verdict per
// (student, question), but that invariant is re-applied here so any store
// that returns raw rows still aggregates last-write-wins.
func (s *ScoreboardService) Summarize(ctx context.Context, sessionID string) ([]model.ScoreboardEntry, error) {
	rows, err := s.ledger.Rollup(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("rollup ledger: %w", err)
	}

	type key struct{ student, question string }
	latest := make(map[key]model.LedgerRow)
	for _, row := range rows {
		k := key{row.StudentID, row.QuestionID}
		if prev, ok := latest[k]; ok && !row.SubmittedAt.After(prev.SubmittedAt) {
			continue
		}
		latest[k] = row
	}

	byStudent := make(map[string]*model.ScoreboardEntry)
	for _, row := range latest {
		entry, ok := byStudent[row.StudentID]
		if !ok {
			entry = &model.ScoreboardEntry{
				StudentID: row.StudentID,
				SessionID: sessionID,
				Answers:   []model.Answer{},
			}
			byStudent[row.StudentID] = entry
		}

		entry.Answers = append(entry.Answers, model.Answer{
			QuestionID: row.QuestionID,
			IsCorrect:  row.IsCorrect,
		})
		if row.IsCorrect {
			entry.CorrectCount++
		} else {
			entry.WrongCount++
		}
	}

	entries := make([]model.ScoreboardEntry, 0, len(byStudent))
	for _, entry := range byStudent {
		sort.Slice(entry.Answers, func(i, j int) bool {
			return entry.Answers[i].QuestionID < entry.Answers[j].QuestionID
		})
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].StudentID < entries[j].StudentID
	})

	return entries, nil
}
