package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/codebloom/codebloom-backend/internal/config"
	"github.com/codebloom/codebloom-backend/internal/model"
)

// QuestionStore is the repository surface for the question bank.
type QuestionStore interface {
	GetByQuestionID(ctx context.Context, questionID string) (*model.Question, error)
	List(ctx context.Context) ([]model.Question, error)
}

// cachedQuestion is the Redis representation of a bank entry. The answer
// key is deliberately absent: the cache only ever feeds the public listing.
type cachedQuestion struct {
	ID         int       `json:"id"`
	QuestionID string    `json:"question_id"`
	Content    string    `json:"content"`
	TestInput  string    `json:"test_input"`
	CreatedAt  time.Time `json:"created_at"`
}

// QuestionService serves the question bank with a Redis cache-aside layer.
// Grading lookups bypass the cache and read the answer key from Postgres.
type QuestionService struct {
	repo QuestionStore
	rdb  *redis.Client
	ttl  time.Duration
	log  zerolog.Logger
}

// NewQuestionService creates a new QuestionService. rdb may be nil; every
// read then falls through to the repository.
func NewQuestionService(repo QuestionStore, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *QuestionService {
	return &QuestionService{
		repo: repo,
		rdb:  rdb,
		ttl:  ttl,
		log:  log.With().Str("component", "question_service").Logger(),
	}
}

// List returns the question bank, preferring the cache.
func (s *QuestionService) List(ctx context.Context) ([]model.Question, error) {
	if cached, ok := s.readCache(ctx); ok {
		return cached, nil
	}

	questions, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	s.writeCache(ctx, questions)
	return questions, nil
}

// GetByQuestionID resolves a question with its answer key for grading.
func (s *QuestionService) GetByQuestionID(ctx context.Context, questionID string) (*model.Question, error) {
	return s.repo.GetByQuestionID(ctx, questionID)
}

// Prewarm loads the bank into the cache before the server accepts traffic.
func (s *QuestionService) Prewarm(ctx context.Context) error {
	questions, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("prewarm questions: %w", err)
	}
	s.writeCache(ctx, questions)
	s.log.Info().Int("count", len(questions)).Msg("Question bank cache prewarmed")
	return nil
}

func (s *QuestionService) readCache(ctx context.Context) ([]model.Question, bool) {
	if s.rdb == nil {
		return nil, false
	}

	raw, err := s.rdb.Get(ctx, config.CacheKey.QuestionBankKey()).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Msg("Question cache read failed")
		}
		return nil, false
	}

	var cached []cachedQuestion
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		s.log.Warn().Err(err).Msg("Question cache payload corrupt")
		return nil, false
	}

	questions := make([]model.Question, 0, len(cached))
	for _, c := range cached {
		questions = append(questions, model.Question{
			ID:         c.ID,
			QuestionID: c.QuestionID,
			Content:    c.Content,
			TestInput:  c.TestInput,
			CreatedAt:  c.CreatedAt,
		})
	}
	return questions, true
}

func (s *QuestionService) writeCache(ctx context.Context, questions []model.Question) {
	if s.rdb == nil {
		return
	}

	cached := make([]cachedQuestion, 0, len(questions))
	for _, q := range questions {
		cached = append(cached, cachedQuestion{
			ID:         q.ID,
			QuestionID: q.QuestionID,
			Content:    q.Content,
			TestInput:  q.TestInput,
			CreatedAt:  q.CreatedAt,
		})
	}

	payload, err := json.Marshal(cached)
	if err != nil {
		s.log.Warn().Err(err).Msg("Question cache encode failed")
		return
	}
	if err := s.rdb.Set(ctx, config.CacheKey.QuestionBankKey(), payload, s.ttl).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Question cache write failed")
	}
}
