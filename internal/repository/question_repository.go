package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codebloom/codebloom-backend/internal/model"
)

var ErrDuplicateQuestionID = errors.New("question with this question_id already exists")

// QuestionRepository handles question bank data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// GetByQuestionID retrieves a question with its answer key. Grading reads
// go through here, bypassing the public cache.
func (r *QuestionRepository) GetByQuestionID(ctx context.Context, questionID string) (*model.Question, error) {
	q := &model.Question{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, question_id, content, test_input, expected_output, created_at
		 FROM questions WHERE question_id = $1`, questionID,
	).Scan(&q.ID, &q.QuestionID, &q.Content, &q.TestInput, &q.ExpectedOutput, &q.CreatedAt)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// List retrieves all questions ordered by question_id.
func (r *QuestionRepository) List(ctx context.Context) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, question_id, content, test_input, expected_output, created_at
		 FROM questions ORDER BY question_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.QuestionID, &q.Content, &q.TestInput, &q.ExpectedOutput, &q.CreatedAt); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// Create inserts a new question. Used by seeding only.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO questions (question_id, content, test_input, expected_output)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		q.QuestionID, q.Content, q.TestInput, q.ExpectedOutput,
	).Scan(&q.ID, &q.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateQuestionID
		}
		return err
	}
	return nil
}
