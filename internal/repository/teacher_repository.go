package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codebloom/codebloom-backend/internal/model"
)

var ErrDuplicateTeacherID = errors.New("teacher with this teacher_id already exists")

// TeacherRepository handles teacher data access.
type TeacherRepository struct {
	pool *pgxpool.Pool
}

// NewTeacherRepository creates a new TeacherRepository.
func NewTeacherRepository(pool *pgxpool.Pool) *TeacherRepository {
	return &TeacherRepository{pool: pool}
}

// GetByTeacherID retrieves a teacher by their unique business key.
func (r *TeacherRepository) GetByTeacherID(ctx context.Context, teacherID string) (*model.Teacher, error) {
	t := &model.Teacher{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, teacher_id, name, password_hash, created_at
		 FROM teachers WHERE teacher_id = $1`, teacherID,
	).Scan(&t.ID, &t.TeacherID, &t.Name, &t.PasswordHash, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Create inserts a new teacher. Used by seeding only.
func (r *TeacherRepository) Create(ctx context.Context, t *model.Teacher) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO teachers (teacher_id, name, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		t.TeacherID, t.Name, t.PasswordHash,
	).Scan(&t.ID, &t.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateTeacherID
		}
		return err
	}
	return nil
}
