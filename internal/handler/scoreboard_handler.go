package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/codebloom/codebloom-backend/internal/model"
	"github.com/codebloom/codebloom-backend/internal/response"
	"github.com/codebloom/codebloom-backend/internal/service"
)

// StudentLister lists student accounts for teacher reports. Satisfied by
// repository.StudentRepository.
type StudentLister interface {
	List(ctx context.Context) ([]model.Student, error)
}

// ScoreboardHandler serves teacher-facing aggregated results.
type ScoreboardHandler struct {
	scoreboardService *service.ScoreboardService
	students          StudentLister
	log               zerolog.Logger
}

// NewScoreboardHandler creates a new ScoreboardHandler.
func NewScoreboardHandler(scoreboardService *service.ScoreboardService, students StudentLister, log zerolog.Logger) *ScoreboardHandler {
	return &ScoreboardHandler{
		scoreboardService: scoreboardService,
		students:          students,
		log:               log.With().Str("component", "scoreboard_handler").Logger(),
	}
}

// GetScoreboard godoc
// GET /api/v1/teacher/scoreboard?session_id=PHIEN_2
// Aggregates the ledger into per-student entries. Without session_id the
// whole ledger is summarized.
func (h *ScoreboardHandler) GetScoreboard(c *gin.Context) {
	sessionID := c.Query("session_id")

	entries, err := h.scoreboardService.Summarize(c.Request.Context(), sessionID)
	if err != nil {
		h.log.Error().Err(err).Str("session_id", sessionID).Msg("Scoreboard aggregation failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"scoreboard": entries})
}

// ListStudents godoc
// GET /api/v1/teacher/students
// Lists all student accounts (password hashes never serialize).
func (h *ScoreboardHandler) ListStudents(c *gin.Context) {
	students, err := h.students.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list students")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if students == nil {
		students = []model.Student{}
	}
	response.Success(c, http.StatusOK, gin.H{"students": students})
}
