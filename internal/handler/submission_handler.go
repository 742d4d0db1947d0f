package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/codebloom/codebloom-backend/internal/grader"
	"github.com/codebloom/codebloom-backend/internal/middleware"
	"github.com/codebloom/codebloom-backend/internal/model"
	"github.com/codebloom/codebloom-backend/internal/repository"
	"github.com/codebloom/codebloom-backend/internal/response"
	"github.com/codebloom/codebloom-backend/internal/service"
	"github.com/codebloom/codebloom-backend/internal/validator"
)

// SubmissionHandler handles the student submission workflow.
type SubmissionHandler struct {
	submissionService *service.SubmissionService
	sessionService    *service.SessionService
	log               zerolog.Logger
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(submissionService *service.SubmissionService, sessionService *service.SessionService, log zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
		sessionService:    sessionService,
		log:               log.With().Str("component", "submission_handler").Logger(),
	}
}

// Submit godoc
// POST /api/v1/student/submissions
// Grades the submitted code and appends it to the ledger. Exactly one
// submission is accepted per (student, question, session).
func (h *SubmissionHandler) Submit(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.SubmitRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sub, err := h.submissionService.Submit(c.Request.Context(), claims.SubjectID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingField):
			response.Fail(c, http.StatusBadRequest, response.ErrValidation)
		case errors.Is(err, service.ErrQuestionNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrQuestionNotFound)
		case errors.Is(err, repository.ErrDuplicateSubmission):
			response.Fail(c, http.StatusConflict, response.ErrDuplicateSubmission)
		case errors.Is(err, grader.ErrUnavailable):
			h.log.Warn().Err(err).Str("student_id", claims.SubjectID).Msg("Grader unavailable")
			response.Fail(c, http.StatusBadGateway, response.ErrGraderUnavailable)
		default:
			h.log.Error().Err(err).Str("student_id", claims.SubjectID).Msg("Submit failed")
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	result := "incorrect"
	if sub.IsCorrect {
		result = "correct"
	}

	response.Success(c, http.StatusCreated, gin.H{
		"result":       result,
		"question_id":  sub.QuestionID,
		"session_id":   sub.SessionID,
		"submitted_at": sub.SubmittedAt,
	})
}

// NextSession godoc
// GET /api/v1/student/sessions/next
// Returns the next session token for the authenticated student. Clients
// call this once per attempt and reuse the token for every question.
func (h *SubmissionHandler) NextSession(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	token, err := h.sessionService.NextSessionToken(c.Request.Context(), claims.SubjectID)
	if err != nil {
		h.log.Error().Err(err).Str("student_id", claims.SubjectID).Msg("Session sequencing failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session_id": token})
}
