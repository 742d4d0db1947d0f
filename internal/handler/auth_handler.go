package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codebloom/codebloom-backend/internal/model"
	"github.com/codebloom/codebloom-backend/internal/response"
	"github.com/codebloom/codebloom-backend/internal/service"
	"github.com/codebloom/codebloom-backend/internal/validator"
)

// StudentFinder resolves a student credential record. Satisfied by
// repository.StudentRepository.
type StudentFinder interface {
	GetByStudentID(ctx context.Context, studentID string) (*model.Student, error)
}

// TeacherFinder resolves a teacher credential record. Satisfied by
// repository.TeacherRepository.
type TeacherFinder interface {
	GetByTeacherID(ctx context.Context, teacherID string) (*model.Teacher, error)
}

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
	students    StudentFinder
	teachers    TeacherFinder
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, students StudentFinder, teachers TeacherFinder) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		students:    students,
		teachers:    teachers,
	}
}

// StudentLogin godoc
// POST /api/v1/auth/student/login
// Validates student_id + password, returns JWT.
func (h *AuthHandler) StudentLogin(c *gin.Context) {
	var req model.StudentLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.students.GetByStudentID(c.Request.Context(), req.StudentID)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	if err := h.authService.CheckPassword(student.PasswordHash, req.Password); err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	token, err := h.authService.GenerateToken(service.TokenTypeStudent, student.StudentID, student.Name)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"student": gin.H{
			"student_id": student.StudentID,
			"name":       student.Name,
		},
	})
}

// TeacherLogin godoc
// POST /api/v1/auth/teacher/login
// Validates teacher_id + password, returns JWT.
func (h *AuthHandler) TeacherLogin(c *gin.Context) {
	var req model.TeacherLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	teacher, err := h.teachers.GetByTeacherID(c.Request.Context(), req.TeacherID)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	if err := h.authService.CheckPassword(teacher.PasswordHash, req.Password); err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	token, err := h.authService.GenerateToken(service.TokenTypeTeacher, teacher.TeacherID, teacher.Name)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"teacher": gin.H{
			"teacher_id": teacher.TeacherID,
			"name":       teacher.Name,
		},
	})
}
