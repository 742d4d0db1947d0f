package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codebloom/codebloom-backend/internal/config"
	"github.com/codebloom/codebloom-backend/internal/middleware"
	"github.com/codebloom/codebloom-backend/internal/service"
)

func testRouter(t *testing.T, auth *service.AuthService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.GET("/student-only", middleware.RequireStudentJWT(auth), func(c *gin.Context) {
		claims := middleware.GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"subject_id": claims.SubjectID})
	})
	r.GET("/teacher-only", middleware.RequireTeacherJWT(auth), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doGet(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func newAuth(expiry time.Duration) *service.AuthService {
	return service.NewAuthService(&config.Config{
		JWTSecret: "test-secret",
		JWTExpiry: expiry,
	})
}

func TestJWTMiddlewareRoles(t *testing.T) {
	auth := newAuth(time.Hour)
	r := testRouter(t, auth)

	studentToken, err := auth.GenerateToken(service.TokenTypeStudent, "SV001", "Sinh viên 1")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	teacherToken, err := auth.GenerateToken(service.TokenTypeTeacher, "GV001", "Giáo viên 1")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	t.Run("student_token_on_student_route", func(t *testing.T) {
		w := doGet(r, "/student-only", studentToken)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), "SV001") {
			t.Errorf("body %q missing subject id", w.Body.String())
		}
	})

	t.Run("student_token_on_teacher_route", func(t *testing.T) {
		// The token is valid; only the role is wrong. Must be 403, not 401.
		w := doGet(r, "/teacher-only", studentToken)
		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", w.Code)
		}
		if !strings.Contains(w.Body.String(), "TEACHER_ACCESS_ONLY") {
			t.Errorf("body %q missing TEACHER_ACCESS_ONLY code", w.Body.String())
		}
	})

	t.Run("teacher_token_on_student_route", func(t *testing.T) {
		w := doGet(r, "/student-only", teacherToken)
		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", w.Code)
		}
	})

	t.Run("teacher_token_on_teacher_route", func(t *testing.T) {
		w := doGet(r, "/teacher-only", teacherToken)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
		}
	})

	t.Run("missing_token", func(t *testing.T) {
		w := doGet(r, "/student-only", "")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})

	t.Run("garbage_token", func(t *testing.T) {
		w := doGet(r, "/student-only", "not-a-jwt")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})
}

func TestJWTMiddlewareExpiredToken(t *testing.T) {
	expired := newAuth(-time.Minute)
	token, err := expired.GenerateToken(service.TokenTypeStudent, "SV001", "")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	r := testRouter(t, newAuth(time.Hour))
	w := doGet(r, "/student-only", token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if !strings.Contains(w.Body.String(), "TOKEN_EXPIRED") {
		t.Errorf("body %q missing TOKEN_EXPIRED code", w.Body.String())
	}
}
