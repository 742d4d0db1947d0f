package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/codebloom/codebloom-backend/internal/config"
	"github.com/codebloom/codebloom-backend/internal/database"
	"github.com/codebloom/codebloom-backend/internal/grader"
	"github.com/codebloom/codebloom-backend/internal/handler"
	"github.com/codebloom/codebloom-backend/internal/logger"
	"github.com/codebloom/codebloom-backend/internal/repository"
	"github.com/codebloom/codebloom-backend/internal/router"
	"github.com/codebloom/codebloom-backend/internal/service"
	"github.com/codebloom/codebloom-backend/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("grader", cfg.GraderMode).
		Msg("Starting CodeBloom Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	studentRepo := repository.NewStudentRepository(pool)
	teacherRepo := repository.NewTeacherRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	submissionRepo := repository.NewSubmissionRepository(pool)

	// ─── Select Grader ─────────────────────────────────────────────────
	var judge grader.Grader
	switch cfg.GraderMode {
	case "sandbox":
		judge = grader.NewSandboxGrader(cfg.GraderURL, cfg.GraderTimeout, cfg.GraderMaxRetries, log)
	default:
		judge = grader.NewSubstringGrader()
	}

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg)
	questionService := service.NewQuestionService(questionRepo, rdb, cfg.QuestionCacheTTL, log)
	sessionService := service.NewSessionService(submissionRepo, cfg.SessionPrefix)
	submissionService := service.NewSubmissionService(submissionRepo, questionRepo, judge, rdb, cfg.SubmissionScope, log)
	scoreboardService := service.NewScoreboardService(submissionRepo)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService, studentRepo, teacherRepo),
		Question:   handler.NewQuestionHandler(questionService, log),
		Submission: handler.NewSubmissionHandler(submissionService, sessionService, log),
		Scoreboard: handler.NewScoreboardHandler(scoreboardService, studentRepo, log),
		WS:         handler.NewWSHandler(rdb, scoreboardService, log, cfg.AllowedOrigins),
	}

	// ─── Prewarm Question Cache ───────────────────────────────────────
	// Load the question bank into Redis before accepting traffic so the
	// first burst of clients never stampedes Postgres.
	if err := questionService.Prewarm(ctx); err != nil {
		log.Warn().Err(err).Msg("Cache prewarm failed")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
