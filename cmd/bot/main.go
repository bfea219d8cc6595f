package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"drillbot/internal/answer"
	"drillbot/internal/config"
	"drillbot/internal/handler"
	"drillbot/internal/middleware"
	"drillbot/internal/repository"
	"drillbot/internal/repository/file"
	"drillbot/internal/repository/postgres"
	"drillbot/internal/scheduler"
	"drillbot/internal/service"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Drillbot")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Configuration loaded successfully",
		zap.String("courses_dir", cfg.Practice.CoursesDir),
		zap.String("knowledge_backend", cfg.Practice.KnowledgeBackend),
		zap.String("default_course", cfg.Practice.DefaultCourse),
		zap.Int("batch_size", cfg.Practice.BatchSize),
	)

	// Connect to database with retries
	db, err := connectDatabase(cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connection established")

	// Run migrations
	if err := runMigrations(db, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	logger.Info("Database migrations completed")

	// Initialize repositories
	learnerRepo := postgres.NewLearnerRepo(db)
	courseRepo := file.NewCourseRepo(cfg.Practice.CoursesDir)
	knowledgeRepo, migrator, err := openKnowledge(cfg, db)
	if err != nil {
		logger.Fatal("Failed to open knowledge store", zap.Error(err))
	}

	matcher, err := answer.NewMatcher()
	if err != nil {
		logger.Fatal("Failed to create answer matcher", zap.Error(err))
	}

	// Initialize services
	authService := service.NewAuthService(learnerRepo, cfg.BotPassword).WithDefaultCourse(cfg.Practice.DefaultCourse)
	courseService := service.NewCourseService(courseRepo, learnerRepo, migrator, logger)
	knowledgeService := service.NewKnowledgeService(knowledgeRepo, logger)
	practiceService := service.NewPracticeService(
		knowledgeService,
		matcher,
		scheduler.NewLockedRand(scheduler.NewTimeSeededRand()),
		cfg.Practice.BatchSize,
		logger,
	)
	statsService := service.NewStatsService(courseRepo, knowledgeRepo, logger)

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	logger.Info("Telegram bot initialized")

	// Initialize handler
	bot.Use(middleware.AuthMiddleware(authService, logger))
	h := handler.NewHandler(bot, authService, courseService, practiceService, statsService, cfg.Practice.AutoAdvanceDelay, logger)
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	// Start progress report job in background
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go runProgressJob(ctx, statsService, cfg.Practice.ProgressReportInterval, logger)

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown
	bot.Stop()
	h.StopSessions()
	cancel()

	logger.Info("Bot stopped gracefully")
}

// openKnowledge opens the configured knowledge backend.
// Only the file backend can hold legacy locale-keyed buckets to migrate.
func openKnowledge(cfg *config.Config, db *sql.DB) (repository.KnowledgeRepository, service.LocaleMigrator, error) {
	if cfg.Practice.KnowledgeBackend == config.BackendFile {
		repo, err := file.OpenKnowledgeRepo(cfg.Practice.KnowledgeFile)
		if err != nil {
			return nil, nil, err
		}
		return repo, repo, nil
	}
	return postgres.NewKnowledgeRepo(db), nil, nil
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		// Test connection
		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply")
	} else {
		logger.Info("Migrations applied successfully")
	}

	return nil
}

// runProgressJob logs the progress of every course periodically
func runProgressJob(ctx context.Context, statsService *service.StatsService, interval time.Duration, logger *zap.Logger) {
	// Report once at startup
	if err := statsService.ReportProgress(); err != nil {
		logger.Error("Failed to run initial progress report", zap.Error(err))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Progress job stopped")
			return
		case <-ticker.C:
			logger.Info("Running scheduled progress report")
			if err := statsService.ReportProgress(); err != nil {
				logger.Error("Failed to run scheduled progress report", zap.Error(err))
			}
		}
	}
}
