package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ankieta/ankieta/internal/config"
	"github.com/ankieta/ankieta/internal/domain/answer"
	"github.com/ankieta/ankieta/internal/domain/fund"
	"github.com/ankieta/ankieta/internal/domain/participant"
	"github.com/ankieta/ankieta/internal/domain/survey"
	"github.com/ankieta/ankieta/internal/domain/user"
	"github.com/ankieta/ankieta/internal/platform/auth"
	"github.com/ankieta/ankieta/internal/platform/db"
	"github.com/ankieta/ankieta/internal/platform/mail"
	"github.com/ankieta/ankieta/internal/platform/middleware"
)

// subquestionCountAdapter adapts the survey repository to the participant
// package's SubquestionCounter, avoiding a cross-domain import.
type subquestionCountAdapter struct {
	surveys survey.SurveyRepository
}

func (a *subquestionCountAdapter) SubquestionCount(ctx context.Context, surveyID uuid.UUID) (int, error) {
	sv, err := a.surveys.GetByID(ctx, surveyID)
	if err != nil {
		return 0, err
	}
	return sv.SubquestionCount, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "ankieta-server",
		Short: "Healthcare fund survey collection server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(participantCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the survey API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func openPool(ctx context.Context) (*config.Config, *pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, nil, err
	}
	return cfg, pool, nil
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			ctx := context.Background()
			_, pool, err := openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.NewMigrator(pool, dir).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Applied %d migration(s).\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			ctx := context.Background()
			_, pool, err := openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, dir).Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func participantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "participant",
		Short: "Manage survey participants",
	}

	issueCmd := &cobra.Command{
		Use:   "issue-url",
		Short: "Print the capability URL of a participant",
		RunE: func(cmd *cobra.Command, args []string) error {
			idStr, _ := cmd.Flags().GetString("id")
			id, err := uuid.Parse(idStr)
			if err != nil {
				return fmt.Errorf("--id must be a participant uuid")
			}

			ctx := context.Background()
			cfg, pool, err := openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			p, err := participant.NewRepo(pool).GetByID(ctx, id)
			if err != nil {
				return err
			}
			fmt.Println(cfg.BaseURL + p.CapabilityPath())
			return nil
		},
	}
	issueCmd.Flags().String("id", "", "Participant id")
	cmd.AddCommand(issueCmd)

	return cmd
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	e.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))

	// The public capability surface authenticates by URL alone; a token,
	// when present, only marks the submitter as staff.
	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.OptionalJWTMiddleware(auth.JWTConfig{SigningKey: []byte(cfg.JWTSigningKey)}))
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	apiV1 := e.Group("/api/v1")
	apiV1.Use(auth.RequireStaff())

	txRunner := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return db.WithTx(ctx, pool, fn)
	}

	var sender mail.Sender
	if cfg.SMTPAddr != "" {
		sender = &mail.SMTPSender{
			Addr:     cfg.SMTPAddr,
			From:     cfg.MailFrom,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
		}
		logger.Info().Str("addr", cfg.SMTPAddr).Msg("smtp sender configured")
	} else {
		sender = mail.DiscardSender{}
		logger.Warn().Msg("SMTP_ADDR not set; confirmations are discarded")
	}
	templates := mail.NewTemplateEngine()

	// Repositories
	fundRepo := fund.NewFundRepo(pool)
	hospitalRepo := fund.NewHospitalRepo(pool)
	surveyRepo := survey.NewSurveyRepo(pool)
	categoryRepo := survey.NewCategoryRepo(pool)
	questionRepo := survey.NewQuestionRepo(pool)
	subquestionRepo := survey.NewSubquestionRepo(pool)
	participantRepo := participant.NewRepo(pool)
	userRepo := user.NewRepo(pool)
	answerRepo := answer.NewRepo(pool)

	// Services
	fundSvc := fund.NewService(fundRepo, hospitalRepo)
	surveySvc := survey.NewService(surveyRepo, categoryRepo, questionRepo, subquestionRepo, participantRepo, survey.TxRunner(txRunner))
	participantSvc := participant.NewService(participantRepo, hospitalRepo, &subquestionCountAdapter{surveys: surveyRepo})
	userSvc := user.NewService(userRepo)
	answerSvc := answer.NewService(
		answerRepo,
		surveyRepo,
		hospitalRepo,
		participantRepo,
		fundRepo,
		userRepo,
		sender,
		templates,
		cfg.SentinelValues,
		answer.TxRunner(txRunner),
	)

	// Admin handlers
	fund.NewHandler(fundSvc).RegisterRoutes(apiV1)
	survey.NewHandler(surveySvc).RegisterRoutes(apiV1)
	participant.NewHandler(participantSvc).RegisterRoutes(apiV1)
	user.NewHandler(userSvc).RegisterRoutes(apiV1)

	// Public capability surface plus the staff CSV export
	answerHandler := answer.NewHandler(answerSvc)
	answerHandler.RegisterPublicRoutes(e)
	answerHandler.RegisterAdminRoutes(apiV1)

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("server listening")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}
	return nil
}
