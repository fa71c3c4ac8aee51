package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/career-recommender/internal/catalog"
	"github.com/jonathan/career-recommender/internal/config"
	"github.com/jonathan/career-recommender/internal/conversation"
	"github.com/jonathan/career-recommender/internal/db"
	"github.com/jonathan/career-recommender/internal/nlu"
	"github.com/jonathan/career-recommender/internal/ranking"
	"github.com/jonathan/career-recommender/internal/scheduler"
	"github.com/jonathan/career-recommender/internal/server"
	"github.com/jonathan/career-recommender/internal/server/ratelimit"
	"github.com/jonathan/career-recommender/internal/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server exposing the recommendation, Dialogflow, account and catalog endpoints.
When CATALOG_BACKFILL_SCHEDULE is set the catalog backfill also runs on that cron schedule.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Apply the database schema before serving")
	mustBindPFlag("port", serveCmd.Flags().Lookup("port"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(v)
	if err != nil {
		return err
	}
	if settings.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	log, err := newLogger(settings)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, settings.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if serveMigrate {
		if err := database.Migrate(ctx); err != nil {
			return err
		}
	}

	engine, err := newEngine(settings, database, log)
	if err != nil {
		return err
	}

	sessions, closeSessions, err := newSessionStore(ctx, settings, log)
	if err != nil {
		return err
	}
	defer closeSessions()

	chat, closeChat, err := newNLUClient(ctx, settings, log)
	if err != nil {
		return err
	}
	defer closeChat()

	jwtConfig, err := config.NewJWTConfigFromValues(settings.JWTSecret, settings.JWTExpirationHours)
	if err != nil {
		return fmt.Errorf("failed to create JWT config: %w", err)
	}
	passwordConfig, err := config.NewPasswordConfigFromValues(settings.BcryptCost, settings.PasswordPepper)
	if err != nil {
		return fmt.Errorf("failed to create password config: %w", err)
	}

	srv, err := server.New(server.Config{
		Port:        settings.Port,
		FrontendURL: settings.FrontendURL,
		RateLimit:   ratelimit.LoadConfig(v),
		JWT:         jwtConfig,
		Password:    passwordConfig,
	}, server.Dependencies{
		Store:   database,
		Engine:  engine,
		Webhook: conversation.NewAdapter(engine, sessions, settings.SessionTTL, log),
		NLU:     chat,
		Logger:  log,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	var sched *scheduler.Scheduler
	if settings.BackfillSchedule != "" {
		sched, err = scheduler.New(catalog.NewMaintainer(database, log), settings.BackfillSchedule, log)
		if err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	if sched != nil {
		g.Go(func() error {
			return sched.Run(gctx)
		})
	}

	return g.Wait()
}

// newEngine builds the ranking engine over catalog with the configured policy.
func newEngine(settings *Settings, source ranking.CatalogSource, log *zap.Logger) (*ranking.Engine, error) {
	scoring, err := scoringConfig(settings)
	if err != nil {
		return nil, err
	}
	policy, err := scoring.Policy()
	if err != nil {
		return nil, err
	}
	matcher, err := scoring.NewMatcher()
	if err != nil {
		return nil, err
	}
	return ranking.NewEngine(source, policy, matcher, log)
}

// newSessionStore returns the Redis store when REDIS_URL is set and the
// in-process store otherwise.
func newSessionStore(ctx context.Context, settings *Settings, log *zap.Logger) (session.Store, func(), error) {
	if settings.RedisURL == "" {
		log.Info("conversation sessions kept in memory")
		return session.NewMemoryStore(), func() {}, nil
	}

	rdb, err := session.NewRedisClient(ctx, settings.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	log.Info("conversation sessions kept in redis")
	return session.NewRedisStore(rdb), func() { _ = rdb.Close() }, nil
}

// newNLUClient connects to Dialogflow when a project is configured. Without
// one the returned client is nil and chat is disabled.
func newNLUClient(ctx context.Context, settings *Settings, log *zap.Logger) (nlu.Client, func(), error) {
	if settings.DialogflowProjectID == "" {
		log.Info("dialogflow project not configured, chat endpoint disabled")
		return nil, func() {}, nil
	}

	client, err := nlu.NewDialogflowClient(ctx, nlu.Config{
		ProjectID:       settings.DialogflowProjectID,
		CredentialsFile: settings.DialogflowCredentials,
		LanguageCode:    settings.DialogflowLanguage,
	}, log)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}
