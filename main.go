package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/gikai-lab/minutes-engine/pkg/config"
	"github.com/gikai-lab/minutes-engine/pkg/database"
	"github.com/gikai-lab/minutes-engine/pkg/extract"
	"github.com/gikai-lab/minutes-engine/pkg/handlers"
	"github.com/gikai-lab/minutes-engine/pkg/llm"
	"github.com/gikai-lab/minutes-engine/pkg/logging"
	"github.com/gikai-lab/minutes-engine/pkg/metrics"
	"github.com/gikai-lab/minutes-engine/pkg/middleware"
	"github.com/gikai-lab/minutes-engine/pkg/models"
	"github.com/gikai-lab/minutes-engine/pkg/oracle"
	"github.com/gikai-lab/minutes-engine/pkg/repositories"
	"github.com/gikai-lab/minutes-engine/pkg/retry"
	"github.com/gikai-lab/minutes-engine/pkg/services"
	"github.com/gikai-lab/minutes-engine/pkg/source"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("database", cfg.Database.Database),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.Float64("match_threshold", cfg.Matcher.MatchThreshold),
		zap.Float64("review_threshold", cfg.Matcher.ReviewThreshold))

	ctx := context.Background()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.URL(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	migrationDB, err := sql.Open("pgx", cfg.Database.URL())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(migrationDB, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = migrationDB.Close()

	// Repositories
	candidateRepo := repositories.NewCandidateRepository()
	politicianRepo := repositories.NewPoliticianRepository()
	groupRepo := repositories.NewParliamentaryGroupRepository()
	judgeRepo := repositories.NewProposalJudgeRepository()
	affiliationRepo := repositories.NewPoliticianAffiliationRepository()
	membershipRepo := repositories.NewGroupMembershipRepository()
	meetingRepo := repositories.NewMeetingRepository()
	minutesRepo := repositories.NewMinutesRepository()
	conversationRepo := repositories.NewConversationRepository()
	speakerRepo := repositories.NewSpeakerRepository()

	// External collaborators
	chatClient, err := llm.NewChatClient(&llm.Config{
		Provider: cfg.LLM.Provider,
		Endpoint: cfg.LLM.Endpoint,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	matchOracle := oracle.NewLLMOracle(chatClient, scopedRoster{db: db, repo: politicianRepo}, logger)
	retryCfg := retry.DefaultConfig()
	retryCfg.MaxRetries = cfg.Fetch.MaxRetries
	fetcher := source.NewHTTPFetcher(time.Duration(cfg.Fetch.TimeoutSeconds)*time.Second, retryCfg, logger)
	var extractor extract.Extractor = extract.NewRuleExtractor()
	if cfg.Fetch.Extractor == "llm" {
		extractor = extract.NewLLMExtractor(chatClient, logger)
	}

	m := metrics.New()

	// Services
	matcher := services.NewMatcher(candidateRepo, politicianRepo, matchOracle, cfg.Matcher, m, logger)
	converter := services.NewConverter(candidateRepo, judgeRepo, affiliationRepo, membershipRepo, groupRepo, m, logger)
	ingestion := services.NewMinutesIngestion(db, meetingRepo, minutesRepo, conversationRepo, speakerRepo, fetcher, extractor, m, logger)
	intake := services.NewCandidateIntake(db, candidateRepo, logger)

	mux := http.NewServeMux()

	// Register handlers
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewCandidateHandler(intake, matcher, logger).RegisterRoutes(mux)
	handlers.NewConversionHandler(converter, logger).RegisterRoutes(mux)
	handlers.NewMinutesHandler(ingestion, logger).RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	handler := middleware.RequestLogger(logger)(scope(db, mux))

	logger.Info("Starting minutes-engine",
		zap.String("port", cfg.Port),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(cfg.BindAddr+":"+cfg.Port, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

// scope attaches the pool to every request context so repositories called
// outside an explicit transaction still find a database scope.
func scope(db *database.DB, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(db.Scope(r.Context())))
	})
}

// scopedRoster adapts the politician repository to the oracle's roster,
// attaching the pool scope the repository expects.
type scopedRoster struct {
	db   *database.DB
	repo repositories.PoliticianRepository
}

func (r scopedRoster) List(ctx context.Context) ([]*models.Politician, error) {
	return r.repo.List(r.db.Scope(ctx))
}
