package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/nlpnavigator/internal/adapter/export"
	"github.com/pscheid92/nlpnavigator/internal/adapter/filestore"
	"github.com/pscheid92/nlpnavigator/internal/adapter/geocode"
	"github.com/pscheid92/nlpnavigator/internal/adapter/httpserver"
	"github.com/pscheid92/nlpnavigator/internal/adapter/inference"
	"github.com/pscheid92/nlpnavigator/internal/adapter/metrics"
	"github.com/pscheid92/nlpnavigator/internal/adapter/news"
	"github.com/pscheid92/nlpnavigator/internal/adapter/openai"
	"github.com/pscheid92/nlpnavigator/internal/adapter/postgres"
	"github.com/pscheid92/nlpnavigator/internal/adapter/redis"
	"github.com/pscheid92/nlpnavigator/internal/app"
	"github.com/pscheid92/nlpnavigator/internal/domain"
	"github.com/pscheid92/nlpnavigator/internal/platform/config"
	"github.com/pscheid92/nlpnavigator/internal/platform/logging"
	"github.com/pscheid92/nlpnavigator/internal/platform/version"
	goredis "github.com/redis/go-redis/v9"
)

type appMetrics struct {
	registry *prometheus.Registry
	http     *metrics.HTTPMetrics
	model    *metrics.ModelMetrics
	store    *metrics.StoreMetrics
	cache    *metrics.CacheMetrics
	db       *metrics.DBMetrics
}

func setupMetrics() appMetrics {
	reg := metrics.NewRegistry()
	return appMetrics{
		registry: reg,
		http:     metrics.NewHTTPMetrics(reg),
		model:    metrics.NewModelMetrics(reg),
		store:    metrics.NewStoreMetrics(reg),
		cache:    metrics.NewCacheMetrics(reg),
		db:       metrics.NewDBMetrics(reg),
	}
}

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config, m *metrics.DBMetrics) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL, m)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := postgres.RunMigrationsWithLock(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

// setupRedis connects the optional shared geocode cache. Without REDIS_URL the
// geocoder only memoises in process.
func setupRedis(ctx context.Context, cfg *config.Config, m *metrics.ModelMetrics) *goredis.Client {
	if cfg.RedisURL == "" {
		return nil
	}
	client, err := redis.NewClient(ctx, cfg.RedisURL, m)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

type models struct {
	sentiment, newsSentiment, emotion domain.Classifier
	summarizer                        domain.Summarizer
	embedder                          domain.Embedder
}

func setupModels(cfg *config.Config, m *metrics.ModelMetrics) models {
	if !cfg.HuggingFaceEnabled() {
		slog.Warn("HUGGING_FACE_API_KEY not set, model calls will be unauthenticated and may be rate limited")
	}
	client := inference.NewClient(cfg.HuggingFaceBaseURL, cfg.HuggingFaceAPIKey, cfg.ModelTimeout, m)
	ports := inference.NewRegistry(client, inference.ModelsFromConfig(cfg)).Ports()

	out := models{
		sentiment:     ports.Sentiment,
		newsSentiment: ports.NewsSentiment,
		emotion:       ports.Emotion,
		summarizer:    ports.Summarizer,
		embedder:      ports.Embedder,
	}

	if cfg.OpenAIEnabled() {
		oa := openai.NewClient(openai.Options{
			APIKey:         cfg.OpenAIAPIKey,
			Model:          cfg.OpenAIModel,
			EmbeddingModel: cfg.OpenAIEmbeddingModel,
			Timeout:        cfg.ModelTimeout,
			Metrics:        m,
		})
		out.summarizer = oa
		out.embedder = oa
		slog.Info("Using OpenAI for summaries and embeddings", "model", cfg.OpenAIModel)
	}

	return out
}

func setupGeocoder(cfg *config.Config, rdb *goredis.Client, m *metrics.CacheMetrics) *geocode.CachedGeocoder {
	remote := geocode.NewNominatim(geocode.NominatimOptions{
		BaseURL:   cfg.GeocoderURL,
		UserAgent: cfg.GeocoderUserAgent,
		Delay:     cfg.GeocodeDelay,
		Timeout:   cfg.GeocodeTimeout,
	})

	// A nil *GeocodeCache must not reach the interface.
	var shared geocode.SharedCache
	if rdb != nil {
		shared = redis.NewGeocodeCache(rdb, cfg.GeocodeCacheTTL)
	}
	return geocode.NewCachedGeocoder(remote, shared, m)
}

func setupNews(ctx context.Context, cfg *config.Config, m *metrics.ModelMetrics) (domain.NewsSource, domain.WebSearcher) {
	var source domain.NewsSource
	if cfg.NewsAPIKey != "" {
		source = news.NewNewsAPI(cfg.NewsAPIURL, cfg.NewsAPIKey, cfg.NewsTimeout, m)
	} else {
		slog.Info("NEWS_API_KEY not set, using RSS news search", "url", cfg.NewsRSSURL)
		source = news.NewRSS(cfg.NewsRSSURL, cfg.NewsTimeout, m)
	}

	if !cfg.WebSearchEnabled() {
		return source, nil
	}
	search, err := news.NewWebSearch(ctx, cfg.GoogleAPIKey, cfg.GoogleCSEID, m)
	if err != nil {
		slog.Error("Failed to create web search client", "error", err)
		os.Exit(1)
	}
	return source, search
}

type stores struct {
	feedback         domain.FeedbackRepository
	analysisFeedback domain.AnalysisFeedbackRepository
	credentials      domain.CredentialStore
	check            httpserver.HealthCheck
	close            func()
}

func setupStores(cfg *config.Config, am appMetrics) stores {
	out := stores{
		credentials: filestore.NewCredentialStore(filepath.Join(cfg.DataDir, cfg.CredentialsFile), am.store),
		close:       func() {},
	}

	switch cfg.FeedbackBackend {
	case config.FeedbackBackendPostgres:
		pool := setupDB(cfg, am.db)
		repo := postgres.NewFeedbackRepo(pool)
		out.feedback = repo
		out.analysisFeedback = repo
		out.check = httpserver.HealthCheck{Name: "postgres", Check: pool.Ping}
		out.close = pool.Close
	default:
		out.feedback = filestore.NewFeedbackStore(filepath.Join(cfg.DataDir, cfg.FeedbackFile), am.store)
		out.analysisFeedback = filestore.NewAnalysisFeedbackStore(filepath.Join(cfg.DataDir, cfg.AnalysisFeedbackFile), am.store)
		out.check = httpserver.HealthCheck{Name: "data_dir", Check: dataDirCheck(cfg.DataDir)}
	}

	return out
}

func dataDirCheck(dir string) func(context.Context) error {
	return func(context.Context) error {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("data directory unavailable: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("data directory %s is not a directory", dir)
		}
		return nil
	}
}

func runGracefulShutdown(srv *httpserver.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "version", version.Version, "feedback_backend", cfg.FeedbackBackend)

	am := setupMetrics()
	ctx := context.Background()

	redisClient := setupRedis(ctx, cfg, am.model)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	st := setupStores(cfg, am)
	defer st.close()

	m := setupModels(cfg, am.model)
	newsSource, search := setupNews(ctx, cfg, am.model)

	appSvc := app.NewService(app.Deps{
		Sentiment:        m.sentiment,
		NewsSentiment:    m.newsSentiment,
		Emotion:          m.emotion,
		Summarizer:       m.summarizer,
		Embedder:         m.embedder,
		Geocoder:         setupGeocoder(cfg, redisClient, am.cache),
		News:             newsSource,
		Search:           search,
		Feedback:         st.feedback,
		AnalysisFeedback: st.analysisFeedback,
		Credentials:      st.credentials,
		Exporter:         export.Workbook{},
		Metrics:          am.model,
		StoreMetrics:     am.store,
		Clock:            clock,
	})

	healthChecks := []httpserver.HealthCheck{st.check}
	if redisClient != nil {
		healthChecks = append(healthChecks, httpserver.HealthCheck{
			Name:     "redis",
			Check:    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
			Optional: true,
		})
	}

	srv, err := httpserver.NewServer(cfg, appSvc,
		httpserver.WithMetrics(am.registry, am.http),
		httpserver.WithHealthChecks(healthChecks...),
	)
	if err != nil {
		slog.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	done := runGracefulShutdown(srv)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
