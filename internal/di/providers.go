package di

import (
	"fmt"

	"TrueArk/internal/domain/repository"
	"TrueArk/internal/handler/api"
	internalrepo "TrueArk/internal/repository"
	"TrueArk/internal/service/ratelimit"
	"TrueArk/internal/service/swisseph"
	"TrueArk/internal/usecase"
	"TrueArk/pkg/cache"
	pkgch "TrueArk/pkg/clickhouse"
	"TrueArk/pkg/config"
	xhttp "TrueArk/pkg/http"
	pkgkafka "TrueArk/pkg/kafka"
	applogger "TrueArk/pkg/logger"
	"TrueArk/pkg/metrics"
	"TrueArk/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := cfg.Logging.Level
	if level == "" {
		level = "info"
	}
	format := cfg.Logging.Format
	if format == "" {
		format = "json"
	}
	return applogger.New(&applogger.Config{Level: level, Format: format, Output: "stdout"})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideEphemeris opens the ephemeris provider. Fails at startup when
// precision files are required but absent.
func ProvideEphemeris(cfg *config.Config, l *applogger.Logger, m repository.Metrics) (repository.Ephemeris, error) {
	p, err := swisseph.New(cfg.Ephemeris.Path, cfg.Ephemeris.RequireSwiss, l, m)
	if err != nil {
		return nil, fmt.Errorf("ephemeris provider: %w", err)
	}
	return p, nil
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when storage
// is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.Storage.Enabled {
		return nil, nil
	}
	ch := cfg.Storage.ClickHouse
	client, err := pkgch.NewClient(
		pkgch.WithHost(ch.Host),
		pkgch.WithPort(ch.Port),
		pkgch.WithDatabase(ch.Database),
		pkgch.WithCredentials(ch.User, ch.Password),
		pkgch.WithTimeouts(ch.DialTimeout, ch.ReadTimeout, ch.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideChartStore creates ClickHouse chart storage, or nil when disabled.
func ProvideChartStore(chClient *pkgch.Client, cfg *config.Config) repository.ChartStore {
	if chClient == nil {
		return nil
	}
	return internalrepo.NewClickHouseChartStore(chClient.DB(), cfg.Storage.ClickHouse.Table)
}

// ProvideKafkaProducer creates a Kafka producer, or nil when events are
// disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Events.Enabled {
		return nil, nil
	}
	k := cfg.Events.Kafka
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(k.Brokers),
		pkgkafka.WithRequiredAcks(k.RequiredAcks),
		pkgkafka.WithCompression(k.Compression),
		pkgkafka.WithMaxAttempts(k.MaxAttempts),
		pkgkafka.WithTimeouts(k.WriteTimeout, k.ReadTimeout),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideChartPublisher creates the Kafka chart publisher, or nil.
func ProvideChartPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.ChartPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaChartPublisher(producer, cfg.Events.Kafka.Topic)
}

// ProvideCache creates the chart cache per configuration.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	switch cfg.Cache.Backend {
	case "redis":
		return cache.NewRedisCache(
			cache.WithAddr(cfg.Cache.Redis.Addr),
			cache.WithPassword(cfg.Cache.Redis.Password),
			cache.WithDB(cfg.Cache.Redis.DB),
			cache.WithPrefix(cfg.Cache.Redis.Prefix),
		)
	case "memory", "":
		return cache.NewMemoryCache(), nil
	default: // "none"
		return nil, nil
	}
}

// ProvideChartComputer creates the chart computation use case.
func ProvideChartComputer(eph repository.Ephemeris, m repository.Metrics) *usecase.ChartComputer {
	return usecase.NewChartComputer(eph, m)
}

// ProvideChartService creates the chart service.
func ProvideChartService(
	computer *usecase.ChartComputer,
	store repository.ChartStore,
	pub repository.ChartPublisher,
	c cache.Service,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.ChartService {
	return usecase.NewChartService(computer, store, pub, c, cfg.Cache.TTL, m, l)
}

// ProvideRateLimiter creates the per-client compute limiter.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec)
}

// ProvideHandlers assembles all HTTP handlers.
func ProvideHandlers(
	l *applogger.Logger,
	svc *usecase.ChartService,
	computer *usecase.ChartComputer,
	eph repository.Ephemeris,
	store repository.ChartStore,
	rl *ratelimit.Limiter,
	cfg *config.Config,
) []xhttp.Handler {
	return []xhttp.Handler{
		api.NewChartsHandler(l, svc, eph, store, rl),
		api.NewLiveHandler(l, computer, cfg.Live.Interval),
	}
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	eph repository.Ephemeris,
	store repository.ChartStore,
	pub repository.ChartPublisher,
	c cache.Service,
	chClient *pkgch.Client,
	rl *ratelimit.Limiter,
	handlers []xhttp.Handler,
) *server.App {
	return server.New(cfg, l, eph, store, pub, c, chClient, rl, handlers)
}
