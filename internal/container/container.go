package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/fitlife-api/config"
	"github.com/oksasatya/fitlife-api/internal/infrastructure/prediction"
	"github.com/oksasatya/fitlife-api/internal/observability"
	"github.com/oksasatya/fitlife-api/pkg/helpers"
	"github.com/oksasatya/fitlife-api/pkg/mailer"
)

// app-level container to share constructed components across packages.
// Router auto-wires modules from these singletons; a nil client means the
// backing service is not configured.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	gcsClient   *storage.Client

	jwtManager *helpers.JWTManager

	mailgunClient *mailer.Mailgun
	rabbitPub     *helpers.RabbitPublisher
	esClient      *elasticsearch.Client

	predictor *prediction.Client
	metrics   *observability.Manager
	gatherer  prometheus.Gatherer
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config {
	if cfg == nil {
		cfg = config.Load()
	}
	return cfg
}
func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return logger
}
func SetPGPool(p *pgxpool.Pool)    { pgPool = p }
func GetPGPool() *pgxpool.Pool     { return pgPool }
func SetRedis(r *redis.Client)     { redisClient = r }
func GetRedis() *redis.Client      { return redisClient }
func SetGCS(s *storage.Client)     { gcsClient = s }
func GetGCS() *storage.Client      { return gcsClient }
func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager {
	if jwtManager != nil {
		return jwtManager
	}
	c := GetConfig()
	jwtManager = helpers.NewJWTManager(c.JWTSecret, c.TokenTTL)
	return jwtManager
}

func SetMailgun(m *mailer.Mailgun)            { mailgunClient = m }
func GetMailgun() *mailer.Mailgun             { return mailgunClient }
func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetES(c *elasticsearch.Client)           { esClient = c }
func GetES() *elasticsearch.Client            { return esClient }

func SetPredictor(p *prediction.Client) { predictor = p }
func GetPredictor() *prediction.Client {
	if predictor == nil {
		c := GetConfig()
		predictor = prediction.NewClient(c.PredictionURL, c.PredictionTimeout)
	}
	return predictor
}

// SetMetrics stores the metrics manager and the gatherer serving /metrics.
func SetMetrics(m *observability.Manager, g prometheus.Gatherer) {
	metrics = m
	gatherer = g
}
func GetMetrics() *observability.Manager { return metrics }
func GetGatherer() prometheus.Gatherer {
	if gatherer == nil {
		return prometheus.DefaultGatherer
	}
	return gatherer
}

// Reset clears every singleton. Tests use it between router setups.
func Reset() {
	cfg, logger, pgPool, redisClient, gcsClient = nil, nil, nil, nil, nil
	jwtManager, mailgunClient, rabbitPub, esClient = nil, nil, nil, nil
	predictor, metrics, gatherer = nil, nil, nil
}
