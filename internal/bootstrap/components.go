// Package bootstrap wires configuration into running components.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/preventia/risk-api/internal/advisory"
	"github.com/preventia/risk-api/internal/api"
	"github.com/preventia/risk-api/internal/cache"
	"github.com/preventia/risk-api/internal/chat"
	"github.com/preventia/risk-api/internal/config"
	"github.com/preventia/risk-api/internal/genai"
	"github.com/preventia/risk-api/internal/logging"
	"github.com/preventia/risk-api/internal/model"
	"github.com/preventia/risk-api/internal/prediction"
	"github.com/preventia/risk-api/internal/schema"
	"github.com/preventia/risk-api/internal/telemetry"
)

const defaultHTTPTimeout = 30 * time.Second

// HTTPComponents holds all components needed for the HTTP server.
type HTTPComponents struct {
	DB      *sqlx.DB
	Handler *api.Handler
	Server  *api.Server
	Service *prediction.Service
}

// NewHTTPComponents creates all components for the HTTP server.
func NewHTTPComponents(cfg *config.Config, logger logging.Logger) (*HTTPComponents, error) {
	registry, err := schema.NewRegistry(thresholdOverrides(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("build schema registry: %w", err)
	}

	models := buildModels(cfg, logger)
	tp := telemetry.NewProvider()
	provider := buildProvider(cfg, tp, logger)

	advisoryCache := cache.New(cfg.Advisory.CacheTTL)
	chatCache := cache.New(cfg.Chat.CacheTTL)

	advisor := advisory.NewGenerator(provider, advisoryCache, logger)

	var classifier chat.Classifier
	if cfg.Chat.SentimentURL != "" {
		classifier = chat.NewHTTPClassifier(cfg.Chat.SentimentURL)
		logger.Info("sentiment classifier enabled", logging.String("url", cfg.Chat.SentimentURL))
	}
	responder := chat.NewResponder(classifier, provider, chatCache, logger, cfg.Chat.BotName)

	db, history, err := SetupHistory(cfg, logger)
	if err != nil {
		return nil, err
	}

	var historyWriter prediction.HistoryWriter
	var statsReader api.StatsReader
	if history != nil {
		historyWriter = history
		statsReader = history
	}

	service := prediction.NewService(registry, models, advisor, historyWriter, tp, logger, cfg.Service.TopK)
	batch := prediction.NewBatchProcessor(service, cfg.Service.Concurrency, logger)

	handler := api.NewHandler(service, batch, responder, advisoryCache, chatCache, statsReader,
		tp, logger, cfg.Service.Name, cfg.Service.Version)

	server := api.NewServer(handler, tp.Handler(), api.ServerConfig{
		Port:         cfg.Service.Port,
		ReadTimeout:  defaultHTTPTimeout,
		WriteTimeout: defaultHTTPTimeout,
		Debug:        cfg.Service.Debug,
	}, logger)

	return &HTTPComponents{
		DB:      db,
		Handler: handler,
		Server:  server,
		Service: service,
	}, nil
}

// HTTPShutdownTimeout returns the timeout for HTTP server graceful shutdown.
func HTTPShutdownTimeout() time.Duration {
	return defaultHTTPTimeout
}

// thresholdOverrides collects configured tier-table overrides. A disease
// overrides its table only when both boundaries are set.
func thresholdOverrides(cfg *config.Config) []schema.ThresholdOverride {
	var overrides []schema.ThresholdOverride
	for disease, mc := range modelConfigs(cfg) {
		if mc.ThresholdHigh > 0 && mc.ThresholdModerate > 0 {
			overrides = append(overrides, schema.ThresholdOverride{
				Disease:  disease,
				High:     mc.ThresholdHigh,
				Moderate: mc.ThresholdModerate,
			})
		}
	}
	return overrides
}

// buildModels creates an HTTP model client per enabled disease.
func buildModels(cfg *config.Config, logger logging.Logger) map[string]model.Model {
	models := make(map[string]model.Model)
	for disease, mc := range modelConfigs(cfg) {
		if !mc.Enabled || mc.URL == "" {
			logger.Info("model disabled", logging.String("disease", disease))
			continue
		}
		models[disease] = model.NewClient(mc.URL)
		logger.Info("model client configured",
			logging.String("disease", disease),
			logging.String("url", mc.URL),
		)
	}
	return models
}

// buildProvider creates the generative text client, or nil when no API key
// is configured. Downstream components treat nil as disabled.
func buildProvider(cfg *config.Config, tp *telemetry.Provider, logger logging.Logger) genai.Generator {
	if cfg.Advisory.APIKey == "" {
		logger.Info("generative provider disabled, advice and chat use fallbacks")
		return nil
	}
	return genai.NewClient(genai.Config{
		BaseURL:   cfg.Advisory.ProviderURL,
		Model:     cfg.Advisory.ProviderModel,
		APIKey:    cfg.Advisory.APIKey,
		Timeout:   cfg.Advisory.Timeout,
		RPS:       cfg.Advisory.RPS,
		OnFailure: func(ctx context.Context) { tp.RecordProviderFailure(ctx) },
	}, logger)
}

func modelConfigs(cfg *config.Config) map[string]config.ModelConfig {
	return map[string]config.ModelConfig{
		"diabetes":     cfg.Models.Diabetes,
		"hypertension": cfg.Models.Hypertension,
		"stroke":       cfg.Models.Stroke,
	}
}
