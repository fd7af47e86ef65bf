package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/preventia/risk-api/internal/config"
	"github.com/preventia/risk-api/internal/database"
	"github.com/preventia/risk-api/internal/logging"
)

const migrateTimeout = 10 * time.Second

// SetupHistory connects the prediction history database and runs migrations.
// Returns nils without error when history is disabled.
func SetupHistory(cfg *config.Config, logger logging.Logger) (*sqlx.DB, *database.PredictionHistoryRepository, error) {
	if !cfg.Database.Enabled {
		logger.Info("prediction history disabled")
		return nil, nil, nil
	}

	dbConfig := database.Config{
		Driver:   cfg.Database.Driver,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Database,
		SSLMode:  cfg.Database.SSLMode,
		Path:     cfg.Database.Path,
	}

	logger.Info("connecting prediction history database",
		logging.String("driver", dbConfig.Driver),
		logging.String("host", dbConfig.Host),
		logging.String("database", dbConfig.DBName),
	)

	db, err := database.Connect(dbConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()
	if err := database.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}

	logger.Info("prediction history database ready")

	return db, database.NewPredictionHistoryRepository(db), nil
}
