package app

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/RockySheoran/supabase-login-demo/internal/config"
	"github.com/RockySheoran/supabase-login-demo/internal/db"

	_ "github.com/lib/pq"
)

type Infra struct {
	DB *sql.DB
}

func setupInfra(ctx context.Context, cfg config.Config, log *zap.Logger) (*Infra, error) {
	sqlDB, err := sql.Open("postgres", cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := db.RunMigration(ctx, sqlDB); err != nil {
		return nil, err
	}

	log.Info("database ready")

	return &Infra{DB: sqlDB}, nil
}
