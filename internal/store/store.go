// Package store selects the persistence driver and hands out one repository per
// aggregate.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-inventory-service/config"
	"github.com/fekuna/omnipos-inventory-service/internal/alert"
	alertRepo "github.com/fekuna/omnipos-inventory-service/internal/alert/repository"
	"github.com/fekuna/omnipos-inventory-service/internal/dashboard"
	dashRepo "github.com/fekuna/omnipos-inventory-service/internal/dashboard/repository"
	"github.com/fekuna/omnipos-inventory-service/internal/depot"
	depotRepo "github.com/fekuna/omnipos-inventory-service/internal/depot/repository"
	"github.com/fekuna/omnipos-inventory-service/internal/product"
	prodRepo "github.com/fekuna/omnipos-inventory-service/internal/product/repository"
	"github.com/fekuna/omnipos-inventory-service/internal/reconcile"
	recRepo "github.com/fekuna/omnipos-inventory-service/internal/reconcile/repository"
	"github.com/fekuna/omnipos-inventory-service/internal/store/memory"
	"github.com/fekuna/omnipos-inventory-service/internal/transaction"
	txRepo "github.com/fekuna/omnipos-inventory-service/internal/transaction/repository"
	"github.com/fekuna/omnipos-inventory-service/pkg/database/postgres"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"go.uber.org/zap"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Repositories struct {
	Products     product.Repository
	Depots       depot.Repository
	Transactions transaction.Repository
	Alerts       alert.Repository
	Reconcile    reconcile.Repository
	Dashboard    dashboard.Repository

	close func() error
}

func (r *Repositories) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

func Open(ctx context.Context, cfg *config.Config, log logger.ZapLogger) (*Repositories, error) {
	switch cfg.Storage.Driver {
	case DriverMemory:
		log.Warn("Using in-memory storage, data is lost on exit")
		s := memory.New()
		return &Repositories{
			Products:     s.Products(),
			Depots:       s.Depots(),
			Transactions: s.Transactions(),
			Alerts:       s.Alerts(),
			Reconcile:    s.Reconcile(),
			Dashboard:    s.Dashboard(),
		}, nil

	case DriverPostgres, "":
		db, err := postgres.NewPostgres(&postgres.Config{
			Host:            cfg.Postgres.Host,
			Port:            cfg.Postgres.Port,
			User:            cfg.Postgres.User,
			Password:        cfg.Postgres.Password,
			DBName:          cfg.Postgres.DBName,
			SSLMode:         cfg.Postgres.SSLMode,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
			ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
		})
		if err != nil {
			return nil, err
		}
		log.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

		if cfg.Postgres.AutoMigrate {
			if err := postgres.Migrate(ctx, db); err != nil {
				db.Close()
				return nil, err
			}
			log.Info("Database schema is up to date")
		}

		return &Repositories{
			Products:     prodRepo.NewPGRepository(db),
			Depots:       depotRepo.NewPGRepository(db),
			Transactions: txRepo.NewPGRepository(db),
			Alerts:       alertRepo.NewPGRepository(db),
			Reconcile:    recRepo.NewPGRepository(db),
			Dashboard:    dashRepo.NewPGRepository(db),
			close:        db.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
