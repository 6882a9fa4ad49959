package db

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/okothm/tutorledger-backend/internal/pkg/envutil"
	"github.com/okothm/tutorledger-backend/internal/pkg/logger"
)

type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

// New opens the relational store. DB_DRIVER=sqlite switches to a local file
// database for smoke runs; everything else goes through Postgres.
func New(logg *logger.Logger) (*Service, error) {
	serviceLog := logg.With("service", "DBService")

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	driver := strings.ToLower(envutil.GetEnv("DB_DRIVER", "postgres", logg))
	if driver == "sqlite" {
		path := envutil.GetEnv("SQLITE_PATH", "tutorledger.db", logg)
		sqliteDB, err := gorm.Open(sqlite.Open(path), &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
			Logger:                                   gormLog,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite at %s: %w", path, err)
		}
		return &Service{db: sqliteDB, log: serviceLog}, nil
	}

	pgHost := envutil.GetEnv("POSTGRES_HOST", "localhost", logg)
	pgPort := envutil.GetEnv("POSTGRES_PORT", "5432", logg)
	pgUser := envutil.GetEnv("POSTGRES_USER", "postgres", logg)
	pgPassword := envutil.GetEnv("POSTGRES_PASSWORD", "", logg)
	pgName := envutil.GetEnv("POSTGRES_NAME", "tutorledger", logg)

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		pgUser,
		pgPassword,
		pgHost,
		pgPort,
		pgName,
	)

	pgDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	if err := pgDB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
	}

	return &Service{db: pgDB, log: serviceLog}, nil
}

func (s *Service) DB() *gorm.DB { return s.db }
