package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"socialapi/configs"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
	"gorm.io/plugin/opentelemetry/tracing"
)

// Store is the process-wide connection handle. It is created once at boot
// and closed at shutdown.
type Store struct{ Base *gorm.DB }

func New(base *gorm.DB) *Store { return &Store{Base: base} }

// Read may be served by a replica.
func (s *Store) Read(ctx context.Context) *gorm.DB {
	return s.Base.WithContext(ctx)
}

// Write always goes to the primary; use it for read-after-write checks too.
func (s *Store) Write(ctx context.Context) *gorm.DB {
	return s.Base.WithContext(ctx).Clauses(dbresolver.Write)
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.Base.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.Base.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func Open(cfg *configs.Config) (*Store, error) {
	base, err := openWithRetry(cfg.DSN(), 8, time.Second)
	if err != nil {
		return nil, errors.Wrap(err, "db open")
	}

	sqlDB, _ := base.DB()
	sqlDB.SetMaxOpenConns(40)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if dsns := cfg.ReplicaDSNs(); len(dsns) > 0 {
		var replicas []gorm.Dialector
		for _, d := range dsns {
			replicas = append(replicas, postgres.Open(d))
		}
		r := dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		}).
			SetMaxOpenConns(40).
			SetMaxIdleConns(10).
			SetConnMaxLifetime(30 * time.Minute)
		if err := base.Use(r); err != nil {
			return nil, errors.Wrap(err, "dbresolver")
		}
		log.WithField("replicas", len(replicas)).Info("db read replicas registered")
	}

	if err := base.Use(tracing.NewPlugin()); err != nil {
		return nil, errors.Wrap(err, "db tracing")
	}
	return &Store{Base: base}, nil
}

func gormLogger() logger.Interface {
	return logger.New(log.StandardLogger(), logger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

func openWithRetry(dsn string, attempts int, sleep time.Duration) (*gorm.DB, error) {
	var last error
	for i := 1; i <= attempts; i++ {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLogger()})
		if err == nil {
			if s, e := db.DB(); e == nil && s != nil {
				if perr := pingWithTimeout(s, 2*time.Second); perr == nil {
					return db, nil
				} else {
					last = perr
				}
			} else {
				last = e
			}
		} else {
			last = err
		}
		log.WithError(last).WithField("attempt", i).Warn("db not ready, retrying")
		time.Sleep(sleep)
		if sleep < 8*time.Second {
			sleep *= 2
		}
	}
	return nil, last
}

func pingWithTimeout(sqlDB *sql.DB, timeout time.Duration) error {
	done := make(chan error, 1)
	go func() { done <- sqlDB.Ping() }()
	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("db ping timeout after %s", timeout)
	}
}
