package db

import (
	// 外部依赖
	"context"
	"fmt"
	"time"

	postgres "gorm.io/driver/postgres"
	gorm "gorm.io/gorm"
	glog "gorm.io/gorm/logger"
	tracing "gorm.io/plugin/opentelemetry/tracing"

	// 内部引用
	logger "github.com/naturlab/genlab/service/pkg/middleware/logger"
)

type LogConf struct {
	Level string
}

type Config struct {
	Host   string
	Port   int
	User   string
	PW     string
	DBName string
	LogConf
}

type Datastore struct {
	db *gorm.DB
}

var ins *Datastore

type txKey struct{}

// InitPostgres opens the database handle used by every repo.
func InitPostgres(ctx context.Context, conf *Config) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		conf.Host, conf.Port, conf.User, conf.PW, conf.DBName)

	level := glog.Warn
	if conf.Level == "debug" {
		level = glog.Info
	}

	g, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         glog.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		logger.Fatalf(ctx, "init postgres fail err: %+v", err)
	}
	if err := g.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		logger.Fatalf(ctx, "init gorm tracing fail err: %+v", err)
	}

	sqlDB, err := g.DB()
	if err != nil {
		logger.Fatalf(ctx, "get sql db fail err: %+v", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	ins = &Datastore{db: g}
}

// InitWithDB installs an already opened handle. Tests use this with an
// in-memory sqlite database.
func InitWithDB(g *gorm.DB) {
	ins = &Datastore{db: g}
}

func ClosePostgres(_ context.Context) {
	if ins == nil {
		return
	}
	if sqlDB, err := ins.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func DB() *Datastore {
	return ins
}

func (d *Datastore) DBIns() *gorm.DB {
	return d.db
}

// DBWithContext resolves the ambient transaction if the context carries
// one, otherwise the shared handle.
func (d *Datastore) DBWithContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return d.db.WithContext(ctx)
}

// ExecTx runs fn inside a database transaction and stores the tx handle
// in the derived context so nested repo calls join it. A nested ExecTx
// reuses the enclosing transaction rather than opening a second one.
func (d *Datastore) ExecTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if InTx(ctx) {
		return fn(ctx)
	}
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// InTx reports whether ctx carries an open transaction. Core operations
// with multi-row effects assert this before touching rows.
func InTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*gorm.DB)
	return ok
}
