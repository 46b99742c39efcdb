// Package migrations схема БД сервиса слотов, встроенная в бинарник и применяемая через goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var files embed.FS

const dialect = "postgres"

// Logger интерфейс логгера мигратора
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Migrator обертка над goose
type Migrator struct {
	db     *sql.DB
	logger Logger
}

// NewMigrator создает мигратор поверх встроенных SQL файлов
func NewMigrator(db *sql.DB, logger Logger) (*Migrator, error) {
	goose.SetBaseFS(files)
	if err := goose.SetDialect(dialect); err != nil {
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	goose.SetLogger(gooseLogger{logger: logger})

	return &Migrator{db: db, logger: logger}, nil
}

// Up применяет все pending миграции
func (m *Migrator) Up(ctx context.Context) error {
	m.logger.Info("Applying database migrations...")

	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, err := m.Version(ctx)
	if err != nil {
		return err
	}
	m.logger.Info("Migrations applied, version=%d", version)
	return nil
}

// Status выводит состояние каждой миграции в лог
func (m *Migrator) Status(ctx context.Context) error {
	if err := goose.StatusContext(ctx, m.db, "."); err != nil {
		return fmt.Errorf("migrations status: %w", err)
	}
	return nil
}

// Version текущая версия схемы
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	version, err := goose.GetDBVersionContext(ctx, m.db)
	if err != nil {
		return 0, fmt.Errorf("get version: %w", err)
	}
	return version, nil
}

// gooseLogger перенаправляет вывод goose в логгер сервиса
type gooseLogger struct {
	logger Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(format, v...)
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(format, v...)
}
