// Package postgres implementa los repositorios sobre Postgres con database/sql
// y el driver stdlib de pgx.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"vetadmin/internal/clinic"
	"vetadmin/internal/platform/apperr"

	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed schema.sql
var schema string

// Open abre una conexión pool a Postgres usando pgx (database/sql).
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate aplica schema.sql. Todas las sentencias son idempotentes.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("postgres: migrate: %w", err)
	}
	return nil
}

// NewRepositories arma el juego completo de repositorios sobre db.
func NewRepositories(db *sql.DB) clinic.Repositories {
	return clinic.Repositories{
		Clients:      NewClientsRepo(db),
		Pets:         NewPetsRepo(db),
		Catalog:      NewCatalogRepo(db),
		Products:     NewProductsRepo(db),
		Sales:        NewSalesRepo(db),
		Payments:     NewPaymentsRepo(db),
		Appointments: NewAppointmentsRepo(db),
		Events:       NewEventsRepo(db),
		Records:      NewRecordsRepo(db),
		Expenses:     NewExpensesRepo(db),
	}
}

// rowScanner es lo común entre *sql.Row y *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func notFound(err error, entity, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(entity, id)
	}
	return err
}

// expectOne traduce 0 filas afectadas en NotFound.
func expectOne(res sql.Result, err error, entity, id string) error {
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.NotFound(entity, id)
	}
	return nil
}

func affected(res sql.Result, err error) (int, error) {
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func toNullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

// civil normaliza un DATE leído de Postgres a medianoche UTC.
func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
