package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"

	"github.com/Roma7-7-7/story-learning/internal/dal"
)

type (
	Client interface {
		ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
		QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
		QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	}

	Repository struct {
		db      *sql.DB
		client  Client
		queries *dal.Queries
		log     *slog.Logger
	}
)

func NewRepository(db *sql.DB, log *slog.Logger) *Repository {
	return newSQLRepository(db, db, dal.NewQueries(), log)
}

func (r *Repository) Transact(ctx context.Context, txFunc func(r dal.Repository) error) error {
	if _, ok := r.client.(*sql.Tx); ok {
		// already in a transaction
		return txFunc(r)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // ignore rollback errors

	if err = txFunc(newSQLRepository(r.db, tx, r.queries.Clone(), r.log)); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

func (r *Repository) exec(ctx context.Context, query squirrel.Sqlizer) (sql.Result, error) {
	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return r.client.ExecContext(ctx, sqlQuery, args...)
}

func (r *Repository) queryRow(ctx context.Context, query squirrel.Sqlizer) (*sql.Row, error) {
	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return r.client.QueryRowContext(ctx, sqlQuery, args...), nil
}

func (r *Repository) count(ctx context.Context, query squirrel.Sqlizer) (int, error) {
	row, err := r.queryRow(ctx, query)
	if err != nil {
		return 0, err
	}
	var res int
	if err = row.Scan(&res); err != nil {
		return 0, err
	}
	return res, nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return dal.ErrNotFound
	}
	return err
}

func newSQLRepository(db *sql.DB, client Client, queries *dal.Queries, log *slog.Logger) *Repository {
	return &Repository{db: db, client: client, queries: queries, log: log}
}
