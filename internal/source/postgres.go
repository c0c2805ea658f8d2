package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/campusbot/whereis/internal/building"
	"github.com/campusbot/whereis/internal/resilience"
)

// Querier is the subset of pgxpool.Pool used to read a catalog.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// postgresSQL builds the catalog query. aliases is a text[] column.
func postgresSQL(table, orderColumn string) string {
	return fmt.Sprintf(
		`SELECT code, full_name, COALESCE(aliases, '{}'::text[]) FROM %s ORDER BY %s`,
		pgx.Identifier(strings.Split(table, ".")).Sanitize(),
		pgx.Identifier{orderColumn}.Sanitize(),
	)
}

// ReadPostgres loads the catalog table ordered by orderColumn.
func ReadPostgres(ctx context.Context, q Querier, table, orderColumn string) ([]building.Record, error) {
	if !validIdent(table) {
		return nil, eris.Errorf("postgres: invalid table name %q", table)
	}
	if !validIdent(orderColumn) || strings.Contains(orderColumn, ".") {
		return nil, eris.Errorf("postgres: invalid order column %q", orderColumn)
	}

	rows, err := q.Query(ctx, postgresSQL(table, orderColumn))
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: query %s", table)
	}
	defer rows.Close()

	var records []building.Record
	for rows.Next() {
		var r building.Record
		if err := rows.Scan(&r.Code, &r.FullName, &r.Aliases); err != nil {
			return nil, eris.Wrap(err, "postgres: scan building")
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate buildings")
	}
	return records, nil
}

// openPostgres creates a small pool for a one-shot catalog read.
func openPostgres(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 2
	pgxCfg.MaxConnLifetime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := resilience.Do(ctx, "postgres ping", resilience.Policy{}, pool.Ping); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return pool, nil
}

// Beginner opens transactions. *pgxpool.Pool satisfies it.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// WritePostgres replaces the contents of table with records using COPY.
// The table is created if needed, with orderColumn holding catalog order.
func WritePostgres(ctx context.Context, db Beginner, table, orderColumn string, records []building.Record) error {
	if !validIdent(table) {
		return eris.Errorf("postgres: invalid table name %q", table)
	}
	if !validIdent(orderColumn) || strings.Contains(orderColumn, ".") {
		return eris.Errorf("postgres: invalid order column %q", orderColumn)
	}

	tableIdent := pgx.Identifier(strings.Split(table, "."))
	orderIdent := pgx.Identifier{orderColumn}

	tx, err := db.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	create := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	%s integer NOT NULL,
	code text NOT NULL,
	full_name text NOT NULL,
	aliases text[] NOT NULL DEFAULT '{}'
)`, tableIdent.Sanitize(), orderIdent.Sanitize())
	if _, err := tx.Exec(ctx, create); err != nil {
		return eris.Wrapf(err, "postgres: create %s", table)
	}
	if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s`, tableIdent.Sanitize())); err != nil {
		return eris.Wrapf(err, "postgres: clear %s", table)
	}

	rows := make([][]any, len(records))
	for i, r := range records {
		aliases := r.Aliases
		if aliases == nil {
			aliases = []string{}
		}
		rows[i] = []any{i + 1, r.Code, r.FullName, aliases}
	}
	if len(rows) > 0 {
		if _, err := tx.CopyFrom(ctx, tableIdent, []string{orderColumn, "code", "full_name", "aliases"}, pgx.CopyFromRows(rows)); err != nil {
			return eris.Wrapf(err, "postgres: COPY INTO %s", table)
		}
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit")
}
