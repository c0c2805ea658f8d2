package source

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/campusbot/whereis/internal/building"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// validIdent reports whether s is a plain (optionally schema-qualified) SQL identifier.
func validIdent(s string) bool {
	return identRe.MatchString(s)
}

// openSQLite opens a SQLite database and configures WAL mode.
func openSQLite(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return db, nil
}

// ReadSQLite loads the catalog table in insertion (rowid) order. The aliases
// column holds ';' or '|' separated values and may be NULL. A plain file path
// must already exist.
func ReadSQLite(ctx context.Context, dsn, table string) ([]building.Record, error) {
	if !validIdent(table) {
		return nil, eris.Errorf("sqlite: invalid table name %q", table)
	}
	if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		if _, err := os.Stat(dsn); err != nil {
			return nil, eris.Wrapf(err, "sqlite: open %s", dsn)
		}
	}

	db, err := openSQLite(dsn)
	if err != nil {
		return nil, err
	}
	defer db.Close() //nolint:errcheck

	return readSQLiteDB(ctx, db, table)
}

func readSQLiteDB(ctx context.Context, db *sql.DB, table string) ([]building.Record, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(
		`SELECT COALESCE(code, ''), COALESCE(full_name, ''), COALESCE(aliases, '') FROM %s ORDER BY rowid`, table))
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: query %s", table)
	}
	defer rows.Close() //nolint:errcheck

	var records []building.Record
	for rows.Next() {
		var r building.Record
		var aliases string
		if err := rows.Scan(&r.Code, &r.FullName, &aliases); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan building")
		}
		r.Aliases = building.SplitAliases(aliases)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate buildings")
	}
	return records, nil
}

// WriteSQLite replaces the contents of table with records, preserving order.
func WriteSQLite(ctx context.Context, dsn, table string, records []building.Record) error {
	if !validIdent(table) {
		return eris.Errorf("sqlite: invalid table name %q", table)
	}

	db, err := openSQLite(dsn)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	migration := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	code      TEXT NOT NULL,
	full_name TEXT NOT NULL,
	aliases   TEXT
)`, table)
	if _, err := tx.ExecContext(ctx, migration); err != nil {
		return eris.Wrapf(err, "sqlite: create %s", table)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, table)); err != nil {
		return eris.Wrapf(err, "sqlite: clear %s", table)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO %s (code, full_name, aliases) VALUES (?, ?, ?)`, table))
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close() //nolint:errcheck

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.Code, r.FullName, building.JoinAliases(r.Aliases)); err != nil {
			return eris.Wrapf(err, "sqlite: insert %s", r.Code)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit")
}
