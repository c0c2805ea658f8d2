package source

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/campusbot/whereis/internal/building"
)

// Write stores records at a SQLite or Postgres location, replacing the
// table's previous contents. A local path without a known extension is
// treated as a SQLite file.
func Write(ctx context.Context, spec Spec, records []building.Record) error {
	format := spec.Format
	if format == FormatAuto {
		f, err := Detect(spec.Location)
		switch {
		case err == nil:
			format = f
		case IsLocalFile(spec.Location):
			format = FormatSQLite
		default:
			return err
		}
	}

	table := spec.Table
	if table == "" {
		table = DefaultTable
	}

	switch format {
	case FormatSQLite:
		return WriteSQLite(ctx, strings.TrimPrefix(spec.Location, "sqlite://"), table, records)
	case FormatPostgres:
		orderColumn := spec.OrderColumn
		if orderColumn == "" {
			orderColumn = DefaultOrderColumn
		}
		pool, err := openPostgres(ctx, spec.Location)
		if err != nil {
			return err
		}
		defer pool.Close()
		return WritePostgres(ctx, pool, table, orderColumn, records)
	}
	return eris.Errorf("source: cannot write %s catalogs", format)
}
