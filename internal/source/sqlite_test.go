package source

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLite_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "buildings.db")

	require.NoError(t, WriteSQLite(ctx, dsn, "buildings", sampleRecords))

	records, err := ReadSQLite(ctx, dsn, "buildings")
	require.NoError(t, err)
	require.Len(t, records, len(sampleRecords))
	for i, want := range sampleRecords {
		assert.Equal(t, want.Code, records[i].Code)
		assert.Equal(t, want.FullName, records[i].FullName)
		assert.ElementsMatch(t, want.Aliases, records[i].Aliases)
	}
}

func TestSQLite_WriteReplacesContents(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "buildings.db")

	require.NoError(t, WriteSQLite(ctx, dsn, "buildings", sampleRecords))
	require.NoError(t, WriteSQLite(ctx, dsn, "buildings", sampleRecords[:1]))

	records, err := ReadSQLite(ctx, dsn, "buildings")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ERIE", records[0].Code)
}

func TestSQLite_NullColumns(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "buildings.db")
	require.NoError(t, WriteSQLite(ctx, dsn, "buildings", nil))

	db, err := openSQLite(dsn)
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck
	_, err = db.Exec(`INSERT INTO buildings (code, full_name, aliases) VALUES ('DH', 'Dillon Hall', NULL)`)
	require.NoError(t, err)

	records, err := readSQLiteDB(ctx, db, "buildings")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Dillon Hall", records[0].FullName)
	assert.Empty(t, records[0].Aliases)
}

func TestSQLite_InvalidTable(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "buildings.db")

	_, err := ReadSQLite(ctx, dsn, "buildings; DROP TABLE x")
	assert.Error(t, err)
	assert.Error(t, WriteSQLite(ctx, dsn, "1bad", sampleRecords))
}

func TestSQLite_MissingTable(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "other.db")
	require.NoError(t, WriteSQLite(ctx, dsn, "rooms", sampleRecords))

	_, err := ReadSQLite(ctx, dsn, "buildings")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such table")
}

func TestSQLite_MissingFile(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "missing.db")

	_, err := ReadSQLite(ctx, dsn, "buildings")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such file or directory")
	assert.NoFileExists(t, dsn)
}

func TestWrite_SQLite(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "out.sqlite")

	require.NoError(t, Write(ctx, Spec{Location: dsn}, sampleRecords))
	records, err := ReadSQLite(ctx, dsn, DefaultTable)
	require.NoError(t, err)
	assert.Len(t, records, len(sampleRecords))
}

func TestWrite_Unsupported(t *testing.T) {
	err := Write(context.Background(), Spec{Location: "buildings.yaml"}, sampleRecords)
	assert.Error(t, err)
}
