package source

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/campusbot/whereis/pkg/notion"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		location string
		want     Format
	}{
		{"buildings.yaml", FormatYAML},
		{"conf/Buildings.YML", FormatYAML},
		{"buildings.json", FormatJSON},
		{"buildings.toml", FormatTOML},
		{"buildings.csv", FormatCSV},
		{"buildings.xlsx", FormatXLSX},
		{"buildings.db", FormatSQLite},
		{"buildings.sqlite3", FormatSQLite},
		{"sqlite:///var/lib/whereis/buildings", FormatSQLite},
		{"postgres://u:p@db/campus", FormatPostgres},
		{"postgresql://db/campus", FormatPostgres},
		{"notion://0123456789abcdef", FormatNotion},
		{"https://data.example.edu/buildings.json?v=2", FormatJSON},
		{"http://data.example.edu/export/buildings.csv", FormatCSV},
		{"ftp://ftp.example.edu/pub/buildings.xlsx", FormatXLSX},
	}
	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			got, err := Detect(tt.location)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetect_Errors(t *testing.T) {
	for _, loc := range []string{"", "   ", "buildings", "buildings.txt", "https://example.edu/buildings.db"} {
		_, err := Detect(loc)
		assert.Error(t, err, loc)
	}
}

func TestLoader_LocalFiles(t *testing.T) {
	ctx := context.Background()
	l := &Loader{}

	yamlPath := writeFile(t, "buildings.yaml", "- code: ERIE\n  full_name: Erie Hall\n")
	records, err := l.Load(ctx, Spec{Location: yamlPath})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ERIE", records[0].Code)

	csvPath := writeFile(t, "export.txt", "code,full_name\nDH,Dillon Hall\n")
	records, err = l.Load(ctx, Spec{Location: csvPath, Format: FormatCSV})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Dillon Hall", records[0].FullName)
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := (&Loader{}).Load(context.Background(), Spec{Location: filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}

func TestLoader_SQLite(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "campus.db")
	require.NoError(t, WriteSQLite(ctx, dsn, "halls", sampleRecords))

	records, err := (&Loader{}).Load(ctx, Spec{Location: "sqlite://" + dsn, Table: "halls"})
	require.NoError(t, err)
	assert.Len(t, records, len(sampleRecords))
}

func TestLoader_Remote(t *testing.T) {
	httpStub := &stubDownloader{bodies: map[string]string{
		"https://data.example.edu/buildings.json": `[{"code":"ERIE","full_name":"Erie Hall"}]`,
	}}
	ftpStub := &stubDownloader{bodies: map[string]string{
		"ftp://ftp.example.edu/buildings.toml": "[[buildings]]\ncode = \"LBJ\"\nfull_name = \"LBJ Library\"\n",
	}}
	l := &Loader{HTTP: httpStub, FTP: ftpStub}
	ctx := context.Background()

	records, err := l.Load(ctx, Spec{Location: "https://data.example.edu/buildings.json"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ERIE", records[0].Code)

	records, err = l.Load(ctx, Spec{Location: "ftp://ftp.example.edu/buildings.toml"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "LBJ", records[0].Code)

	_, err = l.Load(ctx, Spec{Location: "https://data.example.edu/missing.json"})
	assert.Error(t, err)
}

func TestLoader_RemoteNotConfigured(t *testing.T) {
	_, err := (&Loader{}).Load(context.Background(), Spec{Location: "https://example.edu/b.json"})
	assert.Error(t, err)
	_, err = (&Loader{}).Load(context.Background(), Spec{Location: "ftp://example.edu/b.json"})
	assert.Error(t, err)
}

func TestLoader_TooLarge(t *testing.T) {
	big := "[" + strings.Repeat(" ", MaxDocumentBytes) + "]"
	l := &Loader{HTTP: &stubDownloader{bodies: map[string]string{"https://x.edu/b.json": big}}}

	_, err := l.Load(context.Background(), Spec{Location: "https://x.edu/b.json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestLoader_Postgres(t *testing.T) {
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer pool.Close()

	pool.ExpectQuery(`FROM "buildings" ORDER BY "sort_key"`).
		WillReturnRows(pgxmock.NewRows([]string{"code", "full_name", "aliases"}).
			AddRow("ERIE", "Erie Hall", []string{"Erie"}))

	var gotConn string
	released := false
	l := &Loader{Postgres: func(_ context.Context, conn string) (Querier, func(), error) {
		gotConn = conn
		return pool, func() { released = true }, nil
	}}

	records, err := l.Load(context.Background(), Spec{
		Location:    "postgres://whereis@db/campus",
		OrderColumn: "sort_key",
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "postgres://whereis@db/campus", gotConn)
	assert.True(t, released)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestLoader_PostgresOpenError(t *testing.T) {
	l := &Loader{Postgres: func(context.Context, string) (Querier, func(), error) {
		return nil, nil, errors.New("connection refused")
	}}
	_, err := l.Load(context.Background(), Spec{Location: "postgres://db/campus"})
	assert.Error(t, err)
}

func TestLoader_Notion(t *testing.T) {
	mc := new(mockNotionClient)
	mc.On("QueryDatabase", mock.Anything, "abc123", mock.Anything).Return(&notionapi.DatabaseQueryResponse{
		Results: []notionapi.Page{makeBuildingPage("p1", "ERIE", "Erie Hall", nil)},
	}, nil).Once()

	var gotToken string
	l := &Loader{Notion: func(token string) notion.Querier {
		gotToken = token
		return mc
	}}

	records, err := l.Load(context.Background(), Spec{Location: "notion://abc123", NotionToken: "secret"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "secret", gotToken)
	mc.AssertExpectations(t)

	_, err = l.Load(context.Background(), Spec{Location: "notion://abc123"})
	assert.Error(t, err)
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "buildings.yaml", Redact("buildings.yaml"))
	assert.Equal(t, "postgres://whereis:xxxxx@db/campus", Redact("postgres://whereis:hunter2@db/campus"))
	assert.Equal(t, "https://data.example.edu/b.json", Redact("https://data.example.edu/b.json"))
}

func TestIsLocalFile(t *testing.T) {
	assert.True(t, IsLocalFile("buildings.yaml"))
	assert.False(t, IsLocalFile("https://example.edu/b.json"))
	assert.False(t, IsLocalFile(""))
}
