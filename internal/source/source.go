// Package source reads building records from the catalog locations the
// service supports: local files, HTTP and FTP URLs, SQLite, Postgres and
// Notion databases.
package source

import (
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/campusbot/whereis/internal/building"
	"github.com/campusbot/whereis/pkg/notion"
)

// Format names a catalog encoding.
type Format string

// Supported catalog formats.
const (
	FormatAuto     Format = ""
	FormatYAML     Format = "yaml"
	FormatJSON     Format = "json"
	FormatTOML     Format = "toml"
	FormatCSV      Format = "csv"
	FormatXLSX     Format = "xlsx"
	FormatSQLite   Format = "sqlite"
	FormatPostgres Format = "postgres"
	FormatNotion   Format = "notion"
)

// MaxDocumentBytes caps how much of a file or remote document is read.
const MaxDocumentBytes = 32 << 20

// Default table settings for database sources.
const (
	DefaultTable       = "buildings"
	DefaultOrderColumn = "position"
)

// Spec describes where a catalog lives and how to read it.
type Spec struct {
	Location    string
	Format      Format // FormatAuto infers it from Location
	Table       string // sqlite, postgres
	OrderColumn string // postgres
	Sheet       string // xlsx
	NotionToken string
}

// Detect infers the catalog format from a location.
func Detect(location string) (Format, error) {
	loc := strings.TrimSpace(location)
	if loc == "" {
		return FormatAuto, eris.New("source: empty catalog location")
	}
	lower := strings.ToLower(loc)

	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return FormatPostgres, nil
	case strings.HasPrefix(lower, "notion://"):
		return FormatNotion, nil
	case strings.HasPrefix(lower, "sqlite://"):
		return FormatSQLite, nil
	}

	path := loc
	if isRemote(lower) {
		u, err := url.Parse(loc)
		if err != nil {
			return FormatAuto, eris.Wrapf(err, "source: parse %s", loc)
		}
		path = u.Path
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".db", ".sqlite", ".sqlite3":
		if isRemote(lower) {
			return FormatAuto, eris.Errorf("source: sqlite databases must be local: %s", loc)
		}
		return FormatSQLite, nil
	}
	return FormatAuto, eris.Errorf("source: cannot infer format of %q", loc)
}

func isRemote(lower string) bool {
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "ftp://")
}

// PostgresOpener opens a query handle for a connection string. The returned
// func releases it.
type PostgresOpener func(ctx context.Context, connString string) (Querier, func(), error)

// NotionFactory builds a Notion client for an integration token.
type NotionFactory func(token string) notion.Querier

// Loader reads catalogs. The zero value is not usable; use NewLoader.
type Loader struct {
	HTTP     Downloader
	FTP      Downloader
	Notion   NotionFactory
	Postgres PostgresOpener
}

// NewLoader creates a Loader backed by real network clients.
func NewLoader(httpOpts HTTPOptions, ftpOpts FTPOptions) *Loader {
	return &Loader{
		HTTP: NewHTTPFetcher(httpOpts),
		FTP:  NewFTPFetcher(ftpOpts),
		Notion: func(token string) notion.Querier {
			return notion.NewClient(token, notion.DefaultRequestsPerSecond)
		},
		Postgres: func(ctx context.Context, connString string) (Querier, func(), error) {
			pool, err := openPostgres(ctx, connString)
			if err != nil {
				return nil, nil, err
			}
			return pool, pool.Close, nil
		},
	}
}

// Load reads every record at spec.Location in source order. Records are not
// validated here; building.Load does that.
func (l *Loader) Load(ctx context.Context, spec Spec) ([]building.Record, error) {
	start := time.Now()

	format := spec.Format
	if format == FormatAuto {
		f, err := Detect(spec.Location)
		if err != nil {
			return nil, err
		}
		format = f
	}

	records, err := l.load(ctx, format, spec)
	if err != nil {
		return nil, err
	}

	zap.L().Info("source: catalog read",
		zap.String("location", Redact(spec.Location)),
		zap.String("format", string(format)),
		zap.Int("records", len(records)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return records, nil
}

func (l *Loader) load(ctx context.Context, format Format, spec Spec) ([]building.Record, error) {
	table := spec.Table
	if table == "" {
		table = DefaultTable
	}

	switch format {
	case FormatPostgres:
		if l.Postgres == nil {
			return nil, eris.New("source: postgres is not configured")
		}
		orderColumn := spec.OrderColumn
		if orderColumn == "" {
			orderColumn = DefaultOrderColumn
		}
		q, release, err := l.Postgres(ctx, spec.Location)
		if err != nil {
			return nil, err
		}
		defer release()
		return ReadPostgres(ctx, q, table, orderColumn)

	case FormatNotion:
		if l.Notion == nil {
			return nil, eris.New("source: notion is not configured")
		}
		if spec.NotionToken == "" {
			return nil, eris.New("source: notion.token is required for notion catalogs")
		}
		dbID := strings.Trim(strings.TrimPrefix(spec.Location, "notion://"), "/")
		return ReadNotion(ctx, l.Notion(spec.NotionToken), dbID)

	case FormatSQLite:
		return ReadSQLite(ctx, strings.TrimPrefix(spec.Location, "sqlite://"), table)
	}

	data, err := l.read(ctx, spec.Location)
	if err != nil {
		return nil, err
	}
	return Decode(ctx, format, data, XLSXOptions{SheetName: spec.Sheet})
}

// Decode parses an in-memory catalog document.
func Decode(ctx context.Context, format Format, data []byte, xlsxOpts XLSXOptions) ([]building.Record, error) {
	switch format {
	case FormatYAML:
		return DecodeYAML(data)
	case FormatJSON:
		return DecodeJSON(ctx, data)
	case FormatTOML:
		return DecodeTOML(data)
	case FormatCSV:
		return DecodeCSV(ctx, data)
	case FormatXLSX:
		return DecodeXLSX(data, xlsxOpts)
	}
	return nil, eris.Errorf("source: format %q cannot be decoded from a document", format)
}

// read returns the raw bytes at location, capped at MaxDocumentBytes.
func (l *Loader) read(ctx context.Context, location string) ([]byte, error) {
	var (
		rc  io.ReadCloser
		err error
	)
	lower := strings.ToLower(location)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		if l.HTTP == nil {
			return nil, eris.New("source: http is not configured")
		}
		rc, err = l.HTTP.Download(ctx, location)
	case strings.HasPrefix(lower, "ftp://"):
		if l.FTP == nil {
			return nil, eris.New("source: ftp is not configured")
		}
		rc, err = l.FTP.Download(ctx, location)
	default:
		rc, err = os.Open(location)
		if err != nil {
			err = eris.Wrapf(err, "source: open %s", location)
		}
	}
	if err != nil {
		return nil, err
	}
	defer rc.Close() //nolint:errcheck

	data, err := io.ReadAll(io.LimitReader(rc, MaxDocumentBytes+1))
	if err != nil {
		return nil, eris.Wrapf(err, "source: read %s", Redact(location))
	}
	if len(data) > MaxDocumentBytes {
		return nil, eris.Errorf("source: %s exceeds %d bytes", Redact(location), MaxDocumentBytes)
	}
	return data, nil
}

// Redact hides any password in a URL-shaped location for logging.
func Redact(location string) string {
	if !strings.Contains(location, "://") {
		return location
	}
	u, err := url.Parse(location)
	if err != nil {
		return location
	}
	return u.Redacted()
}

// IsLocalFile reports whether location names a file on disk that can be
// watched for changes.
func IsLocalFile(location string) bool {
	return location != "" && !strings.Contains(location, "://")
}
