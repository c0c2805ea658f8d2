package source

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/campusbot/whereis/internal/building"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

var sampleRecords = []building.Record{
	{Code: "ERIE", FullName: "Erie Hall"},
	{Code: "LBJ", FullName: "LBJ Library", Aliases: []string{"Library", "Leddy"}},
	{Code: "CAW", FullName: "CAW Student Centre", Aliases: []string{"Student Centre"}},
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// buildXLSX creates an in-memory workbook with one sheet of rows.
func buildXLSX(t *testing.T, sheetName string, rows [][]string) []byte {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	require.NoError(t, err)
	for _, r := range rows {
		row := sheet.AddRow()
		for _, v := range r {
			row.AddCell().SetString(v)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

// stubDownloader serves fixed bodies keyed by URL.
type stubDownloader struct {
	bodies map[string]string
	calls  []string
}

func (s *stubDownloader) Download(_ context.Context, url string) (io.ReadCloser, error) {
	s.calls = append(s.calls, url)
	body, ok := s.bodies[url]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(bytes.NewBufferString(body)), nil
}
