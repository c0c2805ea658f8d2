package source

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/campusbot/whereis/internal/building"
)

// headerAliases maps accepted header spellings (lowercased, trimmed) to columns.
var headerAliases = map[string]string{
	"code":          "code",
	"building_code": "code",
	"full_name":     "full_name",
	"full name":     "full_name",
	"fullname":      "full_name",
	"name":          "full_name",
	"aliases":       "aliases",
	"alias":         "aliases",
}

// recordsFromTable converts a header row plus data rows (CSV, XLSX) into
// records. Rows with every cell blank are skipped; anything else becomes a
// record and is validated later by building.Load.
func recordsFromTable(rows [][]string) ([]building.Record, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	cols := map[string]int{}
	for i, h := range rows[0] {
		if col, ok := headerAliases[strings.ToLower(strings.TrimSpace(h))]; ok {
			if _, dup := cols[col]; !dup {
				cols[col] = i
			}
		}
	}
	for _, required := range []string{"code", "full_name"} {
		if _, ok := cols[required]; !ok {
			return nil, eris.Errorf("table: header is missing a %q column", required)
		}
	}

	cell := func(row []string, col string) string {
		i, ok := cols[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := make([]building.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		records = append(records, building.Record{
			Code:     cell(row, "code"),
			FullName: cell(row, "full_name"),
			Aliases:  building.SplitAliases(cell(row, "aliases")),
		})
	}
	return records, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
