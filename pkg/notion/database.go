package notion

import (
	"context"
	"strings"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
)

// byCreation lists pages oldest first. Catalog order is the order rows were
// added, so later edits to a page do not move it.
var byCreation = []notionapi.SortObject{
	{Timestamp: notionapi.TimestampCreated, Direction: notionapi.SortOrderASC},
}

// PagesInCreationOrder returns every page of database dbID, oldest first,
// following pagination cursors until Notion reports no more results.
func PagesInCreationOrder(ctx context.Context, q Querier, dbID string) ([]notionapi.Page, error) {
	if dbID == "" {
		return nil, eris.New("notion: database id is required")
	}

	var pages []notionapi.Page
	var cursor notionapi.Cursor
	for batch := 1; ; batch++ {
		resp, err := q.QueryDatabase(ctx, dbID, &notionapi.DatabaseQueryRequest{
			Sorts:       byCreation,
			StartCursor: cursor,
			PageSize:    MaxPageSize,
		})
		if err != nil {
			return nil, eris.Wrapf(err, "notion: read batch %d of %s", batch, dbID)
		}
		pages = append(pages, resp.Results...)

		if !resp.HasMore || resp.NextCursor == "" {
			return pages, nil
		}
		cursor = resp.NextCursor
	}
}

// PlainText joins the plain-text runs of a title or rich-text value.
func PlainText(rts []notionapi.RichText) string {
	var b strings.Builder
	for _, rt := range rts {
		b.WriteString(rt.PlainText)
	}
	return b.String()
}
