package source

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/campusbot/whereis/internal/building"
	"github.com/campusbot/whereis/pkg/notion"
)

// Notion property names read from a building database.
const (
	NotionPropCode     = "Code"
	NotionPropFullName = "Full Name"
	NotionPropAliases  = "Aliases"
)

// ReadNotion loads every page of a Notion building database, oldest first.
// Pages missing a code or full name are returned as-is so the catalog
// loader can report them.
func ReadNotion(ctx context.Context, client notion.Querier, dbID string) ([]building.Record, error) {
	pages, err := notion.PagesInCreationOrder(ctx, client, dbID)
	if err != nil {
		return nil, eris.Wrap(err, "notion: read buildings")
	}

	records := make([]building.Record, 0, len(pages))
	for _, p := range pages {
		records = append(records, parseBuildingPage(p))
	}

	zap.L().Debug("notion: read buildings",
		zap.String("database_id", dbID),
		zap.Int("pages", len(pages)),
	)
	return records, nil
}

func parseBuildingPage(p notionapi.Page) building.Record {
	var r building.Record
	r.Code = textProperty(p.Properties[NotionPropCode])
	r.FullName = textProperty(p.Properties[NotionPropFullName])

	switch prop := p.Properties[NotionPropAliases].(type) {
	case *notionapi.MultiSelectProperty:
		for _, opt := range prop.MultiSelect {
			r.Aliases = append(r.Aliases, opt.Name)
		}
	case *notionapi.RichTextProperty:
		r.Aliases = building.SplitAliases(notion.PlainText(prop.RichText))
	}
	return r
}

// textProperty reads a title or rich_text property as plain text.
func textProperty(prop notionapi.Property) string {
	switch v := prop.(type) {
	case *notionapi.TitleProperty:
		return notion.PlainText(v.Title)
	case *notionapi.RichTextProperty:
		return notion.PlainText(v.RichText)
	}
	return ""
}
