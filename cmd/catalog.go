package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pterm/pterm"
	"github.com/rotisserie/eris"

	"github.com/campusbot/whereis/internal/building"
	"github.com/campusbot/whereis/internal/config"
	"github.com/campusbot/whereis/internal/resolve"
	"github.com/campusbot/whereis/internal/source"
)

// newLoader builds the catalog loader from config. Tests replace it.
var newLoader = func(c *config.Config) *source.Loader {
	timeout := time.Duration(c.Fetch.TimeoutSecs) * time.Second
	return source.NewLoader(
		source.HTTPOptions{Timeout: timeout, MaxRetries: c.Fetch.MaxRetries},
		source.FTPOptions{Timeout: timeout},
	)
}

func sourceSpec(c *config.Config) source.Spec {
	return source.Spec{
		Location:    c.Catalog.Source,
		Format:      source.Format(c.Catalog.Format),
		Table:       c.Catalog.Table,
		OrderColumn: c.Catalog.OrderColumn,
		Sheet:       c.Catalog.Sheet,
		NotionToken: c.Notion.Token,
	}
}

func loadCatalog(ctx context.Context, c *config.Config) (*building.Catalog, error) {
	records, err := newLoader(c).Load(ctx, sourceSpec(c))
	if err != nil {
		return nil, eris.Wrap(err, "load catalog")
	}
	return building.Load(records)
}

func buildResolver(ctx context.Context, c *config.Config) (*resolve.Resolver, error) {
	cat, err := loadCatalog(ctx, c)
	if err != nil {
		return nil, err
	}
	return resolve.New(cat, resolve.WithThreshold(c.Resolver.Threshold))
}

// describeLoadError expands a CatalogError into one line per problem.
func describeLoadError(w io.Writer, err error) {
	ce, ok := building.AsCatalogError(err)
	if !ok {
		_, _ = fmt.Fprint(w, pterm.Error.Sprintln(err.Error()))
		return
	}
	_, _ = fmt.Fprint(w, pterm.Error.Sprintf("catalog has %d problem(s)\n", len(ce.Problems)))
	for _, p := range ce.Problems {
		_, _ = fmt.Fprintf(w, "  - %s\n", p)
	}
}

func renderList(w io.Writer, r *resolve.Resolver) error {
	codes, names := r.ListAll()
	data := pterm.TableData{{"Code", "Full Name"}}
	for i := range codes {
		data = append(data, []string{codes[i], names[i]})
	}
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return eris.Wrap(err, "render building list")
	}
	_, err = fmt.Fprintln(w, out)
	return err
}
