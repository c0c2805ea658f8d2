package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/campusbot/whereis/internal/asset"
	"github.com/campusbot/whereis/internal/command"
	"github.com/campusbot/whereis/internal/normalize"
)

var resolveImage bool

var resolveCmd = &cobra.Command{
	Use:   "resolve <query...>",
	Short: "Resolve a building name, code or misspelling",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("resolve"); err != nil {
			return err
		}
		r, err := buildResolver(cmd.Context(), cfg)
		if err != nil {
			describeLoadError(cmd.ErrOrStderr(), err)
			return err
		}

		out := cmd.OutOrStdout()
		query := strings.Join(args, " ")
		if normalize.Key(query) == command.ListQuery {
			return renderList(out, r)
		}

		m := r.ResolveOne(query)
		if !m.Found {
			if s := r.Suggest(query, cfg.Resolver.Suggestions); len(s) > 0 {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "did you mean: %s\n", strings.Join(s, ", "))
			}
			return eris.Errorf("no building matches %q", query)
		}

		if resolveImage {
			url := asset.ImageURL(cfg.Assets.ImageBaseURL, m.Code, cfg.Assets.ImageExt)
			if url == "" {
				return eris.New("assets.image_base_url is not configured")
			}
			_, err = fmt.Fprintln(out, url)
			return err
		}
		_, err = fmt.Fprintf(out, "%s\t%s\n", m.Code, m.Name)
		return err
	},
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveImage, "image", false, "print the building image URL instead of its name")
	rootCmd.AddCommand(resolveCmd)
}
