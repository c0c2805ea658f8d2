package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/campusbot/whereis/internal/command"
	"github.com/campusbot/whereis/internal/resolve"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Answer chat commands such as \"~whereis erie hall\" read from stdin",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("console"); err != nil {
			return err
		}
		r, err := buildResolver(cmd.Context(), cfg)
		if err != nil {
			describeLoadError(cmd.ErrOrStderr(), err)
			return err
		}
		return runConsole(cmd.InOrStdin(), cmd.OutOrStdout(), r)
	},
}

func runConsole(in io.Reader, out io.Writer, r *resolve.Resolver) error {
	d := command.New(r, command.Config{
		Prefix:       cfg.Command.Prefix,
		ImageBaseURL: cfg.Assets.ImageBaseURL,
		ImageExt:     cfg.Assets.ImageExt,
		Suggestions:  cfg.Resolver.Suggestions,
	})

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		reply, ok := d.Handle(sc.Text())
		if !ok {
			continue
		}
		if _, err := fmt.Fprintln(out, reply.Text()); err != nil {
			return err
		}
	}
	return eris.Wrap(sc.Err(), "console: read input")
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}
