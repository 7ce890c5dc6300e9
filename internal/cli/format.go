package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/feyndraw/pkg/pipeline"
)

// formatOpts holds the command-line flags for the format command.
type formatOpts struct {
	write bool // rewrite files in place
	check bool // fail when any file is not canonical
}

// errNotFormatted is returned by --check when a file would change.
var errNotFormatted = fmt.Errorf("some files are not formatted")

// formatCommand creates the format command.
func (c *CLI) formatCommand() *cobra.Command {
	var opts formatOpts

	cmd := &cobra.Command{
		Use:   "format [file.tex...]",
		Short: "Rewrite diagrams in canonical form",
		Long: `Format parses each document and prints its canonical serialization.

Use "-" to read from stdin. With -w the files are rewritten in place; with
--check nothing is written and the command fails if any file would change.`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeTeX,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.write && opts.check {
				return fmt.Errorf("-w and --check are mutually exclusive")
			}
			return c.runFormat(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.write, "write", "w", false, "write result to the source file instead of stdout")
	cmd.Flags().BoolVar(&opts.check, "check", false, "exit non-zero if a file is not canonical")

	return cmd
}

func (c *CLI) runFormat(ctx context.Context, paths []string, opts formatOpts) error {
	logger := loggerFromContext(ctx)
	runner := pipeline.NewRunner(nil, nil, logger)

	unformatted := 0
	for _, path := range paths {
		src, err := readSource(path)
		if err != nil {
			return err
		}
		out, err := runner.Format(ctx, src)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		switch {
		case opts.check:
			if out != src {
				printError("%s", path)
				unformatted++
			}
		case opts.write && path != "-":
			if out == src {
				logger.Debugf("%s already canonical", path)
				continue
			}
			if err := os.WriteFile(path, []byte(out), 0644); err != nil {
				return err
			}
			printSuccess("Formatted %s", path)
		default:
			fmt.Fprint(stdout, out)
		}
	}

	if unformatted > 0 {
		return errNotFormatted
	}
	return nil
}
