package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/feyndraw/pkg/diagram"
	"github.com/matzehuels/feyndraw/pkg/pipeline"
	"github.com/matzehuels/feyndraw/pkg/render/topology"
)

// summary counts what a document contains.
type summary struct {
	Points, Edges, Ellipses, Labels int
	Bound                           int

	Vertices, Propagators, External, Loops int
}

func summarize(d *diagram.Diagram) summary {
	s := summary{
		Points:   len(d.Points()),
		Edges:    len(d.Edges()),
		Ellipses: len(d.Ellipses()),
		Labels:   len(d.Labels()),
	}
	for _, l := range d.Labels() {
		if l.Binding != nil {
			s.Bound++
		}
	}
	g := topology.Build(d)
	s.Vertices = len(g.Vertices)
	s.Propagators = len(g.Propagators)
	s.External = len(g.External())
	s.Loops = g.Loops()
	return s
}

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "check [file.tex]",
		Short:             "Parse a diagram and report its contents",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTeX,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runCheck(ctx context.Context, path string) error {
	src, err := readSource(path)
	if err != nil {
		return err
	}
	d, err := pipeline.NewRunner(nil, nil, loggerFromContext(ctx)).Parse(ctx, src)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	s := summarize(d)
	printSuccess("%s parses cleanly", path)
	printCounts([]string{"Element", "Count"}, [][]string{
		{"points", strconv.Itoa(s.Points)},
		{"edges", strconv.Itoa(s.Edges)},
		{"ellipses", strconv.Itoa(s.Ellipses)},
		{"labels", strconv.Itoa(s.Labels)},
	})
	printKeyValue("vertices", strconv.Itoa(s.Vertices))
	printKeyValue("propagators", strconv.Itoa(s.Propagators))
	printKeyValue("external legs", strconv.Itoa(s.External))
	printKeyValue("loops", strconv.Itoa(s.Loops))
	if s.Labels > 0 && s.Bound == 0 {
		printDetail("labels from text are unbound; bindings survive only in the JSON form")
	}
	return nil
}
