package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/plotline/pkg/errors"
	"github.com/matzehuels/plotline/pkg/render/nodelink"
)

type graphOpts struct {
	item     string
	output   string
	format   string // dot, svg, png, pdf
	detailed bool
}

func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{format: formatSVG}

	cmd := &cobra.Command{
		Use:   "graph <scene.toml>",
		Short: "Draw the block graph of a timeline item",
		Long: `Graph draws the blocks of one timeline item and the wires between them
with Graphviz. Use --format dot to print the DOT source instead.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeScene,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.item, "item", "i", "", "timeline item to draw (default: the first)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <scene>-<item>.<format>, dot goes to stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, png, pdf, dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show evaluation order and input values")
	_ = cmd.RegisterFlagCompletionFunc("item", c.completeItems)

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, input string, opts *graphOpts) error {
	_, tl, err := c.loadScene(ctx, input, 0)
	if err != nil {
		return err
	}

	it := tl.Items[0]
	if opts.item != "" {
		if it = tl.Item(opts.item); it == nil {
			return errors.New(errors.ErrCodeNotFound, "no item named %q in %s", opts.item, input)
		}
	}

	dot := nodelink.ToDOT(it.Graph, nodelink.Options{Detailed: opts.detailed, Title: it.Name})

	var data []byte
	switch opts.format {
	case "dot":
		if opts.output == "" {
			_, err := fmt.Fprint(os.Stdout, dot)
			return err
		}
		data = []byte(dot)
	case formatSVG:
		data, err = nodelink.RenderSVG(ctx, dot)
	case formatPNG:
		data, err = nodelink.RenderPNG(ctx, dot, 2)
	case formatPDF:
		data, err = nodelink.RenderPDF(ctx, dot)
	default:
		return errors.New(errors.ErrCodeInvalidInput, "invalid format %q (must be svg, png, pdf or dot)", opts.format)
	}
	if err != nil {
		return err
	}

	path := opts.output
	if path == "" {
		path = fmt.Sprintf("%s-%s.%s", basePath("", input), it.Name, opts.format)
	}
	if err := writeOutput(path, data); err != nil {
		return err
	}
	printSuccess("Drew %s: %d blocks, %d wires", it.Name, it.Graph.Len(), len(it.Graph.Connections()))
	printFile(path)
	return nil
}
