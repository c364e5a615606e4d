package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/plotline/pkg/block"
	"github.com/matzehuels/plotline/pkg/engine"
	"github.com/matzehuels/plotline/pkg/render"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds evaluation order and input values to block labels.
	Detailed bool

	// Title is drawn above the diagram when set.
	Title string
}

// ToDOT converts the blocks and wires of g to Graphviz DOT source. Blocks are
// listed in evaluation order, so ties in the layout follow it.
func ToDOT(g *engine.Context, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=record, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("  edge [arrowsize=0.7];\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", opts.Title)
	}
	buf.WriteString("\n")

	for i, b := range g.Order() {
		fmt.Fprintf(&buf, "  %s [label=\"%s\"];\n", nodeID(b.ID), recordLabel(g, b, i, opts.Detailed))
	}

	buf.WriteString("\n")
	for _, w := range g.Connections() {
		out, in := g.Port(w.Output), g.Port(w.Input)
		if out == nil || in == nil {
			continue
		}
		fmt.Fprintf(&buf, "  %s:%s:e -> %s:%s:w;\n", nodeID(out.Owner), portID(out.ID), nodeID(in.Owner), portID(in.ID))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(id block.ID) string { return "b" + strconv.FormatUint(uint64(id), 10) }
func portID(id block.ID) string { return "p" + strconv.FormatUint(uint64(id), 10) }

// recordLabel builds "{inputs}|title|{outputs}".
func recordLabel(g *engine.Context, b *block.Block, pos int, detailed bool) string {
	ins := make([]string, 0, len(b.Inputs))
	for _, p := range b.Inputs {
		text := p.Name
		if _, wired := g.Source(p.ID); detailed && !wired {
			text += " = " + p.Value.String()
		}
		ins = append(ins, fmt.Sprintf("<%s> %s", portID(p.ID), escape(text)))
	}
	outs := make([]string, 0, len(b.Outputs))
	for _, p := range b.Outputs {
		outs = append(outs, fmt.Sprintf("<%s> %s", portID(p.ID), escape(p.Name)))
	}

	title := escape(b.Name)
	if detailed {
		title += fmt.Sprintf("\\n#%d", pos+1)
		if b.FlattenInputs {
			title += " (flatten)"
		}
	}
	return "{" + strings.Join(ins, "|") + "}|" + title + "|{" + strings.Join(outs, "|") + "}"
}

var recordSpecial = strings.NewReplacer(
	`\`, `\\`, `"`, `\"`, `{`, `\{`, `}`, `\}`, `|`, `\|`, `<`, `\<`, `>`, `\>`,
)

func escape(s string) string { return recordSpecial.Replace(s) }

// RenderSVG lays out dot with Graphviz and returns SVG bytes with a
// viewBox starting at the origin.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element so the diagram
// scales to its container.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders dot as PDF.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders dot as PNG at the given scale.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
