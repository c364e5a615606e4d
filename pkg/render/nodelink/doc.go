// Package nodelink draws the block graph of a timeline item as a node-link
// diagram.
//
// Every block becomes a Graphviz record whose left column lists its input
// ports and right column its output ports. Wires run between port fields:
//
//	dot := nodelink.ToDOT(item.Graph, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Detailed labels add the evaluation position of each block and the value
// every unconnected input holds.
//
// SVG rendering runs Graphviz in-process through
// [github.com/goccy/go-graphviz]. PDF and PNG output need rsvg-convert.
package nodelink
