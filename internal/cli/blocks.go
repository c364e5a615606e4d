package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/plotline/pkg/block"
)

func (c *CLI) blocksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "blocks [name]",
		Short: "List the block catalog",
		Long:  `Blocks lists every block kind a scene can use with its ports and defaults. Pass a name to show one block.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := c.Catalog.Entries()
			if len(args) == 1 {
				k, ok := c.Catalog.Lookup(args[0])
				if !ok {
					return fmt.Errorf("unknown block %q (known: %s)", args[0], strings.Join(c.Catalog.Names(), ", "))
				}
				entries = block.NewCatalog(k).Entries()
			}
			fmt.Println(blocksTable(entries))
			return nil
		},
	}
}

// blocksTable renders one row per block kind.
func blocksTable(entries []block.Entry) string {
	header := lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return header
			}
			if col == 0 {
				return cell.Foreground(colorWhite).Bold(true)
			}
			return cell.Foreground(colorGray)
		}).
		Headers("BLOCK", "INPUTS", "OUTPUTS")

	for _, e := range entries {
		layout := e.New().Ports()
		name := e.Name
		if layout.Flatten {
			name += " (flatten)"
		}
		t.Row(name, portList(layout.Inputs, true), portList(layout.Outputs, false))
	}
	return t.Render()
}

func portList(specs []block.PortSpec, withDefault bool) string {
	if len(specs) == 0 {
		return "-"
	}
	lines := make([]string, len(specs))
	for i, p := range specs {
		lines[i] = fmt.Sprintf("%s: %s", p.Name, p.Default.Kind())
		if withDefault {
			lines[i] += " = " + p.Default.String()
		}
	}
	return strings.Join(lines, "\n")
}
