package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/roach88/execdiff/internal/align"
	"github.com/roach88/execdiff/internal/compare"
)

// renderTable writes a comparison table with one column per source.
func renderTable(w io.Writer, table compare.Table, verbose bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	header := []string{"STEP", "TYPE"}
	for _, src := range table.Sources {
		header = append(header, truncateID(src))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, row := range table.Rows {
		cols := []string{row.Name, string(row.Type)}
		for _, c := range row.Cells {
			cols = append(cols, formatCell(c.Empty, string(c.Status), c.DurationMs, c.DeltaMs))
		}
		fmt.Fprintln(tw, strings.Join(cols, "\t"))

		if verbose {
			ids := []string{"", ""}
			for _, c := range row.Cells {
				ids = append(ids, truncateID(c.StepID))
			}
			fmt.Fprintln(tw, strings.Join(ids, "\t"))
		}
	}
	return tw.Flush()
}

// formatCell renders one cell as "status 12ms (+3ms)". Placeholders render
// as a dash.
func formatCell(empty bool, status string, durationMs, deltaMs int64) string {
	if empty {
		return "-"
	}
	s := fmt.Sprintf("%s %dms", status, durationMs)
	if deltaMs != 0 {
		s += fmt.Sprintf(" (%+dms)", deltaMs)
	}
	return s
}

// renderTree writes a screenshot comparison as an indented outline.
func renderTree(w io.Writer, tree compare.ScreenshotTree) {
	if tree.Root == nil || len(tree.Root.Children) == 0 {
		fmt.Fprintln(w, "Nothing to compare")
		return
	}
	fmt.Fprintf(w, "Screenshots: %s -> %s\n", truncateID(tree.Baseline), truncateID(tree.Other))
	for _, n := range tree.Root.Children {
		renderNode(w, n, 0)
	}
}

func renderNode(w io.Writer, n *align.Node, depth int) {
	indent := strings.Repeat("  ", depth)

	switch n.Kind {
	case align.NodeAction:
		if len(n.Cells) > 0 {
			cells := make([]string, len(n.Cells))
			for k, c := range n.Cells {
				cells[k] = formatCell(c.Empty, string(c.Status), c.DurationMs, c.DeltaMs)
				if c.Screenshot != nil {
					cells[k] += " [img]"
				}
			}
			fmt.Fprintf(w, "%s%s: %s\n", indent, n.Name, strings.Join(cells, " | "))
			return
		}
		fmt.Fprintf(w, "%s%s\n", indent, n.Name)
	case align.NodeWrapper:
		fmt.Fprintf(w, "%s(top level)\n", indent)
	case align.NodePath:
		fmt.Fprintf(w, "%s[%s]\n", indent, n.Name)
	case align.NodeTestRun:
		fmt.Fprintf(w, "%s%s\n", indent, n.Name)
		if len(n.Children) == 0 {
			fmt.Fprintf(w, "%s  (no aligned steps)\n", indent)
		}
	default:
		fmt.Fprintf(w, "%s%s\n", indent, n.Name)
	}

	for _, c := range n.Children {
		renderNode(w, c, depth+1)
	}
}
