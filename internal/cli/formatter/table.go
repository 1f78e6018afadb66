package formatter

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const tableGap = "  "

// RenderTable renders an aligned table: styled headers, a dim rule, then
// rows. Widths are measured with lipgloss so styled cells line up. A column
// whose cells are all integers (positions, counts) is right-aligned.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	grid := make([][]string, 0, len(rows)+1)
	grid = append(grid, headers)
	for _, row := range rows {
		cells := make([]string, len(headers))
		copy(cells, row)
		grid = append(grid, cells)
	}

	widths := make([]int, len(headers))
	rightAlign := make([]bool, len(headers))
	for i := range headers {
		rightAlign[i] = len(rows) > 0
		for r, cells := range grid {
			widths[i] = max(widths[i], lipgloss.Width(cells[i]))
			if r > 0 && !isInteger(cells[i]) {
				rightAlign[i] = false
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string, style func(string) string) {
		var line strings.Builder
		for i, cell := range cells {
			if i > 0 {
				line.WriteString(tableGap)
			}
			pad := strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
			if rightAlign[i] {
				line.WriteString(pad + style(cell))
			} else {
				line.WriteString(style(cell) + pad)
			}
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteByte('\n')
	}

	writeRow(headers, func(s string) string { return StyleHeader.Render(s) })

	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("─", w)
	}
	writeRow(rule, func(s string) string { return StyleDim.Render(s) })

	for _, cells := range grid[1:] {
		writeRow(cells, func(s string) string { return s })
	}

	return b.String()
}

func isInteger(s string) bool {
	_, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil
}
