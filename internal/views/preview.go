package views

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sandeepkv93/eisen/internal/layout"
)

// RenderPreview draws a character-cell schematic of the wallpaper frame
// using the same cell geometry the rasterizer uses, followed by the scaled
// sizes.
func RenderPreview(f layout.Frame, cols int) string {
	if cols < 20 {
		cols = 20
	}
	// Terminal cells are roughly twice as tall as they are wide.
	rows := int(math.Round(float64(cols) * float64(f.Height) / float64(f.Width) / 2))
	if rows < 8 {
		rows = 8
	}
	grid := make([][]rune, rows)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", cols))
	}
	sx := float64(cols) / float64(f.Width)
	sy := float64(rows) / float64(f.Height)

	put := func(x, y int, r rune) {
		if y >= 0 && y < rows && x >= 0 && x < cols {
			grid[y][x] = r
		}
	}
	text := func(x, y int, s string) {
		for i, r := range []rune(s) {
			put(x+i, y, r)
		}
	}

	text(int(f.OuterPadding*sx), int(f.OuterPadding*sy), f.Title)
	for i, cell := range f.Cells {
		r := f.Rect(i)
		x0, y0 := int(r.X*sx), int(r.Y*sy)
		x1, y1 := int((r.X+r.W)*sx)-1, int((r.Y+r.H)*sy)-1
		if x1 <= x0 || y1 <= y0 {
			continue
		}
		for x := x0; x <= x1; x++ {
			put(x, y0, '─')
			put(x, y1, '─')
		}
		for y := y0; y <= y1; y++ {
			put(x0, y, '│')
			put(x1, y, '│')
		}
		put(x0, y0, '╭')
		put(x1, y0, '╮')
		put(x0, y1, '╰')
		put(x1, y1, '╯')

		inner := x1 - x0 - 2
		label := truncate(cell.Subtitle, inner)
		text(x0+2, y0+1, label)
		body := layout.EmptyText
		if !cell.Empty() {
			body = fmt.Sprintf("%d task(s)", len(cell.Items))
		}
		text(x0+2, y0+2, truncate(body, inner))
	}

	lines := make([]string, 0, rows+3)
	for _, row := range grid {
		lines = append(lines, strings.TrimRight(string(row), " "))
	}
	lines = append(lines,
		mutedStyle.Render(fmt.Sprintf("%dx%d  scale %.2f", f.Width, f.Height, f.Scale)),
		mutedStyle.Render(fmt.Sprintf("title %.0fpx  task %.0fpx  gap %.0fpx  padding %.0f%%", f.TitleSize, f.TaskSize, f.LineGap, f.PaddingPercent)),
	)
	return lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Render(strings.Join(lines, "\n"))
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
