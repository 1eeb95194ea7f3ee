package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sandeepkv93/eisen/internal/layout"
	"github.com/sandeepkv93/eisen/internal/model"
)

type TaskLine struct {
	ID        string
	Content   string
	Completed bool
	AI        bool
	Selected  bool
	Grabbed   bool
	Expanded  bool
	Subtasks  []model.SubTask
}

type PanelData struct {
	Quadrant model.Quadrant
	Tasks    []TaskLine
	Focused  bool
	// DropTarget marks the panel a grabbed task would land in.
	DropTarget bool
}

type BoardData struct {
	Panels [4]PanelData
	Width  int
	Dark   bool
}

// RenderBoard draws the four quadrants as a 2x2 grid in model.Quadrants
// order.
func RenderBoard(data BoardData) string {
	width := data.Width
	if width <= 0 {
		width = 120
	}
	panelWidth := width/2 - 4
	if panelWidth < 24 {
		panelWidth = 24
	}
	rendered := make([]string, 4)
	for i, p := range data.Panels {
		rendered[i] = renderPanel(p, panelWidth, data.Dark)
	}
	top := lipgloss.JoinHorizontal(lipgloss.Top, rendered[0], rendered[1])
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, rendered[2], rendered[3])
	return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
}

func renderPanel(p PanelData, width int, dark bool) string {
	info := model.QuadrantConfig(p.Quadrant)
	pal := info.Palette(dark)

	border := lipgloss.RoundedBorder()
	style := lipgloss.NewStyle().
		Border(border).
		BorderForeground(lipgloss.Color(pal.Border)).
		Padding(0, 1).
		Width(width)
	switch {
	case p.DropTarget:
		style = style.Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color(pal.Bullet))
	case p.Focused:
		style = style.Border(lipgloss.ThickBorder()).BorderForeground(lipgloss.Color(pal.Text))
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(pal.Text)).
		Render(fmt.Sprintf("%s %s", info.Icon, info.Title))
	sub := mutedStyle.Render(fmt.Sprintf("%s · %d", info.Subtitle, len(p.Tasks)))

	lines := []string{title, sub, ""}
	if len(p.Tasks) == 0 {
		lines = append(lines, mutedStyle.Render(layout.EmptyText))
	}
	bullet := lipgloss.NewStyle().Foreground(lipgloss.Color(pal.Bullet))
	for _, t := range p.Tasks {
		lines = append(lines, renderTaskLine(t, bullet))
		if t.Expanded {
			for _, st := range t.Subtasks {
				mark := "◦"
				if st.Completed {
					mark = "✓"
				}
				lines = append(lines, mutedStyle.Render(fmt.Sprintf("      %s %s", mark, st.Content)))
			}
		}
	}
	return style.Render(strings.Join(lines, "\n"))
}

func renderTaskLine(t TaskLine, bullet lipgloss.Style) string {
	cursor := "  "
	if t.Selected {
		cursor = "> "
	}
	if t.Grabbed {
		cursor = "✋"
	}
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	content := t.Content
	textStyle := lipgloss.NewStyle()
	if t.Completed {
		textStyle = textStyle.Strikethrough(true).Faint(true)
	}
	if t.Selected {
		textStyle = textStyle.Bold(true)
	}
	line := fmt.Sprintf("%s%s %s", cursor, bullet.Render(box), textStyle.Render(content))
	if t.AI {
		line += " " + mutedStyle.Render("[AI]")
	}
	if n := len(t.Subtasks); n > 0 && !t.Expanded {
		line += " " + mutedStyle.Render(fmt.Sprintf("(+%d)", n))
	}
	return line
}
