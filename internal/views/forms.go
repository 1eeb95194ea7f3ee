package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type InputData struct {
	// Mode is "auto" or a quadrant subtitle.
	Mode      string
	InputView string
	Busy      bool
	Spinner   string
}

func RenderInputBar(data InputData) string {
	mode := lipgloss.NewStyle().Bold(true).Render("[" + data.Mode + "]")
	if data.Busy {
		return fmt.Sprintf("%s %s classifying…", mode, data.Spinner)
	}
	return fmt.Sprintf("%s %s", mode, data.InputView)
}

type FieldView struct {
	Label   string
	Value   string
	Focused bool
}

type SettingsData struct {
	Fields  []FieldView
	Preview string
	Error   string
}

func RenderSettings(data SettingsData) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("settings") + "\n")
	b.WriteString(mutedStyle.Render("tab/shift+tab field · ←/→ resolution · +/- adjust · ctrl+s save · esc discard") + "\n\n")
	for _, f := range data.Fields {
		cursor := "  "
		if f.Focused {
			cursor = "> "
		}
		b.WriteString(fmt.Sprintf("%s%-20s %s\n", cursor, f.Label, f.Value))
	}
	if data.Error != "" {
		b.WriteString("\n" + errorStyle.Render(data.Error))
	}
	form := panelStyle.Render(strings.TrimRight(b.String(), "\n"))
	if data.Preview == "" {
		return form
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, form, " ", data.Preview)
}

type NoticeData struct {
	Title   string
	Body    string
	IsError bool
	Width   int
}

// RenderNotice draws a blocking notice. It is dismissed with enter or esc.
func RenderNotice(data NoticeData) string {
	width := data.Width
	if width <= 0 || width > 72 {
		width = 72
	}
	title := headerStyle.Render(data.Title)
	border := lipgloss.Color("12")
	if data.IsError {
		title = errorStyle.Bold(true).Render(data.Title)
		border = lipgloss.Color("9")
	}
	body := lipgloss.NewStyle().Width(width - 4).Render(data.Body)
	return panelStyle.BorderForeground(border).Width(width).
		Render(title + "\n\n" + body + "\n\n" + mutedStyle.Render("enter/esc to dismiss"))
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: %s", input)
}

type KeyHelp struct {
	Key    string
	Action string
}

// HelpMarkdown renders bindings as a markdown table for RenderMarkdown.
func HelpMarkdown(title string, bindings []KeyHelp) string {
	var b strings.Builder
	b.WriteString("# " + title + "\n\n| key | action |\n| --- | --- |\n")
	for _, kb := range bindings {
		b.WriteString(fmt.Sprintf("| `%s` | %s |\n", kb.Key, kb.Action))
	}
	return b.String()
}
