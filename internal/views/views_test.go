package views

import (
	"strings"
	"testing"
	"time"

	"github.com/sandeepkv93/eisen/internal/layout"
	"github.com/sandeepkv93/eisen/internal/model"
)

func TestRenderBoardShowsQuadrantsAndPlaceholder(t *testing.T) {
	var data BoardData
	for i, q := range model.Quadrants {
		data.Panels[i] = PanelData{Quadrant: q}
	}
	data.Panels[0].Focused = true
	data.Panels[0].Tasks = []TaskLine{{ID: "a", Content: "Finish Q3 report", Selected: true, AI: true}}
	out := RenderBoard(data)

	for _, want := range []string{"Urgent & Important", "Important, Not Urgent", "Delegate", "Eliminate", "Finish Q3 report", "[AI]", "No tasks"} {
		if !strings.Contains(out, want) {
			t.Fatalf("board missing %q:\n%s", want, out)
		}
	}
}

func TestRenderBoardExpandedSubtasks(t *testing.T) {
	var data BoardData
	for i, q := range model.Quadrants {
		data.Panels[i] = PanelData{Quadrant: q}
	}
	task := TaskLine{ID: "a", Content: "taxes", Subtasks: []model.SubTask{{ID: "s", Content: "gather forms"}}}
	data.Panels[0].Tasks = []TaskLine{task}
	if out := RenderBoard(data); strings.Contains(out, "gather forms") || !strings.Contains(out, "(+1)") {
		t.Fatalf("collapsed task should show a count only:\n%s", out)
	}
	task.Expanded = true
	data.Panels[0].Tasks = []TaskLine{task}
	if out := RenderBoard(data); !strings.Contains(out, "gather forms") {
		t.Fatalf("expanded task should list subtasks:\n%s", out)
	}
}

func TestRenderPreviewUsesFrame(t *testing.T) {
	f := layout.Build(layout.Input{
		Tasks:      []model.Task{{ID: "a", Content: "x", Quadrant: model.QuadrantDelegate}},
		Resolution: "2560x1440",
		Style:      model.DefaultWallpaperStyle(),
		Date:       time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC),
	})
	out := RenderPreview(f, 60)
	for _, want := range []string{"2560x1440", "Do First", "1 task(s)", "No tasks", "title 53px"} {
		if !strings.Contains(out, want) {
			t.Fatalf("preview missing %q:\n%s", want, out)
		}
	}
}

func TestRenderAppOverlayHidesBody(t *testing.T) {
	out := RenderApp(AppData{Header: "eisen", Body: "BOARD", Overlay: RenderNotice(NoticeData{Title: "Import failed", Body: "not an array", IsError: true})})
	if strings.Contains(out, "BOARD") || !strings.Contains(out, "Import failed") {
		t.Fatalf("overlay should replace body:\n%s", out)
	}
}

func TestHelpMarkdownRenders(t *testing.T) {
	md := HelpMarkdown("Keys", []KeyHelp{{Key: "a", Action: "quick add"}})
	if !strings.Contains(md, "| `a` | quick add |") {
		t.Fatalf("unexpected markdown: %s", md)
	}
	if out := RenderMarkdown(md, true, 60); !strings.Contains(out, "quick add") {
		t.Fatalf("rendered help missing content: %s", out)
	}
	if RenderMarkdown("  ", false, 0) != "" {
		t.Fatal("blank markdown should render empty")
	}
}
