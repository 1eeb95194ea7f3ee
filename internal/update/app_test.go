package update

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/sandeepkv93/eisen/internal/classifier"
	"github.com/sandeepkv93/eisen/internal/layout"
	"github.com/sandeepkv93/eisen/internal/model"
	"github.com/sandeepkv93/eisen/internal/settings"
	"github.com/sandeepkv93/eisen/internal/storage"
	"github.com/sandeepkv93/eisen/internal/tasks"
)

type fakeClassifier struct {
	result classifier.Result
	calls  int
}

func (f *fakeClassifier) Classify(context.Context, string, model.AppSettings) classifier.Result {
	f.calls++
	return f.result
}

type fakeExporter struct {
	path   string
	err    error
	frames []layout.Frame
}

func (f *fakeExporter) Export(_ context.Context, frame layout.Frame) (string, error) {
	f.frames = append(f.frames, frame)
	return f.path, f.err
}

type harness struct {
	tasks    *tasks.Store
	settings *settings.Store
	ai       *fakeClassifier
	exporter *fakeExporter
	copied   []string
	dir      string
}

func newTestModel(t *testing.T) (Model, *harness) {
	t.Helper()
	kv := storage.NewMemoryKV()
	store, err := tasks.Open(context.Background(), kv, zerolog.Nop())
	if err != nil {
		t.Fatalf("open tasks: %v", err)
	}
	st := settings.New(kv, zerolog.Nop(), false)
	if err := st.Load(context.Background()); err != nil {
		t.Fatalf("load settings: %v", err)
	}
	h := &harness{
		tasks:    store,
		settings: st,
		ai:       &fakeClassifier{result: classifier.FallbackResult()},
		exporter: &fakeExporter{path: "/tmp/eisenhower-matrix-2026-02-09.png"},
		dir:      t.TempDir(),
	}
	m := NewModel(context.Background(), Deps{
		Tasks:      store,
		Settings:   st,
		Classifier: h.ai,
		Exporter:   h.exporter,
		ExportDir:  h.dir,
		Logger:     zerolog.Nop(),
		Now:        func() time.Time { return time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC) },
		Clipboard: func(s string) error {
			h.copied = append(h.copied, s)
			return nil
		},
	})
	return m, h
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m, cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return next.(Model)
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// collect runs cmd and returns the messages it produces, expanding batches.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestNewModelDefaults(t *testing.T) {
	m, _ := newTestModel(t)
	if m.Mode != ModeBoard || m.Focus != 0 || m.InputQuadrant != "" {
		t.Fatalf("unexpected defaults: mode=%s focus=%d selector=%q", m.Mode, m.Focus, m.InputQuadrant)
	}
	out := m.View()
	for _, want := range []string{"Urgent & Important", "Eliminate", "No tasks", "focus: DoFirst"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q: %q", want, out)
		}
	}
}

func TestQuickAddToggleAndClearCompleted(t *testing.T) {
	m, h := newTestModel(t)
	m, _ = press(t, m, "a")
	if m.Mode != ModeInput || m.InputQuadrant != model.QuadrantDoFirst {
		t.Fatalf("quick add should preselect the focused quadrant: mode=%s q=%q", m.Mode, m.InputQuadrant)
	}
	m = typeText(t, m, "Finish Q3 report")
	m, cmd := press(t, m, "enter")
	if cmd != nil || m.Classifying {
		t.Fatal("manual add must bypass the classifier")
	}
	list := h.tasks.List()
	if len(list) != 1 || list[0].Quadrant != model.QuadrantDoFirst || list[0].IsAIGenerated || len(list[0].Subtasks) != 0 {
		t.Fatalf("unexpected tasks: %+v", list)
	}
	if m.InputQuadrant != "" || h.ai.calls != 0 {
		t.Fatalf("selector should reset to auto and classifier stay idle: %q calls=%d", m.InputQuadrant, h.ai.calls)
	}

	m, _ = press(t, m, " ")
	if got, _ := h.tasks.Get(list[0].ID); !got.Completed {
		t.Fatal("space should toggle completion")
	}
	m, _ = press(t, m, "C")
	if m.Mode != ModeConfirmClear {
		t.Fatalf("expected confirmation prompt, got mode %s", m.Mode)
	}
	m, _ = press(t, m, "y")
	if h.tasks.Len() != 0 || m.Mode != ModeBoard {
		t.Fatalf("expected empty store after confirmed clear, len=%d mode=%s", h.tasks.Len(), m.Mode)
	}
}

func TestClearCompletedCanBeDeclined(t *testing.T) {
	m, h := newTestModel(t)
	task, _ := h.tasks.Add(context.Background(), "done", model.QuadrantDoFirst, nil, false)
	_, _ = h.tasks.ToggleCompleted(context.Background(), task.ID)
	m, _ = press(t, m, "C", "n")
	if h.tasks.Len() != 1 || m.Mode != ModeBoard {
		t.Fatalf("declined clear must keep tasks: len=%d", h.tasks.Len())
	}
}

func TestAutoAddUsesClassifierResult(t *testing.T) {
	m, h := newTestModel(t)
	h.ai.result = classifier.Result{Quadrant: model.QuadrantDoFirst, Reasoning: "deadline", Subtasks: []string{"gather forms", "submit payment"}}

	m, _ = press(t, m, "i")
	m = typeText(t, m, "pay taxes by Friday")
	m, cmd := press(t, m, "enter")
	if !m.Classifying || cmd == nil {
		t.Fatal("expected classification in flight")
	}
	if !strings.Contains(m.View(), "classifying") {
		t.Fatalf("spinner line missing: %q", m.View())
	}
	m, _ = press(t, m, "i")
	if m.Mode == ModeInput {
		t.Fatal("input must stay disabled while classifying")
	}

	var classified *ClassifiedMsg
	for _, msg := range collect(cmd) {
		if c, ok := msg.(ClassifiedMsg); ok {
			classified = &c
		}
	}
	if classified == nil {
		t.Fatal("classification command produced no result")
	}
	m, _ = send(t, m, *classified)
	if m.Classifying {
		t.Fatal("classifying flag should clear")
	}
	list := h.tasks.List()
	if len(list) != 1 || list[0].Quadrant != model.QuadrantDoFirst || !list[0].IsAIGenerated || len(list[0].Subtasks) != 2 {
		t.Fatalf("unexpected task: %+v", list)
	}
	if m.Reasoning != "deadline" || !strings.Contains(m.Status.Text, "deadline") {
		t.Fatalf("reasoning should be shown: %q / %q", m.Reasoning, m.Status.Text)
	}
}

func TestFallbackClassificationIsNotMarkedAI(t *testing.T) {
	m, h := newTestModel(t)
	m, _ = send(t, m, ClassifiedMsg{Content: "something", Result: classifier.FallbackResult()})
	list := h.tasks.List()
	if len(list) != 1 || list[0].Quadrant != model.QuadrantSchedule || list[0].IsAIGenerated {
		t.Fatalf("unexpected fallback task: %+v", list)
	}
	if m.Focus != 1 {
		t.Fatalf("focus should follow the new task, got %d", m.Focus)
	}
}

func TestInputSelectorCycles(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, "i")
	want := []model.Quadrant{"q1", "q2", "q3", "q4", ""}
	for _, q := range want {
		m, _ = press(t, m, "tab")
		if m.InputQuadrant != q {
			t.Fatalf("selector = %q, want %q", m.InputQuadrant, q)
		}
	}
	m, _ = press(t, m, "esc")
	if m.Mode != ModeBoard {
		t.Fatalf("esc should leave input, got %s", m.Mode)
	}
}

func TestGrabAndDropReassigns(t *testing.T) {
	m, h := newTestModel(t)
	task, _ := h.tasks.Add(context.Background(), "review PR", model.QuadrantDoFirst, nil, false)

	m, _ = press(t, m, "m")
	if m.Grabbed != task.ID {
		t.Fatalf("expected grabbed task, got %q", m.Grabbed)
	}
	m, _ = press(t, m, "l", "l")
	if !strings.Contains(m.View(), "moving") {
		t.Fatal("header should show the move in progress")
	}
	m, _ = press(t, m, "enter")
	got, _ := h.tasks.Get(task.ID)
	if got.Quadrant != model.QuadrantDelegate || m.Grabbed != "" {
		t.Fatalf("drop should reassign to delegate: %+v grabbed=%q", got, m.Grabbed)
	}

	m, _ = press(t, m, "m", "l", "esc")
	got, _ = h.tasks.Get(task.ID)
	if got.Quadrant != model.QuadrantDelegate || m.Grabbed != "" {
		t.Fatalf("esc should cancel the move: %+v", got)
	}
}

func TestDeleteCopyAndExpand(t *testing.T) {
	m, h := newTestModel(t)
	task, _ := h.tasks.Add(context.Background(), "call plumber", model.QuadrantDoFirst, []string{"find number"}, true)

	m, _ = press(t, m, "y")
	if len(h.copied) != 1 || h.copied[0] != "call plumber" {
		t.Fatalf("clipboard not used: %v", h.copied)
	}
	m, _ = press(t, m, "s")
	if !m.Expanded[task.ID] || !strings.Contains(m.View(), "find number") {
		t.Fatal("s should expand subtasks")
	}
	m, _ = press(t, m, "x")
	if h.tasks.Len() != 0 {
		t.Fatal("x should delete the selected task")
	}
}

func TestThemeTogglePersists(t *testing.T) {
	m, h := newTestModel(t)
	m, _ = press(t, m, "T")
	if !m.Dark || !h.settings.Dark() {
		t.Fatal("T should switch to the dark theme and persist it")
	}
}

func TestWallpaperExportLifecycle(t *testing.T) {
	m, h := newTestModel(t)
	m, cmd := press(t, m, "W")
	if !m.Exporting || cmd == nil {
		t.Fatal("expected export in flight")
	}
	if _, again := press(t, m, "W"); again != nil {
		t.Fatal("second export must be ignored while one is in flight")
	}

	var done *WallpaperExportedMsg
	for _, msg := range collect(cmd) {
		if d, ok := msg.(WallpaperExportedMsg); ok {
			done = &d
		}
	}
	if done == nil || len(h.exporter.frames) != 1 || h.exporter.frames[0].Width != 1920 {
		t.Fatalf("exporter not called with a 1080p frame: %+v", h.exporter.frames)
	}
	m, _ = send(t, m, *done)
	if m.Exporting || !strings.Contains(m.Status.Text, h.exporter.path) {
		t.Fatalf("unexpected state after export: exporting=%v status=%q", m.Exporting, m.Status.Text)
	}

	m, _ = send(t, m, WallpaperExportedMsg{Err: errors.New("disk full")})
	if m.Exporting || m.Notice == nil || !m.Notice.IsError {
		t.Fatal("failed export should clear the flag and show a blocking notice")
	}
	m, _ = press(t, m, "x")
	if m.Notice == nil {
		t.Fatal("notice should swallow keys")
	}
	m, _ = press(t, m, "enter")
	if m.Notice != nil {
		t.Fatal("enter should dismiss the notice")
	}
}

func TestResetWallpaperShowsNotice(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, "U")
	if m.Notice == nil || m.Notice.IsError || !strings.Contains(m.View(), "Reset wallpaper") {
		t.Fatalf("expected reset notice, got %+v", m.Notice)
	}
}

func TestExportTasksWritesBackup(t *testing.T) {
	m, h := newTestModel(t)
	_, _ = h.tasks.Add(context.Background(), "x", model.QuadrantDelete, nil, false)
	m, _ = press(t, m, "E")
	path := filepath.Join(h.dir, "eisenhower-tasks-2026-02-09.json")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("backup not written: %v (status %q)", err, m.Status.Text)
	}
}

func TestImportInvalidFileLeavesStoreUnchanged(t *testing.T) {
	m, h := newTestModel(t)
	_, _ = h.tasks.Add(context.Background(), "keep me", model.QuadrantDoFirst, nil, false)
	bad := filepath.Join(h.dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"not":"an array"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	m, _ = send(t, m, ImportFileChosenMsg{Path: bad})
	if m.Notice == nil || !m.Notice.IsError || m.Mode != ModeBoard {
		t.Fatalf("expected blocking error notice, got %+v mode=%s", m.Notice, m.Mode)
	}
	if h.tasks.Len() != 1 {
		t.Fatalf("store changed by invalid import: %d", h.tasks.Len())
	}
}

func TestImportMergeAndReplace(t *testing.T) {
	m, h := newTestModel(t)
	existing, _ := h.tasks.Add(context.Background(), "existing", model.QuadrantDoFirst, nil, false)
	path, err := tasks.WriteBackup(h.dir, time.Now(), []model.Task{
		{ID: existing.ID, Content: "dup", Quadrant: model.QuadrantDelete, CreatedAt: 1},
		{ID: "new-1", Content: "imported", Quadrant: model.QuadrantSchedule, CreatedAt: 1},
	})
	if err != nil {
		t.Fatalf("write backup: %v", err)
	}

	m, _ = send(t, m, ImportFileChosenMsg{Path: path})
	if m.Mode != ModeImportChoose {
		t.Fatalf("expected replace/merge prompt, got %s", m.Mode)
	}
	m, _ = press(t, m, "m")
	if h.tasks.Len() != 2 {
		t.Fatalf("merge should add only the new id, got %d tasks", h.tasks.Len())
	}

	m, _ = send(t, m, ImportFileChosenMsg{Path: path})
	m, _ = press(t, m, "r")
	list := h.tasks.List()
	if len(list) != 2 || list[0].Content != "dup" {
		t.Fatalf("replace should equal the file contents: %+v", list)
	}
}

func TestSettingsFormAdjustAndSave(t *testing.T) {
	m, h := newTestModel(t)
	m, _ = press(t, m, "S")
	if m.Mode != ModeSettings || !strings.Contains(m.View(), "1920x1080") {
		t.Fatalf("settings screen not shown: %q", m.View())
	}
	m, _ = press(t, m, "tab", "tab", "tab")
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	for i := 0; i < 4; i++ {
		m, _ = press(t, m, "tab")
	}
	m, _ = press(t, m, "+", "+")
	m, _ = press(t, m, "ctrl+s")
	if m.Mode != ModeBoard {
		t.Fatalf("save should close the form, mode=%s err=%q", m.Mode, m.settingsForm.err)
	}
	got := h.settings.Get()
	if got.WallpaperResolution != model.Resolution1440p || got.WallpaperStyle.LineGap != 44 {
		t.Fatalf("unexpected saved settings: %+v", got)
	}
}

func TestSettingsAdjustClampsAndEscDiscards(t *testing.T) {
	m, h := newTestModel(t)
	m, _ = press(t, m, "S")
	for i := 0; i < 6; i++ {
		m, _ = press(t, m, "tab")
	}
	for i := 0; i < 40; i++ {
		m, _ = press(t, m, "+")
	}
	if v := m.settingsForm.inputs[6].Value(); v != "30" {
		t.Fatalf("padding should clamp at 30, got %q", v)
	}
	m, _ = press(t, m, "esc")
	if h.settings.Get().WallpaperStyle.PaddingPercent != 10 || m.Mode != ModeBoard {
		t.Fatal("esc must discard form changes")
	}
}

func TestPaletteAddAndMove(t *testing.T) {
	m, h := newTestModel(t)
	m, _ = press(t, m, "/")
	m = typeText(t, m, "add q3 water plants")
	m, _ = press(t, m, "enter")
	list := h.tasks.List()
	if len(list) != 1 || list[0].Quadrant != model.QuadrantDelegate {
		t.Fatalf("palette add failed: %+v (status %q)", list, m.Status.Text)
	}

	m, _ = press(t, m, "/")
	m = typeText(t, m, "move 1 eliminate")
	m, _ = press(t, m, "enter")
	if got, _ := h.tasks.Get(list[0].ID); got.Quadrant != model.QuadrantDelete {
		t.Fatalf("palette move failed: %+v (status %q)", got, m.Status.Text)
	}

	m, _ = press(t, m, "/")
	m = typeText(t, m, "bogus")
	m, _ = press(t, m, "enter")
	if !m.Status.IsError {
		t.Fatal("unknown command should set an error status")
	}
}

func TestPaletteAutoAddRefusedWhileClassifying(t *testing.T) {
	m, h := newTestModel(t)
	m, _ = press(t, m, "i")
	m = typeText(t, m, "first")
	m, first := press(t, m, "enter")
	if !m.Classifying || first == nil {
		t.Fatal("expected the first classification in flight")
	}

	m, _ = press(t, m, "/")
	m = typeText(t, m, "add second task")
	m, second := press(t, m, "enter")
	if second != nil {
		t.Fatal("a second classification must not start while one is pending")
	}
	if !m.Classifying || !m.Status.IsError {
		t.Fatalf("expected refusal status, got %+v", m.Status)
	}
	if h.tasks.Len() != 0 || h.ai.calls != 0 {
		t.Fatalf("nothing should be added yet: len=%d calls=%d", h.tasks.Len(), h.ai.calls)
	}

	m, _ = press(t, m, "/")
	m = typeText(t, m, "add q4 manual still works")
	m, _ = press(t, m, "enter")
	if h.tasks.Len() != 1 {
		t.Fatalf("manual palette add should not wait for the classifier (status %q)", m.Status.Text)
	}
}

func TestPaletteImportInvalidFileBlocks(t *testing.T) {
	m, h := newTestModel(t)
	_, _ = h.tasks.Add(context.Background(), "keep me", model.QuadrantDoFirst, nil, false)
	bad := filepath.Join(h.dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`[1,2]`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	m, _ = press(t, m, "/")
	m = typeText(t, m, "import "+bad+" replace")
	m, _ = press(t, m, "enter")
	if m.Notice == nil || !m.Notice.IsError {
		t.Fatalf("expected blocking import notice, got %+v", m.Notice)
	}
	if h.tasks.Len() != 1 {
		t.Fatalf("invalid import changed the store: %d", h.tasks.Len())
	}
}

func TestPaletteSetSavesSetting(t *testing.T) {
	m, h := newTestModel(t)
	m, _ = press(t, m, "/")
	m = typeText(t, m, "set titleFontSize 55")
	m, _ = press(t, m, "enter")
	if h.settings.Get().WallpaperStyle.TitleFontSize != 55 {
		t.Fatalf("set not saved (status %q)", m.Status.Text)
	}
}

func TestHelpOpensAndCloses(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, "?")
	if m.Mode != ModeHelp || m.View() == "" {
		t.Fatalf("help not shown, mode=%s", m.Mode)
	}
	m, _ = press(t, m, "esc")
	if m.Mode != ModeBoard {
		t.Fatal("esc should close help")
	}
}

func TestUpdateQuitKey(t *testing.T) {
	m, _ := newTestModel(t)
	m, cmd := press(t, m, "q")
	if !m.Quitting || cmd == nil {
		t.Fatal("expected quit")
	}
}

func TestUpdateStatusAndError(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = send(t, m, SetStatusMsg{Text: "ready"})
	if m.Status.Text != "ready" || m.Status.IsError {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
	m, _ = send(t, m, AppErrorMsg{Err: errors.New("boom")})
	if m.LastError == nil || !m.Status.IsError || !strings.Contains(m.View(), "status: error: boom") {
		t.Fatalf("unexpected error status: %+v", m.Status)
	}
	m, _ = send(t, m, ClearStatusMsg{})
	if m.Status.Text != "" {
		t.Fatalf("expected cleared status: %+v", m.Status)
	}
}
