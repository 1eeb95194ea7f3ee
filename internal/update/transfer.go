package update

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/eisen/internal/layout"
	"github.com/sandeepkv93/eisen/internal/model"
	"github.com/sandeepkv93/eisen/internal/tasks"
)

// ImportFileChosenMsg carries the backup file picked for import.
type ImportFileChosenMsg struct {
	Path string
}

func (m *Model) exportTasks() {
	path, err := tasks.WriteBackup(m.deps.ExportDir, m.deps.Now(), m.deps.Tasks.List())
	if err != nil {
		m.block("Export failed", err.Error(), true)
		return
	}
	m.notify("exported tasks to "+path, false)
}

func (m Model) handleImportPickMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		m.Mode = ModeBoard
		m.notify("import canceled", false)
		return m, nil
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		return m, func() tea.Msg { return ImportFileChosenMsg{Path: path} }
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.block("Import failed", fmt.Sprintf("%s is not a .json backup", path), true)
		m.Mode = ModeBoard
		return m, nil
	}
	return m, cmd
}

// onImportFileChosen validates the file before asking replace or merge, so
// an invalid file never reaches the store.
func (m Model) onImportFileChosen(msg ImportFileChosenMsg) (tea.Model, tea.Cmd) {
	m.Mode = ModeBoard
	items, err := tasks.ReadBackup(msg.Path)
	if err != nil {
		m.block("Import failed", err.Error(), true)
		return m, nil
	}
	m.pendingImport = items
	m.pendingImportPath = msg.Path
	m.Mode = ModeImportChoose
	return m, nil
}

func (m Model) handleImportChooseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var mode tasks.ImportMode
	switch msg.String() {
	case "r", "R":
		mode = tasks.ImportReplace
	case "m", "M":
		mode = tasks.ImportMerge
	case "esc", "n":
		m.resetImport()
		m.notify("import canceled", false)
		return m, nil
	default:
		return m, nil
	}
	items := m.pendingImport
	m.resetImport()
	m.applyImport(items, mode)
	return m, nil
}

func (m *Model) applyImport(items []model.Task, mode tasks.ImportMode) {
	res, err := m.deps.Tasks.Import(m.ctx, items, mode)
	if err != nil {
		m.block("Import failed", err.Error(), true)
		return
	}
	m.Expanded = make(map[string]bool)
	m.clampCursor()
	m.notify(fmt.Sprintf("imported %d task(s) (%s), skipped %d", res.Added, mode, res.Skipped), false)
}

func (m *Model) resetImport() {
	m.Mode = ModeBoard
	m.pendingImport = nil
	m.pendingImportPath = ""
}

func (m Model) startWallpaperExport() (tea.Model, tea.Cmd) {
	if m.Exporting {
		return m, nil
	}
	m.Exporting = true
	m.notify("exporting wallpaper…", false)
	settings := m.deps.Settings.Get()
	frame := layout.Build(layout.Input{
		Tasks:      m.deps.Tasks.List(),
		Resolution: settings.WallpaperResolution,
		Dark:       m.Dark,
		Style:      settings.WallpaperStyle,
		Date:       m.deps.Now(),
	})
	return m, tea.Batch(m.spinner.Tick, exportWallpaperCmd(m.ctx, m.deps.Exporter, frame))
}

func exportWallpaperCmd(ctx context.Context, e WallpaperExporter, frame layout.Frame) tea.Cmd {
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = WallpaperExportedMsg{Err: fmt.Errorf("wallpaper export panicked: %v", r)}
			}
		}()
		path, err := e.Export(ctx, frame)
		return WallpaperExportedMsg{Path: path, Err: err}
	}
}

func (m Model) onWallpaperExported(msg WallpaperExportedMsg) (tea.Model, tea.Cmd) {
	m.Exporting = false
	if msg.Err != nil {
		m.block("Wallpaper export failed", msg.Err.Error(), true)
		return m, nil
	}
	text := "wallpaper saved to " + msg.Path
	if dir := m.deps.Settings.Get().WallpaperPath; dir != "" {
		text += "; move it to " + dir + " to use it"
	}
	m.notify(text, false)
	return m, nil
}
