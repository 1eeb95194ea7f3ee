package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/eisen/internal/model"
	"github.com/sandeepkv93/eisen/internal/views"
	"github.com/sandeepkv93/eisen/internal/wallpaper"
)

func (m Model) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if m.Grabbed != "" {
		return m.handleGrabKey(key)
	}
	switch key {
	case "q":
		m.Quitting = true
		return m, tea.Quit
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "l", "right", "tab":
		m.moveFocus(1)
	case "h", "left", "shift+tab":
		m.moveFocus(-1)
	case "a":
		return m.startInput(model.Quadrants[m.Focus])
	case "i":
		return m.startInput("")
	case "m":
		if t, ok := m.selectedTask(); ok {
			m.Grabbed = t.ID
			m.notify(fmt.Sprintf("moving %q: pick a quadrant and press enter", t.Content), false)
		}
	case " ":
		m.toggleSelected()
	case "x":
		m.deleteSelected()
	case "C":
		if !m.hasCompleted() {
			m.notify("no completed tasks to clear", false)
			break
		}
		m.Mode = ModeConfirmClear
	case "y":
		m.copySelected()
	case "s":
		if t, ok := m.selectedTask(); ok && len(t.Subtasks) > 0 {
			m.Expanded[t.ID] = !m.Expanded[t.ID]
		}
	case "T":
		m.toggleTheme()
	case "?":
		m.openHelp()
	case "/":
		m.Mode = ModePalette
		m.commandInput.SetValue("")
		m.commandInput.Focus()
	case "S":
		m.openSettings()
	case "I":
		m.Mode = ModeImportPick
		return m, m.picker.Init()
	case "E":
		m.exportTasks()
	case "W":
		return m.startWallpaperExport()
	case "U":
		m.block("Reset wallpaper", wallpaper.ResetNotice, false)
	}
	return m, nil
}

func (m Model) handleGrabKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "l", "right", "tab":
		m.moveFocus(1)
	case "h", "left", "shift+tab":
		m.moveFocus(-1)
	case "enter":
		m.dropGrabbed()
	case "esc", "m":
		m.Grabbed = ""
		m.notify("move canceled", false)
	}
	return m, nil
}

func (m *Model) dropGrabbed() {
	id := m.Grabbed
	m.Grabbed = ""
	target := model.Quadrants[m.Focus]
	ok, err := m.deps.Tasks.Reassign(m.ctx, id, target)
	switch {
	case err != nil:
		m.notify(err.Error(), true)
	case !ok:
		m.notify("task no longer exists", true)
	default:
		m.notify("moved to "+model.QuadrantConfig(target).Subtitle, false)
		m.selectTask(id)
	}
}

func (m *Model) moveFocus(delta int) {
	m.Focus = (m.Focus + delta + len(model.Quadrants)) % len(model.Quadrants)
	m.clampCursor()
}

func (m *Model) moveCursor(delta int) {
	n := len(m.deps.Tasks.ByQuadrant(model.Quadrants[m.Focus]))
	if n == 0 {
		m.Cursor[m.Focus] = 0
		return
	}
	c := m.Cursor[m.Focus] + delta
	if c < 0 {
		c = 0
	}
	if c >= n {
		c = n - 1
	}
	m.Cursor[m.Focus] = c
}

func (m *Model) clampCursor() {
	for i, q := range model.Quadrants {
		n := len(m.deps.Tasks.ByQuadrant(q))
		if m.Cursor[i] >= n {
			m.Cursor[i] = n - 1
		}
		if m.Cursor[i] < 0 {
			m.Cursor[i] = 0
		}
	}
}

func (m Model) selectedTask() (model.Task, bool) {
	list := m.deps.Tasks.ByQuadrant(model.Quadrants[m.Focus])
	c := m.Cursor[m.Focus]
	if c < 0 || c >= len(list) {
		return model.Task{}, false
	}
	return list[c], true
}

// selectTask focuses the quadrant holding id and puts the cursor on it.
func (m *Model) selectTask(id string) {
	t, ok := m.deps.Tasks.Get(id)
	if !ok {
		m.clampCursor()
		return
	}
	m.Focus = t.Quadrant.Index()
	for i, other := range m.deps.Tasks.ByQuadrant(t.Quadrant) {
		if other.ID == id {
			m.Cursor[m.Focus] = i
		}
	}
	m.clampCursor()
}

func (m *Model) toggleSelected() {
	t, ok := m.selectedTask()
	if !ok {
		return
	}
	if _, err := m.deps.Tasks.ToggleCompleted(m.ctx, t.ID); err != nil {
		m.notify(err.Error(), true)
		return
	}
	if t.Completed {
		m.notify("reopened: "+t.Content, false)
	} else {
		m.notify("completed: "+t.Content, false)
	}
}

func (m *Model) deleteSelected() {
	t, ok := m.selectedTask()
	if !ok {
		return
	}
	if _, err := m.deps.Tasks.Delete(m.ctx, t.ID); err != nil {
		m.notify(err.Error(), true)
		return
	}
	delete(m.Expanded, t.ID)
	m.clampCursor()
	m.notify("deleted: "+t.Content, false)
}

func (m Model) hasCompleted() bool {
	for _, t := range m.deps.Tasks.List() {
		if t.Completed {
			return true
		}
	}
	return false
}

func (m Model) handleConfirmClearKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.Mode = ModeBoard
	if msg.String() != "y" && msg.String() != "Y" {
		m.notify("clear canceled", false)
		return m, nil
	}
	m.clearCompleted()
	return m, nil
}

func (m *Model) clearCompleted() {
	n, err := m.deps.Tasks.ClearCompleted(m.ctx)
	if err != nil {
		m.notify(err.Error(), true)
		return
	}
	m.clampCursor()
	m.notify(fmt.Sprintf("cleared %d completed task(s)", n), false)
}

func (m *Model) copySelected() {
	t, ok := m.selectedTask()
	if !ok {
		return
	}
	if err := m.deps.Clipboard(t.Content); err != nil {
		m.notify("clipboard unavailable: "+err.Error(), true)
		return
	}
	m.notify("copied to clipboard", false)
}

func (m *Model) toggleTheme() {
	m.Dark = !m.Dark
	if err := m.deps.Settings.SetTheme(m.ctx, m.Dark); err != nil {
		m.notify(err.Error(), true)
		return
	}
	if m.Dark {
		m.notify("dark theme", false)
	} else {
		m.notify("light theme", false)
	}
}

func (m Model) renderBoard() string {
	data := views.BoardData{Width: m.width, Dark: m.Dark}
	for i, q := range model.Quadrants {
		panel := views.PanelData{
			Quadrant:   q,
			Focused:    i == m.Focus,
			DropTarget: m.Grabbed != "" && i == m.Focus,
		}
		for j, t := range m.deps.Tasks.ByQuadrant(q) {
			panel.Tasks = append(panel.Tasks, views.TaskLine{
				ID:        t.ID,
				Content:   t.Content,
				Completed: t.Completed,
				AI:        t.IsAIGenerated,
				Selected:  i == m.Focus && j == m.Cursor[i],
				Grabbed:   t.ID == m.Grabbed,
				Expanded:  m.Expanded[t.ID],
				Subtasks:  t.Subtasks,
			})
		}
		data.Panels[i] = panel
	}
	return views.RenderBoard(data)
}
