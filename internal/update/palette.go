package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/eisen/internal/commands"
	"github.com/sandeepkv93/eisen/internal/model"
	"github.com/sandeepkv93/eisen/internal/settings"
	"github.com/sandeepkv93/eisen/internal/tasks"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.notify("command palette closed", false)
		return m, nil
	case "enter":
		raw := strings.TrimSpace(m.commandInput.Value())
		m.closePalette()
		return m.executePaletteCommand(raw)
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	return m, cmd
}

func (m *Model) closePalette() {
	m.Mode = ModeBoard
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) executePaletteCommand(raw string) (tea.Model, tea.Cmd) {
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.notify(err.Error(), true)
		return m, nil
	}

	var follow tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			if a.Quadrant == "" {
				if m.Classifying {
					return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "still classifying the previous task"}
				}
				m.Classifying = true
				follow = tea.Batch(m.spinner.Tick, classifyCmd(m.ctx, m.deps.Classifier, a.Content, m.deps.Settings.Get()))
				return commands.Result{Message: "classifying…"}, nil
			}
			if _, ok := m.addTask(a.Content, a.Quadrant, nil, false); !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "task not added"}
			}
			return commands.Result{Message: "added to " + model.QuadrantConfig(a.Quadrant).Subtitle}, nil
		},
		Move: func(a commands.MoveArgs) (commands.Result, error) {
			t, err := commands.ResolveTarget(a.Target, m.deps.Tasks.List())
			if err != nil {
				return commands.Result{}, err
			}
			if _, err := m.deps.Tasks.Reassign(m.ctx, t.ID, a.Quadrant); err != nil {
				return commands.Result{}, err
			}
			m.selectTask(t.ID)
			return commands.Result{Message: "moved to " + model.QuadrantConfig(a.Quadrant).Subtitle}, nil
		},
		Done: func(a commands.TargetArgs) (commands.Result, error) {
			t, err := commands.ResolveTarget(a.Target, m.deps.Tasks.List())
			if err != nil {
				return commands.Result{}, err
			}
			if _, err := m.deps.Tasks.ToggleCompleted(m.ctx, t.ID); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "toggled: " + t.Content}, nil
		},
		Remove: func(a commands.TargetArgs) (commands.Result, error) {
			t, err := commands.ResolveTarget(a.Target, m.deps.Tasks.List())
			if err != nil {
				return commands.Result{}, err
			}
			if _, err := m.deps.Tasks.Delete(m.ctx, t.ID); err != nil {
				return commands.Result{}, err
			}
			m.clampCursor()
			return commands.Result{Message: "deleted: " + t.Content}, nil
		},
		Clear: func() (commands.Result, error) {
			if !m.hasCompleted() {
				return commands.Result{Message: "no completed tasks to clear"}, nil
			}
			m.Mode = ModeConfirmClear
			return commands.Result{Message: "confirm clearing completed tasks"}, nil
		},
		Export: func() (commands.Result, error) {
			path, err := tasks.WriteBackup(m.deps.ExportDir, m.deps.Now(), m.deps.Tasks.List())
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "exported tasks to " + path}, nil
		},
		Import: func(a commands.ImportArgs) (commands.Result, error) {
			items, err := tasks.ReadBackup(a.Path)
			if err != nil {
				m.block("Import failed", err.Error(), true)
				return commands.Result{}, nil
			}
			mode := tasks.ImportReplace
			if a.Merge {
				mode = tasks.ImportMerge
			}
			m.applyImport(items, mode)
			return commands.Result{Message: m.Status.Text}, nil
		},
		Set: func(a commands.SetArgs) (commands.Result, error) {
			next, err := settings.Set(m.deps.Settings.Get(), a.Key, a.Value)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.deps.Settings.Save(m.ctx, next); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("set %s", a.Key)}, nil
		},
		Wallpaper: func() (commands.Result, error) {
			var next tea.Model
			next, follow = m.startWallpaperExport()
			m = next.(Model)
			return commands.Result{Message: m.Status.Text}, nil
		},
		Theme: func(a commands.ThemeArgs) (commands.Result, error) {
			if a.Dark != nil && *a.Dark == m.Dark {
				return commands.Result{Message: "theme unchanged"}, nil
			}
			m.toggleTheme()
			return commands.Result{Message: m.Status.Text}, nil
		},
	})
	if err != nil {
		m.notify(err.Error(), true)
		return m, nil
	}
	if m.Status.IsError {
		return m, follow
	}
	m.notify(res.Message, false)
	return m, follow
}
