package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/eisen/internal/model"
	"github.com/sandeepkv93/eisen/internal/views"
)

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = typed.Width, typed.Height
		m.helpView.Width = typed.Width - 4
		m.helpView.Height = typed.Height - 6
		return m, nil
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		if m.Notice != nil {
			switch typed.String() {
			case "enter", "esc":
				m.Notice = nil
			}
			return m, nil
		}
		switch m.Mode {
		case ModeInput:
			return m.handleInputKey(typed)
		case ModePalette:
			return m.handlePaletteKey(typed)
		case ModeSettings:
			return m.handleSettingsKey(typed)
		case ModeImportPick:
			return m.handleImportPickMsg(typed)
		case ModeImportChoose:
			return m.handleImportChooseKey(typed)
		case ModeConfirmClear:
			return m.handleConfirmClearKey(typed)
		case ModeHelp:
			return m.handleHelpKey(typed)
		default:
			return m.handleBoardKey(typed)
		}
	case spinner.TickMsg:
		if m.Classifying || m.Exporting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(typed)
			return m, cmd
		}
		return m, nil
	case ClassifiedMsg:
		return m.onClassified(typed)
	case WallpaperExportedMsg:
		return m.onWallpaperExported(typed)
	case ImportFileChosenMsg:
		return m.onImportFileChosen(typed)
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	}
	if m.Mode == ModeImportPick {
		return m.handleImportPickMsg(msg)
	}
	return m, nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		status = "status: " + m.Status.Text
		if m.Status.IsError {
			status = "status: error: " + m.Status.Text
		}
	}

	data := views.AppData{
		Header:     m.header(),
		StatusLine: status,
		IsError:    m.Status.IsError,
		Footer:     m.footer(),
	}
	switch m.Mode {
	case ModeSettings:
		data.Body = m.renderSettings()
	case ModeImportPick:
		data.Body = "import: choose a .json backup (esc to cancel)\n" + m.picker.View()
	case ModeHelp:
		data.Body = m.helpView.View()
	default:
		data.Body = m.renderBoard()
		data.Input = m.renderInputLine()
	}
	if m.Notice != nil {
		data.Overlay = views.RenderNotice(views.NoticeData{
			Title:   m.Notice.Title,
			Body:    m.Notice.Body,
			IsError: m.Notice.IsError,
			Width:   m.width - 4,
		})
	}
	return views.RenderApp(data)
}

func (m Model) header() string {
	parts := []string{"eisen", fmt.Sprintf("focus: %s", model.Quadrants[m.Focus].Name())}
	if m.Grabbed != "" {
		parts = append(parts, "moving: drop with enter, esc cancels")
	}
	if m.Exporting {
		parts = append(parts, "wallpaper: "+m.spinner.View()+" exporting")
	}
	return strings.Join(parts, " | ")
}

func (m Model) footer() string {
	switch m.Mode {
	case ModeInput:
		return "keys: enter submit | tab cycle auto/q1-q4 | esc cancel"
	case ModePalette:
		return "keys: enter run | esc close"
	case ModeImportChoose:
		return "keys: r replace | m merge | esc cancel"
	case ModeConfirmClear:
		return "keys: y confirm | any other key cancels"
	case ModeSettings, ModeImportPick, ModeHelp:
		return ""
	}
	return "keys: a add here | i auto add | m move | space done | x delete | C clear done | S settings | W wallpaper | / cmd | ? help | q quit"
}

func (m Model) renderInputLine() string {
	switch m.Mode {
	case ModePalette:
		return views.RenderCommandPalette(true, m.commandInput.View())
	case ModeImportChoose:
		return fmt.Sprintf("import %s: [r]eplace all tasks or [m]erge new ones?", m.pendingImportPath)
	case ModeConfirmClear:
		return "clear all completed tasks? [y/N]"
	}
	mode := "auto"
	if m.InputQuadrant != "" {
		mode = string(m.InputQuadrant) + " " + model.QuadrantConfig(m.InputQuadrant).Subtitle
	}
	if m.Mode != ModeInput && !m.Classifying {
		return ""
	}
	return views.RenderInputBar(views.InputData{
		Mode:      mode,
		InputView: m.input.View(),
		Busy:      m.Classifying,
		Spinner:   m.spinner.View(),
	})
}

func (m *Model) notify(text string, isErr bool) {
	m.Status = StatusBar{Text: text, IsError: isErr}
	if isErr {
		m.deps.Logger.Warn().Msg(text)
	}
}

func (m *Model) block(title, body string, isErr bool) {
	m.Notice = &Notice{Title: title, Body: body, IsError: isErr}
	if isErr {
		m.deps.Logger.Warn().Str("title", title).Msg(body)
	}
}
