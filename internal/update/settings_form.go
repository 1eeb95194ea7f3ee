package update

import (
	"math"
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/eisen/internal/layout"
	"github.com/sandeepkv93/eisen/internal/model"
	"github.com/sandeepkv93/eisen/internal/settings"
	"github.com/sandeepkv93/eisen/internal/views"
)

type formField struct {
	key      string
	label    string
	min, max float64
	numeric  bool
}

var formFields = []formField{
	{key: "apiKey", label: "API key"},
	{key: "apiBaseUrl", label: "API base URL"},
	{key: "wallpaperPath", label: "Wallpaper folder"},
	{key: "wallpaperResolution", label: "Resolution"},
	{key: "titleFontSize", label: "Title size (px)", min: 20, max: 80, numeric: true},
	{key: "taskFontSize", label: "Task size (px)", min: 14, max: 50, numeric: true},
	{key: "paddingPercent", label: "Padding (%)", min: 0, max: 30, numeric: true},
	{key: "lineGap", label: "Line gap (px)", min: 10, max: 100, numeric: true},
}

const resolutionField = 3

type settingsForm struct {
	inputs []textinput.Model
	focus  int
	err    string
}

func newSettingsForm(s model.AppSettings) settingsForm {
	f := settingsForm{inputs: make([]textinput.Model, len(formFields))}
	for i, field := range formFields {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 256
		in.Width = 36
		value, _ := settings.Value(s, field.key)
		in.SetValue(value)
		if field.key == "apiKey" {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
			in.Placeholder = "falls back to EISEN_API_KEY"
		}
		f.inputs[i] = in
	}
	f.inputs[0].Focus()
	return f
}

// draft applies the form over base. Invalid numbers are reported, not
// applied.
func (f settingsForm) draft(base model.AppSettings) (model.AppSettings, error) {
	out := base
	for i, field := range formFields {
		next, err := settings.Set(out, field.key, f.inputs[i].Value())
		if err != nil {
			return base, err
		}
		out = next
	}
	return out, nil
}

func (m *Model) openSettings() {
	m.settingsForm = newSettingsForm(m.deps.Settings.Get())
	m.Mode = ModeSettings
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.settingsForm
	field := formFields[f.focus]
	switch msg.String() {
	case "esc":
		m.Mode = ModeBoard
		m.notify("settings discarded", false)
		return m, nil
	case "ctrl+s":
		return m.saveSettings()
	case "tab", "down":
		f.setFocus((f.focus + 1) % len(formFields))
		return m, nil
	case "shift+tab", "up":
		f.setFocus((f.focus - 1 + len(formFields)) % len(formFields))
		return m, nil
	case "left", "right":
		if f.focus == resolutionField {
			f.cycleResolution(msg.String() == "right")
			return m, nil
		}
	case "+", "=", "-":
		if field.numeric {
			f.adjust(field, msg.String() != "-")
			return m, nil
		}
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	f.err = ""
	return m, cmd
}

func (f *settingsForm) setFocus(i int) {
	f.inputs[f.focus].Blur()
	f.focus = i
	f.inputs[f.focus].Focus()
}

func (f *settingsForm) cycleResolution(forward bool) {
	current := f.inputs[resolutionField].Value()
	idx := -1
	for i, r := range model.Resolutions {
		if r == current {
			idx = i
		}
	}
	n := len(model.Resolutions)
	switch {
	case idx < 0:
		idx = 0
	case forward:
		idx = (idx + 1) % n
	default:
		idx = (idx - 1 + n) % n
	}
	f.inputs[resolutionField].SetValue(model.Resolutions[idx])
}

// adjust steps a numeric field by one, clamped to the field's range.
func (f *settingsForm) adjust(field formField, up bool) {
	in := &f.inputs[f.focus]
	v, err := strconv.ParseFloat(in.Value(), 64)
	if err != nil {
		v = field.min
	}
	if up {
		v++
	} else {
		v--
	}
	v = math.Max(field.min, math.Min(field.max, v))
	in.SetValue(strconv.FormatFloat(v, 'f', -1, 64))
}

func (m Model) saveSettings() (tea.Model, tea.Cmd) {
	next, err := m.settingsForm.draft(m.deps.Settings.Get())
	if err != nil {
		m.settingsForm.err = err.Error()
		return m, nil
	}
	if err := m.deps.Settings.Save(m.ctx, next); err != nil {
		m.block("Settings not saved", err.Error(), true)
		return m, nil
	}
	m.Mode = ModeBoard
	m.notify("settings saved", false)
	return m, nil
}

func (m Model) renderSettings() string {
	f := m.settingsForm
	fields := make([]views.FieldView, len(formFields))
	for i, field := range formFields {
		fields[i] = views.FieldView{Label: field.label, Value: f.inputs[i].View(), Focused: i == f.focus}
	}
	data := views.SettingsData{Fields: fields, Error: f.err}
	draft, err := f.draft(m.deps.Settings.Get())
	if err != nil && data.Error == "" {
		data.Error = err.Error()
	}
	frame := layout.Build(layout.Input{
		Tasks:      m.deps.Tasks.List(),
		Resolution: draft.WallpaperResolution,
		Dark:       m.Dark,
		Style:      draft.WallpaperStyle,
		Date:       m.deps.Now(),
	})
	previewCols := m.width - 70
	if previewCols > 64 {
		previewCols = 64
	}
	data.Preview = views.RenderPreview(frame, previewCols)
	return views.RenderSettings(data)
}
