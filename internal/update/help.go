package update

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/eisen/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func boardBindings() []KeyBinding {
	return []KeyBinding{
		{Key: "j/k", Action: "move between tasks"},
		{Key: "h/l, tab", Action: "move between quadrants"},
		{Key: "a", Action: "add to the focused quadrant (no AI)"},
		{Key: "i", Action: "add with AI classification"},
		{Key: "tab (input)", Action: "cycle auto / q1..q4"},
		{Key: "m, then enter", Action: "move the selected task; esc cancels"},
		{Key: "space", Action: "toggle completed"},
		{Key: "x", Action: "delete task"},
		{Key: "C", Action: "clear completed tasks (asks first)"},
		{Key: "s", Action: "expand or collapse subtasks"},
		{Key: "y", Action: "copy task text"},
		{Key: "T", Action: "toggle dark theme"},
		{Key: "S", Action: "settings"},
		{Key: "I / E", Action: "import / export tasks JSON"},
		{Key: "W", Action: "export wallpaper PNG"},
		{Key: "U", Action: "reset wallpaper"},
		{Key: "/", Action: "command palette"},
		{Key: "?", Action: "toggle this help"},
		{Key: "q", Action: "quit"},
	}
}

const paletteHelp = `
## Commands

- ` + "`add [q1-q4] <text>`" + ` add a task; without a quadrant the AI decides
- ` + "`move <task> <quadrant>`" + `, ` + "`done <task>`" + `, ` + "`rm <task>`" + `
- ` + "`clear`" + `, ` + "`export`" + `, ` + "`import <file> replace|merge`" + `
- ` + "`set <key> <value>`" + `, ` + "`theme [dark|light]`" + `, ` + "`wallpaper`" + `

A task is an id, a unique id prefix, or its position in the list.
`

func (m *Model) openHelp() {
	items := boardBindings()
	plain := make([]views.KeyHelp, 0, len(items))
	for _, kb := range items {
		plain = append(plain, views.KeyHelp{Key: kb.Key, Action: kb.Action})
	}
	md := views.HelpMarkdown("Keys", plain) + paletteHelp
	m.helpView.SetContent(views.RenderMarkdown(md, m.Dark, m.helpView.Width) + "\n" + m.shortHelp())
	m.helpView.GotoTop()
	m.Mode = ModeHelp
}

func (m Model) shortHelp() string {
	bindings := []key.Binding{
		key.NewBinding(key.WithKeys("j", "k"), key.WithHelp("j/k", "scroll")),
		key.NewBinding(key.WithKeys("?", "esc", "q"), key.WithHelp("?/esc", "close")),
	}
	return m.helpModel.View(helpKeyMap{short: bindings, full: [][]key.Binding{bindings}})
}

func (m Model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "?", "esc", "q":
		m.Mode = ModeBoard
		return m, nil
	}
	var cmd tea.Cmd
	m.helpView, cmd = m.helpView.Update(msg)
	return m, cmd
}
