package update

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/rs/zerolog"
	"github.com/sandeepkv93/eisen/internal/classifier"
	"github.com/sandeepkv93/eisen/internal/layout"
	"github.com/sandeepkv93/eisen/internal/model"
	"github.com/sandeepkv93/eisen/internal/tasks"
)

// TaskStore is the part of tasks.Store the board needs.
type TaskStore interface {
	List() []model.Task
	ByQuadrant(q model.Quadrant) []model.Task
	Get(id string) (model.Task, bool)
	Add(ctx context.Context, content string, q model.Quadrant, subtasks []string, aiGenerated bool) (model.Task, error)
	Reassign(ctx context.Context, id string, q model.Quadrant) (bool, error)
	ToggleCompleted(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	ClearCompleted(ctx context.Context) (int, error)
	Import(ctx context.Context, imported []model.Task, mode tasks.ImportMode) (tasks.ImportResult, error)
}

type SettingsStore interface {
	Get() model.AppSettings
	Save(ctx context.Context, next model.AppSettings) error
	Dark() bool
	SetTheme(ctx context.Context, dark bool) error
}

type Classifier interface {
	Classify(ctx context.Context, description string, settings model.AppSettings) classifier.Result
}

type WallpaperExporter interface {
	Export(ctx context.Context, frame layout.Frame) (string, error)
}

type Deps struct {
	Tasks      TaskStore
	Settings   SettingsStore
	Classifier Classifier
	Exporter   WallpaperExporter
	ExportDir  string
	Logger     zerolog.Logger
	Now        func() time.Time
	// Clipboard defaults to the system clipboard.
	Clipboard func(string) error
}

type Mode string

const (
	ModeBoard        Mode = "board"
	ModeInput        Mode = "input"
	ModePalette      Mode = "palette"
	ModeSettings     Mode = "settings"
	ModeImportPick   Mode = "import"
	ModeImportChoose Mode = "import-mode"
	ModeConfirmClear Mode = "confirm-clear"
	ModeHelp         Mode = "help"
)

type StatusBar struct {
	Text    string
	IsError bool
}

// Notice is a blocking message; it swallows keys until dismissed.
type Notice struct {
	Title   string
	Body    string
	IsError bool
}

type Model struct {
	deps Deps
	ctx  context.Context

	Mode     Mode
	Focus    int
	Cursor   [4]int
	Expanded map[string]bool
	// Grabbed is the id of the task being moved, if any.
	Grabbed string
	// InputQuadrant is the manual quadrant for the next submission; empty
	// means the classifier decides.
	InputQuadrant model.Quadrant
	Classifying   bool
	Exporting     bool
	Dark          bool
	Notice        *Notice
	Status        StatusBar
	Reasoning     string
	Quitting      bool
	LastError     error

	pendingImport     []model.Task
	pendingImportPath string
	settingsForm      settingsForm

	input        textinput.Model
	commandInput textinput.Model
	spinner      spinner.Model
	helpModel    help.Model
	helpView     viewport.Model
	picker       filepicker.Model
	width        int
	height       int
}

type ClassifiedMsg struct {
	Content string
	Result  classifier.Result
}

type WallpaperExportedMsg struct {
	Path string
	Err  error
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

func NewModel(ctx context.Context, deps Deps) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Clipboard == nil {
		deps.Clipboard = clipboard.WriteAll
	}
	m := Model{
		deps:     deps,
		ctx:      ctx,
		Mode:     ModeBoard,
		Expanded: make(map[string]bool),
		width:    120,
		height:   40,
	}
	if deps.Settings != nil {
		m.Dark = deps.Settings.Dark()
	}
	m.initBubbleComponents()
	return m
}

func (m *Model) initBubbleComponents() {
	m.input = textinput.New()
	m.input.CharLimit = 512
	m.input.Width = 72
	m.syncInputPlaceholder()

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 64

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot

	m.helpModel = help.New()
	m.helpView = viewport.New(80, 20)

	m.picker = filepicker.New()
	m.picker.AllowedTypes = []string{".json"}
	m.picker.ShowHidden = false
	m.picker.AutoHeight = false
	m.picker.Height = 14
	if m.deps.ExportDir != "" {
		m.picker.CurrentDirectory = m.deps.ExportDir
	}
}

func (m *Model) syncInputPlaceholder() {
	if m.InputQuadrant == "" {
		m.input.Placeholder = "Describe a task; AI picks the quadrant"
		m.input.Prompt = "auto> "
		return
	}
	m.input.Placeholder = "Add to " + model.QuadrantConfig(m.InputQuadrant).Subtitle
	m.input.Prompt = string(m.InputQuadrant) + "> "
}
