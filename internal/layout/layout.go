package layout

import (
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/eisen/internal/model"
)

const (
	referenceHeight = 1080
	defaultWidth    = 1920
	defaultHeight   = 1080
	// MaxSide bounds each output side so a bad stored resolution cannot
	// request an unbounded raster.
	MaxSide = 8192

	HeaderTitle = "Eisenhower Matrix"
	EmptyText   = "No tasks"
)

type Input struct {
	Tasks      []model.Task
	Resolution string
	Dark       bool
	Style      model.WallpaperStyle
	// Date is shown in the header. The layout never reads the clock.
	Date time.Time
}

type Item struct {
	Content   string
	Completed bool
	AI        bool
	Subtasks  []string
}

type Cell struct {
	Quadrant model.Quadrant
	Title    string
	Subtitle string
	Icon     string
	Palette  model.Palette
	Items    []Item
}

func (c Cell) Empty() bool { return len(c.Items) == 0 }

// Frame is the complete visual description of one wallpaper. Sizes are in
// output pixels.
type Frame struct {
	Width  int
	Height int
	Scale  float64
	Dark   bool
	Theme  model.Theme

	Title string
	Date  string

	TitleSize      float64
	SubtitleSize   float64
	TaskSize       float64
	LineGap        float64
	HeaderSize     float64
	PaddingPercent float64
	OuterPadding   float64
	GridGap        float64

	Cells [4]Cell
}

type Rect struct {
	X, Y, W, H float64
}

// Inset shrinks r by d on every side.
func (r Rect) Inset(d float64) Rect {
	out := Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
	if out.W < 0 {
		out.W = 0
	}
	if out.H < 0 {
		out.H = 0
	}
	return out
}

// ParseResolution reads "WxH". Each side falls back to 1920 or 1080 on its
// own when missing, not a positive integer, or above MaxSide.
func ParseResolution(s string) (int, int) {
	w, h := defaultWidth, defaultHeight
	parts := strings.SplitN(strings.ToLower(strings.TrimSpace(s)), "x", 2)
	if v, ok := positiveInt(parts[0]); ok {
		w = v
	}
	if len(parts) == 2 {
		if v, ok := positiveInt(parts[1]); ok {
			h = v
		}
	}
	return w, h
}

func positiveInt(s string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v <= 0 || v > MaxSide {
		return 0, false
	}
	return v, true
}

func Build(in Input) Frame {
	w, h := ParseResolution(in.Resolution)
	scale := float64(h) / referenceHeight
	f := Frame{
		Width:          w,
		Height:         h,
		Scale:          scale,
		Dark:           in.Dark,
		Theme:          model.ThemeColors(in.Dark),
		Title:          HeaderTitle,
		Date:           in.Date.Format("Monday, January 2, 2006"),
		TitleSize:      in.Style.TitleFontSize * scale,
		TaskSize:       in.Style.TaskFontSize * scale,
		LineGap:        in.Style.LineGap * scale,
		HeaderSize:     16 * scale,
		PaddingPercent: in.Style.PaddingPercent,
		OuterPadding:   32 * scale,
		GridGap:        24 * scale,
	}
	f.SubtitleSize = f.TitleSize * 0.6

	for i, q := range model.Quadrants {
		info := model.QuadrantConfig(q)
		f.Cells[i] = Cell{
			Quadrant: q,
			Title:    info.Title,
			Subtitle: info.Subtitle,
			Icon:     info.Icon,
			Palette:  info.Palette(in.Dark),
		}
	}
	for _, t := range in.Tasks {
		i := t.Quadrant.Index()
		if i < 0 {
			continue
		}
		item := Item{Content: t.Content, Completed: t.Completed, AI: t.IsAIGenerated}
		for _, st := range t.Subtasks {
			item.Subtasks = append(item.Subtasks, st.Content)
		}
		f.Cells[i].Items = append(f.Cells[i].Items, item)
	}
	return f
}

// HeaderHeight is the header band including its bottom margin.
func (f Frame) HeaderHeight() float64 {
	return 4.5 * f.HeaderSize
}

// Rect returns the rectangle of cell i (0..3, in model.Quadrants order).
func (f Frame) Rect(i int) Rect {
	top := f.OuterPadding + f.HeaderHeight()
	gridW := float64(f.Width) - 2*f.OuterPadding
	gridH := float64(f.Height) - top - f.OuterPadding
	cw := (gridW - f.GridGap) / 2
	ch := (gridH - f.GridGap) / 2
	if cw < 0 {
		cw = 0
	}
	if ch < 0 {
		ch = 0
	}
	col, row := float64(i%2), float64(i/2)
	return Rect{
		X: f.OuterPadding + col*(cw+f.GridGap),
		Y: top + row*(ch+f.GridGap),
		W: cw,
		H: ch,
	}
}

// CellPadding is the inner padding of a cell: PaddingPercent of its width.
func (f Frame) CellPadding(i int) float64 {
	return f.Rect(i).W * f.PaddingPercent / 100
}
