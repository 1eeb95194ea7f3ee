package model

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidQuadrant = errors.New("model: invalid quadrant")

// Quadrant is one of the four Eisenhower buckets. The wire values match the
// persisted task format.
type Quadrant string

const (
	QuadrantDoFirst  Quadrant = "q1"
	QuadrantSchedule Quadrant = "q2"
	QuadrantDelegate Quadrant = "q3"
	QuadrantDelete   Quadrant = "q4"
)

// Quadrants is the fixed display order: left-to-right, top-to-bottom.
var Quadrants = [4]Quadrant{QuadrantDoFirst, QuadrantSchedule, QuadrantDelegate, QuadrantDelete}

func (q Quadrant) IsValid() bool {
	switch q {
	case QuadrantDoFirst, QuadrantSchedule, QuadrantDelegate, QuadrantDelete:
		return true
	default:
		return false
	}
}

// Index returns the position of q in Quadrants, or -1.
func (q Quadrant) Index() int {
	for i, v := range Quadrants {
		if v == q {
			return i
		}
	}
	return -1
}

func (q Quadrant) Name() string {
	switch q {
	case QuadrantDoFirst:
		return "DoFirst"
	case QuadrantSchedule:
		return "Schedule"
	case QuadrantDelegate:
		return "Delegate"
	case QuadrantDelete:
		return "Delete"
	default:
		return string(q)
	}
}

// ParseQuadrant accepts wire values (q1..q4), 1..4 and quadrant names.
func ParseQuadrant(raw string) (Quadrant, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
	switch s {
	case "q1", "1", "dofirst", "do", "urgentimportant":
		return QuadrantDoFirst, nil
	case "q2", "2", "schedule", "plan":
		return QuadrantSchedule, nil
	case "q3", "3", "delegate":
		return QuadrantDelegate, nil
	case "q4", "4", "delete", "eliminate", "drop":
		return QuadrantDelete, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidQuadrant, raw)
}

// Palette holds hex color tokens for one theme variant.
type Palette struct {
	Text   string
	Bg     string
	Border string
	Bullet string
}

// QuadrantInfo is static display metadata shared by the board and the
// wallpaper layout so both render a quadrant identically.
type QuadrantInfo struct {
	Title    string
	Subtitle string
	Icon     string
	Light    Palette
	Dark     Palette
}

func (i QuadrantInfo) Palette(dark bool) Palette {
	if dark {
		return i.Dark
	}
	return i.Light
}

var quadrantConfig = map[Quadrant]QuadrantInfo{
	QuadrantDoFirst: {
		Title:    "Urgent & Important",
		Subtitle: "Do First",
		Icon:     "🔥",
		Light:    Palette{Text: "#dc2626", Bg: "#fef2f2", Border: "#fecaca", Bullet: "#ef4444"},
		Dark:     Palette{Text: "#f87171", Bg: "#1c0d14", Border: "#5c1d24", Bullet: "#f87171"},
	},
	QuadrantSchedule: {
		Title:    "Important, Not Urgent",
		Subtitle: "Schedule",
		Icon:     "📅",
		Light:    Palette{Text: "#2563eb", Bg: "#eff6ff", Border: "#bfdbfe", Bullet: "#3b82f6"},
		Dark:     Palette{Text: "#60a5fa", Bg: "#0b1430", Border: "#1e3a6e", Bullet: "#60a5fa"},
	},
	QuadrantDelegate: {
		Title:    "Urgent, Not Important",
		Subtitle: "Delegate",
		Icon:     "👥",
		Light:    Palette{Text: "#16a34a", Bg: "#f0fdf4", Border: "#bbf7d0", Bullet: "#22c55e"},
		Dark:     Palette{Text: "#4ade80", Bg: "#0a1f16", Border: "#14532d", Bullet: "#4ade80"},
	},
	QuadrantDelete: {
		Title:    "Neither Urgent nor Important",
		Subtitle: "Eliminate",
		Icon:     "🗑️",
		Light:    Palette{Text: "#6b7280", Bg: "#f9fafb", Border: "#e5e7eb", Bullet: "#6b7280"},
		Dark:     Palette{Text: "#9ca3af", Bg: "#0f172a", Border: "#1e293b", Bullet: "#9ca3af"},
	},
}

// QuadrantConfig returns display metadata for q. Unknown values get the
// Delete styling so renderers never panic on bad data.
func QuadrantConfig(q Quadrant) QuadrantInfo {
	if info, ok := quadrantConfig[q]; ok {
		return info
	}
	return quadrantConfig[QuadrantDelete]
}

// Page-level theme colors.
type Theme struct {
	Background string
	Text       string
	Muted      string
	Accent     string
	Divider    string
	Chip       string
}

func ThemeColors(dark bool) Theme {
	if dark {
		return Theme{Background: "#020617", Text: "#f1f5f9", Muted: "#94a3b8", Accent: "#4f46e5", Divider: "#ffffff1a", Chip: "#ffffff1a"}
	}
	return Theme{Background: "#f8fafc", Text: "#0f172a", Muted: "#64748b", Accent: "#4f46e5", Divider: "#0000000d", Chip: "#0000000d"}
}
