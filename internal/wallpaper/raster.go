package wallpaper

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/fogleman/gg"
	"github.com/sandeepkv93/eisen/internal/layout"
	"golang.org/x/image/font"
)

var ErrFrameSize = errors.New("wallpaper: frame size out of range")

// Rasterize draws frame into an image of exactly frame.Width by frame.Height.
func Rasterize(frame layout.Frame) (image.Image, error) {
	if frame.Width <= 0 || frame.Height <= 0 || frame.Width > layout.MaxSide || frame.Height > layout.MaxSide {
		return nil, fmt.Errorf("%w: %dx%d", ErrFrameSize, frame.Width, frame.Height)
	}
	ff, err := newFaces()
	if err != nil {
		return nil, err
	}
	defer ff.close()

	dc := gg.NewContext(frame.Width, frame.Height)
	dc.SetHexColor(frame.Theme.Background)
	dc.Clear()

	if err := drawHeader(dc, ff, frame); err != nil {
		return nil, err
	}
	for i := range frame.Cells {
		if err := drawCell(dc, ff, frame, i); err != nil {
			return nil, err
		}
	}
	return dc.Image(), nil
}

func drawHeader(dc *gg.Context, ff *faces, f layout.Frame) error {
	em := f.HeaderSize
	x, y := f.OuterPadding, f.OuterPadding

	// Badge with a 2x2 grid glyph.
	badge := 2.5 * em
	dc.SetHexColor(f.Theme.Accent)
	dc.DrawRoundedRectangle(x, y, badge, badge, 0.75*em)
	dc.Fill()
	dc.SetHexColor("#ffffff")
	dc.SetLineWidth(2 * f.Scale)
	sq := badge * 0.25
	for _, off := range [][2]float64{{0.2, 0.2}, {0.55, 0.2}, {0.2, 0.55}, {0.55, 0.55}} {
		dc.DrawRoundedRectangle(x+off[0]*badge, y+off[1]*badge, sq, sq, sq*0.15)
		dc.Stroke()
	}

	tx := x + badge + em
	title, err := ff.get(bold, 1.5*em)
	if err != nil {
		return err
	}
	dc.SetFontFace(title)
	dc.SetHexColor(f.Theme.Text)
	dc.DrawStringAnchored(f.Title, tx, y, 0, 1)

	date, err := ff.get(medium, 0.8*em)
	if err != nil {
		return err
	}
	dc.SetFontFace(date)
	dc.SetHexColor(f.Theme.Muted)
	dc.DrawStringAnchored(f.Date, tx, y+1.7*em, 0, 1)
	return nil
}

func drawCell(dc *gg.Context, ff *faces, f layout.Frame, i int) error {
	cell := f.Cells[i]
	r := f.Rect(i)
	radius := 24 * f.Scale

	dc.SetHexColor(cell.Palette.Bg)
	dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, radius)
	dc.Fill()
	dc.SetHexColor(cell.Palette.Border)
	dc.SetLineWidth(2 * f.Scale)
	dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, radius)
	dc.Stroke()

	inner := r.Inset(f.CellPadding(i))
	titleFace, err := ff.get(bold, f.TitleSize)
	if err != nil {
		return err
	}
	dc.SetFontFace(titleFace)
	dc.SetHexColor(cell.Palette.Text)
	dc.DrawStringAnchored(cell.Title, inner.X, inner.Y, 0, 1)

	subFace, err := ff.get(medium, f.SubtitleSize)
	if err != nil {
		return err
	}
	dc.SetFontFace(subFace)
	dc.SetHexColor(f.Theme.Muted)
	subY := inner.Y + f.TitleSize*1.15
	dc.DrawStringAnchored(cell.Subtitle, inner.X, subY, 0, 1)

	divY := subY + f.SubtitleSize*1.2 + 0.5*f.HeaderSize
	dc.SetHexColor(f.Theme.Divider)
	dc.SetLineWidth(1 * f.Scale)
	dc.DrawLine(inner.X, divY, inner.X+inner.W, divY)
	dc.Stroke()

	list := layout.Rect{X: inner.X, Y: divY + f.HeaderSize, W: inner.W, H: inner.Y + inner.H - divY - f.HeaderSize}
	taskFace, err := ff.get(medium, f.TaskSize)
	if err != nil {
		return err
	}
	if cell.Empty() {
		dc.SetFontFace(taskFace)
		dc.SetHexColor(withAlpha(f.Theme.Text, 0x4d))
		dc.DrawStringAnchored(layout.EmptyText, list.X+list.W/2, list.Y+list.H/2, 0.5, 0.5)
		return nil
	}

	chipFace, err := ff.get(regular, f.TaskSize*0.7)
	if err != nil {
		return err
	}
	y := list.Y
	bottom := list.Y + list.H
	indent := f.TaskSize * 1.2
	for _, item := range cell.Items {
		if y >= bottom {
			break
		}
		text := f.Theme.Text
		bullet := cell.Palette.Bullet
		if item.Completed {
			text = withAlpha(text, 0x80)
			bullet = withAlpha(bullet, 0x80)
		}
		dc.SetHexColor(bullet)
		dc.DrawCircle(list.X+0.2*f.TaskSize, y+0.6*f.TaskSize, 0.2*f.TaskSize)
		dc.Fill()

		dc.SetFontFace(taskFace)
		dc.SetHexColor(text)
		lineH := f.TaskSize * 1.25
		for _, line := range dc.WordWrap(item.Content, list.W-indent) {
			dc.DrawStringAnchored(line, list.X+indent, y, 0, 1)
			if item.Completed {
				w, _ := dc.MeasureString(line)
				mid := y + f.TaskSize*0.55
				dc.SetLineWidth(f.Scale * 2)
				dc.DrawLine(list.X+indent, mid, list.X+indent+w, mid)
				dc.Stroke()
			}
			y += lineH
		}
		if len(item.Subtasks) > 0 {
			y = drawChips(dc, f, chipFace, item.Subtasks, list.X+indent, y+0.3*f.TaskSize, list.W-indent)
		}
		y += f.LineGap
	}
	return nil
}

// drawChips lays subtask chips left to right, wrapping inside width, and
// returns the y below the last row.
func drawChips(dc *gg.Context, f layout.Frame, face font.Face, chips []string, x0, y0, width float64) float64 {
	size := f.TaskSize * 0.7
	padX, padY := 0.5*size, 0.1*size
	gap := 0.5 * f.TaskSize
	x, y := x0, y0
	rowH := size + 2*padY
	dc.SetFontFace(face)
	for _, chip := range chips {
		chip = strings.TrimSpace(chip)
		w, _ := dc.MeasureString(chip)
		cw := w + 2*padX
		if x > x0 && x+cw > x0+width {
			x = x0
			y += rowH + gap/2
		}
		dc.SetHexColor(f.Theme.Chip)
		dc.DrawRoundedRectangle(x, y, cw, rowH, 6*f.Scale)
		dc.Fill()
		dc.SetHexColor(f.Theme.Text)
		dc.DrawStringAnchored(chip, x+padX, y+padY, 0, 1)
		x += cw + gap
	}
	return y + rowH
}

// withAlpha replaces or appends the alpha byte of a #rrggbb color.
func withAlpha(hex string, a byte) string {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) >= 6 {
		hex = hex[:6]
	}
	const digits = "0123456789abcdef"
	return "#" + hex + string([]byte{digits[a>>4], digits[a&0x0f]})
}
