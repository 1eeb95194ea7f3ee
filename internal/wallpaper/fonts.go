package wallpaper

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

type weight int

const (
	regular weight = iota
	medium
	bold
)

var (
	fontsOnce sync.Once
	fontsErr  error
	parsed    map[weight]*opentype.Font
)

func loadFonts() error {
	fontsOnce.Do(func() {
		parsed = make(map[weight]*opentype.Font, 3)
		for w, ttf := range map[weight][]byte{regular: goregular.TTF, medium: gomedium.TTF, bold: gobold.TTF} {
			f, err := opentype.Parse(ttf)
			if err != nil {
				fontsErr = fmt.Errorf("wallpaper: parse font: %w", err)
				return
			}
			parsed[w] = f
		}
	})
	return fontsErr
}

// faces caches one face per weight and size for a single render.
type faces struct {
	cache map[faceKey]font.Face
}

type faceKey struct {
	w    weight
	size float64
}

func newFaces() (*faces, error) {
	if err := loadFonts(); err != nil {
		return nil, err
	}
	return &faces{cache: make(map[faceKey]font.Face)}, nil
}

func (f *faces) get(w weight, size float64) (font.Face, error) {
	if size < 1 {
		size = 1
	}
	key := faceKey{w, size}
	if face, ok := f.cache[key]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(parsed[w], &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("wallpaper: font face: %w", err)
	}
	f.cache[key] = face
	return face, nil
}

func (f *faces) close() {
	for _, face := range f.cache {
		_ = face.Close()
	}
}
