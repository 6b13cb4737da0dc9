package thumbnail

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	canvasW = 300
	canvasH = 400

	titleSize     = 16
	titleMaxWidth = 280
	titleBaseline = 340
	titleLeading  = 20
)

var (
	colorBackground = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
	colorBorder     = color.RGBA{0xd1, 0xd5, 0xdb, 0xff}
	colorBook       = color.RGBA{0x6b, 0x72, 0x80, 0xff}
	colorSpine      = color.RGBA{0x9c, 0xa3, 0xaf, 0xff}
	colorText       = color.RGBA{0x37, 0x41, 0x51, 0xff}
)

var parseRegular = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

// Placeholder draws a generic book cover with the title underneath.
type Placeholder struct{}

func NewPlaceholder() *Placeholder { return &Placeholder{} }

func (p *Placeholder) Name() string { return "placeholder" }

func (p *Placeholder) Available(context.Context) bool { return true }

func (p *Placeholder) Render(_ context.Context, req Request) error {
	img, err := drawCover(req.Title)
	if err != nil {
		return err
	}
	return writePNG(req.OutputPath, img)
}

func drawCover(title string) (*image.RGBA, error) {
	fnt, err := parseRegular()
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	// Faces hold a glyph buffer and are not shared across renders.
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    titleSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	defer face.Close()

	img := image.NewRGBA(image.Rect(0, 0, canvasW, canvasH))
	fill(img, img.Bounds(), colorBackground)

	// 2px frame
	fill(img, image.Rect(0, 0, canvasW, 2), colorBorder)
	fill(img, image.Rect(0, canvasH-2, canvasW, canvasH), colorBorder)
	fill(img, image.Rect(0, 0, 2, canvasH), colorBorder)
	fill(img, image.Rect(canvasW-2, 0, canvasW, canvasH), colorBorder)

	fill(img, image.Rect(75, 100, 225, 300), colorBook)
	fill(img, image.Rect(75, 100, 225, 120), colorSpine)

	d := &font.Drawer{Dst: img, Src: image.NewUniform(colorText), Face: face}
	measure := func(s string) int { return d.MeasureString(s).Ceil() }

	y := titleBaseline
	for _, line := range wrapWords(title, titleMaxWidth, measure) {
		x := canvasW/2 - measure(line)/2
		d.Dot = fixed.P(x, y)
		d.DrawString(line)
		y += titleLeading
	}
	return img, nil
}

// wrapWords breaks title greedily so that no line (with its trailing
// space) exceeds maxWidth, except a single word that is wider on its own.
func wrapWords(title string, maxWidth int, measure func(string) int) []string {
	words := strings.Split(title, " ")
	var (
		lines []string
		line  string
	)
	for i, w := range words {
		candidate := line + w + " "
		if i > 0 && measure(candidate) > maxWidth {
			lines = append(lines, strings.TrimSpace(line))
			line = w + " "
			continue
		}
		line = candidate
	}
	return append(lines, strings.TrimSpace(line))
}

func fill(img draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// writePNG encodes into a temp file next to path and renames it into
// place, so readers never see a half-written image.
func writePNG(path string, img image.Image) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".thumb-*.png")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
