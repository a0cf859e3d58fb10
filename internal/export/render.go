package export

import (
	"fmt"
	"image/color"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

const (
	pageWidth  = 620
	pageHeight = 800
	marginX    = 40.0
	marginY    = 48.0
	fontSize   = 15.0
	lineHeight = 22.0
)

// renderer draws invoice pages as raster images using a monospace face so
// the text layout's column alignment carries over unchanged.
type renderer struct {
	face font.Face
}

// newRenderer loads the page font. INVOICE_FONT overrides the bundled
// monospace face with a TTF from disk.
func newRenderer() (*renderer, error) {
	face, err := loadFontFace(os.Getenv("INVOICE_FONT"), fontSize)
	if err != nil {
		return nil, err
	}
	return &renderer{face: face}, nil
}

func loadFontFace(fontPath string, size float64) (font.Face, error) {
	fontBytes := gomono.TTF
	if fontPath != "" {
		b, err := os.ReadFile(fontPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read font file: %w", err)
		}
		fontBytes = b
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	face := truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	return face, nil
}

// renderPage draws one page onto a white canvas and encodes it as PNG.
func (r *renderer) renderPage(page Page, outPath string) error {
	dc := gg.NewContext(pageWidth, pageHeight)

	dc.SetColor(color.White)
	dc.DrawRectangle(0, 0, pageWidth, pageHeight)
	dc.Fill()

	dc.SetFontFace(r.face)
	dc.SetColor(color.Black)

	y := marginY
	for _, line := range page.Lines {
		dc.DrawString(line, marginX, y)
		y += lineHeight
	}

	if err := dc.SavePNG(outPath); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}
