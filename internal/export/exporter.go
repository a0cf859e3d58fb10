package export

import (
	"fmt"
	"os"
	"path/filepath"

	"repairshop-billing/internal/core"
	"repairshop-billing/internal/logger"

	"github.com/google/uuid"
)

// Exporter renders bills to shareable invoice files.
type Exporter interface {
	ExportText(bill *core.Bill, outPath string) (string, error)
	ExportImages(bill *core.Bill, outDir string) ([]string, error)
	ExportTemporary(bill *core.Bill) (string, error)
}

type exporter struct {
	opts Options
	rend *renderer
	log  *logger.Logger
}

// NewExporter builds an invoice exporter with the given branding options.
func NewExporter(opts Options, log *logger.Logger) (Exporter, error) {
	rend, err := newRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to set up invoice renderer: %w", err)
	}
	return &exporter{opts: opts, rend: rend, log: log}, nil
}

// ExportText writes the plain-text invoice to outPath. An empty outPath
// defaults to <FileStem>.txt in the working directory.
func (e *exporter) ExportText(bill *core.Bill, outPath string) (string, error) {
	if bill == nil {
		return "", fmt.Errorf("bill is required")
	}
	if outPath == "" {
		outPath = FileStem(bill) + ".txt"
	}

	doc := BuildDocument(bill, e.opts)
	if err := os.WriteFile(outPath, []byte(RenderText(doc)), 0o644); err != nil {
		return "", fmt.Errorf("failed to write invoice: %w", err)
	}
	e.log.Info("invoice exported", "bill_id", bill.ID, "path", outPath, "pages", len(doc.Pages))
	return outPath, nil
}

// ExportImages renders each invoice page as a PNG under outDir and returns
// the written paths in page order.
func (e *exporter) ExportImages(bill *core.Bill, outDir string) ([]string, error) {
	if bill == nil {
		return nil, fmt.Errorf("bill is required")
	}
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	doc := BuildDocument(bill, e.opts)
	stem := FileStem(bill)

	paths := make([]string, 0, len(doc.Pages))
	for i, page := range doc.Pages {
		name := fmt.Sprintf("%s_p%d.png", stem, i+1)
		if len(doc.Pages) == 1 {
			name = stem + ".png"
		}
		outPath := filepath.Join(outDir, name)
		if err := e.rend.renderPage(page, outPath); err != nil {
			return nil, fmt.Errorf("failed to render page %d: %w", i+1, err)
		}
		paths = append(paths, outPath)
	}
	e.log.Info("invoice images exported", "bill_id", bill.ID, "pages", len(paths), "dir", outDir)
	return paths, nil
}

// ExportTemporary writes the text invoice to a uniquely named file in the
// system temp directory, for handing off to a viewer or share target.
func (e *exporter) ExportTemporary(bill *core.Bill) (string, error) {
	if bill == nil {
		return "", fmt.Errorf("bill is required")
	}
	name := fmt.Sprintf("%s_%s.txt", FileStem(bill), uuid.NewString())
	return e.ExportText(bill, filepath.Join(os.TempDir(), name))
}
