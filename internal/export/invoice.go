package export

import (
	"fmt"
	"strings"

	"repairshop-billing/internal/core"
)

const (
	lineWidth       = 37
	descWidth       = 22
	itemRowsPerPage = 24
)

// Options control invoice branding. Zero values fall back to neutral
// defaults so an unconfigured shop still gets a usable document.
type Options struct {
	ShopName string
	Tagline  string
	Website  string
	Phone    string
}

func (o Options) withDefaults() Options {
	if o.ShopName == "" {
		o.ShopName = "Repair Shop"
	}
	if o.Tagline == "" {
		o.Tagline = "Service Invoice"
	}
	return o
}

// Page is one printable page of an invoice: a fixed set of text lines.
type Page struct {
	Lines []string
}

// Document is a fully laid-out invoice, split into pages when the item
// list exceeds the per-page row budget.
type Document struct {
	Bill  *core.Bill
	Pages []Page
}

// BuildDocument lays out the bill as paginated text lines. The first page
// carries the full header and the last page the total block; middle pages
// repeat a compact header so each page identifies its bill.
func BuildDocument(bill *core.Bill, opts Options) *Document {
	opts = opts.withDefaults()

	chunks := chunkItems(bill.Items, itemRowsPerPage)
	doc := &Document{Bill: bill}

	for i, chunk := range chunks {
		var lines []string
		if i == 0 {
			lines = append(lines, headerLines(bill, opts)...)
		} else {
			lines = append(lines,
				fmt.Sprintf("%s (continued)", opts.ShopName),
				fmt.Sprintf("Bill #%04d, page %d of %d", bill.ID, i+1, len(chunks)),
				"")
		}

		lines = append(lines,
			"SERVICES:",
			rule('='),
			fmt.Sprintf("%-*s %3s  %6s", descWidth, "Service", "Qty", "Price"),
			rule('-'))
		for _, item := range chunk {
			lines = append(lines, itemRow(item))
		}

		if i == len(chunks)-1 {
			lines = append(lines, totalLines(bill, opts)...)
		} else {
			lines = append(lines, rule('-'), "(continued on next page)")
		}
		doc.Pages = append(doc.Pages, Page{Lines: lines})
	}
	return doc
}

func headerLines(bill *core.Bill, opts Options) []string {
	lines := []string{
		rule('='),
		center(opts.ShopName),
		center(opts.Tagline),
		rule('='),
		"",
		"CUSTOMER INFORMATION:",
		fmt.Sprintf("Name: %s", bill.CustomerName),
	}
	if bill.DeviceType != "" {
		lines = append(lines, fmt.Sprintf("Device: %s", bill.DeviceType))
	}
	lines = append(lines,
		"",
		"BILL INFORMATION:",
		fmt.Sprintf("Date: %s", bill.Date.Format("01/02/2006")),
		fmt.Sprintf("Bill #: #%04d", bill.ID),
		"")
	return lines
}

func totalLines(bill *core.Bill, opts Options) []string {
	lines := []string{
		rule('-'),
		fmt.Sprintf("%-*s $%6s", descWidth+4, "TOTAL:", bill.Total().StringFixed(2)),
		rule('='),
		"",
		"Thank you for your business!",
	}
	if opts.Website != "" || opts.Phone != "" {
		lines = append(lines, "", "Contact Information:")
		if opts.Website != "" {
			lines = append(lines, fmt.Sprintf("Website: %s", opts.Website))
		}
		if opts.Phone != "" {
			lines = append(lines, fmt.Sprintf("Phone: %s", opts.Phone))
		}
	}
	lines = append(lines, "", rule('='))
	return lines
}

func itemRow(item core.BillItem) string {
	desc := item.Description
	if len(desc) > descWidth {
		desc = desc[:descWidth-3] + "..."
	}
	return fmt.Sprintf("%-*s %3d  $%6s", descWidth, desc, item.Quantity, item.LineTotal().StringFixed(2))
}

func chunkItems(items []core.BillItem, size int) [][]core.BillItem {
	if len(items) == 0 {
		return [][]core.BillItem{nil}
	}
	var chunks [][]core.BillItem
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

func rule(ch byte) string {
	return strings.Repeat(string(ch), lineWidth)
}

func center(s string) string {
	if len(s) >= lineWidth {
		return s
	}
	pad := (lineWidth - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}

// RenderText flattens the document into a single plain-text invoice, with
// a form feed between pages.
func RenderText(doc *Document) string {
	var b strings.Builder
	for i, page := range doc.Pages {
		if i > 0 {
			b.WriteString("\f")
		}
		for _, line := range page.Lines {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// FileStem builds a filesystem-safe base name for exported invoice files.
func FileStem(bill *core.Bill) string {
	name := sanitizeFileName(bill.CustomerName)
	return fmt.Sprintf("Bill_%s_%s", name, bill.Date.Format("2006-01-02"))
}

func sanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Unknown"
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r < 0x20, strings.ContainsRune(`<>:"/\|?*`, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
