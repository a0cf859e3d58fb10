package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// builtinCatalog returns the fixed catalog shipped with the application.
// Entries with a zero price are priced manually at billing time. The seed
// inserts this list into an empty services table; the merge adds entries
// missing by (name, category) without touching existing rows.
func builtinCatalog() []Service {
	svc := func(name string, price float64, category string) Service {
		return Service{Name: name, Price: decimal.NewFromFloat(price), Category: category, IsActive: true}
	}
	return []Service{
		svc("Hours - Red", 50.00, "HOURS"),
		svc("Hours - Blue", 75.00, "HOURS"),

		svc("VHS Convert - Red", 10.00, "VHS CONVERT"),
		svc("VHS Convert - Blue", 5.00, "VHS CONVERT"),

		svc("Photo Print B&W", 20.00, "PHOTO PRINT"),
		svc("Photo Print Color", 30.00, "PHOTO PRINT"),

		svc("Big Sur 11 (20)", 30.00, "OS X"),
		svc("Monterey 12 (21)", 30.00, "OS X"),
		svc("Ventura 13 (22)", 30.00, "OS X"),
		svc("Sonoma 14 (23)", 30.00, "OS X"),
		svc("Sequoia 15 (24)", 30.00, "OS X"),
		svc("Tahoe 26 (25)", 30.00, "OS X"),

		svc("Materials", 0, "LASER"),
		svc("Packaging", 0, "LASER"),
		svc("Time Mark", 0, "LASER"),
		svc("Time Engrave", 0, "LASER"),

		svc("RAM", 0, "EQUIPMENT"),
		svc("Laptop", 0, "EQUIPMENT"),
		svc("Desktop", 0, "EQUIPMENT"),
		svc("Modem", 0, "EQUIPMENT"),
		svc("Router", 0, "EQUIPMENT"),
		svc("Monitor", 0, "EQUIPMENT"),
		svc("NVME", 0, "EQUIPMENT"),
		svc("KB&M", 0, "EQUIPMENT"),
		svc("Sec. Camera", 0, "EQUIPMENT"),
	}
}

// BuiltinCategories returns the distinct categories of the built-in catalog
// in first-seen order. The health check verifies all of them are present.
func BuiltinCategories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range builtinCatalog() {
		if !seen[s.Category] {
			seen[s.Category] = true
			out = append(out, s.Category)
		}
	}
	return out
}

// DescriptionForService derives a bill item description from a catalog
// entry: some categories prepend a short prefix so the line reads naturally
// on the printed invoice.
func DescriptionForService(name, category string) string {
	var prefix string
	switch strings.ToUpper(category) {
	case "LASER":
		prefix = "LZR"
	case "EQUIPMENT":
		prefix = "EQP"
	case "OS", "OS X":
		prefix = "OS"
	}
	if prefix == "" {
		return name
	}
	return prefix + " " + name
}
