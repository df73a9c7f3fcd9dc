package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/go-list-keeper/models"
)

const uiDivider = "──────────────────────────────────────────────────────"

func renderPage(title, data, hotKeys string) string {
	var b strings.Builder

	b.WriteString(title)
	b.WriteString("\n  ")
	b.WriteString(uiDivider)
	b.WriteString("\n\n")

	if strings.TrimSpace(data) != "" {
		for _, line := range strings.Split(strings.TrimRight(data, "\n"), "\n") {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	} else {
		b.WriteString("  -\n")
	}

	b.WriteString("\n  ")
	b.WriteString(uiDivider)
	b.WriteString("\n")

	if strings.TrimSpace(hotKeys) != "" {
		b.WriteString("  ")
		b.WriteString(helpStyle.Render(hotKeys))
		b.WriteString("\n")
	}
	b.WriteString("  " + helpStyle.Render("ctrl+c: выход"))

	return appStyle.Render(b.String())
}

func padRight(v string, width int) string {
	if n := utf8.RuneCountInString(v); n < width {
		return v + strings.Repeat(" ", width-n)
	}
	return v
}

func fitText(v string, max int) string {
	r := []rune(v)
	if max <= 0 || len(r) <= max {
		return v
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

func formatPrice(p float64) string {
	return fmt.Sprintf("%.2f", p)
}

func total(items []models.LineItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Price
	}
	return sum
}

// formatList renders l as plain text for the clipboard.
func formatList(l models.List) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s x%d\n", l.Name, l.Quantity)
	if l.Description != "" {
		b.WriteString(l.Description + "\n")
	}
	for _, it := range l.ChildItems {
		fmt.Fprintf(&b, "- %s: %s\n", it.Title, formatPrice(it.Price))
	}
	if len(l.ChildItems) > 0 {
		fmt.Fprintf(&b, "Итого: %s\n", formatPrice(total(l.ChildItems)))
	}
	return b.String()
}
