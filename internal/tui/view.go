package tui

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/go-list-keeper/models"
)

const maxNameWidth = 36

func (m model) View() string {
	if m.errMsg != "" {
		return overlayBoxStyle.Render("Ошибка\n\n" + errorStyle.Render(m.errMsg) + "\n\nenter / esc закрыть")
	}

	switch m.mode {
	case modeInfo:
		return renderBuildInfoWindow(m.build)
	case modeForm:
		return m.form.View()
	case modeConfirm:
		return overlayBoxStyle.Render(m.confirm.question + "\n\ny да    n нет")
	case modeDetail:
		return m.viewDetail()
	}
	return m.viewList()
}

func (m model) header(title string) string {
	if m.loading {
		title += "  " + m.spinner.View()
	}
	return titleStyle.Render(title)
}

func (m model) footer(b *strings.Builder) {
	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}
}

func (m model) viewList() string {
	var b strings.Builder

	switch {
	case m.loading && len(m.items) == 0:
		b.WriteString("Загрузка...\n")
	case len(m.items) == 0:
		b.WriteString("Нет списков\n")
	default:
		for i, l := range m.items {
			line := fmt.Sprintf("%s x%d  (%d поз.)", fitText(l.Name, maxNameWidth), l.Quantity, len(l.ChildItems))
			if models.IsTempID(l.ID) {
				line += pendingStyle.Render("  сохраняется...")
			}
			if i == m.idx {
				line = selectedStyle.Render("> " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line + "\n")
		}
	}
	m.footer(&b)

	return renderPage(m.header("СПИСКИ"), b.String(),
		"enter: открыть  n: новый  e: изменить  d: удалить  s: обновить  v: о программе  q: выход")
}

func (m model) viewDetail() string {
	l, ok := m.current()
	if !ok {
		return m.viewList()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Количество: %d\n", l.Quantity)
	if l.Description != "" {
		b.WriteString("Описание:   " + l.Description + "\n")
	}
	b.WriteString("\n")

	if len(l.ChildItems) == 0 {
		b.WriteString("Нет позиций\n")
	}
	for i, it := range l.ChildItems {
		line := padRight(fitText(it.Title, maxNameWidth), maxNameWidth+2) + formatPrice(it.Price)
		if i == m.child {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	if len(l.ChildItems) > 0 {
		b.WriteString("\n  " + padRight("Итого", maxNameWidth+2) + formatPrice(total(l.ChildItems)) + "\n")
	}
	m.footer(&b)

	return renderPage(m.header(l.Name), b.String(),
		"a: добавить  e: изменить  d: удалить  c: копировать  esc: назад")
}
