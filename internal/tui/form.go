package tui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-list-keeper/models"
)

type formKind int

const (
	formNewList formKind = iota
	formEditList
	formAddChild
	formEditChild
)

var (
	errQuantityNotNumber = errors.New("количество должно быть целым числом")
	errPriceNotNumber    = errors.New("цена должна быть числом")
)

type formModel struct {
	kind    formKind
	title   string
	labels  []string
	inputs  []textinput.Model
	focus   int
	listID  string
	childID string
	err     string
}

func newInputs(n int) []textinput.Model {
	inputs := make([]textinput.Model, n)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 40
	}
	inputs[0].Focus()
	return inputs
}

// newListForm edits l, or starts an empty list when l is nil.
func newListForm(l *models.List) formModel {
	f := formModel{
		kind:   formNewList,
		title:  "Новый список",
		labels: []string{"Название", "Количество", "Описание"},
		inputs: newInputs(3),
	}
	f.inputs[1].SetValue("1")

	if l != nil {
		f.kind = formEditList
		f.title = "Редактирование: " + l.Name
		f.listID = l.ID
		f.inputs[0].SetValue(l.Name)
		f.inputs[1].SetValue(strconv.Itoa(l.Quantity))
		f.inputs[2].SetValue(l.Description)
	}
	return f
}

func newChildForm(listID string, item *models.LineItem) formModel {
	f := formModel{
		kind:   formAddChild,
		title:  "Новая позиция",
		labels: []string{"Название", "Цена"},
		inputs: newInputs(2),
		listID: listID,
	}

	if item != nil {
		f.kind = formEditChild
		f.title = "Редактирование: " + item.Title
		f.childID = item.ID
		f.inputs[0].SetValue(item.Title)
		f.inputs[1].SetValue(strconv.FormatFloat(item.Price, 'f', -1, 64))
	}
	return f
}

func (f formModel) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

func (f formModel) quantity() (int, error) {
	q, err := strconv.Atoi(f.value(1))
	if err != nil {
		return 0, errQuantityNotNumber
	}
	return q, nil
}

func (f formModel) price() (float64, error) {
	p, err := strconv.ParseFloat(strings.ReplaceAll(f.value(1), ",", "."), 64)
	if err != nil {
		return 0, errPriceNotNumber
	}
	return p, nil
}

func (f *formModel) moveFocus(step int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + step + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f formModel) update(msg tea.Msg) (formModel, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f formModel) View() string {
	var b strings.Builder
	for i, in := range f.inputs {
		b.WriteString(padRight(f.labels[i]+":", 12))
		b.WriteString("[" + in.View() + "]\n")
	}
	if f.err != "" {
		b.WriteString("\n" + errorStyle.Render(f.err) + "\n")
	}
	return renderPage(titleStyle.Render(f.title), b.String(), "tab: следующее поле  enter: сохранить  esc: отмена")
}
