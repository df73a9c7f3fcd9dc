package tui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-list-keeper/internal/app"
	"github.com/MKhiriev/go-list-keeper/internal/service"
	"github.com/MKhiriev/go-list-keeper/models"
)

type mode int

const (
	modeList mode = iota
	modeDetail
	modeForm
	modeConfirm
	modeInfo
)

const statusTTL = 3 * time.Second

// writeClipboard is swapped in tests; CI machines have no clipboard.
var writeClipboard = clipboard.WriteAll

type confirmAction struct {
	question string
	run      tea.Cmd
}

type model struct {
	ctx    context.Context
	lists  service.ListService
	userID string
	build  models.AppBuildInfo

	items models.Snapshot
	idx   int

	// openID is the list shown in modeDetail; child is the cursor inside it
	openID string
	child  int

	mode    mode
	back    mode
	form    formModel
	confirm confirmAction

	loading bool
	spinner spinner.Model
	status  string
	errMsg  string
}

func newModel(ctx context.Context, lists service.ListService, userID string, build models.AppBuildInfo) model {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	return model{
		ctx:     ctx,
		lists:   lists,
		userID:  userID,
		build:   build,
		loading: true,
		spinner: s,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.cmdLoad(true))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.setItems(msg.items)
		return m, nil

	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = app.Message(msg.err)
			return m, nil
		}
		m.setItems(msg.items)
		return m, nil

	case opDoneMsg:
		if msg.err != nil {
			m.errMsg = app.Message(msg.err)
		} else {
			m.status = msg.status
		}
		return m, tea.Batch(m.cmdLoad(true), clearStatusLater())

	case copiedMsg:
		if msg.err != nil {
			m.status = "Не удалось скопировать"
		} else {
			m.status = "Скопировано в буфер обмена"
		}
		return m, clearStatusLater()

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	if m.mode == modeForm {
		var cmd tea.Cmd
		m.form, cmd = m.form.update(msg)
		return m, cmd
	}
	return m, nil
}

// setItems installs a snapshot and keeps both cursors in range. An open list
// that disappeared from the snapshot closes the detail screen.
func (m *model) setItems(items models.Snapshot) {
	m.items = items

	if m.openID != "" {
		if i, ok := m.indexOf(m.openID); ok {
			m.idx = i
		} else {
			m.openID = ""
			m.child = 0
			if m.mode == modeDetail {
				m.mode = modeList
				m.status = "Список удалён"
			}
		}
	}

	m.idx = clamp(m.idx, len(m.items))
	if l, ok := m.current(); ok {
		m.child = clamp(m.child, len(l.ChildItems))
	}
}

func (m model) indexOf(id string) (int, bool) {
	for i, l := range m.items {
		if l.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (m model) current() (models.List, bool) {
	if m.idx < 0 || m.idx >= len(m.items) {
		return models.List{}, false
	}
	return m.items[m.idx], true
}

func (m model) currentChild() (models.LineItem, bool) {
	l, ok := m.current()
	if !ok || m.child < 0 || m.child >= len(l.ChildItems) {
		return models.LineItem{}, false
	}
	return l.ChildItems[m.child], true
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

func (m model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.forceQuit) {
		return m, tea.Quit
	}

	// the error overlay swallows everything but its own close keys
	if m.errMsg != "" {
		if key.Matches(msg, keys.enter, keys.esc) {
			m.errMsg = ""
		}
		return m, nil
	}

	switch m.mode {
	case modeInfo:
		if key.Matches(msg, keys.esc, keys.info) {
			m.mode = modeList
		}
		return m, nil

	case modeConfirm:
		switch {
		case key.Matches(msg, keys.yes):
			m.mode = m.back
			return m, m.confirm.run
		case key.Matches(msg, keys.no):
			m.mode = m.back
		}
		return m, nil

	case modeForm:
		return m.updateForm(msg)

	case modeDetail:
		return m.updateDetail(msg)
	}

	return m.updateList(msg)
}

func (m model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	case key.Matches(msg, keys.up):
		m.idx = clamp(m.idx-1, len(m.items))
	case key.Matches(msg, keys.down):
		m.idx = clamp(m.idx+1, len(m.items))
	case key.Matches(msg, keys.enter):
		if l, ok := m.current(); ok {
			m.openID = l.ID
			m.child = 0
			m.mode = modeDetail
		}
	case key.Matches(msg, keys.newItem):
		m.openForm(newListForm(nil))
	case key.Matches(msg, keys.edit):
		if l, ok := m.current(); ok {
			m.openForm(newListForm(&l))
		}
	case key.Matches(msg, keys.delete):
		if l, ok := m.current(); ok {
			m.ask("Удалить \""+l.Name+"\"?", m.cmdDelete(l.ID))
		}
	case key.Matches(msg, keys.refresh):
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.cmdLoad(false))
	case key.Matches(msg, keys.info):
		m.mode = modeInfo
	}
	return m, nil
}

func (m model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	l, ok := m.current()
	if !ok {
		m.mode = modeList
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	case key.Matches(msg, keys.esc):
		m.mode = modeList
		m.openID = ""
	case key.Matches(msg, keys.up):
		m.child = clamp(m.child-1, len(l.ChildItems))
	case key.Matches(msg, keys.down):
		m.child = clamp(m.child+1, len(l.ChildItems))
	case key.Matches(msg, keys.addChild):
		m.openForm(newChildForm(l.ID, nil))
	case key.Matches(msg, keys.edit):
		if it, ok := m.currentChild(); ok {
			m.openForm(newChildForm(l.ID, &it))
		}
	case key.Matches(msg, keys.delete):
		if it, ok := m.currentChild(); ok {
			m.ask("Удалить \""+it.Title+"\"?", m.cmdRemoveChild(l.ID, it.ID))
		}
	case key.Matches(msg, keys.copy):
		return m, cmdCopy(formatList(l))
	}
	return m, nil
}

func (m model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.mode = m.back
		return m, nil
	case key.Matches(msg, keys.enter):
		cmd, err := m.submit()
		if err != nil {
			m.form.err = err.Error()
			return m, nil
		}
		m.mode = m.back
		return m, cmd
	case key.Matches(msg, keys.tab):
		m.form.moveFocus(1)
		return m, nil
	case key.Matches(msg, keys.backtab):
		m.form.moveFocus(-1)
		return m, nil
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m *model) openForm(f formModel) {
	m.back = m.mode
	m.form = f
	m.mode = modeForm
}

func (m *model) ask(question string, run tea.Cmd) {
	m.back = m.mode
	m.confirm = confirmAction{question: question, run: run}
	m.mode = modeConfirm
}

// submit turns the form into a service call. Range checks are left to the
// service so the UI reports them like any other rejected input.
func (m model) submit() (tea.Cmd, error) {
	f := m.form

	switch f.kind {
	case formNewList:
		qty, err := f.quantity()
		if err != nil {
			return nil, err
		}
		draft := models.List{Name: f.value(0), Quantity: qty, Description: f.value(2)}
		return m.cmdOp("Список добавлен", func(ctx context.Context) error {
			_, err := m.lists.CreateItem(ctx, m.userID, draft)
			return err
		}), nil

	case formEditList:
		qty, err := f.quantity()
		if err != nil {
			return nil, err
		}
		name, desc := f.value(0), f.value(2)
		upd := models.ListUpdate{Name: &name, Quantity: &qty, Description: &desc}
		return m.cmdOp("Список обновлён", func(ctx context.Context) error {
			_, err := m.lists.UpdateItem(ctx, m.userID, f.listID, upd)
			return err
		}), nil

	case formAddChild:
		price, err := f.price()
		if err != nil {
			return nil, err
		}
		title := f.value(0)
		return m.cmdOp("Позиция добавлена", func(ctx context.Context) error {
			_, err := m.lists.AddChildItem(ctx, m.userID, f.listID, title, price)
			return err
		}), nil

	case formEditChild:
		price, err := f.price()
		if err != nil {
			return nil, err
		}
		item := models.LineItem{ID: f.childID, Title: f.value(0), Price: price}
		return m.cmdOp("Позиция обновлена", func(ctx context.Context) error {
			return m.lists.UpdateChildItem(ctx, m.userID, f.listID, item)
		}), nil
	}
	return nil, nil
}

// ── commands ────────────────────────────────────────────────────────────────

func (m model) cmdLoad(useCache bool) tea.Cmd {
	return func() tea.Msg {
		items, err := m.lists.GetUserItems(m.ctx, m.userID, useCache)
		return loadedMsg{items: items, err: err}
	}
}

func (m model) cmdOp(status string, op func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{status: status, err: op(m.ctx)}
	}
}

func (m model) cmdDelete(listID string) tea.Cmd {
	return m.cmdOp("Список удалён", func(ctx context.Context) error {
		return m.lists.DeleteItem(ctx, m.userID, listID)
	})
}

func (m model) cmdRemoveChild(listID, childID string) tea.Cmd {
	return m.cmdOp("Позиция удалена", func(ctx context.Context) error {
		return m.lists.RemoveChildItem(ctx, m.userID, listID, childID)
	})
}

func cmdCopy(text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: writeClipboard(text)}
	}
}

func clearStatusLater() tea.Cmd {
	return tea.Tick(statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{} })
}
