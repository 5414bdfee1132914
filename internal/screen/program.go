package screen

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type mode int

const (
	modeList mode = iota
	modeAppMenu
	modeContextMenu
	modeCreateForm
	modeUpdateForm
)

// Menu entries.
const (
	itemAscending  = "Ascending"
	itemDescending = "Descending"
	itemCreate     = "Create Contact"
	itemDelete     = "Delete"
	itemUpdate     = "Update"
)

var (
	appMenu     = []string{itemAscending, itemDescending, itemCreate}
	contextMenu = []string{itemDelete, itemUpdate}
)

// Form field indices.
const (
	fieldName = iota
	fieldPhone
	fieldCount
)

// stateMsg carries the state after a screen operation has finished.
type stateMsg State

// Model is the bubbletea model of the contact list. It forwards user
// actions to a Screen as commands and renders the resulting state.
type Model struct {
	ctx    context.Context
	screen *Screen
	state  State

	mode     mode
	selected int
	menuItem int
	busy     bool

	// form
	inputs  []textinput.Model
	field   int
	editing int64
}

// NewModel returns the program model for s. If s has not been opened yet,
// Init opens it.
func NewModel(ctx context.Context, s *Screen) Model {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 40
		inputs[i].CharLimit = 200
		inputs[i].Prompt = "> "
	}
	inputs[fieldName].Placeholder = "Name"
	inputs[fieldPhone].Placeholder = "Phone"

	state := s.State()
	return Model{
		ctx:    ctx,
		screen: s,
		state:  state,
		inputs: inputs,
		busy:   !state.Loaded,
	}
}

func (m Model) Init() tea.Cmd {
	if m.state.Loaded {
		return nil
	}
	return m.run(m.screen.Open)
}

// run executes op off the update loop and reports its state.
func (m Model) run(op func(ctx context.Context) State) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return stateMsg(op(ctx))
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		m.state = State(msg)
		m.busy = false
		m.selected = clamp(m.selected, len(m.state.Contacts))
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeAppMenu, modeContextMenu:
			return m.updateMenu(msg)
		case modeCreateForm, modeUpdateForm:
			return m.updateForm(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.state.Contacts)-1 {
			m.selected++
		}
	case "m":
		if !m.busy {
			m.mode = modeAppMenu
			m.menuItem = 0
		}
	case "enter":
		if !m.busy && len(m.state.Contacts) > 0 {
			m.mode = modeContextMenu
			m.menuItem = 0
		}
	}
	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.menuItems()
	switch msg.String() {
	case "esc", "q":
		m.mode = modeList
	case "up", "k":
		if m.menuItem > 0 {
			m.menuItem--
		}
	case "down", "j":
		if m.menuItem < len(items)-1 {
			m.menuItem++
		}
	case "enter":
		return m.choose(items[m.menuItem])
	}
	return m, nil
}

// choose performs the action behind a menu entry.
func (m Model) choose(item string) (tea.Model, tea.Cmd) {
	m.mode = modeList
	switch item {
	case itemAscending:
		m.busy = true
		return m, m.run(m.screen.SortAscending)
	case itemDescending:
		m.busy = true
		return m, m.run(m.screen.SortDescending)
	case itemCreate:
		return m.openForm(modeCreateForm, 0, "", "")
	case itemDelete:
		id := m.state.Contacts[m.selected].Id
		m.busy = true
		return m, m.run(func(ctx context.Context) State {
			return m.screen.Delete(ctx, id)
		})
	case itemUpdate:
		contact := m.state.Contacts[m.selected]
		return m.openForm(modeUpdateForm, contact.Id, contact.Name, contact.Number)
	}
	return m, nil
}

func (m Model) openForm(formMode mode, id int64, name string, phone string) (tea.Model, tea.Cmd) {
	m.mode = formMode
	m.editing = id
	m.inputs[fieldName].SetValue(name)
	m.inputs[fieldPhone].SetValue(phone)
	for i := range m.inputs {
		m.inputs[i].CursorEnd()
	}
	m.inputs[fieldPhone].Blur()
	m.field = fieldName
	return m, m.inputs[fieldName].Focus()
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.inputs[m.field].Blur()
		m.mode = modeList
		return m, nil
	case "tab", "shift+tab", "up", "down":
		return m.focus((m.field + 1) % fieldCount)
	case "enter":
		if m.field == fieldName {
			return m.focus(fieldPhone)
		}
		return m.submit()
	}

	var cmd tea.Cmd
	m.inputs[m.field], cmd = m.inputs[m.field].Update(msg)
	return m, cmd
}

func (m Model) focus(field int) (tea.Model, tea.Cmd) {
	m.inputs[m.field].Blur()
	m.field = field
	return m, m.inputs[m.field].Focus()
}

// submit hands the form values to the screen. Values are taken as typed.
func (m Model) submit() (tea.Model, tea.Cmd) {
	name := m.inputs[fieldName].Value()
	phone := m.inputs[fieldPhone].Value()
	m.inputs[m.field].Blur()

	formMode := m.mode
	id := m.editing
	m.mode = modeList
	m.busy = true
	if formMode == modeUpdateForm {
		return m, m.run(func(ctx context.Context) State {
			return m.screen.Update(ctx, id, name, phone)
		})
	}
	return m, m.run(func(ctx context.Context) State {
		return m.screen.Create(ctx, name, phone)
	})
}

func (m Model) menuItems() []string {
	if m.mode == modeContextMenu {
		return contextMenu
	}
	return appMenu
}

func (m Model) View() string {
	var b strings.Builder
	selected := -1
	if m.mode == modeList || m.mode == modeContextMenu {
		selected = m.selected
	}
	b.WriteString(renderList(m.state, selected))
	b.WriteString("\n")

	switch m.mode {
	case modeAppMenu, modeContextMenu:
		b.WriteString(m.viewMenu())
	case modeCreateForm:
		b.WriteString(m.viewForm("Create Contact"))
	case modeUpdateForm:
		b.WriteString(m.viewForm("Update Contact"))
	default:
		help := "↑/↓ select • enter actions • m menu • q quit"
		if m.busy {
			help = "working..."
		}
		b.WriteString(dimmedStyle.Render(help))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewMenu() string {
	var lines []string
	for i, item := range m.menuItems() {
		if i == m.menuItem {
			lines = append(lines, selectedStyle.Render(item))
		} else {
			lines = append(lines, item)
		}
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) viewForm(heading string) string {
	body := heading + "\n\n" +
		"Name\n" + m.inputs[fieldName].View() + "\n" +
		"Phone\n" + m.inputs[fieldPhone].View() + "\n\n" +
		dimmedStyle.Render("enter confirm • esc cancel")
	return boxStyle.Render(body)
}

func clamp(i int, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
