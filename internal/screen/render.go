package screen

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const title = "Contact List"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			MarginBottom(1)

	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230"))

	dimmedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// Render returns the contact list of state as text, one "<name>: <number>"
// line per contact below the title.
func Render(state State) string {
	return renderList(state, -1)
}

// renderList highlights the contact at index selected, if any.
func renderList(state State, selected int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	switch {
	case !state.Loaded:
		b.WriteString(dimmedStyle.Render("Loading contacts..."))
		b.WriteString("\n")
	case !state.Permitted:
		b.WriteString(dimmedStyle.Render("Contact permissions denied."))
		b.WriteString("\n")
	case len(state.Contacts) == 0:
		b.WriteString(dimmedStyle.Render("No contacts."))
		b.WriteString("\n")
	}

	for i, contact := range state.Contacts {
		line := Line(contact.Name, contact.Number)
		if i == selected {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// Line is the text shown for a single contact.
func Line(name string, number string) string {
	return name + ": " + number
}
