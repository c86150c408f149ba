package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

//nolint:gochecknoglobals // Стили экранов
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// viewCredentialsScreen отображает общий экран входа/регистрации.
func (m *model) viewCredentialsScreen(title, hint string, f *form) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title) + "\n\n")
	b.WriteString(f.view() + "\n")
	b.WriteString(subtleStyle.Render(hint) + "\n")
	return b.String()
}
