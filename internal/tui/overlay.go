package tui

import "github.com/charmbracelet/lipgloss"

//nolint:gochecknoglobals // Стиль модального окна
var overlayStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("62")).
	Padding(1, 2)

// viewOverlay отображает содержимое в рамке по центру экрана.
// До первого WindowSizeMsg размеры неизвестны, окно выводится без центрирования.
func (m *model) viewOverlay(content string) string {
	box := overlayStyle.Render(content)
	if m.width == 0 || m.height == 0 {
		return box
	}
	h, v := m.docStyle.GetFrameSize()
	return lipgloss.Place(m.width-h, m.height-v-helpStatusHeightOffset, lipgloss.Center, lipgloss.Center, box)
}
