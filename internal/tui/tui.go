package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/maynagashev/gophcatalog/internal/api"
	"github.com/maynagashev/gophcatalog/internal/session"
)

// Константы оформления.
const (
	statusMessageTimeout     = 2 * time.Second
	helpStatusHeightOffset   = 4 // Строки под справку и статус
	docStyleMarginVertical   = 1
	docStyleMarginHorizontal = 2
)

//nolint:gochecknoglobals // Стили служебных строк
var (
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	debugStyle  = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)
)

// Options задает зависимости и параметры запуска TUI.
type Options struct {
	Client     api.Client
	Session    *session.Session
	ServerURL  string
	StartRoute string // Начальный путь, например "/product/7"
	Debug      bool
}

// Init - команда, выполняемая при запуске приложения.
func (m *model) Init() tea.Cmd {
	return m.navigate(m.startPath)
}

// setStatusMessage показывает всплывающее сообщение и планирует его скрытие.
func (m *model) setStatusMessage(status string) tea.Cmd {
	m.statusMessage = status
	return clearStatusCmd(m.statusTimeout)
}

// getMainContentView возвращает содержимое текущего экрана.
func (m *model) getMainContentView() string {
	switch m.state {
	case loginScreen:
		return m.viewLoginScreen()
	case signupScreen:
		return m.viewSignupScreen()
	case productListScreen:
		if m.overlay == overlayAdd {
			return m.viewOverlay(m.viewAddOverlay())
		}
		return m.viewProductListScreen()
	case productDetailScreen:
		if m.overlay == overlayEdit {
			return m.viewOverlay(m.viewEditOverlay())
		}
		return m.viewProductDetailScreen()
	default:
		return "Неизвестное состояние!"
	}
}

// View отрисовывает пользовательский интерфейс.
func (m *model) View() string {
	var b strings.Builder
	b.WriteString(m.getMainContentView())

	if help := m.currentHelp(); help != "" {
		b.WriteString("\n" + helpStyle.Render(help))
	}
	if m.statusMessage != "" {
		b.WriteString("\n" + statusStyle.Render(m.statusMessage))
	}
	if m.debugMode {
		b.WriteString("\n" + m.viewDebugPanel())
	}
	return m.docStyle.Render(b.String())
}

// currentHelp возвращает подсказку для экрана или оверлея.
func (m *model) currentHelp() string {
	switch m.overlay {
	case overlayAdd:
		return "(Tab: следующее поле, Ctrl+O: добавить изображение, Ctrl+X: убрать последнее, Ctrl+S: сохранить, Esc: отмена)"
	case overlayEdit:
		return "(Tab: следующее поле, Ctrl+S/Enter на последнем поле: сохранить, Esc: отмена)"
	case overlayNone:
	}
	return m.helpTextMap[m.state]
}

// viewDebugPanel отображает служебную информацию о состоянии.
func (m *model) viewDebugPanel() string {
	subject := m.session.Subject()
	lines := []string{
		fmt.Sprintf("screen: %s  route: %s (%s)  overlay: %d", m.state, m.route.Name, m.route.Path, m.overlay),
		fmt.Sprintf("server: %s", m.serverURL),
		fmt.Sprintf("token: %t  subject: %s", m.session.HasToken(), dash(subject)),
		fmt.Sprintf("list: %s  detail: %s  search seq: %d  keyword: %q",
			m.listStatus, m.detailStatus, m.searchSeq, m.lastKeyword),
	}
	return debugStyle.Render(strings.Join(lines, "\n"))
}

// Start запускает TUI приложение и блокируется до выхода.
func Start(ctx context.Context, opts Options) error {
	m := initModel(ctx, opts)
	// Используем AltScreen для корректной работы списка
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		slog.Error("Ошибка при запуске TUI", "error", err)
		return fmt.Errorf("ошибка TUI: %w", err)
	}
	return nil
}
