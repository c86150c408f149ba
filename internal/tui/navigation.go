package tui

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/gophcatalog/internal/router"
)

// navigate переключает экран по пути и выполняет действия при входе на него.
func (m *model) navigate(path string) tea.Cmd {
	route, err := m.router.Match(path)
	if err != nil {
		slog.Warn("Неизвестный маршрут, переход ко входу", "path", path, "error", err)
		route, _ = m.router.Match(router.PathLogin)
		cmd := m.enter(route)
		return tea.Batch(cmd, m.setStatusMessage("Страница не найдена: "+path))
	}
	return m.enter(route)
}

// enter монтирует экран маршрута.
func (m *model) enter(route router.Route) tea.Cmd {
	// Уход с экрана отменяет отложенный поиск
	m.searchSeq++
	m.overlay = overlayNone
	m.route = route
	slog.Info("Переход на экран", "route", route.Name, "path", route.Path)

	switch route.Name {
	case router.RouteSignup:
		return m.enterSignupScreen()
	case router.RouteProducts:
		return m.enterProductListScreen()
	case router.RouteProductDetail:
		return m.enterProductDetailScreen(route.ProductID)
	default:
		return m.enterLoginScreen()
	}
}

// syncToken передает токен сессии клиенту API. Возвращает false, если токена нет.
func (m *model) syncToken() bool {
	token := m.session.Token()
	m.apiClient.SetAuthToken(token)
	return token != ""
}

// bootstrapSession проверяет сохраненный токен при входе на экран входа/регистрации.
func (m *model) bootstrapSession() tea.Cmd {
	if !m.syncToken() {
		return nil
	}
	slog.Debug("Найден сохраненный токен, проверяем сессию")
	return m.checkSessionCmd()
}

func (m *model) enterLoginScreen() tea.Cmd {
	m.state = loginScreen
	m.loginForm.reset()
	return tea.Batch(textinput.Blink, m.bootstrapSession())
}

func (m *model) enterSignupScreen() tea.Cmd {
	m.state = signupScreen
	m.signupForm.reset()
	return tea.Batch(textinput.Blink, m.bootstrapSession())
}
