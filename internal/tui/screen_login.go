package tui

import (
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/gophcatalog/internal/api"
	"github.com/maynagashev/gophcatalog/internal/router"
	"github.com/maynagashev/gophcatalog/internal/schema"
)

// updateLoginScreen обрабатывает ввод данных для входа.
func (m *model) updateLoginScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.String() == keySignup {
			return m, m.navigate(router.PathSignup)
		}
		if cmd, handled := m.loginForm.handleKeys(keyMsg, m.submitLogin); handled {
			return m, cmd
		}
	}
	return m, m.loginForm.update(msg)
}

// submitLogin валидирует форму и отправляет запрос на вход.
func (m *model) submitLogin() tea.Cmd {
	if m.loginForm.submitting {
		return nil
	}
	m.loginForm.err = nil

	input := schema.LoginForm{
		Username: m.loginForm.value(schema.FieldUsername),
		Password: m.loginForm.value(schema.FieldPassword),
	}
	if !m.loginForm.applyValidation(schema.Validate(input)) {
		slog.Debug("Форма входа не прошла валидацию", "fields", m.loginForm.errors)
		return nil
	}

	m.loginForm.submitting = true
	return tea.Batch(m.makeLoginCmd(input.Request()), m.setStatusMessage("Выполняется вход..."))
}

// handleLoginSuccess сохраняет токен и открывает список товаров.
func (m *model) handleLoginSuccess(msg loginSuccessMsg) tea.Cmd {
	defer func() { m.loginForm.submitting = false }()

	slog.Info("Вход выполнен")
	cmds := []tea.Cmd{m.storeToken(msg.token)}
	cmds = append(cmds, m.navigate(router.PathProducts), m.setStatusMessage("Вход выполнен"))
	return tea.Batch(cmds...)
}

// handleLoginError показывает ошибку входа.
func (m *model) handleLoginError(msg LoginError) tea.Cmd {
	defer func() { m.loginForm.submitting = false }()

	slog.Warn("Ошибка входа", "error", msg.err)
	m.loginForm.err = msg.err
	return m.setStatusMessage("Ошибка входа: " + msg.Error())
}

// storeToken сохраняет токен в сессии. Ошибка хранилища не прерывает работу:
// токен остается в памяти до конца сеанса.
func (m *model) storeToken(token string) tea.Cmd {
	if err := m.session.SetToken(token); err != nil {
		slog.Error("Не удалось сохранить токен", "error", err)
		m.apiClient.SetAuthToken(token)
		return m.setStatusMessage("Токен не сохранен: " + err.Error())
	}
	m.apiClient.SetAuthToken(token)
	return nil
}

// handleSessionChecked обрабатывает результат проверки сохраненной сессии.
func (m *model) handleSessionChecked(msg sessionCheckedMsg) tea.Cmd {
	if m.state != loginScreen && m.state != signupScreen {
		return nil
	}
	if msg.active {
		slog.Info("Сохраненная сессия активна")
		return m.navigate(router.PathProducts)
	}
	return m.setStatusMessage("Сессия неактивна, войдите снова")
}

// handleSessionCheckError показывает ошибку проверки сессии, экран не меняется.
func (m *model) handleSessionCheckError(msg SessionCheckError) tea.Cmd {
	if m.state != loginScreen && m.state != signupScreen {
		return nil
	}
	slog.Warn("Ошибка проверки сессии", "error", msg.err)
	if errors.Is(msg.err, api.ErrAuthorization) {
		return m.setStatusMessage("Сессия истекла, войдите снова")
	}
	return m.setStatusMessage("Ошибка проверки сессии: " + msg.Error())
}

// viewLoginScreen отображает экран входа.
func (m *model) viewLoginScreen() string {
	return m.viewCredentialsScreen("Вход в учетную запись", "Нет учетной записи? Ctrl+N для регистрации", &m.loginForm)
}
