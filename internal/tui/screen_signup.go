package tui

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/gophcatalog/internal/router"
	"github.com/maynagashev/gophcatalog/internal/schema"
)

// updateSignupScreen обрабатывает ввод данных для регистрации.
func (m *model) updateSignupScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.String() == keyEsc {
			return m, m.navigate(router.PathLogin)
		}
		if cmd, handled := m.signupForm.handleKeys(keyMsg, m.submitSignup); handled {
			return m, cmd
		}
	}
	return m, m.signupForm.update(msg)
}

// submitSignup валидирует форму и отправляет запрос на регистрацию.
func (m *model) submitSignup() tea.Cmd {
	if m.signupForm.submitting {
		return nil
	}
	m.signupForm.err = nil

	input := schema.SignupForm{
		Username: m.signupForm.value(schema.FieldUsername),
		Email:    m.signupForm.value(schema.FieldEmail),
		Password: m.signupForm.value(schema.FieldPassword),
	}
	if !m.signupForm.applyValidation(schema.Validate(input)) {
		return nil
	}

	m.signupForm.submitting = true
	return tea.Batch(m.makeSignupCmd(input.Request()), m.setStatusMessage("Регистрация..."))
}

// handleSignupSuccess открывает список, если сервер выдал токен, иначе экран входа.
func (m *model) handleSignupSuccess(msg signupSuccessMsg) tea.Cmd {
	defer func() { m.signupForm.submitting = false }()

	if msg.token == "" {
		slog.Info("Регистрация завершена, токен не выдан")
		return tea.Batch(m.navigate(router.PathLogin), m.setStatusMessage("Регистрация завершена, войдите"))
	}
	slog.Info("Регистрация завершена, вход выполнен")
	return tea.Batch(m.storeToken(msg.token), m.navigate(router.PathProducts), m.setStatusMessage("Регистрация завершена"))
}

// handleSignupError показывает ошибку регистрации.
func (m *model) handleSignupError(msg SignupError) tea.Cmd {
	defer func() { m.signupForm.submitting = false }()

	slog.Warn("Ошибка регистрации", "error", msg.err)
	m.signupForm.err = msg.err
	return m.setStatusMessage("Ошибка регистрации: " + msg.Error())
}

// viewSignupScreen отображает экран регистрации.
func (m *model) viewSignupScreen() string {
	return m.viewCredentialsScreen("Регистрация", "Уже есть учетная запись? Esc для входа", &m.signupForm)
}
