package tui

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/gophcatalog/internal/schema"
)

// openEditOverlay открывает форму редактирования, заполненную текущими значениями.
func (m *model) openEditOverlay() tea.Cmd {
	if m.product == nil {
		return nil
	}
	if m.editForm.submitting {
		return m.setStatusMessage("Предыдущее сохранение еще выполняется")
	}
	m.overlay = overlayEdit
	m.editForm.reset()

	input := m.product.Input()
	m.editForm.setValue(schema.FieldTitle, input.Title)
	m.editForm.setValue(schema.FieldProductTag, input.ProductTag)
	m.editForm.setValue(schema.FieldDealer, input.Dealer)
	m.editForm.setValue(schema.FieldDescription, input.Description)
	m.editForm.setValue(schema.FieldCompany, input.Company)
	return textinput.Blink
}

// updateEditOverlay обрабатывает ввод в форме редактирования.
func (m *model) updateEditOverlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.String() == keyEsc {
			m.overlay = overlayNone
			return m, nil
		}
		if cmd, handled := m.editForm.handleKeys(keyMsg, m.submitEdit); handled {
			return m, cmd
		}
	}
	return m, m.editForm.update(msg)
}

// submitEdit отправляет все изменяемые поля товара.
func (m *model) submitEdit() tea.Cmd {
	if m.editForm.submitting {
		return nil
	}
	m.editForm.err = nil

	input := schema.EditProductForm{
		Title:       m.editForm.value(schema.FieldTitle),
		ProductTag:  m.editForm.value(schema.FieldProductTag),
		Dealer:      m.editForm.value(schema.FieldDealer),
		Description: m.editForm.value(schema.FieldDescription),
		Company:     m.editForm.value(schema.FieldCompany),
	}
	if !m.editForm.applyValidation(schema.Validate(input)) {
		return nil
	}
	if !m.syncToken() {
		m.editForm.err = errNotAuthenticated
		return m.setStatusMessage("Ошибка: " + errNotAuthenticated.Error())
	}

	m.editForm.submitting = true
	return tea.Batch(m.updateProductCmd(m.productID, input.Input()), m.setStatusMessage("Сохранение изменений..."))
}

// handleProductUpdated показывает товар из ответа сервера без повторной загрузки.
func (m *model) handleProductUpdated(msg productUpdatedMsg) tea.Cmd {
	defer func() { m.editForm.submitting = false }()

	slog.Info("Товар обновлен", "id", msg.product.ID)
	// Ответ для другого товара не должен попасть в открытую карточку
	if m.state == productDetailScreen && msg.product.ID == m.productID {
		product := msg.product
		m.product = &product
		m.overlay = overlayNone
	}
	return m.setStatusMessage("Товар обновлен")
}

// handleProductUpdateError оставляет форму открытой и показывает ошибку.
func (m *model) handleProductUpdateError(msg ProductUpdateError) tea.Cmd {
	defer func() { m.editForm.submitting = false }()

	slog.Error("Ошибка обновления товара", "id", m.productID, "error", msg.err)
	m.editForm.err = msg.err
	return m.setStatusMessage("Ошибка обновления товара: " + msg.Error())
}

// viewEditOverlay отображает форму редактирования.
func (m *model) viewEditOverlay() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Редактирование товара") + "\n\n")
	b.WriteString(m.editForm.view())
	return b.String()
}
