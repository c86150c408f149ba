package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/gophcatalog/internal/api"
	"github.com/maynagashev/gophcatalog/internal/router"
)

// enterProductDetailScreen открывает карточку товара и загружает ее.
func (m *model) enterProductDetailScreen(id int64) tea.Cmd {
	m.state = productDetailScreen
	m.productID = id
	m.product = nil
	m.productImages = nil
	m.detailErr = nil
	m.deleting = false
	m.deleteErr = nil

	if !m.syncToken() {
		m.detailStatus = statusError
		m.detailErr = errNotAuthenticated
		slog.Warn("Карточка товара недоступна без токена", "id", id)
		return m.setStatusMessage("Войдите, чтобы просматривать товары")
	}

	m.detailStatus = statusLoading
	return m.loadProductCmd(id)
}

// updateProductDetailScreen обрабатывает клавиши карточки товара.
func (m *model) updateProductDetailScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case keyDelete:
		return m, m.deleteProduct()
	case keyEdit:
		return m, m.openEditOverlay()
	case keyBack, keyEsc:
		if !m.session.HasToken() {
			return m, m.navigate(router.PathLogin)
		}
		return m, m.navigate(router.PathProducts)
	}
	return m, nil
}

// deleteProduct отправляет запрос на удаление открытого товара.
func (m *model) deleteProduct() tea.Cmd {
	if m.product == nil || m.deleting {
		return nil
	}
	if !m.syncToken() {
		m.deleteErr = errNotAuthenticated
		return m.setStatusMessage("Ошибка удаления: " + errNotAuthenticated.Error())
	}
	m.deleting = true
	m.deleteErr = nil
	slog.Info("Удаление товара", "id", m.productID)
	return tea.Batch(m.deleteProductCmd(m.productID), m.setStatusMessage("Удаление..."))
}

// handleProductLoaded показывает загруженный товар.
func (m *model) handleProductLoaded(msg productLoadedMsg) tea.Cmd {
	if m.state != productDetailScreen || msg.id != m.productID {
		return nil
	}
	product := msg.details.Product
	m.product = &product
	m.productImages = msg.details.Images
	m.detailStatus = statusReady
	m.detailErr = nil
	return nil
}

// handleProductLoadError переводит карточку в состояние ошибки.
func (m *model) handleProductLoadError(msg ProductLoadError) tea.Cmd {
	if m.state != productDetailScreen || msg.id != m.productID {
		return nil
	}
	slog.Error("Ошибка загрузки товара", "id", msg.id, "error", msg.err)
	m.detailStatus = statusError
	m.detailErr = msg.err
	if errors.Is(msg.err, api.ErrNotFound) {
		return m.setStatusMessage("Товар не найден")
	}
	return m.setStatusMessage("Ошибка загрузки товара: " + msg.Error())
}

// handleProductDeleted возвращает к списку после удаления.
func (m *model) handleProductDeleted(msg productDeletedMsg) tea.Cmd {
	m.deleting = false
	slog.Info("Товар удален", "id", msg.id)
	if m.state != productDetailScreen || msg.id != m.productID {
		return m.setStatusMessage("Товар удален")
	}
	return tea.Batch(m.navigate(router.PathProducts), m.setStatusMessage("Товар удален"))
}

// handleProductDeleteError оставляет карточку открытой и показывает ошибку.
func (m *model) handleProductDeleteError(msg ProductDeleteError) tea.Cmd {
	defer func() { m.deleting = false }()

	slog.Error("Ошибка удаления товара", "id", msg.id, "error", msg.err)
	if m.state == productDetailScreen && msg.id == m.productID {
		m.deleteErr = msg.err
	}
	return m.setStatusMessage("Ошибка удаления: " + msg.Error())
}

// viewProductDetailScreen отображает карточку товара.
func (m *model) viewProductDetailScreen() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Товар #%d", m.productID)) + "\n\n")

	switch m.detailStatus {
	case statusLoading, statusIdle:
		b.WriteString(labelStyle.Render("Загрузка...") + "\n")
		return b.String()
	case statusError:
		if errors.Is(m.detailErr, api.ErrNotFound) {
			b.WriteString(errorStyle.Render("Товар не найден") + "\n")
		} else {
			b.WriteString(errorStyle.Render("Ошибка: "+errText(m.detailErr)) + "\n")
		}
		return b.String()
	case statusReady:
	}

	p := m.product
	fields := []struct{ label, value string }{
		{"Название", p.Title},
		{"Тег", p.ProductTag},
		{"Дилер", p.Dealer},
		{"Описание", p.Description},
		{"Компания", p.Company},
	}
	for _, f := range fields {
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render(f.label+":"), dash(f.value)))
	}

	b.WriteString("\n" + labelStyle.Render("Изображения:") + "\n")
	if len(m.productImages) == 0 {
		b.WriteString("  (нет)\n")
	}
	for i, url := range m.productImages {
		b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, url))
	}

	if m.deleting {
		b.WriteString("\n" + labelStyle.Render("Удаление...") + "\n")
	}
	if m.deleteErr != nil {
		b.WriteString("\n" + errorStyle.Render("Не удалось удалить: "+m.deleteErr.Error()) + "\n")
	}
	return b.String()
}
