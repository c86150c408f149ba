//nolint:testpackage // Тесты в том же пакете для доступа к неэкспортируемым типам
package tui

import (
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/maynagashev/gophcatalog/internal/api"
	"github.com/maynagashev/gophcatalog/internal/schema"
	"github.com/maynagashev/gophcatalog/models"
)

func productDetails() *models.ProductDetails {
	return &models.ProductDetails{
		Product: models.Product{
			ID: 7, Title: "Кофемашина", ProductTag: "kitchen", Dealer: "Shop",
			Description: "Эспрессо", Company: "Brew", UserID: 3,
		},
		Images: []string{"https://cdn.test/7/1.png", "https://cdn.test/7/2.png"},
	}
}

// openDetail открывает карточку товара 7.
func openDetail(t *testing.T, client *MockAPIClient) *model {
	t.Helper()
	client.On("GetProduct", mock.Anything, int64(7)).Return(productDetails(), nil).Once()
	m := newTestModel(t, client, "token")
	start(t, m, "/product/7")
	require.Equal(t, productDetailScreen, m.state)
	require.Equal(t, statusReady, m.detailStatus)
	return m
}

func TestProductDetail_NoToken(t *testing.T) {
	t.Run("Без токена нет запроса", func(t *testing.T) {
		client := newMockClient()
		m := newTestModel(t, client, "")
		start(t, m, "/product/7")

		assert.Equal(t, productDetailScreen, m.state)
		assert.Equal(t, statusError, m.detailStatus)
		require.ErrorIs(t, m.detailErr, errNotAuthenticated)
		client.AssertNotCalled(t, "GetProduct", mock.Anything, mock.Anything)

		// Удаление и редактирование недоступны без загруженного товара
		send(t, m, keyRunes("d"))
		send(t, m, keyRunes("e"))
		assert.Equal(t, overlayNone, m.overlay)
		client.AssertNotCalled(t, "DeleteProduct", mock.Anything, mock.Anything)

		send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
		assert.Equal(t, loginScreen, m.state)
	})
}

func TestProductDetail_Load(t *testing.T) {
	t.Run("Загрузка", func(t *testing.T) {
		client := newMockClient()
		m := openDetail(t, client)

		assert.Equal(t, "Кофемашина", m.product.Title)
		assert.Len(t, m.productImages, 2)

		view := m.View()
		assert.Contains(t, view, "Кофемашина")
		assert.Contains(t, view, "Brew")
		assert.Contains(t, view, "https://cdn.test/7/2.png")
		client.AssertExpectations(t)
	})
}

func TestProductDetail_NotFound(t *testing.T) {
	t.Run("Товар не найден", func(t *testing.T) {
		client := newMockClient()
		client.On("GetProduct", mock.Anything, int64(404)).
			Return(nil, fmt.Errorf("товар 404: %w", api.ErrNotFound)).Once()

		m := newTestModel(t, client, "token")
		start(t, m, "/product/404")

		assert.Equal(t, statusError, m.detailStatus)
		assert.Contains(t, m.View(), "Товар не найден")
	})
}

func TestProductDetail_Delete(t *testing.T) {
	t.Run("Удаление", func(t *testing.T) {
		t.Run("Успех", func(t *testing.T) {
			client := newMockClient()
			m := openDetail(t, client)
			client.On("DeleteProduct", mock.Anything, int64(7)).Return(nil).Once()
			client.On("ListProducts", mock.Anything, "").Return(sampleProducts(), nil).Once()

			send(t, m, keyRunes("d"))

			assert.Equal(t, productListScreen, m.state)
			assert.False(t, m.deleting)
			assert.Contains(t, m.statusMessage, "Товар удален")
			client.AssertExpectations(t)
		})

		t.Run("Ошибка", func(t *testing.T) {
			client := newMockClient()
			m := openDetail(t, client)
			client.On("DeleteProduct", mock.Anything, int64(7)).
				Return(errors.New("ошибка удаления товара: статус 500")).Once()

			send(t, m, keyRunes("d"))

			assert.Equal(t, productDetailScreen, m.state)
			assert.False(t, m.deleting)
			require.Error(t, m.deleteErr)
			assert.Contains(t, m.View(), "статус 500")
			require.NotNil(t, m.product)
			client.AssertNotCalled(t, "ListProducts", mock.Anything, mock.Anything)
		})
	})
}

func TestProductDetail_Back(t *testing.T) {
	t.Run("Назад к списку", func(t *testing.T) {
		for _, key := range []tea.KeyMsg{keyRunes("b"), {Type: tea.KeyEsc}} {
			t.Run(key.String(), func(t *testing.T) {
				client := newMockClient()
				m := openDetail(t, client)
				client.On("ListProducts", mock.Anything, "").Return(sampleProducts(), nil).Once()

				send(t, m, key)
				assert.Equal(t, productListScreen, m.state)
			})
		}
	})
}

func TestEditProduct(t *testing.T) {
	client := newMockClient()
	m := openDetail(t, client)

	send(t, m, keyRunes("e"))
	require.Equal(t, overlayEdit, m.overlay)
	assert.Equal(t, "Кофемашина", m.editForm.value(schema.FieldTitle))
	assert.Equal(t, "Brew", m.editForm.value(schema.FieldCompany))

	m.editForm.setValue(schema.FieldTitle, "Кофемашина Pro")
	expectedInput := models.ProductInput{
		Title: "Кофемашина Pro", ProductTag: "kitchen", Dealer: "Shop",
		Description: "Эспрессо", Company: "Brew",
	}
	updated := &models.Product{
		ID: 7, Title: "Кофемашина Pro (сервер)", ProductTag: "kitchen", Dealer: "Shop",
		Description: "Эспрессо", Company: "Brew", UserID: 3,
	}
	client.On("UpdateProduct", mock.Anything, int64(7), expectedInput).Return(updated, nil).Once()

	send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.Equal(t, overlayNone, m.overlay)
	assert.Equal(t, "Кофемашина Pro (сервер)", m.product.Title)
	assert.False(t, m.editForm.submitting)
	// Карточка обновляется из ответа без повторной загрузки
	client.AssertNumberOfCalls(t, "GetProduct", 1)
	client.AssertExpectations(t)
}

func TestEditProduct_Validation(t *testing.T) {
	t.Run("Валидация", func(t *testing.T) {
		client := newMockClient()
		m := openDetail(t, client)

		send(t, m, keyRunes("e"))
		m.editForm.setValue(schema.FieldTitle, "")
		m.editForm.setValue(schema.FieldProductTag, "  ")
		send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

		assert.Equal(t, overlayEdit, m.overlay)
		assert.Contains(t, m.editForm.errors, schema.FieldTitle)
		assert.Contains(t, m.editForm.errors, schema.FieldProductTag)
		client.AssertNotCalled(t, "UpdateProduct", mock.Anything, mock.Anything, mock.Anything)

		send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
		assert.Equal(t, overlayNone, m.overlay)
		assert.Equal(t, "Кофемашина", m.product.Title)
	})
}

func TestEditProduct_ServerError(t *testing.T) {
	t.Run("Ошибка сервера", func(t *testing.T) {
		client := newMockClient()
		m := openDetail(t, client)
		client.On("UpdateProduct", mock.Anything, int64(7), mock.Anything).
			Return(nil, errors.New("ошибка авторизации")).Once()

		send(t, m, keyRunes("e"))
		send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

		assert.Equal(t, overlayEdit, m.overlay)
		require.Error(t, m.editForm.err)
		assert.False(t, m.editForm.submitting)
		assert.Equal(t, "Кофемашина", m.product.Title)
	})
}

func TestEditProduct_ReplyForAnotherProduct(t *testing.T) {
	t.Run("Ответ для другого товара не меняет карточку", func(t *testing.T) {
		client := newMockClient()
		m := openDetail(t, client)
		m.editForm.submitting = true

		send(t, m, productUpdatedMsg{product: models.Product{ID: 1, Title: "Старый ответ"}})

		require.NotNil(t, m.product)
		assert.Equal(t, int64(7), m.product.ID)
		assert.Equal(t, "Кофемашина", m.product.Title)
		assert.False(t, m.editForm.submitting)

		send(t, m, keyRunes("e"))
		require.Equal(t, overlayEdit, m.overlay)
		assert.Equal(t, "Кофемашина", m.editForm.value(schema.FieldTitle))
	})
}

func TestEditProduct_ReopenWhileSubmitting(t *testing.T) {
	t.Run("Форма не открывается повторно до ответа", func(t *testing.T) {
		client := newMockClient()
		m := openDetail(t, client)

		send(t, m, keyRunes("e"))
		require.Equal(t, overlayEdit, m.overlay)
		m.editForm.submitting = true
		send(t, m, tea.KeyMsg{Type: tea.KeyEsc})

		send(t, m, keyRunes("e"))
		assert.Equal(t, overlayNone, m.overlay)
		assert.Contains(t, m.statusMessage, "еще выполняется")

		updated := productDetails().Product
		updated.Title = "Кофемашина Pro"
		send(t, m, productUpdatedMsg{product: updated})
		assert.False(t, m.editForm.submitting)
		assert.Equal(t, "Кофемашина Pro", m.product.Title)

		send(t, m, keyRunes("e"))
		assert.Equal(t, overlayEdit, m.overlay)
		client.AssertNotCalled(t, "UpdateProduct", mock.Anything, mock.Anything, mock.Anything)
	})
}
