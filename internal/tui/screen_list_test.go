//nolint:testpackage // Тесты в том же пакете для доступа к неэкспортируемым типам
package tui

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/maynagashev/gophcatalog/internal/api"
	"github.com/maynagashev/gophcatalog/internal/session"
	"github.com/maynagashev/gophcatalog/models"
)

func TestProductList_NoToken(t *testing.T) {
	t.Run("Без токена нет запроса", func(t *testing.T) {
		client := newMockClient()
		m := newTestModel(t, client, "")
		start(t, m, "/product")

		assert.Equal(t, productListScreen, m.state)
		assert.Equal(t, statusError, m.listStatus)
		require.ErrorIs(t, m.listErr, errNotAuthenticated)
		assert.Contains(t, m.View(), errNotAuthenticated.Error())
		client.AssertNotCalled(t, "ListProducts", mock.Anything, mock.Anything)

		// Ввод в поиск тоже не приводит к запросу
		send(t, m, keyRunes("phone"))
		client.AssertNotCalled(t, "ListProducts", mock.Anything, mock.Anything)

		send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
		assert.Equal(t, loginScreen, m.state)
	})
}

func TestProductList_Load(t *testing.T) {
	t.Run("Загрузка", func(t *testing.T) {
		client := newMockClient()
		client.On("ListProducts", mock.Anything, "").Return(sampleProducts(), nil).Once()

		m := newTestModel(t, client, "token")
		start(t, m, "/product")

		assert.Equal(t, statusReady, m.listStatus)
		require.Len(t, m.productList.Items(), 2)
		item, ok := m.productList.Items()[0].(productItem)
		require.True(t, ok)
		assert.Equal(t, "Ноутбук", item.Title())
		assert.Equal(t, "- | Тег: tech | Компания: Acme", item.Description())
		assert.Contains(t, m.View(), "Телефон")
		client.AssertExpectations(t)
	})
}

func TestProductList_Empty(t *testing.T) {
	t.Run("Пустой ответ", func(t *testing.T) {
		client := newMockClient()
		client.On("ListProducts", mock.Anything, "").Return([]models.Product{}, nil).Once()

		m := newTestModel(t, client, "token")
		start(t, m, "/product")

		assert.Equal(t, statusReady, m.listStatus)
		assert.Contains(t, m.View(), "Товары не найдены")
	})
}

func TestProductList_LoadError(t *testing.T) {
	t.Run("Ошибка загрузки", func(t *testing.T) {
		client := newMockClient()
		client.On("ListProducts", mock.Anything, "").Return(nil, errors.New("ошибка выполнения запроса")).Once()

		m := newTestModel(t, client, "token")
		start(t, m, "/product")

		assert.Equal(t, productListScreen, m.state)
		assert.Equal(t, statusError, m.listStatus)
		assert.Contains(t, m.View(), "ошибка выполнения запроса")
		assert.Contains(t, m.statusMessage, "Ошибка загрузки товаров")
	})
}

// Два нажатия в пределах задержки дают один запрос со вторым ключевым словом.
func TestProductList_DebouncedSearch(t *testing.T) {
	t.Run("Два нажатия дают один запрос", func(t *testing.T) {
		client := newMockClient()
		client.On("ListProducts", mock.Anything, "").Return(sampleProducts(), nil).Once()
		client.On("ListProducts", mock.Anything, "phone").Return(sampleProducts()[1:], nil).Once()

		m := newTestModel(t, client, "token")
		start(t, m, "/product")

		// Команды не выполняются, пока не введены оба фрагмента
		_, first := m.Update(keyRunes("ph"))
		_, second := m.Update(keyRunes("one"))
		assert.Equal(t, "phone", m.searchInput.Value())

		drive(t, m, first)
		client.AssertNotCalled(t, "ListProducts", mock.Anything, "ph")

		drive(t, m, second)
		client.AssertNumberOfCalls(t, "ListProducts", 2)
		client.AssertExpectations(t)

		assert.Equal(t, "phone", m.lastKeyword)
		assert.Len(t, m.productList.Items(), 1)
	})
}

func TestProductList_StaleTimerAfterLeave(t *testing.T) {
	t.Run("Устаревший таймер после ухода", func(t *testing.T) {
		client := newMockClient()
		client.On("ListProducts", mock.Anything, "").Return(sampleProducts(), nil).Once()
		client.On("GetProduct", mock.Anything, int64(1)).
			Return(&models.ProductDetails{Product: sampleProducts()[0]}, nil).Once()

		m := newTestModel(t, client, "token")
		start(t, m, "/product")

		_, pending := m.Update(keyRunes("x"))
		send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		require.Equal(t, productDetailScreen, m.state)

		drive(t, m, pending)
		client.AssertNotCalled(t, "ListProducts", mock.Anything, "x")
	})
}

func TestProductList_OpenDetail(t *testing.T) {
	t.Run("Открытие карточки", func(t *testing.T) {
		client := newMockClient()
		client.On("ListProducts", mock.Anything, "").Return(sampleProducts(), nil).Once()
		client.On("GetProduct", mock.Anything, int64(2)).
			Return(&models.ProductDetails{Product: sampleProducts()[1]}, nil).Once()

		m := newTestModel(t, client, "token")
		start(t, m, "/product")

		send(t, m, tea.KeyMsg{Type: tea.KeyDown})
		send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

		assert.Equal(t, productDetailScreen, m.state)
		assert.Equal(t, "/product/2", m.route.Path)
		assert.Equal(t, int64(2), m.productID)
		require.NotNil(t, m.product)
		assert.Equal(t, "Телефон", m.product.Title)
		client.AssertExpectations(t)
	})
}

func TestProductList_SubjectFromToken(t *testing.T) {
	t.Run("Имя пользователя из токена", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "alice"}).
			SignedString([]byte("test-secret"))
		require.NoError(t, err)

		client := newMockClient()
		client.On("ListProducts", mock.Anything, "").Return(sampleProducts(), nil).Once()

		m := newTestModel(t, client, token)
		start(t, m, "/product")

		assert.Contains(t, m.View(), "Пользователь: alice")
	})
}

func TestProductList_LastResponseWins(t *testing.T) {
	t.Run("Ответ, пришедший последним, заменяет список", func(t *testing.T) {
		client := newMockClient()
		client.On("ListProducts", mock.Anything, "").Return(sampleProducts(), nil).Once()

		m := newTestModel(t, client, "token")
		start(t, m, "/product")

		send(t, m, productsLoadedMsg{keyword: "phone", products: sampleProducts()[1:]})
		require.Len(t, m.productList.Items(), 1)

		// Ответ на более ранний запрос "ph" пришел позже
		send(t, m, productsLoadedMsg{keyword: "ph", products: sampleProducts()})
		require.Len(t, m.productList.Items(), 2)
		first, ok := m.productList.Items()[0].(productItem)
		require.True(t, ok)
		assert.Equal(t, "Ноутбук", first.product.Title)
		assert.Equal(t, statusReady, m.listStatus)
	})
}

func TestProductList_SearchTickDuringRequest(t *testing.T) {
	t.Run("Таймер поиска во время выполнения запроса", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(100 * time.Millisecond)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"product list": []}`))
		}))
		t.Cleanup(server.Close)

		sess := session.New(&session.MemoryStore{})
		require.NoError(t, sess.SetToken("token"))
		m := initModel(context.Background(), Options{
			Client:    api.NewHTTPClient(server.URL),
			Session:   sess,
			ServerURL: server.URL,
		})
		m.state = productListScreen
		require.True(t, m.syncToken())

		done := make(chan tea.Msg, 1)
		load := m.loadProductsCmd("")
		go func() { done <- load() }()

		// Таймер заново передает токен клиенту, пока первый запрос еще выполняется
		_, cmd := m.Update(searchTickMsg{seq: m.searchSeq, keyword: "phone"})
		require.NotNil(t, cmd)
		assert.Equal(t, "phone", m.lastKeyword)

		msg := <-done
		loaded, ok := msg.(productsLoadedMsg)
		require.True(t, ok, "ожидался productsLoadedMsg, получено %T", msg)
		assert.Empty(t, loaded.products)
	})
}
