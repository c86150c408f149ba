//nolint:testpackage // Тесты в том же пакете для доступа к неэкспортируемым типам
package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/maynagashev/gophcatalog/internal/session"
	"github.com/maynagashev/gophcatalog/models"
)

// cmdTimeout ограничивает ожидание одной команды.
// Команды мигания курсора ждут дольше и отбрасываются.
const cmdTimeout = 150 * time.Millisecond

// MockAPIClient реализует интерфейс api.Client для тестов.
type MockAPIClient struct {
	mock.Mock
}

func (m *MockAPIClient) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockAPIClient) Signup(ctx context.Context, req models.SignupRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockAPIClient) Me(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockAPIClient) ListProducts(ctx context.Context, keyword string) ([]models.Product, error) {
	args := m.Called(ctx, keyword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	result, ok := args.Get(0).([]models.Product)
	if !ok {
		return nil, errors.New("неверный тип результата []models.Product")
	}
	return result, args.Error(1)
}

func (m *MockAPIClient) GetProduct(ctx context.Context, id int64) (*models.ProductDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	result, ok := args.Get(0).(*models.ProductDetails)
	if !ok {
		return nil, errors.New("неверный тип результата *models.ProductDetails")
	}
	return result, args.Error(1)
}

func (m *MockAPIClient) CreateProduct(
	ctx context.Context,
	input models.ProductInput,
	images []models.Image,
) (*models.Product, error) {
	args := m.Called(ctx, input, images)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	result, ok := args.Get(0).(*models.Product)
	if !ok {
		return nil, errors.New("неверный тип результата *models.Product")
	}
	return result, args.Error(1)
}

func (m *MockAPIClient) UpdateProduct(ctx context.Context, id int64, input models.ProductInput) (*models.Product, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	result, ok := args.Get(0).(*models.Product)
	if !ok {
		return nil, errors.New("неверный тип результата *models.Product")
	}
	return result, args.Error(1)
}

func (m *MockAPIClient) DeleteProduct(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAPIClient) SetAuthToken(token string) {
	m.Called(token)
}

// newMockClient создает мок, допускающий любые вызовы SetAuthToken.
func newMockClient() *MockAPIClient {
	client := new(MockAPIClient)
	client.On("SetAuthToken", mock.Anything).Maybe()
	return client
}

// newTestModel создает модель с сессией в памяти и короткими задержками.
func newTestModel(t *testing.T, client *MockAPIClient, token string) *model {
	t.Helper()
	sess := session.New(&session.MemoryStore{})
	if token != "" {
		require.NoError(t, sess.SetToken(token))
	}
	m := initModel(context.Background(), Options{
		Client:    client,
		Session:   sess,
		ServerURL: "http://catalog.test",
	})
	m.searchDelay = time.Millisecond
	m.statusTimeout = time.Millisecond
	return m
}

// collectMsgs выполняет команду и раскрывает tea.BatchMsg.
// Команды пакета выполняются параллельно, порядок сообщений сохраняется.
func collectMsgs(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}

	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-ch:
	case <-time.After(cmdTimeout):
		return nil
	}

	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	}

	parts := make([][]tea.Msg, len(batch))
	var wg sync.WaitGroup
	for i, c := range batch {
		wg.Add(1)
		go func(i int, c tea.Cmd) {
			defer wg.Done()
			parts[i] = collectMsgs(t, c)
		}(i, c)
	}
	wg.Wait()

	var msgs []tea.Msg
	for _, p := range parts {
		msgs = append(msgs, p...)
	}
	return msgs
}

// isAppMsg отбирает сообщения приложения.
// Мигание курсора и скрытие статуса в тестах не обрабатываются.
func isAppMsg(msg tea.Msg) bool {
	switch msg.(type) {
	case sessionCheckedMsg, SessionCheckError,
		loginSuccessMsg, LoginError,
		signupSuccessMsg, SignupError,
		searchTickMsg, productsLoadedMsg, ProductsLoadError,
		productLoadedMsg, ProductLoadError,
		productCreatedMsg, ProductCreateError,
		productUpdatedMsg, ProductUpdateError,
		productDeletedMsg, ProductDeleteError:
		return true
	default:
		return false
	}
}

// drive выполняет команду и передает результаты в модель, пока команды не закончатся.
func drive(t *testing.T, m *model, cmd tea.Cmd) {
	t.Helper()
	const maxSteps = 100

	queue := collectMsgs(t, cmd)
	for step := 0; len(queue) > 0; step++ {
		require.Less(t, step, maxSteps, "слишком много сообщений")
		msg := queue[0]
		queue = queue[1:]
		if !isAppMsg(msg) {
			continue
		}
		_, next := m.Update(msg)
		queue = append(queue, collectMsgs(t, next)...)
	}
}

// send передает сообщение модели и выполняет все последующие команды.
func send(t *testing.T, m *model, msg tea.Msg) {
	t.Helper()
	_, cmd := m.Update(msg)
	drive(t, m, cmd)
}

// start выполняет Init модели с заданным начальным путем.
func start(t *testing.T, m *model, path string) {
	t.Helper()
	m.startPath = path
	drive(t, m, m.Init())
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sampleProducts() []models.Product {
	return []models.Product{
		{ID: 1, Title: "Ноутбук", ProductTag: "tech", Company: "Acme", UserID: 7},
		{ID: 2, Title: "Телефон", ProductTag: "tech", Dealer: "Store", UserID: 7},
	}
}
