package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/maynagashev/gophcatalog/models"
)

// ErrAuthorization сигнализирует об ошибке авторизации (401).
var ErrAuthorization = errors.New("ошибка авторизации")

// ErrNotFound сигнализирует об отсутствии ресурса на сервере (404).
var ErrNotFound = errors.New("не найдено")

// ErrNoToken возвращается до выполнения запроса, если токен не установлен.
var ErrNoToken = errors.New("токен аутентификации отсутствует")

// Заголовок для сквозного идентификатора запроса.
const requestIDHeader = "X-Request-ID"

// Client определяет интерфейс для взаимодействия с API каталога товаров.
type Client interface {
	// Login аутентифицирует пользователя и возвращает bearer-токен.
	Login(ctx context.Context, req models.LoginRequest) (string, error)
	// Signup регистрирует нового пользователя. Токен может быть пустым.
	Signup(ctx context.Context, req models.SignupRequest) (string, error)
	// Me проверяет, активна ли сессия текущего токена.
	Me(ctx context.Context) (bool, error)
	// ListProducts возвращает товары, опционально отфильтрованные по ключевому слову.
	ListProducts(ctx context.Context, keyword string) ([]models.Product, error)
	// GetProduct возвращает товар и URL его изображений.
	GetProduct(ctx context.Context, id int64) (*models.ProductDetails, error)
	// CreateProduct создает товар с изображениями (multipart).
	CreateProduct(ctx context.Context, input models.ProductInput, images []models.Image) (*models.Product, error)
	// UpdateProduct обновляет все текстовые поля товара.
	UpdateProduct(ctx context.Context, id int64, input models.ProductInput) (*models.Product, error)
	// DeleteProduct удаляет товар.
	DeleteProduct(ctx context.Context, id int64) error
	// SetAuthToken устанавливает токен для аутентифицированных запросов.
	SetAuthToken(token string)
}

// Option настраивает httpClient.
type Option func(*httpClient)

// WithTimeout задает таймаут HTTP клиента. Ноль означает отсутствие таймаута.
func WithTimeout(timeout time.Duration) Option {
	return func(c *httpClient) {
		c.httpClient.Timeout = timeout
	}
}

// WithMetrics включает сбор метрик запросов.
func WithMetrics(m *Metrics) Option {
	return func(c *httpClient) {
		c.metrics = m
	}
}

// httpClient реализует интерфейс Client для взаимодействия с сервером по HTTP.
type httpClient struct {
	baseURL    string       // Базовый URL сервера, например "http://127.0.0.1:8000"
	httpClient *http.Client // HTTP клиент для выполнения запросов
	mu         sync.RWMutex // Защищает authToken
	authToken  string       // Bearer токен для аутентифицированных запросов
	metrics    *Metrics     // Может быть nil
}

// NewHTTPClient создает новый экземпляр API клиента.
func NewHTTPClient(baseURL string, opts ...Option) Client {
	c := &httpClient{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetAuthToken устанавливает токен аутентификации для клиента.
func (c *httpClient) SetAuthToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authToken = token
}

// token возвращает текущий токен аутентификации.
func (c *httpClient) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authToken
}

// setAuthHeader добавляет заголовок авторизации.
func (c *httpClient) setAuthHeader(req *http.Request) error {
	token := c.token()
	if token == "" {
		return ErrNoToken
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// newRequest собирает запрос к эндпоинту API.
func (c *httpClient) newRequest(
	ctx context.Context,
	method string,
	query url.Values,
	body io.Reader,
	elem ...string,
) (*http.Request, error) {
	endpoint, err := url.JoinPath(c.baseURL, elem...)
	if err != nil {
		return nil, fmt.Errorf("ошибка формирования URL: %w", err)
	}
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	return req, nil
}

// do выполняет запрос, проставляя идентификатор запроса и собирая метрики.
func (c *httpClient) do(req *http.Request, action string) (*http.Response, error) {
	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)

	code := 0
	if resp != nil {
		code = resp.StatusCode
	}
	c.metrics.observe(action, code, elapsed)
	slog.Debug("Запрос к API выполнен",
		"action", action,
		"method", req.Method,
		"path", req.URL.Path,
		"request_id", requestID,
		"status", code,
		"elapsed", elapsed,
	)

	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	return resp, nil
}

// isSuccess проверяет, что код ответа из диапазона 2xx.
func isSuccess(code int) bool {
	return code >= http.StatusOK && code < http.StatusMultipleChoices
}

// statusError формирует ошибку по коду ответа и телу {"detail": ...}.
func statusError(resp *http.Response, operation string) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrAuthorization
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", operation, ErrNotFound)
	}
	if detail := readErrorDetail(resp.Body); detail != "" {
		return fmt.Errorf("%s: статус %d: %s", operation, resp.StatusCode, detail)
	}
	return fmt.Errorf("%s: статус %d", operation, resp.StatusCode)
}

// maxErrorBody ограничивает чтение тела ответа с ошибкой.
const maxErrorBody = 4096

// readErrorDetail извлекает поле detail из тела ошибки.
// Поле может быть строкой или списком объектов с полем msg.
func readErrorDetail(body io.Reader) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.NewDecoder(io.LimitReader(body, maxErrorBody)).Decode(&payload); err != nil {
		return ""
	}
	if len(payload.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(payload.Detail, &text); err == nil {
		return text
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

// Login отправляет форму входа и возвращает токен.
func (c *httpClient) Login(ctx context.Context, creds models.LoginRequest) (string, error) {
	form := url.Values{}
	form.Set("username", creds.Username)
	form.Set("password", creds.Password)

	req, err := c.newRequest(ctx, http.MethodPost, nil, strings.NewReader(form.Encode()), "user", "login")
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.do(req, "login")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		if resp.StatusCode == http.StatusUnauthorized {
			return "", errors.New("неверное имя пользователя или пароль")
		}
		return "", statusError(resp, "ошибка входа на сервере")
	}

	var loginResponse models.LoginResponse
	if err = json.NewDecoder(resp.Body).Decode(&loginResponse); err != nil {
		return "", fmt.Errorf("ошибка декодирования ответа на вход: %w", err)
	}
	if loginResponse.AccessToken == "" {
		return "", errors.New("сервер вернул пустой токен")
	}

	// Сохраняем токен в клиенте для последующих запросов
	c.SetAuthToken(loginResponse.AccessToken)
	return loginResponse.AccessToken, nil
}

// Signup отправляет запрос на регистрацию.
func (c *httpClient) Signup(ctx context.Context, signup models.SignupRequest) (string, error) {
	jsonData, err := json.Marshal(signup)
	if err != nil {
		return "", fmt.Errorf("ошибка кодирования данных для регистрации: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, nil, bytes.NewReader(jsonData), "user", "signup")
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req, "signup")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return "", statusError(resp, "ошибка регистрации на сервере")
	}

	// Тело ответа необязательно: токен берем, только если он есть
	var signupResponse models.SignupResponse
	if errDecode := json.NewDecoder(resp.Body).Decode(&signupResponse); errDecode != nil && !errors.Is(errDecode, io.EOF) {
		slog.Debug("Ответ на регистрацию без JSON тела", "error", errDecode)
	}
	if signupResponse.AccessToken != "" {
		c.SetAuthToken(signupResponse.AccessToken)
	}
	return signupResponse.AccessToken, nil
}

// Me проверяет активность текущей сессии.
func (c *httpClient) Me(ctx context.Context) (bool, error) {
	req, err := c.newRequest(ctx, http.MethodGet, nil, nil, "user", "me")
	if err != nil {
		return false, err
	}
	if err = c.setAuthHeader(req); err != nil {
		return false, err
	}

	resp, err := c.do(req, "me")
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return false, statusError(resp, "ошибка проверки сессии")
	}

	var status models.SessionStatus
	if err = json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return false, fmt.Errorf("ошибка декодирования статуса сессии: %w", err)
	}
	return status.Status, nil
}

// ListProducts получает список товаров. Пустое ключевое слово не передается.
func (c *httpClient) ListProducts(ctx context.Context, keyword string) ([]models.Product, error) {
	query := url.Values{}
	if keyword != "" {
		query.Set("keyword", keyword)
	}

	req, err := c.newRequest(ctx, http.MethodGet, query, nil, "product")
	if err != nil {
		return nil, err
	}
	if err = c.setAuthHeader(req); err != nil {
		return nil, err
	}

	resp, err := c.do(req, "list_products")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, statusError(resp, "ошибка получения списка товаров")
	}

	var list models.ProductListResponse
	if err = json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("ошибка декодирования списка товаров: %w", err)
	}
	if list.Products == nil {
		list.Products = []models.Product{}
	}
	return list.Products, nil
}

// GetProduct получает товар вместе с URL изображений.
func (c *httpClient) GetProduct(ctx context.Context, id int64) (*models.ProductDetails, error) {
	req, err := c.newRequest(ctx, http.MethodGet, nil, nil, "product", strconv.FormatInt(id, 10))
	if err != nil {
		return nil, err
	}
	if err = c.setAuthHeader(req); err != nil {
		return nil, err
	}

	resp, err := c.do(req, "get_product")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, statusError(resp, "ошибка получения товара")
	}

	var details models.ProductDetails
	if err = json.NewDecoder(resp.Body).Decode(&details); err != nil {
		return nil, fmt.Errorf("ошибка декодирования товара: %w", err)
	}
	return &details, nil
}

// CreateProduct отправляет товар и изображения одним multipart запросом.
func (c *httpClient) CreateProduct(
	ctx context.Context,
	input models.ProductInput,
	images []models.Image,
) (*models.Product, error) {
	body, contentType, err := encodeProductMultipart(input, images)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, nil, body, "product")
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	if err = c.setAuthHeader(req); err != nil {
		return nil, err
	}

	resp, err := c.do(req, "create_product")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, statusError(resp, "ошибка создания товара")
	}

	var added models.AddedProductResponse
	if err = json.NewDecoder(resp.Body).Decode(&added); err != nil {
		return nil, fmt.Errorf("ошибка декодирования созданного товара: %w", err)
	}
	return &added.Product, nil
}

// photosField - имя части multipart для каждого изображения.
const photosField = "photos"

// encodeProductMultipart кодирует поля товара и изображения в multipart/form-data.
func encodeProductMultipart(input models.ProductInput, images []models.Image) (*bytes.Buffer, string, error) {
	buf := new(bytes.Buffer)
	writer := multipart.NewWriter(buf)

	fields := []struct{ name, value string }{
		{"title", input.Title},
		{"product_tag", input.ProductTag},
		{"dealer", input.Dealer},
		{"description", input.Description},
		{"company", input.Company},
	}
	for _, f := range fields {
		if err := writer.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("ошибка записи поля %s: %w", f.name, err)
		}
	}

	for _, img := range images {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name=%q; filename=%q`, photosField, img.Name))
		header.Set("Content-Type", img.ContentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("ошибка создания части для '%s': %w", img.Name, err)
		}
		if _, err = part.Write(img.Data); err != nil {
			return nil, "", fmt.Errorf("ошибка записи изображения '%s': %w", img.Name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("ошибка завершения multipart: %w", err)
	}
	return buf, writer.FormDataContentType(), nil
}

// UpdateProduct отправляет полный набор полей товара в JSON.
func (c *httpClient) UpdateProduct(ctx context.Context, id int64, input models.ProductInput) (*models.Product, error) {
	jsonData, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("ошибка кодирования товара: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPut, nil, bytes.NewReader(jsonData), "product", strconv.FormatInt(id, 10))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if err = c.setAuthHeader(req); err != nil {
		return nil, err
	}

	resp, err := c.do(req, "update_product")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, statusError(resp, "ошибка обновления товара")
	}

	var updated models.UpdatedProductResponse
	if err = json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		return nil, fmt.Errorf("ошибка декодирования обновленного товара: %w", err)
	}
	return &updated.Product, nil
}

// DeleteProduct удаляет товар. Успехом считается только статус 200.
func (c *httpClient) DeleteProduct(ctx context.Context, id int64) error {
	req, err := c.newRequest(ctx, http.MethodDelete, nil, nil, "product", strconv.FormatInt(id, 10))
	if err != nil {
		return err
	}
	if err = c.setAuthHeader(req); err != nil {
		return err
	}

	resp, err := c.do(req, "delete_product")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp, "ошибка удаления товара")
	}
	return nil
}
