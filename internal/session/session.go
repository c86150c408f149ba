// Package session хранит bearer-токен текущего пользователя между запусками клиента.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

// Store - постоянное хранилище токена.
type Store interface {
	// Load возвращает сохраненный токен или пустую строку, если его нет.
	Load() (string, error)
	// Save сохраняет токен, заменяя предыдущий.
	Save(token string) error
	// Clear удаляет сохраненный токен.
	Clear() error
}

// Session - токен в памяти, синхронизированный с хранилищем.
type Session struct {
	mu    sync.RWMutex
	store Store
	token string
}

// New создает сессию и загружает токен из хранилища.
// Ошибка чтения хранилища не фатальна: сессия стартует без токена.
func New(store Store) *Session {
	s := &Session{store: store}
	token, err := store.Load()
	if err != nil {
		slog.Warn("Не удалось загрузить токен сессии", "error", err)
		return s
	}
	s.token = token
	if token != "" {
		slog.Info("Загружен сохраненный токен сессии", "subject", s.subjectLocked())
	}
	return s
}

// Token возвращает текущий токен.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// HasToken сообщает, есть ли токен.
func (s *Session) HasToken() bool {
	return s.Token() != ""
}

// SetToken сохраняет токен в памяти и в хранилище.
// Пустой токен эквивалентен Clear.
func (s *Session) SetToken(token string) error {
	if token == "" {
		return s.Clear()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	if err := s.store.Save(token); err != nil {
		return fmt.Errorf("ошибка сохранения токена: %w", err)
	}
	return nil
}

// Clear удаляет токен.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("ошибка удаления токена: %w", err)
	}
	return nil
}

// Subject возвращает поле sub из токена для отображения.
// Подпись не проверяется: это делает сервер.
func (s *Session) Subject() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subjectLocked()
}

func (s *Session) subjectLocked() string {
	if s.token == "" {
		return ""
	}
	sub, err := TokenSubject(s.token)
	if err != nil {
		slog.Debug("Не удалось разобрать токен", "error", err)
		return ""
	}
	return sub
}

// ErrMalformedToken возвращается для токена, который не является JWT.
var ErrMalformedToken = errors.New("токен не является JWT")

// TokenSubject извлекает sub из JWT без проверки подписи.
func TokenSubject(token string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}
	return sub, nil
}
