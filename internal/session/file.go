package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const filePerm = 0o600

// fileData - формат файла сессии.
type fileData struct {
	AccessToken string `json:"access_token"`
}

// FileStore хранит токен в JSON файле. Доступ к файлу защищен
// файловой блокировкой path+".lock", чтобы несколько запущенных
// клиентов не затирали запись друг друга.
type FileStore struct {
	path string
	lock *flock.Flock
}

// NewFileStore создает хранилище токена в файле.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, lock: flock.New(path + ".lock")}
}

// Load читает токен из файла. Отсутствие файла не является ошибкой.
func (f *FileStore) Load() (string, error) {
	if err := f.ensureDir(); err != nil {
		return "", err
	}
	if err := f.lock.RLock(); err != nil {
		return "", fmt.Errorf("ошибка блокировки файла сессии: %w", err)
	}
	defer f.unlock()

	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("ошибка чтения файла сессии '%s': %w", f.path, err)
	}

	var data fileData
	if err = json.Unmarshal(raw, &data); err != nil {
		return "", fmt.Errorf("ошибка разбора файла сессии '%s': %w", f.path, err)
	}
	return data.AccessToken, nil
}

// Save записывает токен в файл с правами 0600.
func (f *FileStore) Save(token string) error {
	if err := f.ensureDir(); err != nil {
		return err
	}
	if err := f.lock.Lock(); err != nil {
		return fmt.Errorf("ошибка блокировки файла сессии: %w", err)
	}
	defer f.unlock()

	raw, err := json.Marshal(fileData{AccessToken: token})
	if err != nil {
		return fmt.Errorf("ошибка кодирования сессии: %w", err)
	}
	if err = os.WriteFile(f.path, raw, filePerm); err != nil {
		return fmt.Errorf("ошибка записи файла сессии '%s': %w", f.path, err)
	}
	return nil
}

// Clear удаляет файл сессии.
func (f *FileStore) Clear() error {
	if err := f.ensureDir(); err != nil {
		return err
	}
	if err := f.lock.Lock(); err != nil {
		return fmt.Errorf("ошибка блокировки файла сессии: %w", err)
	}
	defer f.unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("ошибка удаления файла сессии '%s': %w", f.path, err)
	}
	return nil
}

// ensureDir создает директорию файла сессии (и файла блокировки).
func (f *FileStore) ensureDir() error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("ошибка создания директории '%s': %w", dir, err)
	}
	return nil
}

func (f *FileStore) unlock() {
	_ = f.lock.Unlock()
}

// MemoryStore хранит токен только в памяти процесса.
type MemoryStore struct {
	token string
}

// Load возвращает токен из памяти.
func (m *MemoryStore) Load() (string, error) { return m.token, nil }

// Save сохраняет токен в памяти.
func (m *MemoryStore) Save(token string) error {
	m.token = token
	return nil
}

// Clear удаляет токен из памяти.
func (m *MemoryStore) Clear() error {
	m.token = ""
	return nil
}
