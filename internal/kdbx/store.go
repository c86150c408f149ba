package kdbx

import (
	"errors"
	"fmt"
	"os"

	"github.com/gofrs/flock"
	"github.com/tobischo/gokeepasslib/v3"
)

// Store хранит токен сессии в зашифрованном файле KDBX.
// Вместе с токеном сохраняется URL сервера, для которого он выдан:
// токен другого сервера не возвращается.
type Store struct {
	path      string
	password  string
	serverURL string
	lock      *flock.Flock
}

// NewStore создает хранилище токена в файле KDBX.
func NewStore(path, password, serverURL string) (*Store, error) {
	if password == "" {
		return nil, errors.New("не задан пароль файла KDBX")
	}
	return &Store{
		path:      path,
		password:  password,
		serverURL: serverURL,
		lock:      flock.New(path + ".lock"),
	}, nil
}

// Load возвращает токен, если файл существует и токен выдан текущим сервером.
func (s *Store) Load() (string, error) {
	if err := s.lock.RLock(); err != nil {
		return "", fmt.Errorf("ошибка блокировки файла KDBX: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	db, err := OpenFile(s.path, s.password)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	serverURL, token, err := LoadAuthData(db)
	if err != nil {
		return "", err
	}
	if serverURL != "" && serverURL != s.serverURL {
		return "", nil
	}
	return token, nil
}

// Save записывает токен в файл, создавая его при необходимости.
func (s *Store) Save(token string) error {
	return s.update(token)
}

// Clear удаляет токен из файла. Сам файл сохраняется.
func (s *Store) Clear() error {
	return s.update("")
}

func (s *Store) update(token string) error {
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("ошибка блокировки файла KDBX: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	db, err := s.openOrCreate(token != "")
	if err != nil || db == nil {
		return err
	}

	serverURL := s.serverURL
	if token == "" {
		serverURL = ""
	}
	changed, err := SaveAuthData(db, serverURL, token)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return SaveFile(db, s.path, s.password)
}

// openOrCreate открывает файл. Если файла нет, создает новый файл
// (только когда create == true, иначе возвращает nil).
func (s *Store) openOrCreate(create bool) (*gokeepasslib.Database, error) {
	db, err := OpenFile(s.path, s.password)
	if err == nil {
		return db, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if !create {
		return nil, nil //nolint:nilnil // Нечего очищать
	}
	return CreateDatabase(s.path, s.password)
}
