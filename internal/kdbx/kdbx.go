// Package kdbx хранит данные сессии клиента в зашифрованном файле KeePass (KDBX).
package kdbx

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	gokeepasslib "github.com/tobischo/gokeepasslib/v3"
)

// rootGroupName - имя корневой группы новой базы.
const rootGroupName = "GophCatalog"

// OpenFile открывает и дешифрует KDBX файл по указанному пути и паролю.
func OpenFile(filePath string, password string) (*gokeepasslib.Database, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла '%s': %w", filePath, err)
	}
	defer file.Close()

	db := gokeepasslib.NewDatabase()
	db.Credentials = gokeepasslib.NewPasswordCredentials(password)

	if err = gokeepasslib.NewDecoder(file).Decode(db); err != nil {
		return nil, fmt.Errorf("ошибка дешифрования файла '%s': %w", filePath, err)
	}

	// Разблокируем защищенные значения
	if err = db.UnlockProtectedEntries(); err != nil {
		return nil, fmt.Errorf("ошибка разблокировки защищенных полей: %w", err)
	}

	return db, nil
}

// NewDatabase создает пустую базу в памяти с корневой группой.
func NewDatabase(password string) *gokeepasslib.Database {
	db := gokeepasslib.NewDatabase()
	db.Credentials = gokeepasslib.NewPasswordCredentials(password)
	db.Content = gokeepasslib.NewContent()
	db.Content.Meta.CustomData = []gokeepasslib.CustomData{}

	rootGroup := gokeepasslib.NewGroup()
	rootGroup.Name = rootGroupName
	db.Content.Root = &gokeepasslib.RootData{
		Groups: []gokeepasslib.Group{rootGroup},
	}
	return db
}

// CreateDatabase создает новую базу KDBX и сразу сохраняет ее в файл.
func CreateDatabase(filePath string, password string) (*gokeepasslib.Database, error) {
	if password == "" {
		return nil, errors.New("пароль не может быть пустым при создании базы")
	}
	db := NewDatabase(password)
	if err := SaveFile(db, filePath, password); err != nil {
		return nil, err
	}
	slog.Info("Создан новый файл KDBX", "path", filePath)
	return db, nil
}

// SaveFile кодирует и сохраняет базу данных KDBX в указанный файл.
func SaveFile(db *gokeepasslib.Database, filePath string, password string) error {
	if db == nil {
		return errors.New("база данных не инициализирована (nil)")
	}

	if db.Credentials == nil {
		if password == "" {
			return errors.New("пароль не может быть пустым при сохранении")
		}
		db.Credentials = gokeepasslib.NewPasswordCredentials(password)
	}

	// Перед кодированием защищенные поля должны быть заблокированы
	if err := db.LockProtectedEntries(); err != nil {
		slog.Warn("Не удалось заблокировать поля перед сохранением", "error", err)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("ошибка создания/открытия файла '%s' для записи: %w", filePath, err)
	}
	defer file.Close()

	if encodeErr := gokeepasslib.NewEncoder(file).Encode(db); encodeErr != nil {
		return fmt.Errorf("ошибка кодирования и записи БД в файл '%s': %w", filePath, encodeErr)
	}

	if err = db.UnlockProtectedEntries(); err != nil {
		slog.Warn("Не удалось разблокировать поля после сохранения", "error", err)
	}

	return nil
}
