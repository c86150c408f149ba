package kdbx

import (
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/tobischo/gokeepasslib/v3"
	"github.com/tobischo/gokeepasslib/v3/wrappers"
)

const (
	// CustomDataKeyServerURL - ключ для хранения URL сервера в KDBX.
	CustomDataKeyServerURL = "GophCatalogServerURL"
	// CustomDataKeyAuthToken - ключ для хранения bearer токена в KDBX.
	CustomDataKeyAuthToken = "GophCatalogAuthToken" //nolint:gosec // Это имя ключа, а не сам токен
)

var errNoMeta = errors.New("база данных, ее содержимое или метаданные не инициализированы")

// setCustomDataValue обновляет или добавляет значение в слайс CustomData.
func setCustomDataValue(customData []gokeepasslib.CustomData, key, value string) []gokeepasslib.CustomData {
	for i := range customData {
		if customData[i].Key == key {
			customData[i].Value = value
			return customData
		}
	}
	return append(customData, gokeepasslib.CustomData{Key: key, Value: value})
}

// removeCustomDataValue удаляет значение из слайса CustomData по ключу.
func removeCustomDataValue(customData []gokeepasslib.CustomData, key string) []gokeepasslib.CustomData {
	return slices.DeleteFunc(customData, func(item gokeepasslib.CustomData) bool {
		return item.Key == key
	})
}

// SaveAuthData сохраняет URL сервера и токен в CustomData метаданных базы.
// Пустое значение удаляет соответствующий ключ.
// Возвращает true, если данные изменились.
func SaveAuthData(db *gokeepasslib.Database, serverURL, authToken string) (bool, error) {
	if db == nil || db.Content == nil || db.Content.Meta == nil {
		return false, errNoMeta
	}

	meta := db.Content.Meta
	before := slices.Clone(meta.CustomData)

	for key, value := range map[string]string{
		CustomDataKeyServerURL: serverURL,
		CustomDataKeyAuthToken: authToken,
	} {
		if value != "" {
			meta.CustomData = setCustomDataValue(meta.CustomData, key, value)
		} else {
			meta.CustomData = removeCustomDataValue(meta.CustomData, key)
		}
	}

	changed := !slices.EqualFunc(before, meta.CustomData, func(a, b gokeepasslib.CustomData) bool {
		return a.Key == b.Key && a.Value == b.Value
	})
	if !changed {
		return false, nil
	}

	if db.Content.Root != nil && len(db.Content.Root.Groups) > 0 {
		modTime := wrappers.TimeWrapper{Time: time.Now().UTC()}
		db.Content.Root.Groups[0].Times.LastModificationTime = &modTime
	} else {
		slog.Warn("Не удалось обновить LastModificationTime: корневая группа отсутствует")
	}
	slog.Debug("Обновлены данные сессии в KDBX", "has_token", authToken != "")
	return true, nil
}

// LoadAuthData извлекает URL сервера и токен из CustomData метаданных базы.
func LoadAuthData(db *gokeepasslib.Database) (string, string, error) {
	if db == nil || db.Content == nil || db.Content.Meta == nil {
		return "", "", errNoMeta
	}

	var serverURL, authToken string
	for _, item := range db.Content.Meta.CustomData {
		switch item.Key {
		case CustomDataKeyServerURL:
			serverURL = item.Value
		case CustomDataKeyAuthToken:
			authToken = item.Value
		}
	}
	if authToken == "" {
		slog.Debug("Токен аутентификации не найден в CustomData KDBX")
	}
	return serverURL, authToken, nil
}
