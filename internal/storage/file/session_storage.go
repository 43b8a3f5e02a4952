// Пакет file — файловое хранилище сессии: два слота (token, user.json)
// в каталоге состояния шлюза. Аналог двух ключей локального хранилища браузера.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/makbarsyahwana/logistic-gateway/internal/ports"
)

// Проверка, что SessionStorage удовлетворяет порту.
var _ ports.SessionStorage = (*SessionStorage)(nil)

const (
	tokenFile = "token"
	userFile  = "user.json"

	dirPerm  = 0o700
	filePerm = 0o600 // токен — секрет, только владелец
)

type SessionStorage struct {
	dir string
}

// New — создаёт каталог состояния (если нужно) и возвращает хранилище.
func New(dir string) (*SessionStorage, error) {
	if dir == "" {
		return nil, errors.New("session storage dir is required")
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &SessionStorage{dir: dir}, nil
}

// Load — вернуть содержимое обоих слотов. Отсутствующий файл — пустой слот.
func (s *SessionStorage) Load(_ context.Context) (string, []byte, error) {
	token, err := readOptional(filepath.Join(s.dir, tokenFile))
	if err != nil {
		return "", nil, fmt.Errorf("read token: %w", err)
	}
	rawUser, err := readOptional(filepath.Join(s.dir, userFile))
	if err != nil {
		return "", nil, fmt.Errorf("read user: %w", err)
	}
	return string(token), rawUser, nil
}

// Save — записать оба слота. Каждый файл пишется через временный + rename,
// чтобы не оставить полузаписанный слот при сбое.
func (s *SessionStorage) Save(_ context.Context, token string, rawUser []byte) error {
	if err := writeAtomic(filepath.Join(s.dir, tokenFile), []byte(token)); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	if err := writeAtomic(filepath.Join(s.dir, userFile), rawUser); err != nil {
		return fmt.Errorf("write user: %w", err)
	}
	return nil
}

// Clear — удалить оба слота; отсутствие файлов — не ошибка.
func (s *SessionStorage) Clear(_ context.Context) error {
	for _, name := range []string{tokenFile, userFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", name, err)
		}
	}
	return nil
}

func readOptional(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, filePerm); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
