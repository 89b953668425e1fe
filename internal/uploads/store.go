// Package uploads хранит загруженные файлы (картинки и голосовые
// сообщения) на диске и отдает их по публичному URL.
package uploads

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const urlPrefix = "/uploads/"

type Store struct {
	dir     string
	baseURL string
}

// NewStore создает каталог хранения, если его еще нет
func NewStore(dir, baseURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Dir возвращает каталог хранения для отдачи статики
func (s *Store) Dir() string {
	return s.dir
}

// Save пишет файл под случайным именем и возвращает публичный URL
func (s *Store) Save(data []byte, ext string) (string, error) {
	if ext == "" {
		ext = ".webm"
	}

	name := uuid.New().String() + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", err
	}

	return s.baseURL + urlPrefix + name, nil
}

// Remove удаляет файл по его публичному URL. Отсутствующий файл —
// это ошибка вызывающему на логирование, не повод что-то откатывать.
func (s *Store) Remove(fileURL string) error {
	idx := strings.LastIndex(fileURL, urlPrefix)
	if idx < 0 {
		return fmt.Errorf("not an upload URL: %s", fileURL)
	}

	name := fileURL[idx+len(urlPrefix):]
	if name == "" || strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return fmt.Errorf("invalid upload name: %s", name)
	}

	return os.Remove(filepath.Join(s.dir, name))
}
