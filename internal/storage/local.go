package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LocalScheme помечает локаторы изображений, сохраненных локально.
const LocalScheme = "local://"

// DiskStore пишет изображения на локальный диск, когда удаленное
// хранилище недоступно. Файлы лежат в <dir>/<roomID>/<filename> и
// раздаются через /api/images.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{dir: dir}
}

func (s *DiskStore) Save(roomID uuid.UUID, filename string, data []byte) (string, error) {
	roomDir := filepath.Join(s.dir, roomID.String())
	if err := os.MkdirAll(roomDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create image dir: %w", err)
	}

	path := filepath.Join(roomDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	logrus.WithField("path", path).Info("Saved image to local fallback storage")
	return LocalScheme + roomID.String() + "/" + filename, nil
}

// Path возвращает путь файла комнаты на диске.
func (s *DiskStore) Path(roomID uuid.UUID, filename string) string {
	return filepath.Join(s.dir, roomID.String(), filename)
}

// ListRoom возвращает имена jpeg-файлов комнаты.
func (s *DiskStore) ListRoom(roomID uuid.UUID) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, roomID.String()))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".jpg" {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func (s *DiskStore) DeleteRoom(roomID uuid.UUID) error {
	return os.RemoveAll(filepath.Join(s.dir, roomID.String()))
}
