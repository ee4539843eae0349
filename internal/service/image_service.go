package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ImagemUpload carries one uploaded image file already read into memory.
type ImagemUpload struct {
	Filename string
	Data     []byte
}

// ImageStore persists medicine images and returns the public URL under which
// each one is served.
type ImageStore interface {
	Save(medicamentoID uuid.UUID, filename string, data []byte) (string, error)
	Remove(url string) error
	RemoveAll(medicamentoID uuid.UUID) error
}

type diskImageStore struct {
	dir     string
	baseURL string
}

// NewDiskImageStore stores files under dir/<medicamento_id>/ and serves them
// from baseURL (normally /uploads, mounted as a static route).
func NewDiskImageStore(dir string) ImageStore {
	return &diskImageStore{dir: dir, baseURL: "/uploads"}
}

func (s *diskImageStore) Save(medicamentoID uuid.UUID, filename string, data []byte) (string, error) {
	subdir := filepath.Join(s.dir, medicamentoID.String())
	if err := os.MkdirAll(subdir, 0o755); err != nil {
		return "", fmt.Errorf("criando diretório de imagens: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	name := uuid.New().String() + ext
	if err := os.WriteFile(filepath.Join(subdir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("gravando imagem: %w", err)
	}
	return s.baseURL + "/" + medicamentoID.String() + "/" + name, nil
}

func (s *diskImageStore) Remove(url string) error {
	rel := strings.TrimPrefix(url, s.baseURL+"/")
	if rel == url || strings.Contains(rel, "..") {
		return fmt.Errorf("url de imagem inválida: %s", url)
	}
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(rel)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *diskImageStore) RemoveAll(medicamentoID uuid.UUID) error {
	return os.RemoveAll(filepath.Join(s.dir, medicamentoID.String()))
}
