package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrUnsupportedImage is returned for uploads with a non-image extension.
var ErrUnsupportedImage = errors.New("画像ファイル（png, jpg, jpeg, gif, webp）を選択してください")

var allowedImageExt = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// UploadStore saves images under dir with random file names.
type UploadStore struct {
	dir string
}

func NewUploadStore(dir string) (*UploadStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &UploadStore{dir: dir}, nil
}

func imageExt(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExt[ext] {
		return "", ErrUnsupportedImage
	}
	return ext, nil
}

// SaveFile stores an uploaded multipart file and returns its new name.
func (u *UploadStore) SaveFile(fh *multipart.FileHeader) (string, error) {
	ext, err := imageExt(fh.Filename)
	if err != nil {
		return "", err
	}
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}
	return u.SaveBytes(data, ext)
}

// SaveBytes stores data as a new file with extension ext.
func (u *UploadStore) SaveBytes(data []byte, ext string) (string, error) {
	name := uuid.New().String() + ext
	if err := os.WriteFile(filepath.Join(u.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return name, nil
}

// Read returns the bytes of a previously stored file and its MIME type.
func (u *UploadStore) Read(name string) ([]byte, string, error) {
	if name == "" || name != filepath.Base(name) {
		return nil, "", os.ErrNotExist
	}
	data, err := os.ReadFile(filepath.Join(u.dir, name))
	if err != nil {
		return nil, "", err
	}
	return data, mimeFor(name), nil
}

func mimeFor(name string) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); t != "" {
		return t
	}
	return "image/png"
}
