package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type StorageService interface {
	SaveUpload(filename string, data []byte) (string, error)
	GetFilePath(filename string) string
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

// SaveUpload archives an uploaded resume under a unique name that keeps the
// original extension, and returns that name.
func (s *storageService) SaveUpload(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	uniqueFilename := fmt.Sprintf("resume_%s%s", uuid.New().String(), ext)

	if err := os.WriteFile(s.GetFilePath(uniqueFilename), data, 0644); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return uniqueFilename, nil
}

func (s *storageService) GetFilePath(filename string) string {
	return filepath.Join(s.uploadPath, filename)
}
