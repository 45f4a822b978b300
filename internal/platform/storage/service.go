package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var ErrFileNotFound = errors.New("file not found")

// StorageService defines methods for photo storage operations
type StorageService interface {
	// SaveFile stores content under key, replacing any previous value
	SaveFile(key string, content []byte) error

	// GetFile returns the stored content or ErrFileNotFound
	GetFile(key string) ([]byte, error)

	// DeleteFile removes key; deleting a missing key is not an error
	DeleteFile(key string) error

	// PrepareImage validates and normalizes an uploaded photo
	PrepareImage(content []byte) ([]byte, error)

	// IsFileExtensionAllowed checks if file extension is allowed
	IsFileExtensionAllowed(filename string) bool

	// GenerateKeyName generates a collision resistant key for an uploaded file
	GenerateKeyName(filename string) string
}

// storageService implements StorageService on top of any fiber.Storage
type storageService struct {
	storage      fiber.Storage
	maxDimension int
	maxPixels    int
}

// NewStorageService creates a new StorageService. Photos are scaled to fit
// maxDimension and refused above maxPixels; zero disables either limit.
func NewStorageService(storage fiber.Storage, maxDimension, maxPixels int) StorageService {
	return &storageService{
		storage:      storage,
		maxDimension: maxDimension,
		maxPixels:    maxPixels,
	}
}

func (s *storageService) SaveFile(key string, content []byte) error {
	if !IsValidKey(key) {
		return ErrInvalidKey
	}
	if err := s.storage.Set(key, content, 0); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

func (s *storageService) GetFile(key string) ([]byte, error) {
	if !IsValidKey(key) {
		return nil, ErrFileNotFound
	}

	data, err := s.storage.Get(key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if data == nil {
		return nil, ErrFileNotFound
	}
	return data, nil
}

func (s *storageService) DeleteFile(key string) error {
	if !IsValidKey(key) {
		return ErrInvalidKey
	}
	if err := s.storage.Delete(key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *storageService) PrepareImage(content []byte) ([]byte, error) {
	return PrepareImage(content, s.maxDimension, s.maxPixels)
}

var allowedExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp"}

func (s *storageService) IsFileExtensionAllowed(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range allowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

var (
	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
	repeatDots  = regexp.MustCompile(`\.{2,}`)
)

const maxNameLength = 100

func (s *storageService) GenerateKeyName(filename string) string {
	name := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	name = unsafeChars.ReplaceAllString(name, "-")
	name = repeatDots.ReplaceAllString(name, ".")
	name = strings.Trim(name, ".-")
	if len(name) > maxNameLength {
		name = name[len(name)-maxNameLength:]
	}

	if name == "" {
		return fmt.Sprintf("img-%s", uuid.NewString())
	}
	return fmt.Sprintf("img-%s-%s", uuid.NewString(), name)
}
