// Package storage defines the inbox file-system abstraction.
package storage

import "github.com/fernwood/gedbase/internal/models"

// Provider is the interface for inbox file operations.
type Provider interface {
	// List returns metadata for every .ged file under dir (relative to inbox root).
	List(dir string) ([]models.FileMetadata, error)
	// Read returns the raw bytes of the file at path (relative to inbox root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to inbox root).
	Write(path string, content []byte) error
	// Delete removes the file at path (relative to inbox root).
	Delete(path string) error
}
