package gir

import (
	"os"
)

// Source represents a source for introspection document bytes.
type Source interface {
	// Bytes returns the document content.
	Bytes() ([]byte, error)

	// Name returns a name/identifier for this document.
	Name() string

	// Size returns the size in bytes.
	Size() int64
}

// FileSource loads the document from a file.
type FileSource struct {
	Path string
}

// Bytes reads the document file.
func (f *FileSource) Bytes() ([]byte, error) {
	return os.ReadFile(f.Path)
}

// Name returns the file path as the document name.
func (f *FileSource) Name() string {
	return f.Path
}

// Size returns the file size.
func (f *FileSource) Size() int64 {
	info, err := os.Stat(f.Path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// MemorySource loads the document from memory.
type MemorySource struct {
	DocName string
	Data    []byte
}

// Bytes returns the document content.
func (m *MemorySource) Bytes() ([]byte, error) {
	return m.Data, nil
}

// Name returns the document name.
func (m *MemorySource) Name() string {
	return m.DocName
}

// Size returns the data size.
func (m *MemorySource) Size() int64 {
	return int64(len(m.Data))
}
