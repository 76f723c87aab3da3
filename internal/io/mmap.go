package io

import (
	"golang.org/x/exp/mmap"
)

// MappedFile provides memory-mapped read access to a session log
type MappedFile struct {
	reader *mmap.ReaderAt
	size   int64
}

// OpenMapped opens a file with memory mapping
func OpenMapped(path string) (*MappedFile, error) {
	reader, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}

	return &MappedFile{
		reader: reader,
		size:   int64(reader.Len()),
	}, nil
}

// Bytes copies the whole mapping into memory
func (m *MappedFile) Bytes() ([]byte, error) {
	return m.ReadRange(0, m.Size())
}

// ReadRange reads bytes from start to end
func (m *MappedFile) ReadRange(start, end int64) ([]byte, error) {
	if end > m.size {
		end = m.size
	}
	if start >= end {
		return nil, nil
	}

	buf := make([]byte, end-start)
	_, err := m.reader.ReadAt(buf, start)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Size returns the file size
func (m *MappedFile) Size() int64 {
	return m.size
}

// Close closes the memory mapping
func (m *MappedFile) Close() error {
	return m.reader.Close()
}

// ReadFile maps path, copies its content and unmaps it again
func ReadFile(path string) ([]byte, error) {
	m, err := OpenMapped(path)
	if err != nil {
		return nil, err
	}
	defer m.Close()
	return m.Bytes()
}
