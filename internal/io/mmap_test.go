package io

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"events":[]}`), 0644))

	data, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"events":[]}`, string(data))
}

func TestReadRangeClamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.json")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0644))

	m, err := OpenMapped(path)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, int64(10), m.Size())

	part, err := m.ReadRange(7, 50)
	require.NoError(t, err)
	assert.Equal(t, "789", string(part))

	empty, err := m.ReadRange(5, 5)
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestReadFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	data, err := ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
