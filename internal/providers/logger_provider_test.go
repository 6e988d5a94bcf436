package providers

import (
	"os"
	"path/filepath"
	"pilot/internal/structures"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLogTypeByRequestType_Commands(t *testing.T) {
	assert.Equal(t, TypeCommand, GetLogTypeByRequestType("POST"))
	assert.Equal(t, TypeCommand, GetLogTypeByRequestType("PUT"))
	assert.Equal(t, TypeCommand, GetLogTypeByRequestType("DELETE"))
}

func TestGetLogTypeByRequestType_Queries(t *testing.T) {
	assert.Equal(t, TypeQuery, GetLogTypeByRequestType("GET"))
	assert.Equal(t, TypeQuery, GetLogTypeByRequestType("HEAD"))
}

func TestTypeEnum_String(t *testing.T) {
	assert.Equal(t, "session", TypeSession.String())
	assert.Equal(t, "app", TypeEnum(99).String())
}

func TestNewLogProvider_CreatesLogFiles(t *testing.T) {
	dir := t.TempDir()
	conf := &structures.Config{
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   dir,
		},
	}

	logger, err := NewLogProvider(conf)
	require.NoError(t, err)

	logger.Infof(TypeApp, "started")
	logger.Debugf(TypeQuery, "dropped below level")
	logger.Warnf(TypeStore, "duplicate date %s", "2024-03-15")
	logger.Close()

	for _, name := range []string{"app", "store", "session", "ai", "query", "command"} {
		assert.FileExists(t, filepath.Join(dir, name+".log"))
	}

	store, err := os.ReadFile(filepath.Join(dir, "store.log"))
	require.NoError(t, err)
	assert.Contains(t, string(store), "duplicate date 2024-03-15")
	assert.Contains(t, string(store), `"type":"store"`)

	query, err := os.ReadFile(filepath.Join(dir, "query.log"))
	require.NoError(t, err)
	assert.Empty(t, query)
}

func TestNewLogProvider_InvalidLevel(t *testing.T) {
	conf := &structures.Config{
		Logger: structures.LoggerConfig{Level: "loud", Mode: 0644, Dir: t.TempDir()},
	}

	_, err := NewLogProvider(conf)
	assert.Error(t, err)
}

func TestNewLogProvider_InvalidDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, nil, 0600))
	conf := &structures.Config{
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   filepath.Join(file, "logs"),
		},
	}

	_, err := NewLogProvider(conf)
	assert.Error(t, err)
}
