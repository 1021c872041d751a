package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MEDIASHELF_CONFIG", "")
	t.Setenv("MEDIASHELF_API_URL", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 50, cfg.PageSize)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mediashelf.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api_url: http://files.example/api
timeout: 5s
page_size: 20
log:
  level: debug
  format: json
`), 0644))

	t.Setenv("MEDIASHELF_CONFIG", "")
	t.Setenv("MEDIASHELF_API_URL", "http://env.example/api")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://env.example/api", cfg.APIURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 20, cfg.PageSize)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 10, cfg.Log.MaxSizeMB)
}

func TestLoadFileFromEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("page_size: 75\n"), 0644))
	t.Setenv("MEDIASHELF_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 75, cfg.PageSize)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("page_size: [1"), 0644))

	tests := []struct {
		name    string
		path    string
		env     map[string]string
		message string
	}{
		{"explicit missing file", filepath.Join(dir, "missing.yaml"), nil, "failed to read config"},
		{"malformed yaml", bad, nil, "failed to parse config"},
		{"bad timeout", "", map[string]string{"MEDIASHELF_TIMEOUT": "soon"}, "invalid MEDIASHELF_TIMEOUT"},
		{"bad page size", "", map[string]string{"MEDIASHELF_PAGE_SIZE": "lots"}, "invalid MEDIASHELF_PAGE_SIZE"},
		{"page size out of range", "", map[string]string{"MEDIASHELF_PAGE_SIZE": "500"}, "page size must be between 1 and 200"},
		{"bad log level", "", map[string]string{"MEDIASHELF_LOG_LEVEL": "loud"}, "unknown log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MEDIASHELF_CONFIG", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestMissingFileFromEnvironmentIsIgnored(t *testing.T) {
	t.Setenv("MEDIASHELF_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load("")
	require.NoError(t, err)
}
