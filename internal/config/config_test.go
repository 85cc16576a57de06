package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeCreatesDefaultConfig(t *testing.T) {
	viper.Reset()
	home := t.TempDir()
	t.Setenv("MOCKPREP_HOME", home)

	require.NoError(t, Initialize())

	_, err := os.Stat(filepath.Join(home, "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "sqlite3", AppConfig.DatabaseDriver)
	assert.Equal(t, "local", AppConfig.StorageBackend)
	assert.Equal(t, 10, AppConfig.MaxResumeSizeMB)
	assert.Equal(t, int64(10*1024*1024), AppConfig.MaxResumeSize())
	assert.Equal(t, 20, AppConfig.ActivityPageSize)
	assert.Equal(t, filepath.Join(home, "storage"), AppConfig.StorageDir)
}

func TestEnvOverrides(t *testing.T) {
	viper.Reset()
	t.Setenv("MOCKPREP_HOME", t.TempDir())
	t.Setenv("MOCKPREP_STORAGE_BACKEND", "s3")
	t.Setenv("MOCKPREP_MAX_RESUME_SIZE_MB", "5")

	require.NoError(t, Initialize())

	assert.Equal(t, "s3", AppConfig.StorageBackend)
	assert.Equal(t, 5, AppConfig.MaxResumeSizeMB)
}

func TestSetPersistsValue(t *testing.T) {
	viper.Reset()
	t.Setenv("MOCKPREP_HOME", t.TempDir())
	require.NoError(t, Initialize())

	require.NoError(t, Set("ai_provider", "gemini"))

	viper.Reset()
	require.NoError(t, Initialize())
	assert.Equal(t, "gemini", AppConfig.AIProvider)
}

func TestIsSettable(t *testing.T) {
	assert.True(t, IsSettable("openai_key"))
	assert.True(t, IsSettable("max_resume_size_mb"))
	assert.False(t, IsSettable("session_token"))
	assert.False(t, IsSettable("nope"))
}
