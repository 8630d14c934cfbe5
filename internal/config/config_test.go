package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the data directory at a temp dir and clears vendor keys
// so the developer's environment does not leak into tests.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)
	for _, k := range []string{
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
		"GOOGLE_TTS_API_KEY", "YANDEX_API_KEY", "YANDEX_FOLDER_ID",
	} {
		t.Setenv(k, "")
	}
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000/api", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.False(t, cfg.Offline)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, filepath.Join(dir, "lexiz", "lexiz.log"), cfg.Log.Path)
	assert.Equal(t, filepath.Join(dir, "lexiz", "tts-cache"), cfg.TTS.Google.CacheDir)
	assert.Equal(t, 3*time.Second, cfg.TTS.Timeout)
	assert.Equal(t, "en-US", cfg.TTS.Google.Language)
	assert.Equal(t, 3, cfg.LLM.Retry.MaxAttempts)
	assert.Empty(t, cfg.LLM.Provider)
}

func TestLoad_FileEnvFlagsPrecedence(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, "lexiz.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: https://file.example/api
  timeout: 5s
log:
  level: debug
translate:
  folder_id: from-file
tts:
  player: [ffplay, -nodisp]
`), 0o644))

	t.Setenv("LEXIZ_API_BASE_URL", "https://env.example/api")
	t.Setenv("LEXIZ_LLM_OPENAI_API_KEY", "sk-env")
	t.Setenv("LEXIZ_TRANSLATE_API_KEY", "yandex-env")
	t.Setenv("LEXIZ_NOT_A_KEY", "ignored")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("api-url", "", "")
	flags.Bool("offline", false, "")
	flags.String("db", "", "")
	flags.String("unrelated", "", "")
	require.NoError(t, flags.Parse([]string{"--offline", "--db", "/tmp/x.db", "--unrelated", "y"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example/api", cfg.API.BaseURL, "env beats file, unset flag keeps env")
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Offline)
	assert.Equal(t, "/tmp/x.db", cfg.DB)
	assert.Equal(t, "from-file", cfg.Translate.FolderID)
	assert.Equal(t, "yandex-env", cfg.Translate.APIKey)
	assert.Equal(t, []string{"ffplay", "-nodisp"}, cfg.TTS.Player)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "sk-env", cfg.LLM.OpenAI.APIKey)

	require.NoError(t, flags.Set("api-url", "https://flag.example/api"))
	cfg, err = Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "https://flag.example/api", cfg.API.BaseURL)
}

func TestLoad_VendorFallbacks(t *testing.T) {
	isolate(t)
	t.Setenv("GEMINI_API_KEY", "g")
	t.Setenv("GOOGLE_TTS_API_KEY", "tts")
	t.Setenv("YANDEX_API_KEY", "y")
	t.Setenv("YANDEX_FOLDER_ID", "f")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "g", cfg.LLM.Gemini.APIKey)
	assert.Equal(t, "tts", cfg.TTS.Google.APIKey)
	assert.Equal(t, "y", cfg.Translate.APIKey)
	assert.Equal(t, "f", cfg.Translate.FolderID)
}

func TestLoad_DataHomeConfigFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lexiz"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lexiz", "config.yaml"), []byte("offline: true\n"), 0o644))

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.True(t, cfg.Offline)
}

func TestLoad_Invalid(t *testing.T) {
	dir := isolate(t)

	t.Setenv("LEXIZ_LOG_LEVEL", "loud")
	_, err := Load("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Level")

	t.Setenv("LEXIZ_LOG_LEVEL", "")
	t.Setenv("LEXIZ_LLM_PROVIDER", "anthropic")
	_, err = Load("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LEXIZ_LLM_ANTHROPIC_API_KEY")

	_, err = Load(filepath.Join(dir, "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LEXIZ_OFFLINE=true\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("LEXIZ_OFFLINE") })

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.True(t, cfg.Offline)
}
