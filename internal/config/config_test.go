package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"OPENAI_API_KEY", "GEMINI_API_KEY", "BESTFIT_API_KEY", "BESTFIT_PROVIDER",
		"BESTFIT_BASE_URL", "BESTFIT_TIMEOUT", "BESTFIT_WIZARD_MODEL", "BESTFIT_SESSION_MODEL",
		"BESTFIT_ADDR", "BESTFIT_DEBUG", "BESTFIT_USAGE_FILE",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o", cfg.Wizard.Model)
	assert.Equal(t, "gpt-4o-mini", cfg.Session.Model)
	assert.Equal(t, 60*time.Second, cfg.GetLLMTimeout())
	assert.Equal(t, ".bestfit/usage.json", cfg.Usage.File)
	assert.NoError(t, cfg.Validate())
	assert.False(t, cfg.HasCredential())
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearLLMEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Wizard, cfg.Wizard)
}

func TestLoad_ParsesYAML(t *testing.T) {
	clearLLMEnv(t)
	t.Chdir(t.TempDir())

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
llm:
  provider: gemini
  api_key: from-file
  timeout: 15s
wizard:
  model: gemini-2.5-flash
server:
  address: ":9000"
logging:
  debug_mode: true
  categories:
    api: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "from-file", cfg.LLM.APIKey)
	assert.Equal(t, 15*time.Second, cfg.GetLLMTimeout())
	assert.Equal(t, "gemini-2.5-flash", cfg.Wizard.Model)
	assert.Equal(t, DefaultGeminiModel, cfg.Session.Model, "unset model follows the provider")
	assert.Equal(t, 0.7, cfg.Session.Temperature, "unset fields keep defaults")
	assert.Equal(t, ":9000", cfg.Server.Address)
	assert.True(t, cfg.Logging.DebugMode)
	assert.False(t, cfg.Logging.Categories["api"])
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearLLMEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_DotEnv(t *testing.T) {
	clearLLMEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("OPENAI_API_KEY=dotenv-key\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("OPENAI_API_KEY") })

	cfg, err := Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "dotenv-key", cfg.LLM.APIKey)
	assert.Equal(t, "openai", cfg.LLM.Provider)
}

func TestLoad_BestfitEnvVars(t *testing.T) {
	clearLLMEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("BESTFIT_WIZARD_MODEL", "gpt-4.1")
	t.Setenv("BESTFIT_SESSION_MODEL", "gpt-4.1-mini")
	t.Setenv("BESTFIT_TIMEOUT", "5s")
	t.Setenv("BESTFIT_ADDR", "127.0.0.1:7000")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "gpt-4.1", cfg.Wizard.Model)
	assert.Equal(t, "gpt-4.1-mini", cfg.Session.Model)
	assert.Equal(t, 5*time.Second, cfg.GetLLMTimeout())
	assert.Equal(t, "127.0.0.1:7000", cfg.Server.Address)
}

func TestEnvOverrides_Precedence(t *testing.T) {
	t.Run("OPENAI_API_KEY sets openai", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("OPENAI_API_KEY", "oa-key")

		cfg := &Config{LLM: LLMConfig{Provider: "gemini"}}
		cfg.applyEnvOverrides()

		assert.Equal(t, "oa-key", cfg.LLM.APIKey)
		assert.Equal(t, "openai", cfg.LLM.Provider)
	})

	t.Run("GEMINI overrides OPENAI", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("OPENAI_API_KEY", "oa-key")
		t.Setenv("GEMINI_API_KEY", "gm-key")

		cfg := &Config{}
		cfg.applyEnvOverrides()

		assert.Equal(t, "gm-key", cfg.LLM.APIKey)
		assert.Equal(t, "gemini", cfg.LLM.Provider)
	})

	t.Run("GEMINI alone switches default models", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("GEMINI_API_KEY", "gm-key")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "gemini", cfg.LLM.Provider)
		assert.Equal(t, DefaultGeminiModel, cfg.Wizard.Model)
		assert.Equal(t, DefaultGeminiModel, cfg.Session.Model)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("GEMINI keeps explicit gemini models", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("GEMINI_API_KEY", "gm-key")

		cfg := DefaultConfig()
		cfg.Wizard.Model = "gemini-2.5-pro"
		cfg.applyEnvOverrides()

		assert.Equal(t, "gemini-2.5-pro", cfg.Wizard.Model)
		assert.Equal(t, DefaultGeminiModel, cfg.Session.Model)
	})

	t.Run("OPENAI keeps openai models", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("OPENAI_API_KEY", "oa-key")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, DefaultOpenAIWizardModel, cfg.Wizard.Model)
		assert.Equal(t, DefaultOpenAISessionModel, cfg.Session.Model)
	})

	t.Run("no keys leaves config alone", func(t *testing.T) {
		clearLLMEnv(t)
		cfg := &Config{LLM: LLMConfig{Provider: "openai", APIKey: "file"}}
		cfg.applyEnvOverrides()
		assert.Equal(t, "file", cfg.LLM.APIKey)
	})
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLM.Provider = "anthropic"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.LLM.Timeout = "soon"
	assert.Error(t, cfg.Validate())
	assert.Equal(t, 60*time.Second, cfg.GetLLMTimeout())

	cfg = DefaultConfig()
	cfg.UI.Theme = "neon"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Session.Model = ""
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.LLM.Provider = "gemini"
	assert.Error(t, cfg.Validate())
}

func TestLoad_GeminiKeyOnly(t *testing.T) {
	clearLLMEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("GEMINI_API_KEY", "gm")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, DefaultGeminiModel, cfg.Wizard.Model)
	assert.Equal(t, DefaultGeminiModel, cfg.Session.Model)
	assert.NoError(t, cfg.Validate())
}

func TestSave_RoundTrip(t *testing.T) {
	clearLLMEnv(t)
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Wizard.Model = "custom-model"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "custom-model", loaded.Wizard.Model)
}
