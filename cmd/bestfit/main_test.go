package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bestfit/internal/config"
	"bestfit/internal/logging"
	"bestfit/internal/profile"
	"bestfit/internal/recommend"
	"bestfit/internal/usage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// isolate points the package globals at a clean config in a temp directory.
func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, k := range []string{"OPENAI_API_KEY", "GEMINI_API_KEY", "BESTFIT_API_KEY", "BESTFIT_PROVIDER", "BESTFIT_DEBUG"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	cfg = config.DefaultConfig()
	logger = zap.NewNop()
	configPath = filepath.Join(t.TempDir(), "config.yaml")
	verbose = false
	tracker = nil
}

func sessionInput() io.Reader {
	answers := make([]string, len(profile.SessionFields))
	for i := range answers {
		answers[i] = "x"
	}
	return strings.NewReader(strings.Join(answers, "\n") + "\n")
}

func fakeCompletions(t *testing.T, status int, reply string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": reply},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRunSessionMissingKey(t *testing.T) {
	isolate(t)

	var out bytes.Buffer
	err := runSession(context.Background(), sessionInput(), &out)

	require.ErrorIs(t, err, errExit)
	assert.Equal(t, MissingKeyMessage+"\n", out.String())
	assert.NotContains(t, out.String(), "Options:")
}

func TestRunSessionPrintsTiers(t *testing.T) {
	isolate(t)
	srv := fakeCompletions(t, http.StatusOK, "## Budget\nBrooks Ghost 15")
	cfg.LLM.APIKey = "test-key"
	cfg.LLM.BaseURL = srv.URL

	var out bytes.Buffer
	tracker, _ = usage.NewTracker("")
	ctx := usage.NewContext(context.Background(), tracker)
	require.NoError(t, runSession(ctx, sessionInput(), &out))

	assert.Contains(t, out.String(), "Brooks Ghost 15")
	assert.Equal(t, int64(1), tracker.Stats().ByFlow["session"].Calls)
	assert.Contains(t, out.String(), "HERE’S WHAT WE THINK ARE YOUR BEST CHOICES")
}

func TestRunSessionReportsCallFailure(t *testing.T) {
	isolate(t)
	srv := fakeCompletions(t, http.StatusInternalServerError, "")
	cfg.LLM.APIKey = "test-key"
	cfg.LLM.BaseURL = srv.URL

	var out bytes.Buffer
	require.NoError(t, runSession(context.Background(), sessionInput(), &out))
	assert.Contains(t, out.String(), "An error occurred:")
}

func TestSessionCommandExitsWithoutKey(t *testing.T) {
	isolate(t)

	var err error
	output := captureOutput(t, func() {
		rootCmd.SetArgs([]string{"--config", configPath, "session"})
		err = rootCmd.ExecuteContext(context.Background())
	})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.ErrorIs(t, err, errExit)
	assert.Contains(t, output, MissingKeyMessage)
	assert.NotContains(t, output, "Options:")
}

func TestLoadRuntimeRejectsInvalidConfig(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(configPath, []byte("llm:\n  provider: nope\n"), 0644))

	err := loadRuntime(sessionCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoadRuntimeInteractiveUsesNopLogger(t *testing.T) {
	isolate(t)

	require.NoError(t, loadRuntime(wizardCmd, nil))
	require.NotNil(t, tracker)
	assert.Same(t, tracker, usage.FromContext(wizardCmd.Context()))
	assert.True(t, isInteractive(rootCmd))
	assert.False(t, isInteractive(serveCmd))
	assert.NotNil(t, logger)
}

func TestAPIHandlerHealth(t *testing.T) {
	isolate(t)

	h := newAPIHandler(newService(recommend.StaticClient(nil)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestAPIHandlerReleaseModeWithoutDebug(t *testing.T) {
	isolate(t)
	gin.SetMode(gin.DebugMode)
	t.Cleanup(func() { gin.SetMode(gin.TestMode) })

	require.False(t, logging.IsDebugMode())
	newAPIHandler(newService(recommend.StaticClient(nil)))
	assert.Equal(t, gin.ReleaseMode, gin.Mode())
}

func TestIsTerminalFalseForBuffers(t *testing.T) {
	assert.False(t, isTerminal(&bytes.Buffer{}))
}

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origOut := os.Stdout
	origErr := os.Stderr
	rOut, wOut, _ := os.Pipe()
	rErr, wErr, _ := os.Pipe()
	os.Stdout = wOut
	os.Stderr = wErr

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, rOut)
		_, _ = io.Copy(&buf, rErr)
		done <- buf.String()
	}()

	fn()

	_ = wOut.Close()
	_ = wErr.Close()
	os.Stdout = origOut
	os.Stderr = origErr
	return <-done
}
