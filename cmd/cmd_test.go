package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogue = `{"data":[
	{"id":"openai/gpt-4","name":"GPT-4","context_length":8192,"architecture":{"modality":"text->text","tokenizer":"GPT"},"pricing":{"prompt":"0.00003","completion":"0.00006"}},
	{"id":"anthropic/claude-3","name":"Claude 3","context_length":200000,"architecture":{"modality":"text+image->text"},"pricing":{"prompt":"0.000003","completion":"0.000015"}},
	{"id":"google/gemma:free","name":"Gemma (free)","context_length":8192}
]}`

func newUpstream(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(catalogue))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

// execute 运行一次命令，之前先重置命令行参数的全局变量
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("FETCH_MAX_RETRIES", "0")
	t.Setenv("LOG_LEVEL", "error")

	listSearch, listProviders, listModalities, listPricing = "", nil, nil, nil
	listMinContext, listSort, listDir, listJSON = 0, "name", "asc", false
	showJSON, refreshClear = false, false
	logLevel, logFormat, logFile = "", "", ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := Execute()
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	srv, _ := newUpstream(t)

	out, err := execute(t, "list", "--endpoint", srv.URL, "--cache-backend", "memory")
	require.NoError(t, err)
	assert.Contains(t, out, "PROVIDER")
	assert.Contains(t, out, "GPT-4")
	assert.Contains(t, out, "3 of 3 models")

	out, err = execute(t, "list", "--endpoint", srv.URL, "--cache-backend", "memory", "--provider", "openai")
	require.NoError(t, err)
	assert.Contains(t, out, "GPT-4")
	assert.NotContains(t, out, "Claude 3")
	assert.Contains(t, out, "1 of 3 models")

	out, err = execute(t, "list", "--endpoint", srv.URL, "--cache-backend", "memory", "--pricing", "free", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"google/gemma:free"`)
	assert.NotContains(t, out, `"openai/gpt-4"`)

	out, err = execute(t, "list", "--endpoint", srv.URL, "--cache-backend", "memory", "--search", "nothing-like-this")
	require.NoError(t, err)
	assert.Contains(t, out, "No models match")
}

func TestListCommandRejectsBadFlags(t *testing.T) {
	srv, calls := newUpstream(t)

	_, err := execute(t, "list", "--endpoint", srv.URL, "--cache-backend", "memory", "--pricing", "cheap")
	assert.Error(t, err)

	_, err = execute(t, "list", "--endpoint", srv.URL, "--cache-backend", "memory", "--sort", "created")
	assert.Error(t, err)

	_, err = execute(t, "list", "--cache-backend", "sqlite")
	assert.Error(t, err)
	assert.EqualValues(t, 0, calls.Load(), "参数错误时不应请求上游")
}

func TestShowCommand(t *testing.T) {
	srv, _ := newUpstream(t)

	out, err := execute(t, "show", "openai/gpt-4", "--endpoint", srv.URL, "--cache-backend", "memory")
	require.NoError(t, err)
	assert.Contains(t, out, "Provider:")
	assert.Contains(t, out, "openai")
	assert.Contains(t, out, "8K")
	assert.Contains(t, out, "prompt $30.00/M")

	_, err = execute(t, "show", "openai/gpt-9", "--endpoint", srv.URL, "--cache-backend", "memory")
	assert.Error(t, err)
}

func TestFacetCommands(t *testing.T) {
	srv, _ := newUpstream(t)

	out, err := execute(t, "providers", "--endpoint", srv.URL, "--cache-backend", "memory")
	require.NoError(t, err)
	assert.Equal(t, "anthropic\ngoogle\nopenai\n", out)

	out, err = execute(t, "modalities", "im", "--endpoint", srv.URL, "--cache-backend", "memory")
	require.NoError(t, err)
	assert.Equal(t, "image\n", out)
}

func TestRefreshThenServeFromSnapshot(t *testing.T) {
	srv, calls := newUpstream(t)
	dir := t.TempDir()

	out, err := execute(t, "refresh", "--clear", "--endpoint", srv.URL, "--cache-backend", "file", "--cache-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Fetched 3 models")
	assert.EqualValues(t, 1, calls.Load())

	out, err = execute(t, "list", "--endpoint", srv.URL, "--cache-backend", "file", "--cache-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Claude 3")
	assert.EqualValues(t, 1, calls.Load(), "快照有效时不请求上游")
	assert.True(t, strings.Contains(out, "3 of 3 models"))
}

func TestExecuteClosesLoggerOnError(t *testing.T) {
	closed := 0
	prev := closeLogger
	closeLogger = func() error { closed++; return prev() }
	t.Cleanup(func() { closeLogger = prev })

	_, err := execute(t, "list", "--cache-backend", "memory", "--sort", "bogus",
		"--log-file", filepath.Join(t.TempDir(), "explorer.log"))
	require.Error(t, err)
	assert.Equal(t, 1, closed, "命令失败时也关闭日志")

	_, err = execute(t, "show", "--cache-backend", "memory")
	require.Error(t, err, "缺少参数")
	assert.Equal(t, 2, closed)
}
