package log

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	logconfig "github.com/weisyn/txlinker/internal/config/log"
	"github.com/weisyn/txlinker/pkg/types"
)

// readEntries 读取 JSON 日志文件中的所有条目
func readEntries(t *testing.T, path string) []map[string]interface{} {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []map[string]interface{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func newFileLogger(t *testing.T, level string) (*Logger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logs", "txlink.log")
	toConsole := false
	logger, err := New(logconfig.New(&types.UserLogConfig{
		Level:     &level,
		FilePath:  &path,
		ToConsole: &toConsole,
	}))
	require.NoError(t, err)
	return logger.(*Logger), path
}

func TestFileLoggingWritesJSON(t *testing.T) {
	logger, path := newFileLogger(t, "info")

	logger.Info("测试信息日志")
	logger.Debug("不应出现")
	require.NoError(t, logger.Sync())

	entries := readEntries(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, "测试信息日志", entries[0]["message"])
	assert.Equal(t, "info", entries[0]["level"])
}

func TestWithAddsStructuredFields(t *testing.T) {
	logger, path := newFileLogger(t, "debug")

	NewModuleLogger(logger, "analytics").With("event", "page_visit", "dangling").Warn("结构化日志测试")
	require.NoError(t, logger.Sync())

	entries := readEntries(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, "analytics", entries[0]["module"])
	assert.Equal(t, "page_visit", entries[0]["event"])
	assert.NotContains(t, entries[0], "dangling")
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	level := "verbose"
	cfg := logconfig.New(&types.UserLogConfig{Level: &level})
	assert.Equal(t, "info", cfg.GetZapLevel().String())
}

func TestGlobalLogger(t *testing.T) {
	old := GetLogger()
	defer SetLogger(old)

	logger, path := newFileLogger(t, "info")
	SetLogger(logger)
	SetLogger(nil) // 忽略 nil

	Info("全局日志")
	Warnf("警告 %d", 1)
	require.NoError(t, logger.Sync())

	entries := readEntries(t, path)
	require.Len(t, entries, 2)
	assert.Equal(t, "警告 1", entries[1]["message"])
}
