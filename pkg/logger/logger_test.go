package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaultLoggerIsUsableBeforeInit(t *testing.T) {
	assert.NotPanics(t, func() {
		InfoString("Test", "msg", "no init")
		LogIf(errors.New("ignored"))
	})
}

func TestInitLoggerWritesFile(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Logger = prev })

	dir := t.TempDir()
	file := filepath.Join(dir, "logs.log")
	InitLogger(file, 1, 1, 1, false, "single", "debug")

	InfoString("Payment", "create", "order O1")
	require.NoError(t, Logger.Sync())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "order O1")
	assert.Contains(t, string(data), `"level":"INFO"`)
}

func TestHelpersUseModuleNameAsMessage(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Logger = prev })

	core, logs := observer.New(zapcore.DebugLevel)
	Logger = zap.New(core)

	WarnString("WechatPay", "notify", "签名验证失败")
	LogIf(errors.New("boom"))
	LogIf(nil)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "WechatPay", entries[0].Message)
	assert.Equal(t, "签名验证失败", entries[0].ContextMap()["notify"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}
