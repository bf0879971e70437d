package configs

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerLevels(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, Logger{Level: "DEBUG"}.SlogLevel())
	assert.Equal(t, slog.LevelWarn, Logger{Level: "warning"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, Logger{Level: "verbose"}.SlogLevel())
	assert.Equal(t, "json", Logger{Format: "JSON"}.SlogFormat())
	assert.Equal(t, "text", Logger{Format: "xml"}.SlogFormat())
}

func TestPlatformValidate(t *testing.T) {
	valid := Platform{
		Deployer:       "0x00000000000000000000000000000000000000de",
		FactoryAddress: "0x00000000000000000000000000000000000000fa",
		FeeSink:        "0x00000000000000000000000000000000000000fe",
		FeeBps:         250,
	}
	require.NoError(t, valid.Validate())

	deployer, factory, sink := valid.Addresses()
	assert.Equal(t, byte(0xde), deployer[19])
	assert.Equal(t, byte(0xfa), factory[19])
	assert.Equal(t, byte(0xfe), sink[19])

	bad := valid
	bad.FeeBps = 10001
	require.Error(t, bad.Validate())

	bad = valid
	bad.FeeSink = "0x0000000000000000000000000000000000000000"
	require.Error(t, bad.Validate())

	bad = valid
	bad.Deployer = "alice"
	require.Error(t, bad.Validate())
}

func TestStorageValidate(t *testing.T) {
	require.NoError(t, Storage{Driver: StorageMemory}.Validate())
	require.NoError(t, Storage{Driver: StoragePostgres}.Validate())
	require.Error(t, Storage{Driver: "sqlite"}.Validate())
}

func TestLoggerNew(t *testing.T) {
	var buf bytes.Buffer
	logger := Logger{Level: "warn", Format: "json"}.New(&buf, "test")

	logger.Info("dropped")
	logger.Warn("kept", slog.Int("n", 1))

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, `"msg":"kept"`)
	assert.Contains(t, out, `"env":"test"`)
}
