package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesDailyFile(t *testing.T) {
	dir := t.TempDir()
	logger := NewLogger(&Config{Enabled: true, Level: "DEBUG", LogsDir: dir}, "App")
	defer logger.Close()

	logger.WithPrefix("PLC").Info("Connected", "host", "169.254.180.21", "port", 5000)
	logger.Debug("odd fields", "dangling")

	data, err := os.ReadFile(filepath.Join(dir, time.Now().Format("2006-01-02")+".log"))
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "App [PLC] Connected")
	assert.Contains(t, text, "host=169.254.180.21")
	assert.Contains(t, text, "port=5000")
	assert.Contains(t, text, "dangling=")
}

func TestLoggerLevels(t *testing.T) {
	logger := NewLogger(&Config{Enabled: true, Level: "WARN"}, "")
	assert.False(t, logger.ShouldLog("INFO"))
	assert.True(t, logger.ShouldLog("ERROR"))

	assert.False(t, Nop().ShouldLog("ERROR"))
}
