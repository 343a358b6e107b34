package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestFileLogger_CreatesNestedLogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "mrp.log")

	f, logger, err := FileLogger(logrus.InfoLevel, logPath)
	require.NoError(t, err)
	defer f.Close()

	logger.Info("engine started")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "engine started")
	require.Equal(t, logrus.InfoLevel, logger.GetLevel())
}

func TestConsoleLogger_SetsLevel(t *testing.T) {
	logger := ConsoleLogger(logrus.DebugLevel)
	require.Equal(t, logrus.DebugLevel, logger.GetLevel())
}
