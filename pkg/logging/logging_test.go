package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestFileLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.log")

	f, logger, err := FileLogger(logrus.InfoLevel, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	logger.Info("vendor created")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "vendor created")
	require.Equal(t, logrus.InfoLevel, logger.GetLevel())
}

func TestFileLogger_NoPath(t *testing.T) {
	f, logger, err := FileLogger(logrus.DebugLevel, "")
	require.NoError(t, err)
	require.Nil(t, f)
	require.NotNil(t, logger)
}
