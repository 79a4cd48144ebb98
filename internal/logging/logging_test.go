package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestNewLevels(t *testing.T) {
	require.Equal(t, logrus.WarnLevel, NewWithOutput(&bytes.Buffer{}, "warn", false).GetLevel())
	require.Equal(t, logrus.InfoLevel, NewWithOutput(&bytes.Buffer{}, "loud", false).GetLevel())
	require.Equal(t, logrus.DebugLevel, NewWithOutput(&bytes.Buffer{}, "error", true).GetLevel())
}

func TestFieldsAreWritten(t *testing.T) {
	var buf bytes.Buffer
	NewWithOutput(&buf, "info", false).WithField("channel", "42").Info("report sent")
	require.Contains(t, buf.String(), "channel=42")
	require.Contains(t, buf.String(), "report sent")
}
