package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artnetmapper/internal/config"
)

func TestNewLogger(t *testing.T) {
	log, err := NewLogger(config.LogConf{Level: "warn"})
	require.NoError(t, err)
	assert.Equal(t, "warning", log.GetLevel())

	_, err = NewLogger(config.LogConf{Level: "loud"})
	assert.Error(t, err)

	_, err = NewLogger(config.LogConf{Level: "info", Format: "xml"})
	assert.Error(t, err)
}

func TestWithAddsFields(t *testing.T) {
	l, hook := test.NewNullLogger()
	log := Wrap(l)

	log.With(Fields{"module": "output"}).Warn("slot empty")

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "output", hook.LastEntry().Data["module"])
}

func TestLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapper.log")
	log, err := NewLogger(config.LogConf{Level: "info", File: path})
	require.NoError(t, err)

	log.With(Fields{"module": "model"}).Info("model built")
	require.NoError(t, log.Close())
	assert.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "model built")
	assert.Contains(t, string(data), "module=model")
}

func TestCloseWithoutFile(t *testing.T) {
	log, err := NewLogger(config.LogConf{Level: "info"})
	require.NoError(t, err)
	assert.NoError(t, log.Close())
}
