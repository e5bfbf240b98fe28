package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriterWritesAllLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf)

	l.Debug("debug line")
	l.Infof("processed %d emails", 3)
	l.Warn("slow mailbox")
	l.Error("send failed:", "timeout")

	out := buf.String()
	assert.Contains(t, out, "debug line")
	assert.Contains(t, out, "processed 3 emails")
	assert.Contains(t, out, "slow mailbox")
	assert.Contains(t, out, "send failed: timeout")
	assert.Contains(t, out, "ERROR")
}

func TestNewWithConfig(t *testing.T) {
	l, err := NewWithConfig("warn", "json")
	require.NoError(t, err)
	require.NotNil(t, l.base)
	assert.False(t, l.base.Core().Enabled(parseLevel("info")))
	assert.True(t, l.base.Core().Enabled(parseLevel("error")))
}
