package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/dirpoll/internal/adapters/logger"
	"go.trai.ch/zerr"
)

// newTestLogger creates a logger writing to a buffer without ANSI escape codes.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New()
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_InfoAndWarn(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Info("watching /srv/data")
	lg.Warn("skipping unreadable directory /srv/data/private")

	assert.Equal(t, "watching /srv/data\n! skipping unreadable directory /srv/data/private\n", buf.String())
}

func TestLogger_Error(t *testing.T) {
	t.Run("nil error is ignored", func(t *testing.T) {
		lg, buf := newTestLogger(t)
		lg.Error(nil)
		assert.Empty(t, buf.String())
	})

	t.Run("chain with metadata", func(t *testing.T) {
		lg, buf := newTestLogger(t)
		err := zerr.With(zerr.Wrap(errors.New("permission denied"), "root directory unreadable"), "root", "/srv/data")

		lg.Error(err)

		g := goldie.New(t)
		g.Assert(t, "logger_error_metadata", buf.Bytes())
	})
}

func TestLogger_JSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	lg.Error(zerr.With(zerr.New("scan failed"), "root", "/srv/data"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "ERROR", record["level"])
	assert.Contains(t, record["msg"], "scan failed")
	assert.Equal(t, "/srv/data", record["root"])

	buf.Reset()
	lg.SetJSON(false)
	lg.Info("back to text")
	assert.Equal(t, "back to text\n", buf.String())
}

func TestCollectErrorEntries(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []logger.ErrorEntry
	}{
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: []logger.ErrorEntry{{Message: "boom"}},
		},
		{
			name: "wrapped chain",
			err:  zerr.Wrap(zerr.New("inner"), "outer"),
			want: []logger.ErrorEntry{{Message: "outer"}, {Message: "inner"}},
		},
		{
			name: "metadata on foreign error",
			err:  zerr.With(errors.New("permission denied"), "path", "/srv"),
			want: []logger.ErrorEntry{{Message: "permission denied", Metadata: map[string]any{"path": "/srv"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.CollectErrorEntries(tt.err))
		})
	}
}

func TestFormatErrorEntries(t *testing.T) {
	got := logger.FormatErrorEntries([]logger.ErrorEntry{
		{Message: "scan failed"},
		{Message: "permission denied"},
	})

	g := goldie.New(t)
	g.Assert(t, "error_plain_chain", []byte(got+"\n"))
}
