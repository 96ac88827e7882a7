package logging

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		out = append(out, entry)
	}
	return out
}

func TestZeroLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, InfoLevel, FormatJSON)
	ctx := context.Background()

	logger.Debug(ctx, "hidden", nil)
	logger.Info(ctx, "cycle started", Fields{"source": "/src"})
	logger.Error(ctx, "copy failed", errors.New("disk full"), Fields{"path": "a.txt"})

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)

	assert.Equal(t, "info", entries[0]["level"])
	assert.Equal(t, "cycle started", entries[0]["message"])
	assert.Equal(t, "/src", entries[0]["source"])
	assert.Contains(t, entries[0], "time")

	assert.Equal(t, "error", entries[1]["level"])
	assert.Equal(t, "disk full", entries[1]["error"])
	assert.Equal(t, "a.txt", entries[1]["path"])
}

func TestZeroLoggerLevels(t *testing.T) {
	tests := []struct {
		level Level
		want  int
	}{
		{DebugLevel, 4},
		{InfoLevel, 3},
		{WarnLevel, 2},
		{ErrorLevel, 1},
	}

	for _, tt := range tests {
		t.Run(LevelString(tt.level), func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewWithWriter(&buf, tt.level, FormatJSON)
			ctx := context.Background()
			logger.Debug(ctx, "d", nil)
			logger.Info(ctx, "i", nil)
			logger.Warn(ctx, "w", nil)
			logger.Error(ctx, "e", nil, nil)

			assert.Len(t, decodeLines(t, &buf), tt.want)
		})
	}
}

func TestZeroLoggerWithFields(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter(&buf, InfoLevel, FormatJSON)
	child := base.WithFields(Fields{"cycle_id": "abc"})

	child.Info(context.Background(), "child", Fields{"extra": 1})
	base.Info(context.Background(), "base", nil)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "abc", entries[0]["cycle_id"])
	assert.EqualValues(t, 1, entries[0]["extra"])
	assert.NotContains(t, entries[1], "cycle_id")
}

func TestZeroLoggerText(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, InfoLevel, FormatText)
	logger.Warn(context.Background(), "slow cycle", Fields{"duration": "2m"})

	line := buf.String()
	assert.Contains(t, line, "WRN")
	assert.Contains(t, line, "slow cycle")
	assert.Contains(t, line, "duration=2m")
	assert.NotContains(t, line, "\x1b[", "no color codes outside a terminal")
}

func TestNewWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dirmirror.log")
	logger, err := New(Options{Level: InfoLevel, Format: FormatJSON, File: path})
	require.NoError(t, err)

	logger.Info(context.Background(), "to file", nil)
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"to file"`)
}

func TestRotatingWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	w, err := NewRotatingWriter(path, 100, 2)
	require.NoError(t, err)
	defer w.Close()

	line := []byte(strings.Repeat("x", 60) + "\n")
	for i := 0; i < 7; i++ {
		_, err := w.Write(line)
		require.NoError(t, err)
	}

	assert.FileExists(t, path)
	assert.FileExists(t, path+".1")
	assert.FileExists(t, path+".2")
	assert.NoFileExists(t, path+".3", "backups beyond MaxBackups are removed")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.LessOrEqual(t, info.Size(), int64(2*len(line)))
}

func TestRotatingWriterAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	require.NoError(t, os.WriteFile(path, []byte("existing\n"), 0o644))

	w, err := NewRotatingWriter(path, 0, 0)
	require.NoError(t, err)
	_, err = w.Write([]byte("new\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = w.Write([]byte("closed"))
	assert.ErrorIs(t, err, os.ErrClosed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "existing\nnew\n", string(data))
}

func TestRotatingWriterConcurrentWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	w, err := NewRotatingWriter(path, 0, 0)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, _ = w.Write([]byte("line\n"))
			}
		}()
	}
	wg.Wait()
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 500, strings.Count(string(data), "line\n"))
}

func TestNullLogger(t *testing.T) {
	var logger Logger = NewNullLogger()
	ctx := context.Background()

	logger.Debug(ctx, "d", nil)
	logger.Error(ctx, "e", errors.New("x"), Fields{"k": "v"})
	assert.Same(t, logger, logger.WithFields(Fields{"k": "v"}))
	assert.NoError(t, logger.Close())
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   DebugLevel,
		"DEBUG":   DebugLevel,
		"info":    InfoLevel,
		"warn":    WarnLevel,
		"warning": WarnLevel,
		"error":   ErrorLevel,
		"bogus":   InfoLevel,
	}
	for input, want := range tests {
		assert.Equal(t, want, ParseLevel(input), input)
	}

	assert.True(t, ValidLevel("Warn"))
	assert.False(t, ValidLevel("trace"))
}
