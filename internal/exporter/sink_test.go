package exporter

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSink_SaveExactBytes(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(dir, false)

	csv := ConvertToCSV([]Record{
		{{Key: "name", Value: "Doe, John"}, {Key: "active", Value: true}},
	}, nil)

	require.NoError(t, sink.Save(context.Background(), "users_export", []byte(csv)))

	content, err := os.ReadFile(filepath.Join(dir, "users_export.csv"))
	require.NoError(t, err)
	assert.Equal(t, csv, string(content))
}

func TestFileSink_BOMPrefixedOnlyAtBoundary(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(dir, true)

	csv := ConvertToCSV([]Record{{{Key: "a", Value: 1}}}, nil)
	assert.False(t, bytes.HasPrefix([]byte(csv), BOM()), "converter must not emit a BOM")

	require.NoError(t, sink.Save(context.Background(), "report", []byte(csv)))

	content, err := os.ReadFile(filepath.Join(dir, "report.csv"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, BOM()))
	assert.Equal(t, csv, string(bytes.TrimPrefix(content, BOM())))
}

func TestFileSink_AppendsCSVExtension(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(dir, false)

	require.NoError(t, sink.Save(context.Background(), "vehicles_2024-11-16", []byte("a\n1")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "vehicles_2024-11-16.csv", entries[0].Name())
}

func TestFileSink_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(dir, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sink.Save(ctx, "never", []byte("data"))
	assert.ErrorIs(t, err, context.Canceled)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestFileSink_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")
	sink := NewFileSink(dir, false)

	require.NoError(t, sink.Save(context.Background(), "out", []byte("x")))

	_, err := os.Stat(filepath.Join(dir, "out.csv"))
	assert.NoError(t, err)
}
