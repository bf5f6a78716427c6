package storage

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IshaanNene/vinmonopolet/internal/config"
	"github.com/IshaanNene/vinmonopolet/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func sampleItems() []*types.Item {
	a := types.NewItem("product:109802", "product")
	a.Set("title", "3 Horses Apple Malt Beverage")
	a.Set("sku", 109802)
	a.Set("price", 19.9)

	b := types.NewItem("product:116502", "product")
	b.Set("title", "Weihenstephaner Hefeweissbier Alkoholfrei")
	b.Set("sku", 116502)
	b.Set("price", 24.4)
	return []*types.Item{a, b}
}

func TestJSONStorage(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStorage("json", dir, "products", testLogger)
	require.NoError(t, err)
	assert.Equal(t, "json", s.Name())

	require.NoError(t, s.Store(sampleItems()))
	require.NoError(t, s.Close())

	data, err := os.ReadFile(filepath.Join(dir, "products.json"))
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 2)
	assert.Equal(t, "product:109802", records[0]["_id"])
	assert.Equal(t, "product", records[0]["_kind"])
	assert.Equal(t, 19.9, records[0]["price"])
	assert.Equal(t, "Weihenstephaner Hefeweissbier Alkoholfrei", records[1]["title"])
}

func TestJSONLStorage(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStorage("jsonl", dir, "products", testLogger)
	require.NoError(t, err)

	require.NoError(t, s.Store(sampleItems()))
	require.NoError(t, s.Close())

	data, err := os.ReadFile(filepath.Join(dir, "products.jsonl"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, float64(109802), first["sku"])
}

func TestCSVStorage(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStorage("csv", dir, "products", testLogger)
	require.NoError(t, err)

	require.NoError(t, s.Store(sampleItems()))
	require.NoError(t, s.Close())

	f, err := os.Open(filepath.Join(dir, "products.csv"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"_id", "price", "sku", "title"}, rows[0])
	assert.Equal(t, []string{"product:109802", "19.9", "109802", "3 Horses Apple Malt Beverage"}, rows[1])
}

func TestNewFileStorageUnsupported(t *testing.T) {
	_, err := NewFileStorage("xml", t.TempDir(), "products", testLogger)
	assert.Error(t, err)
}

func TestNewSelectsFileBackend(t *testing.T) {
	cfg := config.DefaultConfig().Storage
	cfg.Type = "jsonl"
	cfg.OutputPath = t.TempDir()

	s, err := New(context.Background(), &cfg, "categories", testLogger)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, "jsonl", s.Name())
}
