package dataset

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spboyer/locbench/internal/models"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.jsonl")
	writeFile(t, path, `{"instance_id":"x1","repo":"org/repo","base_commit":"abc123"}

{"instance_id":"x2","repo":"org/other"}
`)

	records, err := LoadRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "x1", records[0].InstanceID)
	assert.Equal(t, "org/repo", records[0].Repo)
	assert.Equal(t, "abc123", records[0].BaseCommit)
	assert.Equal(t, "x2", records[1].InstanceID)
}

func TestLoadRecordsMalformedLineIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.jsonl")
	writeFile(t, path, `{"instance_id":"x1"}
{not json}
`)

	_, err := LoadRecords(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), path)
}

func TestLoadRecordsGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.jsonl.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(`{"instance_id":"gz1","repo":"a/b"}` + "\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	records, err := LoadRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "gz1", records[0].InstanceID)
}

func TestLoadRecordsZstd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.jsonl.zst")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw, err := zstd.NewWriter(f)
	require.NoError(t, err)
	_, err = zw.Write([]byte(`{"instance_id":"zs1","repo":"a/b"}` + "\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	records, err := LoadRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "zs1", records[0].InstanceID)
}

func TestWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "loc_outputs.jsonl")

	w, err := NewWriter(path)
	require.NoError(t, err)
	result := models.LocalizationResult{
		InstanceID:    "x1",
		FoundFiles:    []string{"a.py", "b.py"},
		FoundModules:  []string{"a.py:Mod"},
		FoundEntities: []string{"a.py:Mod.fn"},
		RawOutput:     []string{"raw text"},
		MetaData:      map[string]any{"repo": "org/repo"},
	}
	require.NoError(t, w.Write(result))
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	scanner := bufio.NewScanner(f)
	require.True(t, scanner.Scan())

	var back models.LocalizationResult
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &back))
	assert.Equal(t, result, back)
	assert.False(t, scanner.Scan())
}

func TestWriterEmptySetsMarshalAsArrays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")

	w, err := NewWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(models.LocalizationResult{
		InstanceID:    "x1",
		FoundFiles:    []string{},
		FoundModules:  []string{},
		FoundEntities: []string{},
		RawOutput:     []string{},
		MetaData:      map[string]any{},
	}))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"found_files":[]`)
	assert.NotContains(t, string(data), "null")
}

func TestWriterEscapesNonASCII(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")

	w, err := NewWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(map[string]any{"text": "héllo — 日本語 🎉"}))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, b := range data {
		assert.Less(t, b, byte(0x80), "output must be pure ASCII")
	}
	assert.Contains(t, string(data), `\u00e9`) // é
	assert.Contains(t, string(data), `\u65e5`) // 日
	assert.Contains(t, string(data), `\ud83c`) // surrogate pair lead for 🎉
	assert.Contains(t, string(data), `\udf89`) // surrogate pair trail
}

func TestWriterOverwritesOnRerun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")

	for range 2 {
		w, err := NewWriter(path)
		require.NoError(t, err)
		require.NoError(t, w.Write(map[string]any{"a": 1}))
		require.NoError(t, w.Close())
	}

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	scanner := bufio.NewScanner(f)
	lines := 0
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) != "" {
			lines++
		}
	}
	assert.Equal(t, 1, lines)
}
