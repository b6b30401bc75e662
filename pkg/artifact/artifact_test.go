package artifact

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/snappy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Names  []string       `json:"names"`
	Counts map[string]int `json:"counts"`
	Note   string         `json:"note"`
}

func newSample() sample {
	return sample{
		Names:  []string{"alice", "bob"},
		Counts: map[string]int{"positive": 3, "negative": 1},
		Note:   "<b>&</b>",
	}
}

func TestWriteRead_RoundTrip(t *testing.T) {
	for _, name := range []string{"out.json", "out.json.sz"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)

			written, err := Write(path, "sample", "run-1", newSample())
			require.NoError(t, err)

			var got sample
			header, err := Read(path, "sample", &got)
			require.NoError(t, err)

			assert.Equal(t, newSample(), got)
			assert.Equal(t, "sample", header.Kind)
			assert.Equal(t, "run-1", header.RunID)
			assert.Equal(t, Version, header.Version)
			assert.Equal(t, written.Checksum, header.Checksum)
			assert.Len(t, header.Checksum, 64)
		})
	}
}

func TestWrite_CompressedOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.sz")
	_, err := Write(path, "sample", "run-1", newSample())
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	decoded, err := snappy.Decode(nil, raw)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(decoded, []byte("{")))
}

func TestWrite_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	_, err := Write(path, "sample", "run-1", newSample())
	require.NoError(t, err)
	_, err = Write(path, "sample", "run-2", newSample())
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.json", entries[0].Name())
}

func TestWrite_UnencodableKeepsPreviousFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	_, err := Write(path, "sample", "run-1", newSample())
	require.NoError(t, err)

	_, err = Write(path, "sample", "run-2", map[string]any{"bad": make(chan int)})
	require.Error(t, err)

	var got sample
	header, err := Read(path, "sample", &got)
	require.NoError(t, err)
	assert.Equal(t, "run-1", header.RunID)
}

func TestRead_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing", func(t *testing.T) {
		_, err := Read(filepath.Join(dir, "nope.json"), "sample", &sample{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))

		var aerr *Error
		require.ErrorAs(t, err, &aerr)
		assert.Equal(t, "read", aerr.Op)
	})

	t.Run("empty", func(t *testing.T) {
		path := filepath.Join(dir, "empty.json")
		require.NoError(t, os.WriteFile(path, nil, 0o644))
		_, err := Read(path, "sample", &sample{})
		assert.ErrorIs(t, err, ErrEmptyArtifact)
	})

	t.Run("kind mismatch", func(t *testing.T) {
		path := filepath.Join(dir, "kind.json")
		_, err := Write(path, "dataset", "run", newSample())
		require.NoError(t, err)
		_, err = Read(path, "partition", &sample{})
		assert.ErrorIs(t, err, ErrKindMismatch)
	})

	t.Run("tampered payload", func(t *testing.T) {
		path := filepath.Join(dir, "tamper.json")
		_, err := Write(path, "sample", "run", newSample())
		require.NoError(t, err)

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		raw = bytes.Replace(raw, []byte(`"alice"`), []byte(`"mallory"`), 1)
		require.NoError(t, os.WriteFile(path, raw, 0o644))

		_, err = Read(path, "sample", &sample{})
		assert.ErrorIs(t, err, ErrChecksumMismatch)
	})

	t.Run("garbage", func(t *testing.T) {
		path := filepath.Join(dir, "garbage.json")
		require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))
		_, err := Read(path, "sample", &sample{})
		assert.ErrorContains(t, err, "decode envelope")
	})

	t.Run("bad snappy", func(t *testing.T) {
		path := filepath.Join(dir, "bad.sz")
		require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))
		_, err := Read(path, "sample", &sample{})
		assert.ErrorContains(t, err, "decompress")
	})
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report", "summary.txt")

	require.NoError(t, WriteFile(path, []byte("one")))
	require.NoError(t, WriteFile(path, []byte("two")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
