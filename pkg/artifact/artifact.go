// Package artifact is the on-disk hand-off format between pipeline stages.
//
// Every artifact is a JSON envelope naming its kind, the run that wrote it,
// and a BLAKE2b-256 checksum of the payload. Files whose name ends in ".sz"
// are snappy-compressed. Writes go to a temp file that is renamed into
// place, so readers never see a half-written artifact.
package artifact

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang/snappy"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/exp/mmap"
)

// Version is the envelope format written by this package.
const Version = 1

// CompressedExt marks snappy-compressed artifacts.
const CompressedExt = ".sz"

// Header is the envelope metadata.
type Header struct {
	Kind      string    `json:"kind"`
	Version   int       `json:"version"`
	RunID     string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`
	Checksum  string    `json:"checksum"`
}

type envelope struct {
	Header
	Payload json.RawMessage `json:"payload"`
}

// Checksum returns the hex BLAKE2b-256 digest of payload.
func Checksum(payload []byte) string {
	sum := blake2b.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// Write stores v under kind at path, atomically.
func Write(path, kind, runID string, v any) (*Header, error) {
	wrap := func(err error) error {
		return &Error{Op: "write", Path: path, Kind: kind, Err: err}
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return nil, wrap(fmt.Errorf("encode payload: %w", err))
	}

	env := envelope{
		Header: Header{
			Kind:      kind,
			Version:   Version,
			RunID:     runID,
			CreatedAt: time.Now().UTC(),
			Checksum:  Checksum(payload),
		},
		Payload: payload,
	}

	data, err := json.Marshal(env)
	if err != nil {
		return nil, wrap(fmt.Errorf("encode envelope: %w", err))
	}
	if IsCompressed(path) {
		data = snappy.Encode(nil, data)
	}

	if err := writeAtomic(path, data); err != nil {
		return nil, wrap(err)
	}
	return &env.Header, nil
}

// Read loads the artifact at path into v after checking kind, version and
// checksum.
func Read(path, kind string, v any) (*Header, error) {
	wrap := func(err error) error {
		return &Error{Op: "read", Path: path, Kind: kind, Err: err}
	}

	data, err := readMapped(path)
	if err != nil {
		return nil, wrap(err)
	}
	if len(data) == 0 {
		return nil, wrap(ErrEmptyArtifact)
	}

	if IsCompressed(path) {
		data, err = snappy.Decode(nil, data)
		if err != nil {
			return nil, wrap(fmt.Errorf("decompress: %w", err))
		}
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, wrap(fmt.Errorf("decode envelope: %w", err))
	}
	if env.Version != Version {
		return nil, wrap(fmt.Errorf("%w: %d", ErrVersion, env.Version))
	}
	if env.Kind != kind {
		return nil, wrap(fmt.Errorf("%w: file holds %q", ErrKindMismatch, env.Kind))
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, env.Payload); err != nil {
		return nil, wrap(fmt.Errorf("decode payload: %w", err))
	}
	if Checksum(compact.Bytes()) != env.Checksum {
		return nil, wrap(ErrChecksumMismatch)
	}
	if err := json.Unmarshal(env.Payload, v); err != nil {
		return nil, wrap(fmt.Errorf("decode payload: %w", err))
	}

	return &env.Header, nil
}

// WriteFile atomically replaces path with data. It is used for outputs that
// are not enveloped, such as the text report.
func WriteFile(path string, data []byte) error {
	if err := writeAtomic(path, data); err != nil {
		return &Error{Op: "write", Path: path, Err: err}
	}
	return nil
}

// IsCompressed reports whether path uses the snappy extension.
func IsCompressed(path string) bool {
	return strings.HasSuffix(path, CompressedExt)
}

func readMapped(path string) ([]byte, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data := make([]byte, r.Len())
	if _, err := r.ReadAt(data, 0); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return data, nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	committed = true
	return nil
}
