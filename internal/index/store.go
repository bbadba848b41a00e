package index

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/vikin91/repotrace/internal/models"
	"github.com/vikin91/repotrace/internal/utils"
)

// Write serializes an index to path as JSON, creating parent directories as
// needed. When compress is true (or path already ends in .gz) the output is
// gzip-wrapped and the returned path carries the .gz suffix.
func Write(idx *Index, path string, compress bool) (string, error) {
	if idx.Metadata.PackageCount != len(idx.Packages) {
		return "", fmt.Errorf("package_count %d does not match %d packages",
			idx.Metadata.PackageCount, len(idx.Packages))
	}

	gzipped := compress || strings.HasSuffix(path, ".gz")

	var (
		data []byte
		err  error
	)
	if gzipped {
		data, err = json.Marshal(idx)
	} else {
		data, err = json.MarshalIndent(idx, "", "  ")
	}
	if err != nil {
		return "", fmt.Errorf("encoding index: %w", err)
	}

	if gzipped {
		if !strings.HasSuffix(path, ".gz") {
			path += ".gz"
		}
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return "", fmt.Errorf("compressing index: %w", err)
		}
		if err := w.Close(); err != nil {
			return "", fmt.Errorf("compressing index: %w", err)
		}
		data = buf.Bytes()
	}

	if err := utils.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing index: %w", err)
	}
	return path, nil
}

// Read deserializes an index artifact, transparently decompressing files
// with a .gz suffix. Malformed content yields a CorruptIndex error so the
// caller can skip the artifact and continue merging others.
func Read(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &models.TraceError{Type: models.ErrCorruptIndex, Err: err}
	}

	if strings.HasSuffix(path, ".gz") {
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, corrupt(path, err)
		}
		defer r.Close()

		var buf bytes.Buffer
		if _, err := buf.ReadFrom(r); err != nil {
			return nil, corrupt(path, err)
		}
		data = buf.Bytes()
	}

	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, corrupt(path, err)
	}
	if idx.Packages == nil {
		return nil, corrupt(path, fmt.Errorf("missing packages map"))
	}

	return &idx, nil
}

func corrupt(path string, err error) error {
	return &models.TraceError{
		Type: models.ErrCorruptIndex,
		Err:  fmt.Errorf("unreadable index %s: %w", path, err),
	}
}
