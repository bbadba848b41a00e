package fetch

import (
	"bytes"
	"compress/bzip2"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
	"github.com/vikin91/repotrace/internal/models"
)

// Decompress normalizes metadata bytes based on the resource name's
// extension: .gz, .bz2 and .xz are decompressed, anything else passes
// through unchanged.
func Decompress(name string, data []byte) ([]byte, error) {
	var (
		out []byte
		err error
	)

	switch {
	case strings.HasSuffix(name, ".gz"):
		out, err = gunzip(data)
	case strings.HasSuffix(name, ".bz2"):
		out, err = io.ReadAll(bzip2.NewReader(bytes.NewReader(data)))
	case strings.HasSuffix(name, ".xz"):
		out, err = unxz(data)
	default:
		return data, nil
	}

	if err != nil {
		return nil, &models.TraceError{
			Type: models.ErrDecode,
			Err:  fmt.Errorf("decompressing %s: %w", name, err),
		}
	}
	return out, nil
}

func gunzip(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}

func unxz(data []byte) ([]byte, error) {
	r, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}
