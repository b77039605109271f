package sceneloader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"

	"github.com/user-none/emvdp/vdp"
)

// Save writes a snapshot of t to path. A .gz or .zst suffix compresses the
// snapshot with gzip or zstd.
func (l *Loader) Save(path string, t *vdp.Tables) error {
	data := vdp.Serialize(t)

	if dir := filepath.Dir(path); dir != "." {
		if err := l.fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	f, err := l.fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := writeCompressed(f, path, data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeCompressed(w io.Writer, path string, data []byte) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gw := gzip.NewWriter(w)
		if _, err := gw.Write(data); err != nil {
			return fmt.Errorf("failed to write gzip: %w", err)
		}
		return gw.Close()

	case ".zst":
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return fmt.Errorf("failed to create zstd writer: %w", err)
		}
		if _, err := zw.Write(data); err != nil {
			zw.Close()
			return fmt.Errorf("failed to write zstd: %w", err)
		}
		return zw.Close()

	default:
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("failed to write scene: %w", err)
		}
		return nil
	}
}

// Exists reports whether path exists on the loader's filesystem.
func (l *Loader) Exists(path string) bool {
	ok, err := afero.Exists(l.fs, path)
	return err == nil && ok
}
