// Package sceneloader loads scene snapshots from disk, including snapshots
// stored in compressed containers (ZIP, 7z, gzip, tar.gz, zstd, RAR).
package sceneloader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/user-none/emvdp/vdp"
)

// Magic bytes for format detection
var (
	magicZIP    = []byte{0x50, 0x4B, 0x03, 0x04}
	magicZIPEnd = []byte{0x50, 0x4B, 0x05, 0x06} // empty zip
	magic7z     = []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}
	magicGzip   = []byte{0x1F, 0x8B}
	magicZstd   = []byte{0x28, 0xB5, 0x2F, 0xFD}
	magicRAR    = []byte{0x52, 0x61, 0x72, 0x21} // "Rar!"
	magicScene  = []byte("EMVDPScene")
)

// SceneExt is the file extension of a raw scene snapshot.
const SceneExt = ".vdps"

// Maximum extracted size. A snapshot is a little over 160KB.
const maxSceneSize = 1024 * 1024

// ErrNoSceneFile is returned when no scene file is found in an archive
var ErrNoSceneFile = errors.New("no " + SceneExt + " file found in archive")

// ErrUnsupportedFormat is returned for unrecognized file formats
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrFileTooLarge is returned when extracted content exceeds size limit
var ErrFileTooLarge = errors.New("file exceeds maximum size limit")

type formatType int

const (
	formatUnknown formatType = iota
	formatRawScene
	formatZIP
	format7z
	formatGzip
	formatZstd
	formatRAR
)

// Loader reads scenes from a filesystem.
type Loader struct {
	fs afero.Fs
}

// New returns a loader over fs. A nil fs selects the OS filesystem.
func New(fs afero.Fs) *Loader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Loader{fs: fs}
}

// Load reads a scene snapshot from the OS filesystem.
func Load(path string) ([]byte, string, error) {
	return New(nil).Load(path)
}

// Load reads a snapshot from path, extracting it from an archive if needed.
// It returns the snapshot bytes and the file name of the snapshot.
func (l *Loader) Load(path string) ([]byte, string, error) {
	f, err := l.fs.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	header := make([]byte, 16)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, "", fmt.Errorf("failed to read file header: %w", err)
	}
	header = header[:n]

	format := detectFormat(header, path)

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, "", fmt.Errorf("failed to seek file: %w", err)
	}

	switch format {
	case formatRawScene:
		data, err := limitedRead(f)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read scene: %w", err)
		}
		return data, filepath.Base(path), nil

	case formatZIP:
		return extractFromZIP(f)

	case format7z:
		return extractFrom7z(f)

	case formatGzip:
		return extractFromGzip(f, path)

	case formatZstd:
		return extractFromZstd(f, path)

	case formatRAR:
		return extractFromRAR(f)

	default:
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// LoadTables loads a snapshot and decodes it into fresh tables.
func (l *Loader) LoadTables(path string) (*vdp.Tables, string, error) {
	data, name, err := l.Load(path)
	if err != nil {
		return nil, "", err
	}
	t := vdp.NewTables()
	if err := vdp.Deserialize(t, data); err != nil {
		return nil, "", fmt.Errorf("%s: %w", name, err)
	}
	return t, name, nil
}

// detectFormat determines the file format based on magic bytes and extension
func detectFormat(header []byte, path string) formatType {
	ext := strings.ToLower(filepath.Ext(path))

	// Magic bytes first
	if bytes.HasPrefix(header, magicScene) {
		return formatRawScene
	}
	if len(header) >= 4 {
		if bytes.HasPrefix(header, magicZIP) || bytes.HasPrefix(header, magicZIPEnd) {
			return formatZIP
		}
		if bytes.HasPrefix(header, magicRAR) {
			return formatRAR
		}
		if bytes.HasPrefix(header, magicZstd) {
			return formatZstd
		}
	}
	if len(header) >= 6 && bytes.HasPrefix(header, magic7z) {
		return format7z
	}
	if len(header) >= 2 && bytes.HasPrefix(header, magicGzip) {
		return formatGzip
	}

	// Fall back to extension
	switch ext {
	case SceneExt:
		return formatRawScene
	case ".zip":
		return formatZIP
	case ".7z":
		return format7z
	case ".gz", ".tgz":
		return formatGzip
	case ".zst", ".tzst":
		return formatZstd
	case ".rar":
		return formatRAR
	}
	return formatUnknown
}

// isSceneFile checks if a filename has the scene extension (case-insensitive)
func isSceneFile(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), SceneExt)
}

// limitedRead reads from r up to maxSceneSize bytes, returning an error if exceeded
func limitedRead(r io.Reader) ([]byte, error) {
	lr := io.LimitReader(r, maxSceneSize+1)
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if len(data) > maxSceneSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}

// innerName strips a compression suffix from a file name.
func innerName(path string) string {
	base := filepath.Base(path)
	lower := strings.ToLower(base)
	for _, ext := range []string{".gz", ".zst"} {
		if strings.HasSuffix(lower, ext) {
			return base[:len(base)-len(ext)]
		}
	}
	return base
}
