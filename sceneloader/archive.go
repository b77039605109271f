package sceneloader

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"path/filepath"

	"github.com/bodgit/sevenzip"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/nwaples/rardecode/v2"
	"github.com/spf13/afero"
)

func fileSize(f afero.File) (int64, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat file: %w", err)
	}
	return info.Size(), nil
}

// extractFromZIP extracts the first scene file from a ZIP archive
func extractFromZIP(f afero.File) ([]byte, string, error) {
	size, err := fileSize(f)
	if err != nil {
		return nil, "", err
	}
	zr, err := zip.NewReader(f, size)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open zip: %w", err)
	}

	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() || !isSceneFile(zf.Name) {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return nil, "", fmt.Errorf("failed to open %s: %w", zf.Name, err)
		}
		data, err := limitedRead(rc)
		rc.Close()
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", zf.Name, err)
		}
		return data, filepath.Base(zf.Name), nil
	}
	return nil, "", ErrNoSceneFile
}

// extractFrom7z extracts the first scene file from a 7z archive
func extractFrom7z(f afero.File) ([]byte, string, error) {
	size, err := fileSize(f)
	if err != nil {
		return nil, "", err
	}
	r, err := sevenzip.NewReader(f, size)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open 7z: %w", err)
	}

	for _, sf := range r.File {
		if sf.FileInfo().IsDir() || !isSceneFile(sf.Name) {
			continue
		}
		rc, err := sf.Open()
		if err != nil {
			return nil, "", fmt.Errorf("failed to open %s: %w", sf.Name, err)
		}
		data, err := limitedRead(rc)
		rc.Close()
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", sf.Name, err)
		}
		return data, filepath.Base(sf.Name), nil
	}
	return nil, "", ErrNoSceneFile
}

// extractFromGzip decompresses a gzip stream holding either a snapshot or
// a tar archive of snapshots.
func extractFromGzip(f afero.File, path string) ([]byte, string, error) {
	gr, err := gzip.NewReader(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open gzip: %w", err)
	}
	defer gr.Close()

	data, err := limitedRead(gr)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decompress gzip: %w", err)
	}
	return unwrapTar(data, path)
}

// extractFromZstd decompresses a zstd stream holding either a snapshot or
// a tar archive of snapshots.
func extractFromZstd(f afero.File, path string) ([]byte, string, error) {
	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open zstd: %w", err)
	}
	defer zr.Close()

	data, err := limitedRead(zr)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decompress zstd: %w", err)
	}
	return unwrapTar(data, path)
}

// isTar checks for the ustar magic at offset 257.
func isTar(data []byte) bool {
	return len(data) >= 262 && string(data[257:262]) == "ustar"
}

func unwrapTar(data []byte, path string) ([]byte, string, error) {
	if !isTar(data) {
		return data, innerName(path), nil
	}

	tr := tar.NewReader(bytes.NewReader(data))
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to read tar entry: %w", err)
		}
		if header.Typeflag != tar.TypeReg || !isSceneFile(header.Name) {
			continue
		}
		scene, err := limitedRead(tr)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", header.Name, err)
		}
		return scene, filepath.Base(header.Name), nil
	}
	return nil, "", ErrNoSceneFile
}

// extractFromRAR extracts the first scene file from a RAR archive
func extractFromRAR(f afero.File) ([]byte, string, error) {
	r, err := rardecode.NewReader(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open rar: %w", err)
	}

	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to read rar entry: %w", err)
		}

		if header.IsDir {
			continue
		}
		if !isSceneFile(header.Name) {
			continue
		}

		data, err := limitedRead(r)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", header.Name, err)
		}
		return data, filepath.Base(header.Name), nil
	}

	return nil, "", ErrNoSceneFile
}
