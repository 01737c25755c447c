package fetcher

import (
	"archive/zip"
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bodgit/sevenzip"
)

const (
	copyBufferSize  = 128 * 1024 // 128KB
	writeBufferSize = 32 * 1024  // 32KB
)

var errUnsafePath = errors.New("entry path escapes the extraction directory")

// extractArchive unpacks the archive at archivePath into destDir, creating
// directories as needed and overwriting existing files. Entry names are
// validated before anything is written: absolute paths and paths that
// resolve outside destDir are rejected.
func extractArchive(archivePath, destDir string) ([]string, error) {
	if IsSevenZip(archivePath) {
		return extract7z(archivePath, destDir)
	}
	return extractZip(archivePath, destDir)
}

func extractZip(archivePath, destDir string) ([]string, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		// ErrInsecurePath still yields a usable reader; the per-entry
		// check below rejects the offending names with their entry.
		return nil, &CorruptArchiveError{Path: archivePath, Err: err}
	}
	defer reader.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, &ExtractError{Entry: destDir, Err: err}
	}

	buffer := make([]byte, copyBufferSize)
	var written []string

	for _, file := range reader.File {
		target, err := safeJoin(destDir, file.Name)
		if err != nil {
			return nil, &ExtractError{Entry: file.Name, Err: err}
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, dirMode(file.Mode())); err != nil {
				return nil, &ExtractError{Entry: file.Name, Err: err}
			}
			continue
		}

		src, err := file.Open()
		if err != nil {
			return nil, &CorruptArchiveError{Path: archivePath, Err: err}
		}
		err = writeEntry(target, file.Mode(), src, buffer)
		src.Close()
		if err != nil {
			return nil, &ExtractError{Entry: file.Name, Err: err}
		}
		written = append(written, target)
	}

	return written, nil
}

func extract7z(archivePath, destDir string) ([]string, error) {
	reader, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return nil, &CorruptArchiveError{Path: archivePath, Err: err}
	}
	defer reader.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, &ExtractError{Entry: destDir, Err: err}
	}

	buffer := make([]byte, copyBufferSize)
	var written []string

	for _, file := range reader.File {
		target, err := safeJoin(destDir, file.Name)
		if err != nil {
			return nil, &ExtractError{Entry: file.Name, Err: err}
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, dirMode(file.Mode())); err != nil {
				return nil, &ExtractError{Entry: file.Name, Err: err}
			}
			continue
		}

		src, err := file.Open()
		if err != nil {
			return nil, &CorruptArchiveError{Path: archivePath, Err: err}
		}
		err = writeEntry(target, file.Mode(), src, buffer)
		src.Close()
		if err != nil {
			return nil, &ExtractError{Entry: file.Name, Err: err}
		}
		written = append(written, target)
	}

	return written, nil
}

// safeJoin resolves an archive entry name under destDir, rejecting names
// that would land outside it.
func safeJoin(destDir, name string) (string, error) {
	cleaned := filepath.FromSlash(name)
	if filepath.IsAbs(cleaned) || !filepath.IsLocal(cleaned) {
		return "", fmt.Errorf("%w: %s", errUnsafePath, name)
	}
	return filepath.Join(destDir, cleaned), nil
}

func writeEntry(target string, mode fs.FileMode, src io.Reader, buffer []byte) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	destFile, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fileMode(mode))
	if err != nil {
		return err
	}

	bufWriter := bufio.NewWriterSize(destFile, writeBufferSize)
	_, err = io.CopyBuffer(bufWriter, src, buffer)
	if err == nil {
		err = bufWriter.Flush()
	}
	if closeErr := destFile.Close(); err == nil {
		err = closeErr
	}
	return err
}

func fileMode(mode fs.FileMode) fs.FileMode {
	perm := mode.Perm()
	if perm == 0 {
		perm = 0644
	}
	return perm
}

func dirMode(mode fs.FileMode) fs.FileMode {
	perm := mode.Perm()
	if perm == 0 {
		perm = 0755
	}
	return perm
}
