package gamehash

import (
	"archive/zip"
	"compress/gzip"
	"errors"
	"fmt"
	"io"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode/v2"
)

func (p *Provider) hashZIP(path string) (string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open zip: %w", err)
	}
	defer func() { _ = r.Close() }()

	for _, f := range r.File {
		if f.FileInfo().IsDir() || !isGameFile(f.Name, p.extensions) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open %s in archive: %w", f.Name, err)
		}
		defer func() { _ = rc.Close() }()
		return p.digest(rc)
	}
	return "", ErrNoGameFile
}

func (p *Provider) hash7z(path string) (string, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open 7z: %w", err)
	}
	defer func() { _ = r.Close() }()

	for _, f := range r.File {
		if f.FileInfo().IsDir() || !isGameFile(f.Name, p.extensions) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open %s in archive: %w", f.Name, err)
		}
		defer func() { _ = rc.Close() }()
		return p.digest(rc)
	}
	return "", ErrNoGameFile
}

func (p *Provider) hashRAR(path string) (string, error) {
	r, err := rardecode.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open rar: %w", err)
	}
	defer func() { _ = r.Close() }()

	for {
		header, err := r.Next()
		if errors.Is(err, io.EOF) {
			return "", ErrNoGameFile
		}
		if err != nil {
			return "", fmt.Errorf("failed to read rar entry: %w", err)
		}
		if header.IsDir || !isGameFile(header.Name, p.extensions) {
			continue
		}
		return p.digest(r)
	}
}

// hashGzip hashes the decompressed stream. Single-file gzip only.
func (p *Provider) hashGzip(r io.Reader) (string, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to open gzip: %w", err)
	}
	defer func() { _ = gz.Close() }()
	return p.digest(gz)
}
