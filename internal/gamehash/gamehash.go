// Package gamehash identifies game images by the MD5 of their contents.
// Compressed archives are unpacked and the first file with a known game
// extension is hashed.
package gamehash

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/garrettladley/cheevo/internal/xslog"
)

var (
	magicZIP    = []byte{0x50, 0x4B, 0x03, 0x04}
	magicZIPEnd = []byte{0x50, 0x4B, 0x05, 0x06}
	magic7z     = []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}
	magicGzip   = []byte{0x1F, 0x8B}
	magicRAR    = []byte{0x52, 0x61, 0x72, 0x21}
)

const defaultMaxSize = 64 << 20

var (
	ErrNoGameFile        = errors.New("no game file found in archive")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrFileTooLarge      = errors.New("file exceeds maximum size limit")
)

// DefaultExtensions covers common cartridge and disc image formats.
var DefaultExtensions = []string{
	".bin", ".iso", ".img", ".cue", ".chd",
	".nes", ".sfc", ".smc", ".gb", ".gbc", ".gba",
	".sms", ".gg", ".md", ".gen", ".n64", ".z64", ".pce",
}

type format int

const (
	formatUnknown format = iota
	formatRaw
	formatZIP
	format7z
	formatGzip
	formatRAR
)

func (f format) String() string {
	switch f {
	case formatRaw:
		return "raw"
	case formatZIP:
		return "zip"
	case format7z:
		return "7z"
	case formatGzip:
		return "gzip"
	case formatRAR:
		return "rar"
	default:
		return "unknown"
	}
}

type Option func(*Provider)

func WithExtensions(exts ...string) Option {
	return func(p *Provider) { p.extensions = exts }
}

func WithMaxSize(n int64) Option {
	return func(p *Provider) { p.maxSize = n }
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) { p.logger = logger }
}

type Provider struct {
	extensions []string
	maxSize    int64
	logger     *slog.Logger
}

func New(opts ...Option) *Provider {
	p := &Provider{
		extensions: DefaultExtensions,
		maxSize:    defaultMaxSize,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GameHash returns the lowercase hex MD5 of the game at path, or "" if it
// cannot be read.
func (p *Provider) GameHash(path string) string {
	hash, err := p.Hash(path)
	if err != nil {
		p.logger.Warn("failed to hash game", xslog.Path(path), xslog.Error(err))
		return ""
	}
	return hash
}

func (p *Provider) Hash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	header := make([]byte, 16)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read file header: %w", err)
	}
	header = header[:n]

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to seek file: %w", err)
	}

	fmtType := detectFormat(header, path, p.extensions)
	p.logger.Debug("hashing game", xslog.Path(path), slog.String("format", fmtType.String()))

	switch fmtType {
	case formatRaw:
		return p.digest(f)
	case formatZIP:
		return p.hashZIP(path)
	case format7z:
		return p.hash7z(path)
	case formatGzip:
		return p.hashGzip(f)
	case formatRAR:
		return p.hashRAR(path)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// HashAll hashes paths concurrently. Unreadable paths map to "".
func (p *Provider) HashAll(ctx context.Context, paths []string, limit int) (map[string]string, error) {
	hashes := make([]string, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, limit))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			hashes[i] = p.GameHash(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]string, len(paths))
	for i, path := range paths {
		out[path] = hashes[i]
	}
	return out, nil
}

func (p *Provider) digest(r io.Reader) (string, error) {
	h := md5.New()
	n, err := io.Copy(h, io.LimitReader(r, p.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read game data: %w", err)
	}
	if n > p.maxSize {
		return "", ErrFileTooLarge
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func detectFormat(header []byte, path string, extensions []string) format {
	ext := strings.ToLower(filepath.Ext(path))

	switch {
	case bytes.HasPrefix(header, magicZIP), bytes.HasPrefix(header, magicZIPEnd):
		return formatZIP
	case bytes.HasPrefix(header, magicRAR):
		return formatRAR
	case bytes.HasPrefix(header, magic7z):
		return format7z
	case bytes.HasPrefix(header, magicGzip):
		return formatGzip
	}

	switch ext {
	case ".zip":
		return formatZIP
	case ".7z":
		return format7z
	case ".gz":
		return formatGzip
	case ".rar":
		return formatRAR
	}

	if isGameFile(path, extensions) {
		return formatRaw
	}
	return formatUnknown
}

func isGameFile(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}
