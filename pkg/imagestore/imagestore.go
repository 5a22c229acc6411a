// Package imagestore keeps pet pictures uploaded as data URLs.
package imagestore

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/spf13/afero"
)

var ErrInvalidImage = errors.New("invalid image")

// maxSourcePixels bounds width*height of an upload before it is decoded.
const maxSourcePixels = 40_000_000

type Store struct {
	fs        afero.Fs
	dir       string
	urlPrefix string
	maxPixels int
}

// New stores images under dir and serves them below urlPrefix. Images larger
// than maxPixels on either side are shrunk to fit.
func New(fsys afero.Fs, dir, urlPrefix string, maxPixels int) (*Store, error) {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	if maxPixels <= 0 {
		maxPixels = 512
	}
	return &Store{fs: fsys, dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/"), maxPixels: maxPixels}, nil
}

func (s *Store) URLPrefix() string {
	return s.urlPrefix
}

// SaveDataURL decodes a data:image/...;base64 URL, bounds it, writes it as
// JPEG named after id and returns its public URL.
func (s *Store) SaveDataURL(id, dataURL string) (string, error) {
	raw, err := decodeDataURL(dataURL)
	if err != nil {
		return "", err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > maxSourcePixels {
		return "", fmt.Errorf("%w: %dx%d is too large", ErrInvalidImage, cfg.Width, cfg.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	b := img.Bounds()
	if b.Dx() > s.maxPixels || b.Dy() > s.maxPixels {
		img = imaging.Fit(img, s.maxPixels, s.maxPixels, imaging.Lanczos)
	}

	name := id + ".jpg"
	f, err := s.fs.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	if err := imaging.Encode(f, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		f.Close()
		s.fs.Remove(filepath.Join(s.dir, name))
		return "", fmt.Errorf("encode image: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close image file: %w", err)
	}

	return path.Join(s.urlPrefix, name), nil
}

// Delete removes an image previously returned by SaveDataURL. Foreign or
// missing URLs are ignored.
func (s *Store) Delete(url string) error {
	if !strings.HasPrefix(url, s.urlPrefix+"/") {
		return nil
	}
	name := path.Base(url)
	err := s.fs.Remove(filepath.Join(s.dir, name))
	if err != nil {
		if ok, _ := afero.Exists(s.fs, filepath.Join(s.dir, name)); !ok {
			return nil
		}
	}
	return err
}

// Handler serves stored images; mount it with http.StripPrefix(urlPrefix).
func (s *Store) Handler() http.Handler {
	return http.FileServer(afero.NewHttpFs(s.fs).Dir(s.dir))
}

func decodeDataURL(dataURL string) ([]byte, error) {
	meta, payload, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasPrefix(meta, "data:image/") || !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("%w: expected data:image/...;base64 URL", ErrInvalidImage)
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return raw, nil
}
