package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Local stores objects below Root and serves them under BaseURL.
type Local struct {
	Root    string
	BaseURL string
}

func NewLocal(root, baseURL string) (*Local, error) {
	if root == "" {
		root = "./web/media"
	}
	if !filepath.IsAbs(root) {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("storage/local: %w", err)
		}
		root = abs
	}
	if baseURL == "" {
		baseURL = "/media"
	}
	return &Local{Root: root, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

// abs resolves path inside Root and refuses anything that escapes it.
func (d *Local) abs(path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(path))
	if clean == "." || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("storage/local: invalid path %q", path)
	}
	return filepath.Join(d.Root, clean), nil
}

func (d *Local) Put(_ context.Context, path string, content []byte, _ string) error {
	full, err := d.abs(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("storage/local: mkdir: %w", err)
	}
	if err := os.WriteFile(full, content, 0o644); err != nil {
		return fmt.Errorf("storage/local: write %s: %w", path, err)
	}
	return nil
}

func (d *Local) Delete(_ context.Context, path string) error {
	full, err := d.abs(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage/local: delete %s: %w", path, err)
	}
	return nil
}

func (d *Local) URL(path string) string {
	return d.BaseURL + "/" + strings.TrimLeft(filepath.ToSlash(path), "/")
}

func (d *Local) PathFromURL(u string) (string, bool) {
	p, ok := trimBase(d.BaseURL, u)
	if !ok {
		return "", false
	}
	if dec, err := url.PathUnescape(p); err == nil {
		p = dec
	}
	return p, true
}

// Open returns the absolute file for path, for serving under BaseURL.
func (d *Local) Open(path string) (string, error) {
	return d.abs(path)
}
