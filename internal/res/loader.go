// Package res loads the images placed on coupons, such as an organizer logo.
package res

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// maxRemoteSize caps remote downloads; a logo has no business being larger.
const maxRemoteSize = 10 << 20

// Image is a loaded image resource
type Image struct {
	URL      string
	Data     []byte
	MimeType string
}

// Reader returns a reader over the image bytes
func (i *Image) Reader() *bytes.Reader {
	return bytes.NewReader(i.Data)
}

// DataURL returns the image as a data URL for inline HTML use
func (i *Image) DataURL() string {
	return EncodeDataURL(i.MimeType, i.Data)
}

// IsSVG reports whether the image is vector data that must be rasterized first
func (i *Image) IsSVG() bool {
	return i.MimeType == "image/svg+xml"
}

// Loader handles loading images
type Loader struct {
	// Base directory for resolving relative paths
	BaseDir string

	cache     map[string]*Image
	cacheLock sync.RWMutex

	searchPaths []string

	client *http.Client
}

// NewLoader creates a new image loader
func NewLoader(baseDir string) *Loader {
	return &Loader{
		BaseDir:     baseDir,
		cache:       make(map[string]*Image),
		searchPaths: []string{},
		client:      &http.Client{},
	}
}

// AddSearchPath adds a directory to search for local images
func (l *Loader) AddSearchPath(path string) {
	l.searchPaths = append(l.searchPaths, path)
}

// Load loads an image from a file path, an http(s) URL or a data URL.
// Results are cached by the given reference.
func (l *Loader) Load(ctx context.Context, ref string) (*Image, error) {
	l.cacheLock.RLock()
	if img, ok := l.cache[ref]; ok {
		l.cacheLock.RUnlock()
		return img, nil
	}
	l.cacheLock.RUnlock()

	var (
		img *Image
		err error
	)
	switch {
	case strings.HasPrefix(ref, "data:"):
		img, err = parseDataURL(ref)
	case isRemote(ref):
		img, err = l.loadRemote(ctx, ref)
	default:
		img, err = l.loadLocal(l.resolvePath(ref))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load image %q: %w", shorten(ref), err)
	}
	if !strings.HasPrefix(img.MimeType, "image/") {
		return nil, fmt.Errorf("resource is not an image: %s (%s)", shorten(ref), img.MimeType)
	}

	l.cacheLock.Lock()
	l.cache[ref] = img
	l.cacheLock.Unlock()
	return img, nil
}

// EncodeDataURL builds a base64 data URL
func EncodeDataURL(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// parseDataURL parses a data URL (RFC 2397).
// Examples:
//
//	data:image/png;base64,<base64>
//	data:image/svg+xml,%3Csvg...
func parseDataURL(u string) (*Image, error) {
	s := strings.TrimPrefix(u, "data:")
	meta, payload, ok := strings.Cut(s, ",")
	if !ok {
		return nil, errors.New("invalid data URL")
	}

	mime := "application/octet-stream"
	isBase64 := false
	if meta != "" {
		comps := strings.Split(meta, ";")
		if comps[0] != "" {
			mime = comps[0]
		}
		for _, c := range comps[1:] {
			if strings.EqualFold(strings.TrimSpace(c), "base64") {
				isBase64 = true
			}
		}
	}

	var data []byte
	if isBase64 {
		d, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 data URL: %w", err)
		}
		data = d
	} else if d, err := url.PathUnescape(payload); err == nil {
		data = []byte(d)
	} else {
		data = []byte(payload)
	}

	return &Image{URL: u, Data: data, MimeType: mime}, nil
}

func isRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// resolvePath resolves a path relative to the base directory
func (l *Loader) resolvePath(p string) string {
	if filepath.IsAbs(p) || l.BaseDir == "" {
		return p
	}
	return filepath.Join(l.BaseDir, p)
}

// loadRemote loads an image from a remote URL
func (l *Loader) loadRemote(ctx context.Context, urlStr string) (*Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteSize))
	if err != nil {
		return nil, err
	}

	mime, _, _ := strings.Cut(resp.Header.Get("Content-Type"), ";")
	mime = strings.TrimSpace(mime)
	if mime == "" || mime == "application/octet-stream" {
		mime = determineMimeType(urlStr, data)
	}
	return &Image{URL: urlStr, Data: data, MimeType: mime}, nil
}

// loadLocal loads an image from a local file
func (l *Loader) loadLocal(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return l.loadFromSearchPaths(path)
		}
		return nil, err
	}
	return &Image{URL: path, Data: data, MimeType: determineMimeType(path, data)}, nil
}

// loadFromSearchPaths tries to load an image from the search paths
func (l *Loader) loadFromSearchPaths(filename string) (*Image, error) {
	base := filepath.Base(filename)
	for _, dir := range l.searchPaths {
		path := filepath.Join(dir, base)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		return &Image{URL: path, Data: data, MimeType: determineMimeType(path, data)}, nil
	}
	return nil, fmt.Errorf("resource not found: %s", filename)
}

// determineMimeType determines the MIME type from the extension, falling
// back to content sniffing
func determineMimeType(path string, data []byte) string {
	u := path
	if parsed, err := url.Parse(path); err == nil && parsed.Scheme != "" {
		u = parsed.Path
	}
	switch strings.ToLower(filepath.Ext(u)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".tiff", ".tif":
		return "image/tiff"
	case ".bmp":
		return "image/bmp"
	case ".svg":
		return "image/svg+xml"
	}
	if bytes.Contains(data[:min(len(data), 512)], []byte("<svg")) {
		return "image/svg+xml"
	}
	mime, _, _ := strings.Cut(http.DetectContentType(data), ";")
	return mime
}

func shorten(ref string) string {
	if len(ref) > 64 {
		return ref[:61] + "..."
	}
	return ref
}
