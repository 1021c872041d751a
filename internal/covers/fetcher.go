// Package covers downloads cover images so they can be uploaded as an
// item's cover.
package covers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

const (
	// DefaultOpenLibraryURL serves book covers by ISBN
	DefaultOpenLibraryURL = "https://covers.openlibrary.org"

	// MaxSize matches the largest upload the backend accepts
	MaxSize = 10 << 20

	// smaller responses are Open Library's "no cover" placeholder
	placeholderSize = 1000
)

var (
	ErrNotFound = errors.New("no cover image found")
	ErrTooLarge = errors.New("cover image is larger than 10MB")
)

// Image is a downloaded cover ready to upload
type Image struct {
	Filename string
	Data     []byte
}

// Reader returns the image data as a reader
func (i *Image) Reader() io.Reader {
	return bytes.NewReader(i.Data)
}

// Fetcher retrieves cover images over HTTP
type Fetcher struct {
	HTTPClient     *http.Client
	OpenLibraryURL string
}

// NewFetcher creates a fetcher with a 30 second timeout
func NewFetcher() *Fetcher {
	return &Fetcher{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		OpenLibraryURL: DefaultOpenLibraryURL,
	}
}

// FetchISBN downloads the large Open Library cover of a book
func (f *Fetcher) FetchISBN(ctx context.Context, isbn string) (*Image, error) {
	isbn = CleanISBN(isbn)
	if isbn == "" {
		return nil, fmt.Errorf("isbn is required")
	}
	u := fmt.Sprintf("%s/b/isbn/%s-L.jpg", strings.TrimRight(f.OpenLibraryURL, "/"), url.PathEscape(isbn))

	img, err := f.download(ctx, u)
	if err != nil {
		return nil, err
	}
	if len(img.Data) < placeholderSize {
		slog.Debug("Cover looks like a placeholder", "isbn", isbn, "bytes", len(img.Data))
		return nil, fmt.Errorf("%w for ISBN %s", ErrNotFound, isbn)
	}
	img.Filename = isbn + ".jpg"
	return img, nil
}

// FetchURL downloads an image from any http(s) URL
func (f *Fetcher) FetchURL(ctx context.Context, rawURL string) (*Image, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid image URL %q", rawURL)
	}
	return f.download(ctx, u.String())
}

func (f *Fetcher) download(ctx context.Context, rawURL string) (*Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	slog.Info("Fetching cover image", "url", rawURL)
	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cover: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("cover request returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read cover data: %w", err)
	}
	if len(data) > MaxSize {
		return nil, ErrTooLarge
	}

	return &Image{Filename: filename(resp.Request.URL, resp.Header.Get("Content-Type")), Data: data}, nil
}

// filename keeps the last path segment when it has an extension, and
// otherwise derives one from the content type
func filename(u *url.URL, contentType string) string {
	name := path.Base(u.Path)
	if name == "/" || name == "." {
		name = "cover"
	} else if path.Ext(name) != "" {
		return name
	}
	switch strings.TrimSpace(strings.Split(contentType, ";")[0]) {
	case "image/png":
		return name + ".png"
	case "image/gif":
		return name + ".gif"
	case "image/webp":
		return name + ".webp"
	default:
		return name + ".jpg"
	}
}

// CleanISBN removes hyphens and spaces
func CleanISBN(isbn string) string {
	return strings.NewReplacer("-", "", " ", "").Replace(strings.TrimSpace(isbn))
}
