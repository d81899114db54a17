package imageio

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Loader resolves an image reference (data URL, http(s) URL or file path).
type Loader interface {
	Load(ctx context.Context, ref string) (image.Image, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, ref string) (image.Image, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, ref string) (image.Image, error) { return f(ctx, ref) }

// maxRemoteBytes bounds downloads of remote images.
const maxRemoteBytes = 16 << 20

// DefaultLoader loads data URLs, http(s) URLs and local files. Remote and
// file loading can be switched off for untrusted input.
type DefaultLoader struct {
	Client      *http.Client
	AllowRemote bool
	AllowFiles  bool
}

// NewDefaultLoader returns a loader that accepts every reference kind.
func NewDefaultLoader() *DefaultLoader {
	return &DefaultLoader{
		Client:      &http.Client{Timeout: 15 * time.Second},
		AllowRemote: true,
		AllowFiles:  true,
	}
}

// Load implements Loader.
func (l *DefaultLoader) Load(ctx context.Context, ref string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ref = strings.TrimSpace(ref)
	switch {
	case strings.HasPrefix(ref, "data:"):
		return DecodeDataURL(ref)
	case strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://"):
		if !l.AllowRemote {
			return nil, fmt.Errorf("%w: remote images disabled", ErrDecode)
		}
		return l.fetch(ctx, ref)
	default:
		if !l.AllowFiles {
			return nil, fmt.Errorf("%w: file images disabled", ErrDecode)
		}
		f, err := os.Open(ref)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		defer f.Close()
		return Decode(f)
	}
}

func (l *DefaultLoader) fetch(ctx context.Context, url string) (image.Image, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %s", ErrDecode, url, resp.Status)
	}
	return Decode(io.LimitReader(resp.Body, maxRemoteBytes))
}
