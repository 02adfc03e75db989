package imageres

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/panjf2000/ants/v2"
)

const (
	defaultPoolSize = 4
	defaultTimeout  = 30 * time.Second
	maxImageBytes   = 16 << 20
)

// Loader decodes resources on a bounded goroutine pool.
type Loader struct {
	pool   *ants.Pool
	client *http.Client
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithHTTPClient sets the client used for URL resources.
func WithHTTPClient(c *http.Client) LoaderOption {
	return func(l *Loader) { l.client = c }
}

// NewLoader starts a loader decoding at most size images concurrently.
// size <= 0 uses a small default.
func NewLoader(size int, opts ...LoaderOption) (*Loader, error) {
	if size <= 0 {
		size = defaultPoolSize
	}
	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, fmt.Errorf("image pool: %w", err)
	}
	l := &Loader{pool: pool, client: &http.Client{Timeout: defaultTimeout}}
	for _, o := range opts {
		o(l)
	}
	return l, nil
}

// Release stops the pool. Resources requested afterwards settle as failed.
func (l *Loader) Release() { l.pool.Release() }

// File decodes the image at path.
func (l *Loader) File(path string) Resource {
	return l.submit(func() (image.Image, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return decode(f)
	})
}

// URL fetches and decodes the image at url.
func (l *Loader) URL(ctx context.Context, url string) Resource {
	return l.submit(func() (image.Image, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := l.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
		}
		return decode(io.LimitReader(resp.Body, maxImageBytes))
	})
}

// Bytes decodes an in-memory encoded image.
func (l *Loader) Bytes(b []byte) Resource {
	buf := append([]byte(nil), b...)
	return l.submit(func() (image.Image, error) {
		return decode(bytes.NewReader(buf))
	})
}

func (l *Loader) submit(work func() (image.Image, error)) Resource {
	s := &state{}
	err := l.pool.Submit(func() {
		img, err := work()
		s.settle(img, err, true)
	})
	if err != nil {
		s.settle(nil, fmt.Errorf("schedule decode: %w", err), true)
	}
	return s
}

func decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}
