package imageres

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(1, 1, color.RGBA{B: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// settle waits for r to complete and returns its outcome.
func settle(t *testing.T, r Resource) (image.Image, error) {
	t.Helper()
	type result struct {
		img image.Image
		err error
	}
	ch := make(chan result, 1)
	r.OnComplete(func(img image.Image, err error) { ch <- result{img, err} })
	select {
	case res := <-ch:
		return res.img, res.err
	case <-time.After(5 * time.Second):
		t.Fatalf("resource did not settle")
		return nil, nil
	}
}

func newLoader(t *testing.T) *Loader {
	t.Helper()
	l, err := NewLoader(2)
	require.NoError(t, err)
	t.Cleanup(l.Release)
	return l
}

func TestLoader_File(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "pin.png")
	require.NoError(t, os.WriteFile(p, pngBytes(t), 0o644))

	img, err := settle(t, newLoader(t).File(p))
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())
}

func TestLoader_FileMissing(t *testing.T) {
	r := newLoader(t).File(filepath.Join(t.TempDir(), "nope.png"))
	_, err := settle(t, r)
	assert.Error(t, err)
	assert.Equal(t, StatusFailed, r.Status())
}

func TestLoader_BytesCorrupt(t *testing.T) {
	_, err := settle(t, newLoader(t).Bytes([]byte("not an image")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode image")
}

func TestLoader_URL(t *testing.T) {
	body := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pin.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	l, err := NewLoader(0, WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	defer l.Release()

	img, err := settle(t, l.URL(context.Background(), srv.URL+"/pin.png"))
	require.NoError(t, err)
	assert.NotNil(t, img)

	_, err = settle(t, l.URL(context.Background(), srv.URL+"/missing.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestLoader_AfterRelease(t *testing.T) {
	l, err := NewLoader(1)
	require.NoError(t, err)
	l.Release()
	_, err = settle(t, l.Bytes(pngBytes(t)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schedule decode")
}
