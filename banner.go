package spacetraveling

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
	"golang.org/x/sync/singleflight"
)

const (
	maxBannerWidth = 800
	jpegQuality    = 80
	maxBannerSize  = 10 << 20 // 10MB
)

// BannerOptimizer downloads post banners once, scales them down to
// maxBannerWidth and keeps them as JPEG files in dir.
type BannerOptimizer struct {
	dir    string
	client *http.Client
	group  singleflight.Group
}

// NewBannerOptimizer creates a BannerOptimizer writing into dir.
func NewBannerOptimizer(dir string, client *http.Client) *BannerOptimizer {
	if client == nil {
		client = http.DefaultClient
	}
	return &BannerOptimizer{dir: dir, client: client}
}

// Path returns where the optimized banner of uid is kept. The file name is
// the uid's slug followed by a short hash of the uid itself, so uids sharing
// a slug never share a file.
func (b *BannerOptimizer) Path(uid string) (string, error) {
	if uid == "" {
		return "", errors.New("banner: empty uid")
	}
	sum := sha256.Sum256([]byte(uid))
	name := hex.EncodeToString(sum[:6])
	if slug := Slugify(uid); slug != "" {
		name = slug + "-" + name
	}
	return filepath.Join(b.dir, name+".jpg"), nil
}

// Ensure returns the path of the optimized banner of uid, fetching and
// converting src when it is not on disk yet. Concurrent calls for the same
// uid share one download.
func (b *BannerOptimizer) Ensure(ctx context.Context, uid, src string) (string, error) {
	path, err := b.Path(uid)
	if err != nil {
		return "", err
	}
	if fileExists(path) {
		return path, nil
	}
	_, err, _ = b.group.Do(path, func() (any, error) {
		if fileExists(path) {
			return nil, nil
		}
		data, err := b.fetch(ctx, src)
		if err != nil {
			return nil, err
		}
		out, err := processImage(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return nil, writeFileAtomic(path, out)
	})
	if err != nil {
		return "", fmt.Errorf("banner %s: %w", uid, err)
	}
	return path, nil
}

// Remove deletes the optimized banner of uid, if any.
func (b *BannerOptimizer) Remove(uid string) error {
	path, err := b.Path(uid)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (b *BannerOptimizer) fetch(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", src, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBannerSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxBannerSize {
		return nil, fmt.Errorf("fetch %s: larger than %d bytes", src, maxBannerSize)
	}
	return data, nil
}

// processImage decodes an image from src, resizes it to maxBannerWidth if
// wider, and encodes it as JPEG.
func processImage(src io.Reader) ([]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > maxBannerWidth {
		newH := h * maxBannerWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxBannerWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// writeFileAtomic writes data to a temp file next to name and renames it
// into place, so readers never see a partial file.
func writeFileAtomic(name string, data []byte) error {
	dir := filepath.Dir(name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), name)
}
