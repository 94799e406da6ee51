// Package imaging reads image files for image elements. Probing decodes only
// the header; Load decodes the whole image for export.
package imaging

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF.
	_ "image/jpeg" // Register JPEG.
	_ "image/png"  // Register PNG.
	"os"
	"path/filepath"
	"sync"

	_ "golang.org/x/image/bmp"  // Register BMP.
	_ "golang.org/x/image/tiff" // Register TIFF.
	_ "golang.org/x/image/webp" // Register WebP.
	"golang.org/x/sync/errgroup"
)

// Size is the intrinsic pixel size of an image.
type Size struct {
	Width, Height int
}

// Prober resolves image sizes from disk. Relative paths are taken relative
// to Dir. Results are cached per path, so a Prober shared across a load only
// touches each file once. It is safe for concurrent use.
type Prober struct {
	Dir string

	mu    sync.Mutex
	cache map[string]result
}

type result struct {
	size Size
	err  error
}

// NewProber returns a Prober resolving relative paths against dir.
func NewProber(dir string) *Prober {
	return &Prober{Dir: dir, cache: make(map[string]result)}
}

// Probe returns the pixel width and height of the image at path.
func (p *Prober) Probe(path string) (int, int, error) {
	p.mu.Lock()
	if p.cache == nil {
		p.cache = make(map[string]result)
	}
	r, ok := p.cache[path]
	p.mu.Unlock()
	if !ok {
		r.size, r.err = DecodeSize(p.resolve(path))
		p.mu.Lock()
		p.cache[path] = r
		p.mu.Unlock()
	}
	return r.size.Width, r.size.Height, r.err
}

// Forget drops every cached result.
func (p *Prober) Forget() {
	p.mu.Lock()
	p.cache = make(map[string]result)
	p.mu.Unlock()
}

func (p *Prober) resolve(path string) string {
	if filepath.IsAbs(path) || p.Dir == "" {
		return path
	}
	return filepath.Join(p.Dir, path)
}

// DecodeSize reads the image header at path.
func DecodeSize(path string) (Size, error) {
	f, err := os.Open(path)
	if err != nil {
		return Size{}, fmt.Errorf("imaging: open %s: %w", path, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return Size{}, fmt.Errorf("imaging: decode %s: %w", path, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Size{}, fmt.Errorf("imaging: %s has empty size %dx%d", path, cfg.Width, cfg.Height)
	}
	return Size{Width: cfg.Width, Height: cfg.Height}, nil
}

// Load decodes the whole image at path, resolved like Probe.
func (p *Prober) Load(path string) (image.Image, error) {
	f, err := os.Open(p.resolve(path))
	if err != nil {
		return nil, fmt.Errorf("imaging: open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("imaging: decode %s: %w", path, err)
	}
	return img, nil
}

// ProbeAll probes every path concurrently, at most limit at a time, and
// returns the failures keyed by path. Successful results land in the cache.
// It stops early only when ctx is cancelled.
func (p *Prober) ProbeAll(ctx context.Context, paths []string, limit int) (map[string]error, error) {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	var mu sync.Mutex
	failed := make(map[string]error)
	for _, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, _, err := p.Probe(path); err != nil {
				mu.Lock()
				failed[path] = err
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return failed, fmt.Errorf("imaging: probe: %w", err)
	}
	return failed, nil
}
