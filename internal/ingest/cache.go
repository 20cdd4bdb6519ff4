package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ironsheep/shape-tools-mcp/internal/geom"
)

// Cache provides thread-safe caching of loaded drawings to avoid redundant
// parsing and contour tracing.
//
// Drawings are keyed by the exact path string given to Load. Once a file is
// loaded, later Load calls for the same path return the cached drawing
// without disk I/O.
//
// # Memory Management
//
// Cached drawings stay in memory until removed with Evict or Clear. Image
// files can trace into many thousands of points, so long-running servers
// handling many files should evict what they no longer need.
//
// # Example Usage
//
//	cache := ingest.NewCache()
//	d, err := cache.Load("/path/to/sketch.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// Use d...
//	cache.Evict("/path/to/sketch.csv")
type Cache struct {
	mu       sync.RWMutex
	drawings map[string]geom.Drawing
}

// NewCache creates an empty drawing cache.
func NewCache() *Cache {
	return &Cache{
		drawings: make(map[string]geom.Drawing),
	}
}

// Format returns the input format implied by a file extension: "csv", an
// image format name, or "unknown".
func Format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return "csv"
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	case ".webp":
		return "webp"
	}
	return "unknown"
}

// Load returns the drawing stored in the file at path, reading it on first
// use. CSV files are parsed with ReadCSV; images are traced with
// ExtractStrokes and DefaultImageOptions.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error if the extension is not a supported format
//   - Returns error if the content cannot be parsed or decoded
func (c *Cache) Load(path string) (geom.Drawing, error) {
	c.mu.RLock()
	if d, ok := c.drawings[path]; ok {
		c.mu.RUnlock()
		return d, nil
	}
	c.mu.RUnlock()

	d, err := loadFile(path)
	if err != nil {
		return geom.Drawing{}, err
	}

	c.Store(path, d)
	return d, nil
}

func loadFile(path string) (geom.Drawing, error) {
	switch Format(path) {
	case "csv":
		f, err := os.Open(path)
		if err != nil {
			return geom.Drawing{}, fmt.Errorf("failed to open csv: %w", err)
		}
		defer f.Close()
		return ReadCSV(f)
	case "unknown":
		return geom.Drawing{}, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	default:
		img, err := LoadImage(path)
		if err != nil {
			return geom.Drawing{}, err
		}
		return ExtractStrokes(img, DefaultImageOptions())
	}
}

// Store puts a drawing into the cache under key, replacing any previous
// entry. It is used for drawings produced with non-default options.
func (c *Cache) Store(key string, d geom.Drawing) {
	c.mu.Lock()
	c.drawings[key] = d
	c.mu.Unlock()
}

// Clear removes all drawings from the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.drawings = make(map[string]geom.Drawing)
	c.mu.Unlock()
}

// Evict removes a specific drawing from the cache by its path. If the path
// is not in the cache, this method does nothing.
func (c *Cache) Evict(path string) {
	c.mu.Lock()
	delete(c.drawings, path)
	c.mu.Unlock()
}

// Len returns the number of cached drawings.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.drawings)
}

// DrawingInfo summarizes a loaded drawing.
type DrawingInfo struct {
	// Path is the file the drawing was loaded from.
	Path string `json:"path"`

	// Format is "csv" or the image format, detected from the extension.
	Format string `json:"format"`

	Paths   int `json:"paths"`
	Strokes int `json:"strokes"`
	Points  int `json:"points"`

	// Bounds is the bounding box of every point in the drawing.
	Bounds geom.Rect `json:"bounds"`

	// FileSizeBytes is the size of the file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// Info loads the drawing at path (if not already cached) and summarizes it.
func (c *Cache) Info(path string) (*DrawingInfo, error) {
	d, err := c.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return &DrawingInfo{
		Path:          path,
		Format:        Format(path),
		Paths:         len(d.Paths),
		Strokes:       d.NumStrokes(),
		Points:        d.NumPoints(),
		Bounds:        d.Bounds(),
		FileSizeBytes: stat.Size(),
	}, nil
}
