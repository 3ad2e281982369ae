package assets

import (
	"crypto/sha256"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-chi/chi/v5"
)

// Web facing prefix on assets in static folder
const AssetPrefix string = "/assets/"

// StaticDir is where static assets are read from at runtime.
const StaticDir = "web/static"

// Manifest maps an asset's web path to its content-hashed path.
type Manifest struct {
	paths map[string]string
}

// NewManifest hashes every file in fsys once.
func NewManifest(fsys fs.FS) (*Manifest, error) {
	m := &Manifest{paths: make(map[string]string)}
	err := doublestar.GlobWalk(fsys, "**/*.*", func(p string, d fs.DirEntry) error {
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		ext := path.Ext(p)
		sum := sha256.Sum256(data)
		m.paths[AssetPrefix+p] = fmt.Sprintf("%v%v.%x%v", AssetPrefix, strings.TrimSuffix(p, ext), sum[:8], ext)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Path returns the hashed path for webPath. Unknown assets keep an "x"
// version so they still go through versionedAssets.
func (m *Manifest) Path(webPath string) string {
	if hashed, ok := m.paths[webPath]; ok {
		return hashed
	}
	ext := path.Ext(webPath)
	if ext == "" {
		panic("no extension found")
	}
	return fmt.Sprintf("%v.x%v", strings.TrimSuffix(webPath, ext), ext)
}

func HttpHandler(r chi.Router, fsys fs.FS) {
	staticHandler := http.FileServerFS(fsys)

	r.Group(func(r chi.Router) {
		r.Use(permCache) // Perma cache all static assets, should use cache busting version
		r.Use(versionedAssets)
		r.Get(AssetPrefix+"*", http.StripPrefix(AssetPrefix, staticHandler).ServeHTTP)
	})
}

func permCache(h http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "max-age=31536000")
		h.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}

// versionedAssets is Middleware that strips the version from an asset.
// Example: styles.80b2c87c0b9a5af9.css forwards as styles.css
func versionedAssets(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sections := strings.Split(r.URL.Path, ".")
		if len(sections) != 3 {
			next.ServeHTTP(w, r)
			return
		}

		r.URL.Path = strings.Join([]string{sections[0], sections[2]}, ".")
		next.ServeHTTP(w, r)
	})
}

var (
	defaultOnce     sync.Once
	defaultManifest *Manifest
)

// GetHashedAssetPath takes the web facing path of an asset, and returns a
// hashed path to the asset. The manifest for StaticDir is built on first use.
func GetHashedAssetPath(webPath string) string {
	defaultOnce.Do(func() {
		m, err := NewManifest(os.DirFS(StaticDir))
		if err != nil {
			m = &Manifest{paths: map[string]string{}}
		}
		defaultManifest = m
	})
	return defaultManifest.Path(webPath)
}
