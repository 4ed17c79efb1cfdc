package catalog

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/modlaunch/pkg/cache"
	"github.com/matzehuels/modlaunch/pkg/errors"
	"github.com/matzehuels/modlaunch/pkg/manifest"
	"github.com/matzehuels/modlaunch/pkg/observability"
	"github.com/matzehuels/modlaunch/pkg/version"
)

// Root is a directory searched for module archives.
type Root struct {
	Path string `toml:"path" json:"path"`
	// Flat restricts the search to direct children of Path.
	Flat bool `toml:"flat" json:"flat,omitempty"`
}

// DefaultManifestTTL is how long parsed manifests stay cached.
const DefaultManifestTTL = 24 * time.Hour

// Scanner builds catalogs from directory roots. The zero value is usable.
type Scanner struct {
	Logger *log.Logger    // nil means log.Default()
	Policy ConflictPolicy // nil means FirstWins
	Cache  cache.Cache    // nil disables manifest caching
	Keyer  cache.Keyer    // nil means cache.NewDefaultKeyer()
	TTL    time.Duration  // zero means DefaultManifestTTL
}

// Scan walks roots in order and returns the resulting catalog.
//
// Only an invalid root path is an error; every problem with an individual
// archive or a missing root is logged and skipped.
func (s *Scanner) Scan(ctx context.Context, roots []Root) (*Catalog, error) {
	for _, r := range roots {
		if err := errors.ValidateRootPath(r.Path); err != nil {
			return nil, err
		}
	}

	logger := s.logger()
	hooks := observability.Scan()
	start := time.Now()
	hooks.OnScanStart(ctx, len(roots))

	b := newBuilder(s.Policy)
	for _, root := range roots {
		for _, path := range s.archives(root, logger) {
			rec, err := s.load(ctx, root, path)
			hooks.OnArchive(ctx, path, err)
			if err != nil {
				logger.Warn("skipping archive", "path", path, "err", err)
				continue
			}
			if conflict, _ := b.add(rec); conflict != nil {
				logger.Warn("duplicate module identity",
					"module", conflict.Identity.String(),
					"kept", conflict.Kept,
					"ignored", conflict.Ignored)
			}
		}
	}

	cat := b.finish()
	hooks.OnScanComplete(ctx, cat.Len(), len(cat.conflicts), time.Since(start))
	logger.Debug("scan complete", "roots", len(roots), "modules", cat.Len(), "conflicts", len(cat.conflicts))
	return cat, nil
}

func (s *Scanner) logger() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.Default()
}

// isArchive reports whether name looks like a module archive.
func isArchive(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".jar" || ext == ".zip"
}

// archives lists candidate archive paths under root in lexical order.
func (s *Scanner) archives(root Root, logger *log.Logger) []string {
	info, err := os.Stat(root.Path)
	if err != nil {
		logger.Warn("module root not readable", "root", root.Path, "err", err)
		return nil
	}
	if !info.IsDir() {
		logger.Warn("module root is not a directory", "root", root.Path)
		return nil
	}

	var paths []string
	if root.Flat {
		entries, err := os.ReadDir(root.Path)
		if err != nil {
			logger.Warn("module root not readable", "root", root.Path, "err", err)
			return nil
		}
		for _, e := range entries {
			if !e.IsDir() && isArchive(e.Name()) {
				paths = append(paths, filepath.Join(root.Path, e.Name()))
			}
		}
		return paths
	}

	_ = filepath.WalkDir(root.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Returning nil for a directory error skips its contents.
			logger.Warn("cannot read directory", "path", path, "err", err)
			return nil
		}
		if !d.IsDir() && isArchive(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	return paths
}

// load builds the catalog record for one archive.
func (s *Scanner) load(ctx context.Context, root Root, path string) (*Record, error) {
	canonical, err := canonicalPath(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(canonical)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "%s is a directory", canonical)
	}

	m, err := s.readManifest(ctx, canonical, info)
	if err != nil {
		return nil, err
	}

	rec := &Record{
		Identity: Identity{Name: m.SymbolicName(), Version: m.Version()},
		Path:     canonical,
		Root:     root.Path,
		Exports:  m.Exports(),
		Imports:  m.Imports(),
		Fragment: m.IsFragment(),
	}
	if rec.Name == "" {
		if raw := strings.TrimSpace(m.Get(manifest.KeySymbolicName)); raw != "" {
			return nil, errors.New(errors.ErrCodeInvalidManifest, "invalid %s %q", manifest.KeySymbolicName, raw)
		}
		return nil, errors.New(errors.ErrCodeInvalidManifest, "missing %s", manifest.KeySymbolicName)
	}
	if rec.Version == "" {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "missing %s", manifest.KeyVersion)
	}
	if _, err := version.Parse(rec.Version); err != nil {
		s.logger().Warn("module version is not numeric; it matches any range", "module", rec.Identity.String(), "err", err)
	}
	return rec, nil
}

func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// cachedKeys are the manifest attributes kept in the manifest cache.
var cachedKeys = []string{
	manifest.KeySymbolicName,
	manifest.KeyVersion,
	manifest.KeyExport,
	manifest.KeyImport,
	manifest.KeyFragmentHost,
}

func (s *Scanner) readManifest(ctx context.Context, path string, info fs.FileInfo) (manifest.Manifest, error) {
	if s.Cache == nil {
		return openManifest(path)
	}

	keyer := s.Keyer
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	key := keyer.ManifestKey(path, info.Size(), info.ModTime())
	hooks := observability.Cache()

	if data, hit, err := s.Cache.Get(ctx, key); err == nil && hit {
		var m manifest.Manifest
		if json.Unmarshal(data, &m) == nil {
			hooks.OnCacheHit(ctx, "manifest")
			return m, nil
		}
	} else if err != nil {
		s.logger().Debug("manifest cache read failed", "path", path, "err", err)
	}
	hooks.OnCacheMiss(ctx, "manifest")

	m, err := openManifest(path)
	if err != nil {
		return nil, err
	}

	subset := make(manifest.Manifest, len(cachedKeys))
	for _, k := range cachedKeys {
		if v := m.Get(k); v != "" {
			subset[k] = v
		}
	}
	if data, err := json.Marshal(subset); err == nil {
		ttl := s.TTL
		if ttl == 0 {
			ttl = DefaultManifestTTL
		}
		if err := s.Cache.Set(ctx, key, data, ttl); err != nil {
			s.logger().Debug("manifest cache write failed", "path", path, "err", err)
		} else {
			hooks.OnCacheSet(ctx, "manifest", len(data))
		}
	}
	return subset, nil
}

func openManifest(path string) (manifest.Manifest, error) {
	m, err := manifest.OpenArchive(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read %s", filepath.Base(path))
	}
	return m, nil
}
