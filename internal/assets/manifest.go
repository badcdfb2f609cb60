// Package assets serves the static UI with content hashed URLs for cache busting
package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/celestiaorg/taskman/internal/types"
)

// HashLength is the number of hex characters of the SHA-256 digest kept in hashed names
const HashLength = 8

// hashedExtensions are the file types that get content hashed URLs
var hashedExtensions = map[string]bool{
	".css": true,
	".js":  true,
}

type entry struct {
	size    int64
	modTime time.Time
	hash    string
}

// Manifest maps logical asset paths under a root directory to content hashed
// paths. Hashes are computed on first use and recomputed whenever the file's
// size or modification time changes.
type Manifest struct {
	root string

	mu      sync.RWMutex
	entries map[string]entry
}

// NewManifest creates a manifest for the files under root
func NewManifest(root string) *Manifest {
	return &Manifest{
		root:    root,
		entries: make(map[string]entry),
	}
}

// Root returns the directory the manifest serves from
func (m *Manifest) Root() string {
	return m.root
}

// IsHashable reports whether files with the extension of p get hashed URLs
func IsHashable(p string) bool {
	return hashedExtensions[strings.ToLower(path.Ext(p))]
}

// CleanPath turns a request path into a logical path relative to the root.
// Paths with parent references, hidden segments or empty segments are rejected.
func CleanPath(p string) (string, error) {
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return "", fmt.Errorf("%w: empty asset path", types.ErrNotFound)
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == "" || strings.HasPrefix(seg, ".") || strings.Contains(seg, "\\") {
			return "", fmt.Errorf("%w: %s", types.ErrNotFound, p)
		}
	}
	return p, nil
}

// HashedName returns the hashed form of a logical path, js/app.js -> js/app.<hash>.js
func HashedName(logical, hash string) string {
	ext := path.Ext(logical)
	return strings.TrimSuffix(logical, ext) + "." + hash + ext
}

// SplitHashed parses a hashed name back into its logical path and hash
func SplitHashed(p string) (logical, hash string, ok bool) {
	ext := path.Ext(p)
	if !hashedExtensions[strings.ToLower(ext)] {
		return "", "", false
	}
	base := strings.TrimSuffix(p, ext)
	dot := strings.LastIndex(base, ".")
	if dot < 0 || len(base)-dot-1 != HashLength {
		return "", "", false
	}
	hash = base[dot+1:]
	if _, err := hex.DecodeString(hash); err != nil {
		return "", "", false
	}
	return base[:dot] + ext, strings.ToLower(hash), true
}

func (m *Manifest) filePath(logical string) string {
	return filepath.Join(m.root, filepath.FromSlash(logical))
}

// Hash returns the content hash of a logical path, reusing the cached value
// while the file's size and mtime are unchanged
func (m *Manifest) Hash(logical string) (string, error) {
	clean, err := CleanPath(logical)
	if err != nil {
		return "", fmt.Errorf("%w: %s", types.ErrAssetNotFound, logical)
	}
	logical = clean
	if !IsHashable(logical) {
		return "", fmt.Errorf("%w: %s is not a css or js file", types.ErrInvalidInput, logical)
	}

	info, err := os.Stat(m.filePath(logical))
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", types.ErrAssetNotFound, logical)
	}

	m.mu.RLock()
	cached, ok := m.entries[logical]
	m.mu.RUnlock()
	if ok && cached.size == info.Size() && cached.modTime.Equal(info.ModTime()) {
		return cached.hash, nil
	}

	data, err := os.ReadFile(m.filePath(logical))
	if err != nil {
		return "", fmt.Errorf("%w: %s", types.ErrAssetNotFound, logical)
	}
	hash := contentHash(data)

	m.mu.Lock()
	m.entries[logical] = entry{size: info.Size(), modTime: info.ModTime(), hash: hash}
	m.mu.Unlock()
	return hash, nil
}

// contentHash is the truncated hex SHA-256 digest of data
func contentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:HashLength]
}

// HashedURL returns the hashed path for a logical path. A leading slash is kept.
func (m *Manifest) HashedURL(logical string) (string, error) {
	hash, err := m.Hash(logical)
	if err != nil {
		return "", err
	}
	prefix := ""
	if strings.HasPrefix(logical, "/") {
		prefix = "/"
	}
	return prefix + HashedName(strings.TrimPrefix(logical, "/"), hash), nil
}

// Build hashes every css and js file under the root and returns how many were hashed
func (m *Manifest) Build() (int, error) {
	count := 0
	err := filepath.WalkDir(m.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != m.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsHashable(p) || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		rel, err := filepath.Rel(m.root, p)
		if err != nil {
			return err
		}
		if _, err := m.Hash(filepath.ToSlash(rel)); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("failed to build asset manifest: %w", err)
	}
	return count, nil
}

// Entries returns a snapshot of logical path -> hashed path for every cached asset
func (m *Manifest) Entries() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.entries))
	for logical, e := range m.entries {
		out[logical] = HashedName(logical, e.hash)
	}
	return out
}

var (
	attrPattern   = regexp.MustCompile(`\b(src|href)(\s*=\s*)(?:"([^"]*)"|'([^']*)')`)
	schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)
)

// RewriteHTML replaces every local src/href reference to a css or js file
// with its hashed URL. References resolve against the manifest root; query
// strings and fragments are dropped. A reference to a missing file fails the
// whole rewrite with ErrAssetNotFound.
func (m *Manifest) RewriteHTML(doc []byte) ([]byte, error) {
	var firstErr error
	out := attrPattern.ReplaceAllFunc(doc, func(match []byte) []byte {
		if firstErr != nil {
			return match
		}
		sub := attrPattern.FindSubmatch(match)
		quote, ref := `"`, string(sub[3])
		if sub[3] == nil {
			quote, ref = `'`, string(sub[4])
		}
		if strings.HasPrefix(ref, "//") || schemePattern.MatchString(ref) {
			return match
		}

		target := ref
		if i := strings.IndexAny(target, "?#"); i >= 0 {
			target = target[:i]
		}
		if !IsHashable(target) {
			return match
		}
		target = strings.TrimPrefix(target, "./")

		hashed, err := m.HashedURL(target)
		if err != nil {
			firstErr = err
			return match
		}
		return []byte(string(sub[1]) + string(sub[2]) + quote + hashed + quote)
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}
