package assets

import (
	"errors"
	"mime"
	"net/url"
	"os"
	"path"
	"strings"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/celestiaorg/taskman/internal/logger"
	"github.com/celestiaorg/taskman/internal/types"
)

// Cache-Control values
const (
	CacheImmutable = "public, max-age=31536000, immutable"
	CacheNoCache   = "no-cache"
)

// IndexFile is served for the root path
const IndexFile = "index.html"

// Handler serves files from the manifest root. HTML is rewritten on every
// request; hashed css/js URLs whose hash matches the current content are
// served as immutable.
type Handler struct {
	manifest *Manifest
}

// NewHandler creates a new static asset handler
func NewHandler(m *Manifest) *Handler {
	return &Handler{manifest: m}
}

// Serve is the fiber handler for static files
func (h *Handler) Serve(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodGet && c.Method() != fiber.MethodHead {
		return notFound(c)
	}

	raw := c.Path()
	if unescaped, err := url.PathUnescape(raw); err == nil {
		raw = unescaped
	}
	if raw == "" || raw == "/" {
		raw = IndexFile
	}
	logical, err := CleanPath(raw)
	if err != nil {
		return notFound(c)
	}

	if strings.EqualFold(path.Ext(logical), ".html") {
		return h.serveHTML(c, logical)
	}

	if orig, hash, ok := SplitHashed(logical); ok && !h.exists(logical) {
		// Hash the bytes being sent rather than trusting the manifest cache
		data, err := h.read(orig)
		if err != nil {
			return notFound(c)
		}
		cache := CacheImmutable
		if contentHash(data) != hash {
			cache = CacheNoCache
		}
		return send(c, orig, data, cache)
	}

	data, err := h.read(logical)
	if err != nil {
		return notFound(c)
	}
	return send(c, logical, data, CacheNoCache)
}

func (h *Handler) serveHTML(c *fiber.Ctx, logical string) error {
	doc, err := os.ReadFile(h.manifest.filePath(logical))
	if err != nil {
		return notFound(c)
	}
	out, err := h.manifest.RewriteHTML(doc)
	if err != nil {
		if errors.Is(err, types.ErrAssetNotFound) {
			logger.Errorf("Failed to rewrite %s: %v", logical, err)
			return c.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{Error: err.Error()})
		}
		return err
	}
	c.Set(fiber.HeaderCacheControl, CacheNoCache)
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(out)
}

func (h *Handler) read(logical string) ([]byte, error) {
	return os.ReadFile(h.manifest.filePath(logical))
}

func send(c *fiber.Ctx, logical string, data []byte, cache string) error {
	if ct := mime.TypeByExtension(path.Ext(logical)); ct != "" {
		c.Set(fiber.HeaderContentType, ct)
	} else {
		c.Type(path.Ext(logical))
	}
	c.Set(fiber.HeaderCacheControl, cache)
	return c.Send(data)
}

func (h *Handler) exists(logical string) bool {
	info, err := os.Stat(h.manifest.filePath(logical))
	return err == nil && !info.IsDir()
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(types.ErrorResponse{Error: "Not found"})
}
