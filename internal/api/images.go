package api

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"lesson-market/internal/models"
)

const imagesPrefix = "/images"

// ResolveAsset maps a URL subpath onto a file below base. The result never
// leaves base; anything that would is ErrPathTraversal.
func ResolveAsset(base, subpath string) (string, error) {
	if strings.ContainsRune(subpath, 0) {
		return "", models.ErrPathTraversal
	}
	target := filepath.Join(base, filepath.FromSlash(subpath))
	if target != base && !strings.HasPrefix(target, base+string(filepath.Separator)) {
		return "", models.ErrPathTraversal
	}
	return target, nil
}

// Images serves files under dir for any request whose raw path starts with
// /images. The raw path is used because routing normalizes ".." segments
// away before a handler sees them.
func Images(dir string, log *zap.Logger) fiber.Handler {
	base, err := filepath.Abs(dir)
	if err != nil {
		base = filepath.Clean(dir)
	}

	return func(c *fiber.Ctx) error {
		raw := string(c.Request().URI().PathOriginal())
		if i := strings.IndexByte(raw, '?'); i >= 0 {
			raw = raw[:i]
		}
		if raw != imagesPrefix && !strings.HasPrefix(raw, imagesPrefix+"/") {
			return c.Next()
		}

		subpath, err := url.PathUnescape(strings.TrimPrefix(raw, imagesPrefix))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid image path"})
		}
		subpath = strings.TrimRightFunc(subpath, unicode.IsControl)

		path, err := ResolveAsset(base, subpath)
		if err != nil {
			log.Warn("rejected image path", zap.String("path", raw))
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid image path"})
		}

		info, err := os.Stat(path)
		switch {
		case errors.Is(err, fs.ErrNotExist), err == nil && info.IsDir():
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Image not found"})
		case err != nil:
			log.Error("failed to stat image", zap.String("path", path), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to serve image"})
		}

		if err := c.SendFile(path); err != nil {
			log.Error("failed to send image", zap.String("path", path), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to serve image"})
		}
		return nil
	}
}
