package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "perfumeria/internal/log"
	"perfumeria/internal/storage"
)

// MediaHandler serves images kept on the local disk.
type MediaHandler struct {
	Disk *storage.Local
}

func (h *MediaHandler) Serve(c *fiber.Ctx) error {
	path := c.Params("*")
	rawLower := strings.ToLower(path)
	// encoded traversal as well as raw .. or null bytes
	if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
		applog.Security(c, "media.traversal.block", map[string]any{"path": path})
		return c.SendStatus(fiber.StatusNotFound)
	}
	full, err := h.Disk.Open(path)
	if err != nil {
		applog.Security(c, "media.traversal.block", map[string]any{"path": path})
		return c.SendStatus(fiber.StatusNotFound)
	}
	return c.SendFile(full, true)
}
