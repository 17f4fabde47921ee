package handlers

import (
	"runtime"
	"strings"
	"time"

	"socialapi/pkg/storage"

	"github.com/gofiber/fiber/v2"
)

// SystemHandler serves the operational routes and the upload test route.
type SystemHandler struct {
	store    storage.Store
	maxBytes int64
	errs     *ErrorWriter
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(store storage.Store, maxBytes int64, errs *ErrorWriter) *SystemHandler {
	return &SystemHandler{store: store, maxBytes: maxBytes, errs: errs}
}

// RegisterRoutes registers "/", "/health", "/api/server-info" and "/api/test-upload".
func (h *SystemHandler) RegisterRoutes(app fiber.Router) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("API Running")
	})
	app.Get("/health", h.HandleHealth)
	app.Get("/api/server-info", h.HandleServerInfo)
	app.Post("/api/test-upload/upload", h.HandleTestUpload)
}

// HandleHealth reports liveness.
func (h *SystemHandler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// HandleServerInfo describes the runtime and upload storage.
func (h *SystemHandler) HandleServerInfo(c *fiber.Ctx) error {
	base := c.BaseURL()
	info := fiber.Map{
		"goVersion": runtime.Version(),
		"platform":  runtime.GOOS + "/" + runtime.GOARCH,
		"storage":   h.store.Backend(),
		"baseUrl":   base,
		"endpoints": fiber.Map{
			"api":        base + "/api",
			"uploads":    base + "/uploads",
			"uploadTest": base + "/api/test-upload",
		},
	}
	if local, ok := h.store.(*storage.LocalStore); ok {
		info["directories"] = fiber.Map{
			"profiles": local.Exists("/uploads/" + storage.FolderProfiles),
			"posts":    local.Exists("/uploads/" + storage.FolderPosts),
			"test":     local.Exists("/uploads/" + storage.FolderTest),
		}
	}
	return c.JSON(info)
}

// HandleTestUpload stores an "image" file under the test folder.
func (h *SystemHandler) HandleTestUpload(c *fiber.Ctx) error {
	fh := formFile(c, "image")
	if fh == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "no file uploaded",
		})
	}
	saved, err := storage.SaveImage(c.UserContext(), h.store, storage.FolderTest, fh, h.maxBytes)
	if err != nil {
		return h.errs.WriteUpload(c, err)
	}

	fullURL := saved.Path
	if !strings.HasPrefix(fullURL, "http") {
		fullURL = c.BaseURL() + saved.Path
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "image uploaded",
		"file": fiber.Map{
			"filename": saved.Filename,
			"path":     saved.Path,
			"size":     saved.Size,
			"mimetype": saved.MIMEType,
			"fullUrl":  fullURL,
		},
	})
}
