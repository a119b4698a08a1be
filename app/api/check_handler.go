package api

import (
	"github.com/gofiber/fiber/v2"
)

type CheckHandler struct {
	title   string
	version string
}

func NewCheckHandler(title, version string) *CheckHandler {
	return &CheckHandler{
		title:   title,
		version: version,
	}
}

func (h *CheckHandler) HandleHealthy(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy", "service": h.title})
}

// HandleRoot returns service metadata with the endpoint map.
func (h *CheckHandler) HandleRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": h.title,
		"version": h.version,
		"endpoints": fiber.Map{
			"health": "/health",
			"upload": "/documents",
			"query":  "/query",
		},
	})
}
