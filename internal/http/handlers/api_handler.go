package handlers

import (
	"errors"

	"perfumeria/internal/domain"
	"perfumeria/internal/repos"
	"perfumeria/internal/services"
	"perfumeria/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type APIHandler struct {
	Catalog *services.CatalogService
}

type apiPerfume struct {
	domain.Product
	Presentation domain.Presentation `json:"presentation"`
}

func toAPI(p domain.Product) apiPerfume {
	return apiPerfume{Product: p, Presentation: domain.PresentationFor(p.Estado)}
}

// List returns the catalog in storefront order.
func (h *APIHandler) List(c *fiber.Ctx) error {
	ps, err := h.Catalog.List(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]apiPerfume, 0, len(ps))
	for _, p := range ps {
		out = append(out, toAPI(p))
	}
	return c.JSON(fiber.Map{"perfumes": out, "count": len(out)})
}

func (h *APIHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "perfume not found"})
	}
	p, err := h.Catalog.GetProduct(c.UserContext(), id)
	if errors.Is(err, repos.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "perfume not found"})
	}
	if err != nil {
		return err
	}
	return c.JSON(toAPI(p))
}
