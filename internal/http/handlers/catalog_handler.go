package handlers

import (
	"errors"

	"perfumeria/internal/log"
	"perfumeria/internal/repos"
	"perfumeria/internal/services"
	"perfumeria/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	Catalog  *services.CatalogService
	WhatsApp string
}

// List is the public storefront.
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	ps, err := h.Catalog.List(c.UserContext())
	if err != nil {
		log.Error(c, "catalog.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "No pudimos cargar el catálogo. Intenta de nuevo."})
	}
	return render(c, "perfumes", fiber.Map{
		"Items":    perfumeViews(ps),
		"Count":    len(ps),
		"WhatsApp": h.WhatsApp,
	})
}

func (h *CatalogHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "perfume"})
		return notFound(c, "Perfume no encontrado")
	}
	p, err := h.Catalog.GetProduct(c.UserContext(), id)
	if errors.Is(err, repos.ErrNotFound) {
		return notFound(c, "Perfume no encontrado")
	}
	if err != nil {
		return err
	}

	v := newPerfumeView(p)
	data := fiber.Map{
		"P":        v,
		"ShareURL": c.BaseURL() + c.OriginalURL(),
	}
	if v.Pres.IsAvailable {
		data["WhatsAppURL"] = whatsAppURL(h.WhatsApp, p)
	}
	return render(c, "perfume", data)
}
