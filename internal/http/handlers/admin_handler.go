package handlers

import (
	"errors"
	"io"
	"maps"
	"slices"

	"perfumeria/internal/domain"
	applog "perfumeria/internal/log"
	"perfumeria/internal/repos"
	"perfumeria/internal/services"
	"perfumeria/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// flash messages carried on the redirect back to /admin
var notices = map[string]string{
	"creado":      "¡Perfume agregado exitosamente!",
	"actualizado": "¡Perfume actualizado exitosamente!",
	"eliminado":   "Perfume eliminado",
}

const imageWarning = "El cambio se guardó, pero la imagen anterior no se pudo borrar del almacenamiento."

type AdminHandler struct {
	Catalog  *services.CatalogService
	Perfumes *services.PerfumeService
}

// productForm is what the admin form shows, raw or loaded from a perfume.
type productForm struct {
	validate.ProductForm
	ID    string
	Image string
}

func formFromProduct(p domain.Product) productForm {
	f := productForm{ID: p.ID, Image: p.ImagenURL}
	f.Nombre, f.Marca, f.Descripcion, f.Estado = p.Nombre, p.Marca, p.Descripcion, string(p.Estado)
	if p.Precio.Valid {
		f.Precio = p.Precio.Decimal.StringFixed(2)
	}
	return f
}

func readForm(c *fiber.Ctx) validate.ProductForm {
	return validate.ProductForm{
		Nombre:      c.FormValue("nombre"),
		Marca:       c.FormValue("marca"),
		Precio:      c.FormValue("precio"),
		Descripcion: c.FormValue("descripcion"),
		Estado:      c.FormValue("estado"),
	}
}

// readImage loads the optional "imagen" upload. A nil image with no errors
// means nothing was uploaded.
func readImage(c *fiber.Ctx) (*services.Image, validate.Errors) {
	fh, err := c.FormFile("imagen")
	if err != nil || fh.Size == 0 {
		return nil, nil
	}
	if fh.Size > validate.MaxImageBytes {
		return nil, validate.Errors{"imagen": "Por favor, sube una imagen de máximo 500 KB."}
	}
	f, err := fh.Open()
	if err != nil {
		return nil, validate.Errors{"imagen": "No se pudo leer la imagen"}
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, validate.MaxImageBytes+1))
	if err != nil {
		return nil, validate.Errors{"imagen": "No se pudo leer la imagen"}
	}
	ct, errs := validate.Image(fh.Filename, data)
	if errs.Any() {
		return nil, errs
	}
	return &services.Image{Data: data, ContentType: ct}, nil
}

func (h *AdminHandler) page(c *fiber.Ctx, form productForm, errs validate.Errors, data fiber.Map) error {
	items, err := h.Catalog.Inventory(c.UserContext())
	if err != nil {
		applog.Error(c, "admin.perfume.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "No pudimos cargar los perfumes"})
	}
	if data == nil {
		data = fiber.Map{}
	}
	data["Items"] = perfumeViews(items)
	data["Count"] = len(items)
	data["Form"] = form
	data["Errors"] = errs
	data["Editing"] = form.ID != ""
	data["Statuses"] = statusOptions()
	return render(c, "admin", data)
}

type statusOption struct {
	Value string
	Pres  domain.Presentation
}

func statusOptions() []statusOption {
	out := make([]statusOption, 0, len(domain.Statuses))
	for _, st := range domain.Statuses {
		out = append(out, statusOption{Value: string(st), Pres: domain.PresentationFor(st)})
	}
	return out
}

// Dashboard is GET /admin; ?edit=<id> loads a perfume into the form.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	form := productForm{}
	form.Estado = string(domain.StatusDisponible)
	if raw := c.Query("edit"); raw != "" {
		id, ok := validate.ID(raw)
		if !ok {
			return notFound(c, "Perfume no encontrado")
		}
		p, err := h.Catalog.GetProduct(c.UserContext(), id)
		if errors.Is(err, repos.ErrNotFound) {
			return notFound(c, "Perfume no encontrado")
		}
		if err != nil {
			return err
		}
		form = formFromProduct(p)
	}
	data := fiber.Map{"Notice": notices[c.Query("ok")]}
	if c.Query("warn") == "imagen" {
		data["Warning"] = imageWarning
	}
	return h.page(c, form, nil, data)
}

func (h *AdminHandler) invalid(c *fiber.Ctx, form productForm, errs validate.Errors) error {
	applog.Security(c, "validation.fail", map[string]any{"fields": slices.Sorted(maps.Keys(errs))})
	c.Status(fiber.StatusBadRequest)
	return h.page(c, form, errs, nil)
}

func (h *AdminHandler) done(c *fiber.Ctx, notice string, err error) error {
	to := "/admin?ok=" + notice
	if errors.Is(err, services.ErrImageCleanup) {
		applog.Security(c, "storage.image.delete.fail", map[string]any{"perfume_id": c.Params("id"), "error": err.Error()})
		to += "&warn=imagen"
	}
	return c.Redirect(to)
}

// POST /admin/perfumes
func (h *AdminHandler) Create(c *fiber.Ctx) error {
	raw := readForm(c)
	form := productForm{ProductForm: raw}
	fields, errs := validate.Product(raw)
	img, imgErrs := readImage(c)
	maps.Copy(errs, imgErrs)
	if img == nil && !imgErrs.Any() {
		errs["imagen"] = "Por favor, selecciona una imagen"
	}
	if errs.Any() {
		return h.invalid(c, form, errs)
	}

	id, err := h.Perfumes.Create(c.UserContext(), fields, img)
	if err != nil {
		applog.Error(c, "admin.perfume.create.fail", err, map[string]any{"nombre": fields.Nombre})
		c.Status(fiber.StatusInternalServerError)
		return h.page(c, form, nil, fiber.Map{"Err": "No se pudo guardar el perfume. Intenta de nuevo."})
	}
	applog.Audit(c, "admin.perfume.create", map[string]any{"perfume_id": id, "nombre": fields.Nombre, "estado": string(fields.Estado)})
	return h.done(c, "creado", nil)
}

// POST /admin/perfumes/:id
func (h *AdminHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, "Perfume no encontrado")
	}
	raw := readForm(c)
	form := productForm{ProductForm: raw, ID: id}
	fields, errs := validate.Product(raw)
	img, imgErrs := readImage(c)
	maps.Copy(errs, imgErrs)
	if errs.Any() {
		return h.invalid(c, form, errs)
	}

	err := h.Perfumes.Update(c.UserContext(), id, fields, img)
	switch {
	case errors.Is(err, repos.ErrNotFound):
		return notFound(c, "Perfume no encontrado")
	case err != nil && !errors.Is(err, services.ErrImageCleanup):
		applog.Error(c, "admin.perfume.update.fail", err, map[string]any{"perfume_id": id})
		c.Status(fiber.StatusInternalServerError)
		return h.page(c, form, nil, fiber.Map{"Err": "No se pudo actualizar el perfume. Intenta de nuevo."})
	}
	applog.Audit(c, "admin.perfume.update", map[string]any{"perfume_id": id, "estado": string(fields.Estado), "imagen": img != nil})
	return h.done(c, "actualizado", err)
}

// POST /admin/perfumes/:id/delete
func (h *AdminHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, "Perfume no encontrado")
	}
	err := h.Perfumes.Delete(c.UserContext(), id)
	switch {
	case errors.Is(err, repos.ErrNotFound):
		return notFound(c, "Perfume no encontrado")
	case err != nil && !errors.Is(err, services.ErrImageCleanup):
		applog.Error(c, "admin.perfume.delete.fail", err, map[string]any{"perfume_id": id})
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "No se pudo eliminar el perfume"})
	}
	applog.Audit(c, "admin.perfume.delete", map[string]any{"perfume_id": id})
	return h.done(c, "eliminado", err)
}
