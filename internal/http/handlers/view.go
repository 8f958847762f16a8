package handlers

import (
	"fmt"
	"net/url"

	"perfumeria/internal/domain"
)

// placeholderImage is shown for perfumes without a stored image.
const placeholderImage = "/static/placeholder-perfume.svg"

// perfumeView is a product plus everything a template needs to draw it.
type perfumeView struct {
	domain.Product
	Pres  domain.Presentation
	Price string
	Image string
}

func newPerfumeView(p domain.Product) perfumeView {
	v := perfumeView{Product: p, Pres: domain.PresentationFor(p.Estado), Price: formatPrice(p), Image: p.ImagenURL}
	if !p.HasImage() {
		v.Image = placeholderImage
	}
	return v
}

func perfumeViews(ps []domain.Product) []perfumeView {
	out := make([]perfumeView, 0, len(ps))
	for _, p := range ps {
		out = append(out, newPerfumeView(p))
	}
	return out
}

func formatPrice(p domain.Product) string {
	if !p.Precio.Valid {
		return "Consultar"
	}
	return "$" + p.Precio.Decimal.StringFixed(2)
}

// whatsAppURL builds the order link for an available perfume.
func whatsAppURL(number string, p domain.Product) string {
	if number == "" {
		return ""
	}
	msg := fmt.Sprintf("¡Hola! Me interesa el perfume %s de %s", p.Nombre, p.Marca)
	if p.Precio.Valid {
		msg += " por $" + p.Precio.Decimal.StringFixed(2)
	}
	msg += ". ¿Está disponible?"
	return "https://wa.me/" + number + "?text=" + url.QueryEscape(msg)
}
