package validate

import (
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"perfumeria/internal/domain"
)

const MaxImageBytes = 500 * 1024

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

// Errors maps a form field to a user-facing message.
type Errors map[string]string

func (e Errors) Any() bool { return len(e) > 0 }

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// ID validates a perfume identifier.
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Password enforces length and character classes.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 72 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}

// ProductForm is the raw admin form.
type ProductForm struct {
	Nombre      string
	Marca       string
	Precio      string
	Descripcion string
	Estado      string
}

// Product checks the admin form and converts it to the fields stored in the
// catalog. ImagenURL is left for the caller.
func Product(f ProductForm) (domain.ProductFields, Errors) {
	errs := Errors{}
	out := domain.ProductFields{
		Nombre:      strings.TrimSpace(f.Nombre),
		Marca:       strings.TrimSpace(f.Marca),
		Descripcion: strings.TrimSpace(f.Descripcion),
	}
	if n := utf8.RuneCountInString(out.Nombre); n == 0 || n > 120 {
		errs["nombre"] = "Ingresa el nombre del perfume (máximo 120 caracteres)"
	}
	if n := utf8.RuneCountInString(out.Marca); n == 0 || n > 80 {
		errs["marca"] = "Ingresa la marca (máximo 80 caracteres)"
	}
	if utf8.RuneCountInString(out.Descripcion) > 2000 {
		errs["descripcion"] = "La descripción es demasiado larga"
	}

	price, err := decimal.NewFromString(strings.TrimSpace(f.Precio))
	switch {
	case err != nil:
		errs["precio"] = "Ingresa un precio válido"
	case price.IsNegative():
		errs["precio"] = "El precio no puede ser negativo"
	default:
		out.Precio = price.Round(2)
	}

	out.Estado = domain.StatusDisponible
	if strings.TrimSpace(f.Estado) != "" {
		st, ok := domain.ParseStatus(f.Estado)
		if !ok {
			errs["estado"] = "Estado no válido"
		}
		out.Estado = st
	}
	return out, errs
}

// Image rejects anything that is not a .webp of at most MaxImageBytes.
// It returns the sniffed content type.
func Image(filename string, data []byte) (string, Errors) {
	errs := Errors{}
	if !strings.EqualFold(filepath.Ext(filename), ".webp") {
		errs["imagen"] = "Solo se permiten imágenes en formato .webp"
		return "", errs
	}
	if len(data) > MaxImageBytes {
		errs["imagen"] = "Por favor, sube una imagen de máximo 500 KB."
		return "", errs
	}
	ct := http.DetectContentType(data)
	if ct != "image/webp" {
		errs["imagen"] = "El archivo no es una imagen .webp válida"
		return "", errs
	}
	return ct, errs
}
