package validate_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"perfumeria/internal/domain"
	"perfumeria/internal/validate"
)

func webp(size int) []byte {
	head := []byte("RIFF\x00\x00\x00\x00WEBPVP8 ")
	if size < len(head) {
		size = len(head)
	}
	return append(head, bytes.Repeat([]byte{0}, size-len(head))...)
}

func TestProductValid(t *testing.T) {
	f, errs := validate.Product(validate.ProductForm{
		Nombre: " Sauvage ", Marca: "Dior", Precio: "95.499", Estado: "PROXIMAMENTE",
	})
	assert.False(t, errs.Any(), errs)
	assert.Equal(t, "Sauvage", f.Nombre)
	assert.Equal(t, "95.5", f.Precio.String())
	assert.Equal(t, domain.StatusProximamente, f.Estado)
}

func TestProductDefaultsEstado(t *testing.T) {
	f, errs := validate.Product(validate.ProductForm{Nombre: "a", Marca: "b", Precio: "0"})
	assert.False(t, errs.Any())
	assert.Equal(t, domain.StatusDisponible, f.Estado)
}

func TestProductInvalid(t *testing.T) {
	_, errs := validate.Product(validate.ProductForm{
		Nombre: "", Marca: strings.Repeat("m", 81), Precio: "-1", Estado: "vendido",
		Descripcion: strings.Repeat("d", 2001),
	})
	for _, field := range []string{"nombre", "marca", "precio", "estado", "descripcion"} {
		assert.Contains(t, errs, field)
	}

	_, errs = validate.Product(validate.ProductForm{Nombre: "a", Marca: "b", Precio: "doce"})
	assert.Contains(t, errs, "precio")
}

func TestImage(t *testing.T) {
	ct, errs := validate.Image("foto.WEBP", webp(1024))
	assert.False(t, errs.Any(), errs)
	assert.Equal(t, "image/webp", ct)

	_, errs = validate.Image("foto.jpg", webp(1024))
	assert.Contains(t, errs["imagen"], ".webp")

	_, errs = validate.Image("foto.webp", webp(validate.MaxImageBytes+1))
	assert.Contains(t, errs["imagen"], "500 KB")

	_, errs = validate.Image("foto.webp", []byte("\x89PNG\r\n\x1a\n0000000000"))
	assert.True(t, errs.Any())
}

func TestEmailAndPassword(t *testing.T) {
	_, ok := validate.Email("administrador@perfumes.com")
	assert.True(t, ok)
	_, ok = validate.Email("not-an-email")
	assert.False(t, ok)
	assert.True(t, validate.Password("Passw0rd!"))
	assert.False(t, validate.Password("short"))
	assert.False(t, validate.Password("alllowercase1!"))
}

func TestID(t *testing.T) {
	_, ok := validate.ID("6f1c1c9e-4f1a-4a8e-9d0b-0e7d2b0d7c11")
	assert.True(t, ok)
	_, ok = validate.ID("../etc")
	assert.False(t, ok)
}
