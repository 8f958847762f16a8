package domain

import (
	"database/sql"
	"strings"

	"github.com/shopspring/decimal"
)

// Product is the canonical catalog entry handed to services and views.
// Estado is always one of the three known statuses.
type Product struct {
	ID          string              `json:"id"`
	Nombre      string              `json:"nombre"`
	Marca       string              `json:"marca"`
	Precio      decimal.NullDecimal `json:"precio"`
	Descripcion string              `json:"descripcion,omitempty"`
	ImagenURL   string              `json:"imagen_url,omitempty"`
	Estado      Status              `json:"estado"`
	CreatedAt   string              `json:"created_at,omitempty"`
	UpdatedAt   string              `json:"updated_at,omitempty"`
}

// HasImage reports whether the product points at a stored image.
func (p Product) HasImage() bool { return strings.TrimSpace(p.ImagenURL) != "" }

// ProductRecord is a perfumes row as persisted. Older rows carry only the
// boolean stock column; newer ones carry estado.
type ProductRecord struct {
	ID          string         `db:"id"`
	Nombre      string         `db:"nombre"`
	Marca       string         `db:"marca"`
	Precio      sql.NullString `db:"precio"`
	Descripcion sql.NullString `db:"descripcion"`
	ImagenURL   sql.NullString `db:"imagen_url"`
	Estado      sql.NullString `db:"estado"`
	Stock       sql.NullBool   `db:"stock"`
	CreatedAt   string         `db:"created_at"`
	UpdatedAt   string         `db:"updated_at"`
}

// Product resolves the record into its canonical form.
func (r ProductRecord) Product() Product {
	return Product{
		ID:          r.ID,
		Nombre:      r.Nombre,
		Marca:       r.Marca,
		Precio:      ParsePrice(r.Precio.String, r.Precio.Valid),
		Descripcion: r.Descripcion.String,
		ImagenURL:   r.ImagenURL.String,
		Estado:      Classify(r),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// ParsePrice returns an invalid NullDecimal when the raw value is missing or
// not a number.
func ParsePrice(raw string, present bool) decimal.NullDecimal {
	if !present {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// ProductFields are the mutable columns written by the admin panel.
type ProductFields struct {
	Nombre      string
	Marca       string
	Precio      decimal.Decimal
	Descripcion string
	ImagenURL   string
	Estado      Status
}
