package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"perfumeria/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productColumns = `
    id, nombre, marca, CAST(precio AS TEXT) AS precio, descripcion, imagen_url,
    estado, stock, COALESCE(CAST(created_at AS TEXT),'') AS created_at,
    COALESCE(CAST(updated_at AS TEXT),'') AS updated_at`

// List returns every perfume ordered by creation time. Callers sort for display.
func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	var recs []domain.ProductRecord
	err := r.db.SelectContext(ctx, &recs, `SELECT `+productColumns+` FROM perfumes ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.Product())
	}
	return out, nil
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	var rec domain.ProductRecord
	err := r.db.GetContext(ctx, &rec, r.db.Rebind(`SELECT `+productColumns+` FROM perfumes WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, ErrNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}
	return rec.Product(), nil
}

// Insert stores a new perfume and returns its id. New rows always carry
// estado; the legacy stock column stays NULL.
func (r *ProductRepo) Insert(ctx context.Context, f domain.ProductFields) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO perfumes(id,nombre,marca,precio,descripcion,imagen_url,estado,stock,created_at)
		VALUES(?,?,?,?,?,?,?,NULL,CURRENT_TIMESTAMP)`),
		id, f.Nombre, f.Marca, f.Precio, nullIfEmpty(f.Descripcion), nullIfEmpty(f.ImagenURL), string(f.Estado.Normalize()))
	if err != nil {
		return "", err
	}
	return id, nil
}

// Update replaces every mutable column and migrates legacy rows to estado.
func (r *ProductRepo) Update(ctx context.Context, id string, f domain.ProductFields) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE perfumes
		SET nombre = ?, marca = ?, precio = ?, descripcion = ?, imagen_url = ?,
		    estado = ?, stock = NULL, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`),
		f.Nombre, f.Marca, f.Precio, nullIfEmpty(f.Descripcion), nullIfEmpty(f.ImagenURL), string(f.Estado.Normalize()), id)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM perfumes WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

func mustAffect(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
