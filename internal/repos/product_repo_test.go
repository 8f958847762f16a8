package repos_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"perfumeria/internal/domain"
	"perfumeria/internal/repos"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpenDBCreatesSchema(t *testing.T) {
	db := memdb(t)
	var tables []string
	if err := db.Select(&tables, `SELECT name FROM sqlite_master WHERE type='table' AND name IN ('perfumes','users') ORDER BY name`); err != nil {
		t.Fatalf("list tables: %v", err)
	}
	if len(tables) != 2 || tables[0] != "perfumes" || tables[1] != "users" {
		t.Fatalf("expected perfumes and users tables, got %v", tables)
	}
	var cols []string
	if err := db.Select(&cols, `SELECT name FROM pragma_table_info('perfumes')`); err != nil {
		t.Fatalf("columns: %v", err)
	}
	if len(cols) != 10 {
		t.Fatalf("perfumes has %d columns, want 10: %v", len(cols), cols)
	}
}

func TestProductRepo_InsertGetUpdateDelete(t *testing.T) {
	ctx := context.Background()
	repo := repos.NewProductRepo(memdb(t))

	id, err := repo.Insert(ctx, domain.ProductFields{
		Nombre: "Sauvage", Marca: "Dior", Precio: decimal.RequireFromString("95.50"),
		ImagenURL: "/media/perfumes/a.webp", Estado: domain.StatusProximamente,
	})
	if err != nil {
		t.Fatal(err)
	}

	p, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if p.Nombre != "Sauvage" || p.Estado != domain.StatusProximamente || !p.Precio.Valid || p.Precio.Decimal.String() != "95.5" {
		t.Fatalf("unexpected product: %+v", p)
	}
	if p.Descripcion != "" || p.ImagenURL != "/media/perfumes/a.webp" {
		t.Fatalf("unexpected optional fields: %+v", p)
	}

	err = repo.Update(ctx, id, domain.ProductFields{
		Nombre: "Sauvage Elixir", Marca: "Dior", Precio: decimal.RequireFromString("130"),
		Descripcion: "Especiado", Estado: domain.StatusAgotado,
	})
	if err != nil {
		t.Fatal(err)
	}
	p, _ = repo.Get(ctx, id)
	if p.Nombre != "Sauvage Elixir" || p.Estado != domain.StatusAgotado || p.ImagenURL != "" || p.UpdatedAt == "" {
		t.Fatalf("update not applied: %+v", p)
	}

	if err := repo.Delete(ctx, id); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Get(ctx, id); !errors.Is(err, repos.ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, id); !errors.Is(err, repos.ErrNotFound) {
		t.Fatalf("second delete: want ErrNotFound, got %v", err)
	}
	if err := repo.Update(ctx, "missing", domain.ProductFields{Nombre: "x", Marca: "y"}); !errors.Is(err, repos.ErrNotFound) {
		t.Fatalf("update missing: want ErrNotFound, got %v", err)
	}
}

func TestProductRepo_LegacyRowsResolved(t *testing.T) {
	ctx := context.Background()
	db := memdb(t)
	db.MustExec(`INSERT INTO perfumes(id,nombre,marca,precio,estado,stock) VALUES
	  ('legacy-in','A','B',10,NULL,1),
	  ('legacy-out','C','D',20,NULL,0),
	  ('bare','E','F',NULL,NULL,NULL),
	  ('junk','G','H','consultar','raro',NULL)`)
	repo := repos.NewProductRepo(db)

	want := map[string]domain.Status{
		"legacy-in":  domain.StatusDisponible,
		"legacy-out": domain.StatusAgotado,
		"bare":       domain.StatusDisponible,
		"junk":       domain.StatusDisponible,
	}
	ps, err := repo.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ps) != len(want) {
		t.Fatalf("want %d rows, got %d", len(want), len(ps))
	}
	for _, p := range ps {
		if p.Estado != want[p.ID] {
			t.Fatalf("%s: want %s, got %s", p.ID, want[p.ID], p.Estado)
		}
		if (p.ID == "bare" || p.ID == "junk") && p.Precio.Valid {
			t.Fatalf("%s: price should be invalid, got %s", p.ID, p.Precio.Decimal)
		}
	}

	// editing a legacy row moves it to estado
	if err := repo.Update(ctx, "legacy-out", domain.ProductFields{Nombre: "C", Marca: "D", Precio: decimal.NewFromInt(20), Estado: domain.StatusDisponible}); err != nil {
		t.Fatal(err)
	}
	var stock *bool
	if err := db.Get(&stock, `SELECT stock FROM perfumes WHERE id='legacy-out'`); err != nil {
		t.Fatal(err)
	}
	if stock != nil {
		t.Fatalf("legacy stock should be cleared, got %v", *stock)
	}
}

func TestSeedDemoIdempotent(t *testing.T) {
	db := memdb(t)
	if err := repos.SeedDemo(db); err != nil {
		t.Fatal(err)
	}
	if err := repos.SeedDemo(db); err != nil {
		t.Fatal(err)
	}
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM perfumes`); err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Fatalf("want 5 demo perfumes, got %d", n)
	}
}

func TestUserRepo_Upsert(t *testing.T) {
	ctx := context.Background()
	users := repos.NewUserRepo(memdb(t))

	u, err := users.Upsert(ctx, " Admin@Perfumes.com ", "Admin", "hash-1")
	if err != nil {
		t.Fatal(err)
	}
	if u.Email != "admin@perfumes.com" {
		t.Fatalf("email not normalised: %q", u.Email)
	}
	u2, err := users.Upsert(ctx, "admin@perfumes.com", "Admin", "hash-2")
	if err != nil {
		t.Fatal(err)
	}
	if u2.ID != u.ID || u2.Hash != "hash-2" {
		t.Fatalf("upsert should update in place: %+v vs %+v", u, u2)
	}
	if _, err := users.ByEmail(ctx, "nobody@x.com"); !errors.Is(err, repos.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	byID, err := users.ByID(ctx, u.ID)
	if err != nil || byID.Email != u.Email {
		t.Fatalf("by id: %+v %v", byID, err)
	}
}
