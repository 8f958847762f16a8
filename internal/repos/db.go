package repos

import (
	"errors"
	"fmt"
	"log"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("not found")

// OpenDB connects with driver "sqlite" (embedded file or :memory:) or "pgx"
// (hosted Postgres) and makes sure the schema exists.
func OpenDB(driver, dsn string) (*sqlx.DB, error) {
	if driver == "" {
		driver = "sqlite"
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" && strings.Contains(dsn, ":memory:") {
		// every pooled connection would get its own empty database
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	return db, nil
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS perfumes(
  id TEXT PRIMARY KEY,
  nombre TEXT NOT NULL,
  marca TEXT NOT NULL,
  precio NUMERIC,
  descripcion TEXT,
  imagen_url TEXT,
  estado TEXT,             -- disponible|agotado|proximamente, NULL on legacy rows
  stock INTEGER,           -- legacy availability flag
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_perfumes_created_at ON perfumes(created_at);

CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS perfumes(
  id TEXT PRIMARY KEY,
  nombre TEXT NOT NULL,
  marca TEXT NOT NULL,
  precio NUMERIC,
  descripcion TEXT,
  imagen_url TEXT,
  estado TEXT,
  stock BOOLEAN,
  created_at TIMESTAMPTZ DEFAULT now(),
  updated_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_perfumes_created_at ON perfumes(created_at);

CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  created_at TIMESTAMPTZ DEFAULT now(),
  updated_at TIMESTAMPTZ
);
`

func ensureSchema(db *sqlx.DB) error {
	schema := sqliteSchema
	if db.DriverName() == "pgx" {
		schema = postgresSchema
	}
	for _, stmt := range schemaStatements(schema) {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// schemaStatements drops comments first so a ';' inside one cannot split a
// statement.
func schemaStatements(schema string) []string {
	var out []string
	for _, stmt := range strings.Split(stripComments(schema), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

func stripComments(s string) string {
	var b strings.Builder
	for _, line := range strings.Split(s, "\n") {
		if i := strings.Index(line, "--"); i >= 0 {
			line = line[:i]
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// SeedDemo inserts a small demo catalog when the perfumes table is empty.
// Two rows use the legacy stock flag instead of estado.
func SeedDemo(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM perfumes`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo perfumes")

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	rows := []struct {
		id, nombre, marca, precio, desc, estado string
		stock                                    *bool
	}{
		{"demo-sauvage", "Sauvage EDT", "Dior", "95.00", "Notas de bergamota y ambroxan.", "disponible", nil},
		{"demo-n5", "N°5 EDP", "Chanel", "120.00", "Aldehídos florales clásicos.", "agotado", nil},
		{"demo-eros", "Eros", "Versace", "78.50", "Menta, vainilla y haba tonka.", "proximamente", nil},
		{"demo-acqua", "Acqua di Giò", "Giorgio Armani", "88.00", "Fresco y marino.", "", boolPtr(true)},
		{"demo-good-girl", "Good Girl", "Carolina Herrera", "102.00", "Tuberosa y cacao.", "", boolPtr(false)},
	}
	insert := tx.Rebind(`INSERT INTO perfumes(id,nombre,marca,precio,descripcion,imagen_url,estado,stock)
	  VALUES(?,?,?,?,?,NULL,?,?)`)
	for _, r := range rows {
		var estado any
		if r.estado != "" {
			estado = r.estado
		}
		var stock any
		if r.stock != nil {
			stock = *r.stock
		}
		if _, err := tx.Exec(insert, r.id, r.nombre, r.marca, r.precio, r.desc, estado, stock); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func boolPtr(b bool) *bool { return &b }
