package main

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed seed/catalog.yaml
var defaultCatalog []byte

type Catalog struct {
	Products []CatalogProduct `yaml:"products"`
	Recipes  []CatalogRecipe  `yaml:"recipes"`
	Carts    int              `yaml:"carts"`
}

type CatalogProduct struct {
	ID           int64  `yaml:"id"`
	Name         string `yaml:"name"`
	PriceInCents int64  `yaml:"price_in_cents"`
}

type CatalogRecipe struct {
	ID       int64   `yaml:"id"`
	Name     string  `yaml:"name"`
	Products []int64 `yaml:"products"`
}

// LoadCatalog lee un catalogo YAML; path vacio usa el catalogo embebido.
func LoadCatalog(path string) (Catalog, error) {
	b := defaultCatalog
	if path != "" {
		var err error
		if b, err = os.ReadFile(path); err != nil {
			return Catalog{}, err
		}
	}
	var cat Catalog
	if err := yaml.Unmarshal(b, &cat); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	if err := cat.validate(); err != nil {
		return Catalog{}, err
	}
	return cat, nil
}

func (c Catalog) validate() error {
	known := make(map[int64]struct{}, len(c.Products))
	for _, p := range c.Products {
		if p.ID <= 0 {
			return fmt.Errorf("product %q: id must be positive", p.Name)
		}
		if p.PriceInCents < 0 {
			return fmt.Errorf("product %d: negative price", p.ID)
		}
		known[p.ID] = struct{}{}
	}
	for _, r := range c.Recipes {
		if r.ID <= 0 {
			return fmt.Errorf("recipe %q: id must be positive", r.Name)
		}
		for _, pid := range r.Products {
			if _, ok := known[pid]; !ok {
				return fmt.Errorf("recipe %d: unknown product %d", r.ID, pid)
			}
		}
	}
	if c.Carts < 0 {
		return fmt.Errorf("carts: must not be negative")
	}
	return nil
}

// Seed inserta el catalogo sin pisar filas existentes. Los carritos solo se
// crean si la tabla esta vacia.
func (r *sqliteRepo) Seed(ctx context.Context, cat Catalog) error {
	if err := cat.validate(); err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range cat.Products {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO products(id, name, price_in_cents) VALUES (?, ?, ?)
ON CONFLICT(id) DO NOTHING`, p.ID, p.Name, p.PriceInCents); err != nil {
			return fmt.Errorf("seed product %d: %w", p.ID, err)
		}
	}

	for _, rc := range cat.Recipes {
		res, err := tx.ExecContext(ctx, `
INSERT INTO recipes(id, name) VALUES (?, ?)
ON CONFLICT(id) DO NOTHING`, rc.ID, rc.Name)
		if err != nil {
			return fmt.Errorf("seed recipe %d: %w", rc.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			continue // receta ya existente: inmutable
		}
		for pos, pid := range rc.Products {
			if _, err := tx.ExecContext(ctx, `
INSERT INTO recipe_products(recipe_id, product_id, position) VALUES (?, ?, ?)
ON CONFLICT(recipe_id, product_id) DO NOTHING`, rc.ID, pid, pos); err != nil {
				return fmt.Errorf("seed recipe %d product %d: %w", rc.ID, pid, err)
			}
		}
	}

	var carts int64
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM carts`).Scan(&carts); err != nil {
		return err
	}
	if carts == 0 {
		for i := 0; i < cat.Carts; i++ {
			if _, err := tx.ExecContext(ctx, `INSERT INTO carts(total_in_cents) VALUES (0)`); err != nil {
				return fmt.Errorf("seed cart: %w", err)
			}
		}
	}
	return tx.Commit()
}
