// Persistencia del carrito y del catalogo de recetas
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type CartRepository interface {
	CreateCart(ctx context.Context) (*Cart, error)
	GetCart(ctx context.Context, cartID int64) (*Cart, error)
	// UpdateCart carga el carrito, aplica fn y guarda el resultado en una
	// sola transaccion. Si fn falla no se guarda nada.
	UpdateCart(ctx context.Context, cartID int64, fn func(*Cart) error) (*Cart, error)
}

type RecipeRepository interface {
	ListRecipes(ctx context.Context) ([]Recipe, error)
	GetRecipe(ctx context.Context, recipeID int64) (Recipe, error)
}

// querier lo cumplen *sql.DB y *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type sqliteRepo struct{ db *sql.DB }

func NewSQLiteRepo(db *sql.DB) *sqliteRepo { return &sqliteRepo{db: db} }

var (
	_ CartRepository   = (*sqliteRepo)(nil)
	_ RecipeRepository = (*sqliteRepo)(nil)
)

func (r *sqliteRepo) Close() error { return r.db.Close() }

func (r *sqliteRepo) CreateCart(ctx context.Context) (*Cart, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO carts(total_in_cents) VALUES (0)`)
	if err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}
	return NewCart(id), nil
}

func (r *sqliteRepo) GetCart(ctx context.Context, cartID int64) (*Cart, error) {
	return loadCart(ctx, r.db, cartID)
}

func (r *sqliteRepo) UpdateCart(ctx context.Context, cartID int64, fn func(*Cart) error) (*Cart, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	cart, err := loadCart(ctx, tx, cartID)
	if err != nil {
		return nil, err
	}
	if err := fn(cart); err != nil {
		return nil, err
	}
	if err := saveCart(ctx, tx, cart); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit cart %d: %w", cartID, err)
	}
	return cart, nil
}

func loadCart(ctx context.Context, q querier, cartID int64) (*Cart, error) {
	var id int64
	err := q.QueryRowContext(ctx, `SELECT id FROM carts WHERE id=?`, cartID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, cartNotFound(cartID)
	}
	if err != nil {
		return nil, fmt.Errorf("load cart %d: %w", cartID, err)
	}

	recipeLines, err := loadRecipeLines(ctx, q, cartID)
	if err != nil {
		return nil, err
	}
	productLines, err := loadProductLines(ctx, q, cartID)
	if err != nil {
		return nil, err
	}
	return restoreCart(id, recipeLines, productLines), nil
}

func loadRecipeLines(ctx context.Context, q querier, cartID int64) ([]CartRecipeLine, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT cr.recipe_id, r.name, cr.qty
		FROM cart_recipes cr JOIN recipes r ON r.id = cr.recipe_id
		WHERE cr.cart_id=? ORDER BY cr.recipe_id`, cartID)
	if err != nil {
		return nil, fmt.Errorf("load cart recipes: %w", err)
	}
	var lines []CartRecipeLine
	for rows.Next() {
		var l CartRecipeLine
		if err := rows.Scan(&l.Recipe.ID, &l.Recipe.Name, &l.Quantity); err != nil {
			rows.Close()
			return nil, err
		}
		lines = append(lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	products, err := loadRecipeProducts(ctx, q, `
		SELECT rp.recipe_id, p.id, p.name, p.price_in_cents
		FROM recipe_products rp JOIN products p ON p.id = rp.product_id
		WHERE rp.recipe_id IN (SELECT recipe_id FROM cart_recipes WHERE cart_id=?)
		ORDER BY rp.recipe_id, rp.position`, cartID)
	if err != nil {
		return nil, err
	}
	for i := range lines {
		lines[i].Recipe.Products = products[lines[i].Recipe.ID]
	}
	return lines, nil
}

func loadProductLines(ctx context.Context, q querier, cartID int64) ([]CartProductLine, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT product_id, name, unit_price_cents, qty
		FROM cart_items WHERE cart_id=? ORDER BY product_id`, cartID)
	if err != nil {
		return nil, fmt.Errorf("load cart items: %w", err)
	}
	defer rows.Close()

	var out []CartProductLine
	for rows.Next() {
		var it CartProductLine
		if err := rows.Scan(&it.ProductID, &it.Name, &it.UnitPriceCents, &it.Quantity); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// saveCart reescribe las lineas del carrito y el total guardado.
func saveCart(ctx context.Context, q querier, c *Cart) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM cart_recipes WHERE cart_id=?`, c.ID); err != nil {
		return fmt.Errorf("save cart %d: %w", c.ID, err)
	}
	for _, l := range c.RecipeLines() {
		if _, err := q.ExecContext(ctx,
			`INSERT INTO cart_recipes(cart_id, recipe_id, qty) VALUES (?, ?, ?)`,
			c.ID, l.RecipeID(), l.Quantity); err != nil {
			return fmt.Errorf("save cart %d recipe %d: %w", c.ID, l.RecipeID(), err)
		}
	}

	if _, err := q.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id=?`, c.ID); err != nil {
		return fmt.Errorf("save cart %d: %w", c.ID, err)
	}
	for _, it := range c.ProductLines() {
		if _, err := q.ExecContext(ctx, `
			INSERT INTO cart_items(cart_id, product_id, name, unit_price_cents, qty)
			VALUES (?, ?, ?, ?, ?)`,
			c.ID, it.ProductID, it.Name, it.UnitPriceCents, it.Quantity); err != nil {
			return fmt.Errorf("save cart %d product %d: %w", c.ID, it.ProductID, err)
		}
	}

	_, err := q.ExecContext(ctx, `UPDATE carts SET total_in_cents=? WHERE id=?`, c.TotalInCents(), c.ID)
	if err != nil {
		return fmt.Errorf("save cart %d total: %w", c.ID, err)
	}
	return nil
}

func (r *sqliteRepo) ListRecipes(ctx context.Context) ([]Recipe, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM recipes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	var out []Recipe
	for rows.Next() {
		var rc Recipe
		if err := rows.Scan(&rc.ID, &rc.Name); err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, rc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	products, err := loadRecipeProducts(ctx, r.db, `
		SELECT rp.recipe_id, p.id, p.name, p.price_in_cents
		FROM recipe_products rp JOIN products p ON p.id = rp.product_id
		ORDER BY rp.recipe_id, rp.position`)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Products = products[out[i].ID]
	}
	return out, nil
}

func (r *sqliteRepo) GetRecipe(ctx context.Context, recipeID int64) (Recipe, error) {
	rc := Recipe{ID: recipeID}
	err := r.db.QueryRowContext(ctx, `SELECT name FROM recipes WHERE id=?`, recipeID).Scan(&rc.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return Recipe{}, recipeNotFound(recipeID)
	}
	if err != nil {
		return Recipe{}, fmt.Errorf("get recipe %d: %w", recipeID, err)
	}

	products, err := loadRecipeProducts(ctx, r.db, `
		SELECT rp.recipe_id, p.id, p.name, p.price_in_cents
		FROM recipe_products rp JOIN products p ON p.id = rp.product_id
		WHERE rp.recipe_id=? ORDER BY rp.position`, recipeID)
	if err != nil {
		return Recipe{}, err
	}
	rc.Products = products[recipeID]
	return rc, nil
}

// loadRecipeProducts agrupa por receta el resultado de una consulta
// (recipe_id, product_id, name, price_in_cents).
func loadRecipeProducts(ctx context.Context, q querier, query string, args ...any) (map[int64][]Product, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load recipe products: %w", err)
	}
	defer rows.Close()

	out := map[int64][]Product{}
	for rows.Next() {
		var recipeID int64
		var p Product
		if err := rows.Scan(&recipeID, &p.ID, &p.Name, &p.PriceInCents); err != nil {
			return nil, err
		}
		out[recipeID] = append(out[recipeID], p)
	}
	return out, rows.Err()
}
