package main

import "sort"

// Catalogo: productos y recetas son inmutables una vez creados.
type Product struct {
	ID           int64
	Name         string
	PriceInCents int64
}

type Recipe struct {
	ID       int64
	Name     string
	Products []Product
}

// uniqueProducts devuelve los productos de la receta sin ids repetidos,
// conservando el orden original.
func (r Recipe) uniqueProducts() []Product {
	seen := make(map[int64]struct{}, len(r.Products))
	out := make([]Product, 0, len(r.Products))
	for _, p := range r.Products {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}

type CartRecipeLine struct {
	Recipe   Recipe
	Quantity int32
}

func (l CartRecipeLine) RecipeID() int64 { return l.Recipe.ID }

type CartProductLine struct {
	ProductID      int64
	Name           string
	UnitPriceCents int64
	Quantity       int32
}

func (l CartProductLine) LineTotal() Money {
	return Money{Cents: l.UnitPriceCents}.Mul(l.Quantity)
}

// Cart es el agregado. Solo AddRecipe y RemoveRecipe cambian sus lineas;
// el total siempre se deriva de las lineas de producto.
type Cart struct {
	ID int64

	totalInCents int64
	recipes      map[int64]*CartRecipeLine
	items        map[int64]*CartProductLine
}

func NewCart(id int64) *Cart {
	return &Cart{
		ID:      id,
		recipes: make(map[int64]*CartRecipeLine),
		items:   make(map[int64]*CartProductLine),
	}
}

func (c *Cart) TotalInCents() int64 { return c.totalInCents }

func (c *Cart) Total() Money { return Money{Cents: c.totalInCents} }

func (c *Cart) IsEmpty() bool { return len(c.recipes) == 0 && len(c.items) == 0 }

func (c *Cart) RecipeLine(recipeID int64) (CartRecipeLine, bool) {
	l, ok := c.recipes[recipeID]
	if !ok {
		return CartRecipeLine{}, false
	}
	return *l, true
}

func (c *Cart) ProductLine(productID int64) (CartProductLine, bool) {
	l, ok := c.items[productID]
	if !ok {
		return CartProductLine{}, false
	}
	return *l, true
}

// RecipeLines devuelve copias ordenadas por id de receta.
func (c *Cart) RecipeLines() []CartRecipeLine {
	out := make([]CartRecipeLine, 0, len(c.recipes))
	for _, l := range c.recipes {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecipeID() < out[j].RecipeID() })
	return out
}

// ProductLines devuelve copias ordenadas por id de producto.
func (c *Cart) ProductLines() []CartProductLine {
	out := make([]CartProductLine, 0, len(c.items))
	for _, l := range c.items {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

type Money struct{ Cents int64 }

func (m Money) Add(o Money) Money   { return Money{Cents: m.Cents + o.Cents} }
func (m Money) Mul(qty int32) Money { return Money{Cents: m.Cents * int64(qty)} }
func (m Money) String() string      { return formatCents(m.Cents) }
