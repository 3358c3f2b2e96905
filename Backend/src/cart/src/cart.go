// Operaciones del agregado Cart
package main

import "math"

// AddRecipe suma una unidad de la receta y una unidad de cada uno de sus
// productos. Nunca falla.
func (c *Cart) AddRecipe(recipe Recipe) {
	if line, ok := c.recipes[recipe.ID]; ok {
		// el catalogo es inmutable: se conserva la receta guardada en la linea
		line.Quantity = incQty(line.Quantity)
	} else {
		c.recipes[recipe.ID] = &CartRecipeLine{Recipe: recipe, Quantity: 1}
	}

	for _, p := range recipe.uniqueProducts() {
		if item, ok := c.items[p.ID]; ok {
			item.Quantity = incQty(item.Quantity)
			continue
		}
		c.items[p.ID] = &CartProductLine{
			ProductID:      p.ID,
			Name:           p.Name,
			UnitPriceCents: p.PriceInCents,
			Quantity:       1,
		}
	}

	c.recalculateTotal()
}

// RemoveRecipe resta una unidad de la receta y de cada uno de sus productos.
// Si la receta no esta en el carrito devuelve *RecipeNotInCartError y el
// carrito queda intacto.
func (c *Cart) RemoveRecipe(recipeID int64) error {
	line, ok := c.recipes[recipeID]
	if !ok {
		return &RecipeNotInCartError{RecipeID: recipeID}
	}

	for _, p := range line.Recipe.uniqueProducts() {
		item, ok := c.items[p.ID]
		if !ok {
			// estado previo inconsistente: se ignora ese producto
			continue
		}
		item.Quantity--
		if item.Quantity <= 0 {
			delete(c.items, p.ID)
		}
	}

	line.Quantity--
	if line.Quantity <= 0 {
		delete(c.recipes, recipeID)
	}

	c.recalculateTotal()
	return nil
}

// incQty suma una unidad; en math.MaxInt32 la cantidad se queda fija.
func incQty(q int32) int32 {
	if q == math.MaxInt32 {
		return q
	}
	return q + 1
}

func (c *Cart) recalculateTotal() {
	var total Money
	for _, item := range c.items {
		total = total.Add(item.LineTotal())
	}
	c.totalInCents = total.Cents
}

// restoreCart reconstruye un carrito ya persistido. Las lineas con cantidad
// <= 0 se descartan y el total se vuelve a derivar de las lineas.
func restoreCart(id int64, recipeLines []CartRecipeLine, productLines []CartProductLine) *Cart {
	c := NewCart(id)
	for _, l := range recipeLines {
		if l.Quantity <= 0 {
			continue
		}
		line := l
		c.recipes[l.RecipeID()] = &line
	}
	for _, it := range productLines {
		if it.Quantity <= 0 {
			continue
		}
		item := it
		c.items[it.ProductID] = &item
	}
	c.recalculateTotal()
	return c
}
