package main

import (
	"time"

	"github.com/google/uuid"
)

// Eventos publicados por Cart
const (
	RKRecipeAdded   = "cart.recipe.added"
	RKRecipeRemoved = "cart.recipe.removed"
)

type CartRecipeEvent struct {
	EventID      string        `json:"event_id"`
	CartID       int64         `json:"cart_id"`
	RecipeID     int64         `json:"recipe_id"`
	RecipeQty    int32         `json:"recipe_qty"`
	TotalCents   int64         `json:"total_cents"`
	Items        []CartItemEvt `json:"items"`
	OccurredUnix int64         `json:"occurred_unix"`
}

type CartItemEvt struct {
	ProductID int64 `json:"product_id"`
	Qty       int32 `json:"qty"`
	UnitCents int64 `json:"unit_cents"`
	LineCents int64 `json:"line_cents"`
}

func newCartRecipeEvent(c *Cart, recipeID int64) CartRecipeEvent {
	evt := CartRecipeEvent{
		EventID:      uuid.NewString(),
		CartID:       c.ID,
		RecipeID:     recipeID,
		TotalCents:   c.TotalInCents(),
		OccurredUnix: time.Now().Unix(),
	}
	if line, ok := c.RecipeLine(recipeID); ok {
		evt.RecipeQty = line.Quantity
	}
	for _, it := range c.ProductLines() {
		evt.Items = append(evt.Items, CartItemEvt{
			ProductID: it.ProductID,
			Qty:       it.Quantity,
			UnitCents: it.UnitPriceCents,
			LineCents: it.LineTotal().Cents,
		})
	}
	return evt
}
