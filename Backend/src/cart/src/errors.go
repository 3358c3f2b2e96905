package main

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// RecipeNotInCartError se devuelve al quitar una receta que no tiene linea
// en el carrito.
type RecipeNotInCartError struct{ RecipeID int64 }

func (e *RecipeNotInCartError) Error() string {
	return fmt.Sprintf("Recipe with id %d is not in the cart", e.RecipeID)
}

// NotFoundError cubre carritos y recetas inexistentes.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func cartNotFound(id int64) error   { return &NotFoundError{Entity: "Cart", ID: id} }
func recipeNotFound(id int64) error { return &NotFoundError{Entity: "Recipe", ID: id} }
