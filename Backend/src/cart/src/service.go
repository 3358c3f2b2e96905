package main

import (
	"context"

	"github.com/rs/zerolog/log"
)

type Events interface {
	PublishJSON(ctx context.Context, routingKey string, v any) error
}

// Service orquesta: resuelve ids, delega la logica al agregado Cart y
// persiste. No contiene reglas de negocio.
type Service struct {
	carts   CartRepository
	recipes RecipeRepository
	events  Events
}

func NewService(carts CartRepository, recipes RecipeRepository, events Events) *Service {
	return &Service{carts: carts, recipes: recipes, events: events}
}

func (s *Service) ListRecipes(ctx context.Context) ([]Recipe, error) {
	return s.recipes.ListRecipes(ctx)
}

func (s *Service) GetCart(ctx context.Context, cartID int64) (*Cart, error) {
	return s.carts.GetCart(ctx, cartID)
}

func (s *Service) CreateCart(ctx context.Context) (*Cart, error) {
	c, err := s.carts.CreateCart(ctx)
	if err != nil {
		return nil, err
	}
	log.Info().Int64("cart", c.ID).Msg("cart created")
	return c, nil
}

func (s *Service) AddRecipeToCart(ctx context.Context, cartID, recipeID int64) (*Cart, error) {
	recipe, err := s.recipes.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	c, err := s.carts.UpdateCart(ctx, cartID, func(c *Cart) error {
		c.AddRecipe(recipe)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("cart", cartID).
		Int64("recipe", recipeID).
		Str("total", c.Total().String()).
		Msg("recipe added")
	s.publish(ctx, RKRecipeAdded, newCartRecipeEvent(c, recipeID))
	return c, nil
}

func (s *Service) RemoveRecipeFromCart(ctx context.Context, cartID, recipeID int64) (*Cart, error) {
	c, err := s.carts.UpdateCart(ctx, cartID, func(c *Cart) error {
		return c.RemoveRecipe(recipeID)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("cart", cartID).
		Int64("recipe", recipeID).
		Str("total", c.Total().String()).
		Msg("recipe removed")
	s.publish(ctx, RKRecipeRemoved, newCartRecipeEvent(c, recipeID))
	return c, nil
}

// publish no hace fallar la mutacion: el carrito ya esta guardado.
func (s *Service) publish(ctx context.Context, key string, evt CartRecipeEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishJSON(ctx, key, evt); err != nil {
		log.Warn().Err(err).Str("rk", key).Int64("cart", evt.CartID).Msg("publish event failed")
	}
}
