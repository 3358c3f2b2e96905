package main

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
)

// cachedRecipes pone un LRU delante del repositorio de recetas. El catalogo
// es inmutable, asi que no hace falta invalidar entradas.
type cachedRecipes struct {
	next  RecipeRepository
	cache *lru.Cache[int64, Recipe]
}

func NewCachedRecipes(next RecipeRepository, size int) (RecipeRepository, error) {
	if size <= 0 {
		return next, nil
	}
	c, err := lru.New[int64, Recipe](size)
	if err != nil {
		return nil, err
	}
	return &cachedRecipes{next: next, cache: c}, nil
}

func (c *cachedRecipes) GetRecipe(ctx context.Context, recipeID int64) (Recipe, error) {
	if rc, ok := c.cache.Get(recipeID); ok {
		return rc, nil
	}
	rc, err := c.next.GetRecipe(ctx, recipeID)
	if err != nil {
		return Recipe{}, err
	}
	c.cache.Add(recipeID, rc)
	log.Debug().Int64("recipe", recipeID).Int("cached", c.cache.Len()).Msg("recipe cache miss")
	return rc, nil
}

func (c *cachedRecipes) ListRecipes(ctx context.Context) ([]Recipe, error) {
	out, err := c.next.ListRecipes(ctx)
	if err != nil {
		return nil, err
	}
	for _, rc := range out {
		c.cache.Add(rc.ID, rc)
	}
	return out, nil
}
