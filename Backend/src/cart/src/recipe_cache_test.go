package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRecipes struct {
	recipes map[int64]Recipe
	gets    int
}

func (c *countingRecipes) GetRecipe(_ context.Context, id int64) (Recipe, error) {
	c.gets++
	rc, ok := c.recipes[id]
	if !ok {
		return Recipe{}, recipeNotFound(id)
	}
	return rc, nil
}

func (c *countingRecipes) ListRecipes(context.Context) ([]Recipe, error) {
	out := make([]Recipe, 0, len(c.recipes))
	for _, rc := range c.recipes {
		out = append(out, rc)
	}
	return out, nil
}

func TestCachedRecipes_HitsCacheAfterFirstGet(t *testing.T) {
	next := &countingRecipes{recipes: map[int64]Recipe{101: cake}}
	repo, err := NewCachedRecipes(next, 4)
	require.NoError(t, err)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		rc, err := repo.GetRecipe(ctx, 101)
		require.NoError(t, err)
		assert.Equal(t, "Cake", rc.Name)
	}
	assert.Equal(t, 1, next.gets)
}

func TestCachedRecipes_NotFoundIsNotCached(t *testing.T) {
	next := &countingRecipes{recipes: map[int64]Recipe{}}
	repo, err := NewCachedRecipes(next, 4)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = repo.GetRecipe(ctx, 5)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetRecipe(ctx, 5)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 2, next.gets)
}

func TestCachedRecipes_ListWarmsCache(t *testing.T) {
	next := &countingRecipes{recipes: map[int64]Recipe{101: cake, 102: pancakes}}
	repo, err := NewCachedRecipes(next, 4)
	require.NoError(t, err)
	ctx := context.Background()

	list, err := repo.ListRecipes(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = repo.GetRecipe(ctx, 102)
	require.NoError(t, err)
	assert.Zero(t, next.gets)
}

func TestCachedRecipes_ZeroSizeDisablesCache(t *testing.T) {
	next := &countingRecipes{recipes: map[int64]Recipe{101: cake}}
	repo, err := NewCachedRecipes(next, 0)
	require.NoError(t, err)
	assert.Same(t, next, repo)
}
