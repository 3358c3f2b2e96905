package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	key string
	evt CartRecipeEvent
}

type fakeEvents struct {
	sent []published
	err  error
}

func (f *fakeEvents) PublishJSON(_ context.Context, key string, v any) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{key: key, evt: v.(CartRecipeEvent)})
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeEvents) {
	t.Helper()
	repo := newTestRepo(t)
	recipes, err := NewCachedRecipes(repo, 8)
	require.NoError(t, err)
	events := &fakeEvents{}
	return NewService(repo, recipes, events), events
}

func TestService_AddRecipeToCart(t *testing.T) {
	svc, events := newTestService(t)
	ctx := context.Background()

	c, err := svc.AddRecipeToCart(ctx, 1, 101)
	require.NoError(t, err)
	assert.Len(t, c.ProductLines(), 3)
	assert.Len(t, c.RecipeLines(), 1)
	assert.Equal(t, int64(650), c.TotalInCents())

	require.Len(t, events.sent, 1)
	evt := events.sent[0]
	assert.Equal(t, RKRecipeAdded, evt.key)
	assert.Equal(t, int64(1), evt.evt.CartID)
	assert.Equal(t, int64(101), evt.evt.RecipeID)
	assert.Equal(t, int32(1), evt.evt.RecipeQty)
	assert.Equal(t, int64(650), evt.evt.TotalCents)
	assert.Len(t, evt.evt.Items, 3)
	assert.NotEmpty(t, evt.evt.EventID)
}

func TestService_OverlapAndRemove(t *testing.T) {
	svc, events := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddRecipeToCart(ctx, 1, 101)
	require.NoError(t, err)
	c, err := svc.AddRecipeToCart(ctx, 1, 102)
	require.NoError(t, err)
	assert.Equal(t, int64(1150), c.TotalInCents())

	c, err = svc.RemoveRecipeFromCart(ctx, 1, 101)
	require.NoError(t, err)
	require.Len(t, c.RecipeLines(), 1)
	assert.Equal(t, int64(102), c.RecipeLines()[0].RecipeID())
	_, ok := c.ProductLine(2)
	assert.False(t, ok)
	assert.Equal(t, int64(500), c.TotalInCents())

	require.Len(t, events.sent, 3)
	last := events.sent[2]
	assert.Equal(t, RKRecipeRemoved, last.key)
	assert.Equal(t, int32(0), last.evt.RecipeQty)
	assert.Equal(t, int64(500), last.evt.TotalCents)
}

func TestService_SameRecipeTwiceThenRemoveTwice(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddRecipeToCart(ctx, 1, 101)
	require.NoError(t, err)
	c, err := svc.AddRecipeToCart(ctx, 1, 101)
	require.NoError(t, err)
	assert.Equal(t, int64(1300), c.TotalInCents())

	c, err = svc.RemoveRecipeFromCart(ctx, 1, 101)
	require.NoError(t, err)
	line, _ := c.RecipeLine(101)
	assert.Equal(t, int32(1), line.Quantity)
	assert.Equal(t, int64(650), c.TotalInCents())

	c, err = svc.RemoveRecipeFromCart(ctx, 1, 101)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, int64(0), c.TotalInCents())
}

func TestService_RemoveRecipeNotInCart(t *testing.T) {
	svc, events := newTestService(t)
	ctx := context.Background()

	_, err := svc.RemoveRecipeFromCart(ctx, 1, 101)

	var notInCart *RecipeNotInCartError
	require.ErrorAs(t, err, &notInCart)
	assert.Equal(t, int64(101), notInCart.RecipeID)
	assert.Empty(t, events.sent)

	c, err := svc.GetCart(ctx, 1)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestService_NotFound(t *testing.T) {
	svc, events := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddRecipeToCart(ctx, 1, 999)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "Recipe with id 999")

	_, err = svc.AddRecipeToCart(ctx, 55, 101)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "Cart with id 55")

	_, err = svc.RemoveRecipeFromCart(ctx, 55, 101)
	require.ErrorIs(t, err, ErrNotFound)

	assert.Empty(t, events.sent)
}

func TestService_PublishFailureDoesNotFailMutation(t *testing.T) {
	svc, events := newTestService(t)
	events.err = errors.New("broker down")
	ctx := context.Background()

	c, err := svc.AddRecipeToCart(ctx, 1, 102)
	require.NoError(t, err)
	assert.Equal(t, int64(500), c.TotalInCents())

	stored, err := svc.GetCart(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(500), stored.TotalInCents())
}

func TestService_CreateCartAndList(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	c, err := svc.CreateCart(ctx)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	recipes, err := svc.ListRecipes(ctx)
	require.NoError(t, err)
	assert.Len(t, recipes, 3)
}

func TestService_NilEvents(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewService(repo, repo, nil)

	c, err := svc.AddRecipeToCart(context.Background(), 1, 101)
	require.NoError(t, err)
	assert.Equal(t, int64(650), c.TotalInCents())
}
