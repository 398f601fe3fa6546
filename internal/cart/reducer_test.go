package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buds(qty int) *Item {
	return &Item{ProductID: "buds-1", Name: "Galaxy Buds", Price: 129.99, Quantity: qty}
}

func TestReduceAdd(t *testing.T) {
	next, err := Reduce(State{}, Action{Type: ActionAdd, Item: buds(2)})
	require.NoError(t, err)
	require.Len(t, next.Items, 1)
	assert.Equal(t, 2, next.Items[0].Quantity)
}

func TestReduceAddMergesQuantity(t *testing.T) {
	state := State{Items: []Item{*buds(2)}}
	next, err := Reduce(state, Action{Type: ActionAdd, Item: buds(3)})
	require.NoError(t, err)
	require.Len(t, next.Items, 1)
	assert.Equal(t, 5, next.Items[0].Quantity)
}

func TestReduceAddValidation(t *testing.T) {
	_, err := Reduce(State{}, Action{Type: ActionAdd})
	assert.Error(t, err)

	_, err = Reduce(State{}, Action{Type: ActionAdd, Item: buds(0)})
	assert.Error(t, err)
}

func TestReduceRemove(t *testing.T) {
	state := State{Items: []Item{*buds(1), {ProductID: "case-1", Price: 19.99, Quantity: 1}}}
	next, err := Reduce(state, Action{Type: ActionRemove, ProductID: "buds-1"})
	require.NoError(t, err)
	require.Len(t, next.Items, 1)
	assert.Equal(t, "case-1", next.Items[0].ProductID)
}

func TestReduceRemoveAbsentProductIsNoop(t *testing.T) {
	state := State{Items: []Item{*buds(1)}}
	next, err := Reduce(state, Action{Type: ActionRemove, ProductID: "ghost"})
	require.NoError(t, err)
	assert.Len(t, next.Items, 1)
}

func TestReduceUpdate(t *testing.T) {
	state := State{Items: []Item{*buds(2)}}
	next, err := Reduce(state, Action{Type: ActionUpdate, ProductID: "buds-1", Quantity: 7})
	require.NoError(t, err)
	assert.Equal(t, 7, next.Items[0].Quantity)
}

func TestReduceUpdateZeroRemovesLine(t *testing.T) {
	state := State{Items: []Item{*buds(2)}}
	next, err := Reduce(state, Action{Type: ActionUpdate, ProductID: "buds-1", Quantity: 0})
	require.NoError(t, err)
	assert.Empty(t, next.Items)
}

func TestReduceUpdateMissingProductErrors(t *testing.T) {
	_, err := Reduce(State{}, Action{Type: ActionUpdate, ProductID: "ghost", Quantity: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in cart")
}

func TestReduceClear(t *testing.T) {
	state := State{Items: []Item{*buds(2)}}
	next, err := Reduce(state, Action{Type: ActionClear})
	require.NoError(t, err)
	assert.Empty(t, next.Items)
}

func TestReduceUnknownAction(t *testing.T) {
	_, err := Reduce(State{}, Action{Type: "checkout"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown cart action")
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	state := State{Items: []Item{*buds(2)}}

	next, err := Reduce(state, Action{Type: ActionUpdate, ProductID: "buds-1", Quantity: 9})
	require.NoError(t, err)

	assert.Equal(t, 2, state.Items[0].Quantity)
	assert.Equal(t, 9, next.Items[0].Quantity)
}

func TestSubtotalAndCount(t *testing.T) {
	state := State{Items: []Item{
		{ProductID: "a", Price: 10, Quantity: 2},
		{ProductID: "b", Price: 5.5, Quantity: 3},
	}}

	assert.InDelta(t, 36.5, state.Subtotal(), 0.0001)
	assert.Equal(t, 5, state.Count())
}
