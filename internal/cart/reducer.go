// Package cart implements the shopping cart as a pure state-transition
// function over a discriminated action union, plus a redis-backed session
// store for the resulting state.
package cart

import (
	"fmt"
)

// ActionType discriminates cart actions.
type ActionType string

const (
	ActionAdd    ActionType = "add"
	ActionRemove ActionType = "remove"
	ActionUpdate ActionType = "update"
	ActionClear  ActionType = "clear"
)

// Item is one cart line.
type Item struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"imageUrl,omitempty"`
}

// State is the full cart state for one session.
type State struct {
	Items []Item `json:"items"`
}

// Action is a tagged cart mutation. Item is required for add, ProductID for
// remove and update, Quantity for update.
type Action struct {
	Type      ActionType `json:"type" binding:"required"`
	Item      *Item      `json:"item,omitempty"`
	ProductID string     `json:"productId,omitempty"`
	Quantity  int        `json:"quantity,omitempty"`
}

// Reduce applies one action to a state and returns the next state. The input
// state is never mutated; callers can rely on the previous value staying
// valid. Unknown action types and malformed payloads return an error with the
// state unchanged.
func Reduce(state State, action Action) (State, error) {
	switch action.Type {
	case ActionAdd:
		if action.Item == nil || action.Item.ProductID == "" {
			return state, fmt.Errorf("add action requires an item with productId")
		}
		if action.Item.Quantity <= 0 {
			return state, fmt.Errorf("add action requires a positive quantity")
		}
		next := cloneItems(state.Items)
		for i := range next {
			if next[i].ProductID == action.Item.ProductID {
				next[i].Quantity += action.Item.Quantity
				return State{Items: next}, nil
			}
		}
		return State{Items: append(next, *action.Item)}, nil

	case ActionRemove:
		if action.ProductID == "" {
			return state, fmt.Errorf("remove action requires productId")
		}
		next := make([]Item, 0, len(state.Items))
		for _, it := range state.Items {
			if it.ProductID != action.ProductID {
				next = append(next, it)
			}
		}
		return State{Items: next}, nil

	case ActionUpdate:
		if action.ProductID == "" {
			return state, fmt.Errorf("update action requires productId")
		}
		if action.Quantity < 0 {
			return state, fmt.Errorf("update action requires a non-negative quantity")
		}
		// Quantity zero removes the line, matching remove semantics.
		if action.Quantity == 0 {
			return Reduce(state, Action{Type: ActionRemove, ProductID: action.ProductID})
		}
		next := cloneItems(state.Items)
		for i := range next {
			if next[i].ProductID == action.ProductID {
				next[i].Quantity = action.Quantity
				return State{Items: next}, nil
			}
		}
		return state, fmt.Errorf("product %s not in cart", action.ProductID)

	case ActionClear:
		return State{Items: []Item{}}, nil

	default:
		return state, fmt.Errorf("unknown cart action %q", action.Type)
	}
}

// Subtotal returns the sum of price*quantity across all lines.
func (s State) Subtotal() float64 {
	var total float64
	for _, it := range s.Items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// Count returns the total unit count across all lines.
func (s State) Count() int {
	var n int
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

func cloneItems(items []Item) []Item {
	next := make([]Item, len(items))
	copy(next, items)
	return next
}
