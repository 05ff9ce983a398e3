package matching

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantfold/matchsim/internal/types"
)

// Registry owns the set of outstanding orders for an engine. Orders are
// copied in on submit and copied out on read; nothing outside the
// matching package ever holds a pointer into the registry.
//
// Iteration over active orders follows submission order so that a
// replay of the same inputs produces the same trades.
type Registry struct {
	orders   map[string]*types.Order
	arrivals map[string]time.Time
	sequence []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		orders:   make(map[string]*types.Order),
		arrivals: make(map[string]time.Time),
	}
}

// Submit adds a pending order. The order's CreatedAt stamp is recorded
// as its queue arrival time. Duplicate ids are rejected.
func (r *Registry) Submit(o *types.Order) error {
	if _, exists := r.orders[o.ID]; exists {
		return ErrDuplicateOrder
	}

	held := *o
	r.orders[o.ID] = &held
	r.arrivals[o.ID] = o.CreatedAt
	r.sequence = append(r.sequence, o.ID)
	return nil
}

// Cancel removes an order. It returns false when the id is unknown,
// including on a second cancel of the same id.
func (r *Registry) Cancel(id string) bool {
	if _, exists := r.orders[id]; !exists {
		return false
	}
	r.remove(id)
	return true
}

// Pending returns a snapshot of the outstanding orders in submission
// order. The snapshot does not reflect later mutations.
func (r *Registry) Pending() []types.Order {
	out := make([]types.Order, 0, len(r.orders))
	for _, id := range r.sequence {
		if o, ok := r.orders[id]; ok {
			out = append(out, *o)
		}
	}
	return out
}

// Len returns the number of outstanding orders.
func (r *Registry) Len() int {
	return len(r.orders)
}

// activeOrders yields the registered orders for one symbol, in
// submission order. The returned pointers stay inside the package.
func (r *Registry) activeOrders(symbol string) []*types.Order {
	var out []*types.Order
	for _, id := range r.sequence {
		if o, ok := r.orders[id]; ok && o.Active() && o.Symbol == symbol {
			out = append(out, o)
		}
	}
	return out
}

// arrival returns the recorded queue arrival time for an order.
func (r *Registry) arrival(id string) time.Time {
	return r.arrivals[id]
}

// applyFill books a fill against an order. A full fill removes the
// order from the registry; a partial fill leaves it active with its
// traded volume advanced. Returns the remaining volume after the fill.
func (r *Registry) applyFill(id string, volume decimal.Decimal, at time.Time) decimal.Decimal {
	o, ok := r.orders[id]
	if !ok {
		return decimal.Zero
	}

	o.Traded = o.Traded.Add(volume)
	o.UpdatedAt = at

	remaining := o.Remaining()
	if remaining.IsPositive() {
		o.Status = types.StatusPartiallyFilled
		return remaining
	}

	o.Status = types.StatusFilled
	r.remove(id)
	return decimal.Zero
}

func (r *Registry) remove(id string) {
	delete(r.orders, id)
	delete(r.arrivals, id)
	for i, v := range r.sequence {
		if v == id {
			r.sequence = append(r.sequence[:i], r.sequence[i+1:]...)
			break
		}
	}
}
