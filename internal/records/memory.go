package records

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store used by tests and demo mode. Readers
// receive copies, so a snapshot taken by the engine never observes later
// writes.
type MemoryStore struct {
	mu            sync.RWMutex
	sales         []Sale
	wholesale     []Sale
	expenses      []Expense
	returns       []Return
	inventory     []InventoryLot
	products      []Product
	warehouses    []Warehouse
	subscriptions []Subscription
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) ListSales(ctx context.Context) ([]Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.sales), nil
}

func (s *MemoryStore) ListWholesaleSales(ctx context.Context) ([]Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.wholesale), nil
}

func (s *MemoryStore) ListExpenses(ctx context.Context) ([]Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.expenses), nil
}

func (s *MemoryStore) ListReturns(ctx context.Context) ([]Return, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.returns), nil
}

func (s *MemoryStore) ListInventory(ctx context.Context) ([]InventoryLot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.inventory), nil
}

func (s *MemoryStore) ListProducts(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.products), nil
}

func (s *MemoryStore) ListWarehouses(ctx context.Context) ([]Warehouse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.warehouses), nil
}

func (s *MemoryStore) ListSubscriptions(ctx context.Context) ([]Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.subscriptions), nil
}

// AddSale appends a retail or wholesale sale according to its channel.
func (s *MemoryStore) AddSale(sale Sale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sale.Channel == ChannelWholesale {
		s.wholesale = append(s.wholesale, sale)
		return
	}
	s.sales = append(s.sales, sale)
}

func (s *MemoryStore) AddExpense(e Expense) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = append(s.expenses, e)
}

func (s *MemoryStore) AddReturn(r Return) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.returns = append(s.returns, r)
}

func (s *MemoryStore) AddInventoryLot(lot InventoryLot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inventory = append(s.inventory, lot)
}

func (s *MemoryStore) AddProduct(p Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, p)
}

func (s *MemoryStore) AddWarehouse(w Warehouse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warehouses = append(s.warehouses, w)
}

func (s *MemoryStore) AddSubscription(sub Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscriptions = append(s.subscriptions, sub)
}

func copySlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
