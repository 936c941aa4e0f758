package reports

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/greenmart/greenmart/internal/records"
)

// UnknownProduct is the sentinel name substituted when a sale line or a
// returned item cannot be matched against the catalog. The miss is not an
// error; it surfaces only as a zero cost basis in the margin numbers.
const UnknownProduct = "Unknown"

// Snapshot holds the full history of every record kind, fetched in one
// pass before any aggregation begins. A snapshot is either complete or
// absent; the engine never aggregates partial record sets.
type Snapshot struct {
	Sales         []records.Sale
	Wholesale     []records.Sale
	Expenses      []records.Expense
	Returns       []records.Return
	Inventory     []records.InventoryLot
	Products      []records.Product
	Warehouses    []records.Warehouse
	Subscriptions []records.Subscription
}

// LoadSnapshot fetches all record collections concurrently. Every fetch
// must succeed; a single failure aborts the snapshot.
func LoadSnapshot(ctx context.Context, store records.Store) (Snapshot, error) {
	var snap Snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { snap.Sales, err = store.ListSales(ctx); return err })
	g.Go(func() (err error) { snap.Wholesale, err = store.ListWholesaleSales(ctx); return err })
	g.Go(func() (err error) { snap.Expenses, err = store.ListExpenses(ctx); return err })
	g.Go(func() (err error) { snap.Returns, err = store.ListReturns(ctx); return err })
	g.Go(func() (err error) { snap.Inventory, err = store.ListInventory(ctx); return err })
	g.Go(func() (err error) { snap.Products, err = store.ListProducts(ctx); return err })
	g.Go(func() (err error) { snap.Warehouses, err = store.ListWarehouses(ctx); return err })
	g.Go(func() (err error) { snap.Subscriptions, err = store.ListSubscriptions(ctx); return err })
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// CombinedSales merges retail and wholesale sales into one channel-tagged
// sequence, ordered by date then ID for deterministic output.
func (s Snapshot) CombinedSales() []records.Sale {
	combined := make([]records.Sale, 0, len(s.Sales)+len(s.Wholesale))
	for _, sale := range s.Sales {
		if sale.Channel == "" {
			sale.Channel = records.ChannelRetail
		}
		combined = append(combined, sale)
	}
	for _, sale := range s.Wholesale {
		if sale.Channel == "" {
			sale.Channel = records.ChannelWholesale
		}
		combined = append(combined, sale)
	}
	sort.Slice(combined, func(i, j int) bool {
		if !combined[i].Date.Equal(combined[j].Date) {
			return combined[i].Date.Before(combined[j].Date)
		}
		return combined[i].ID < combined[j].ID
	})
	return combined
}

// ProductResolver answers catalog lookups by the two join keys the record
// model uses inconsistently: sale lines carry product names, returned
// items carry product IDs. Call sites pick one key and stick with it.
type ProductResolver struct {
	byName map[string]records.Product
	byID   map[string]records.Product
}

// NewProductResolver indexes the full catalog.
func NewProductResolver(products []records.Product) *ProductResolver {
	r := &ProductResolver{
		byName: make(map[string]records.Product, len(products)),
		byID:   make(map[string]records.Product, len(products)),
	}
	for _, p := range products {
		r.byName[p.Name] = p
		r.byID[p.ID] = p
	}
	return r
}

// ByName looks a product up by its (unique) catalog name.
func (r *ProductResolver) ByName(name string) (records.Product, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// ByID looks a product up by its catalog ID.
func (r *ProductResolver) ByID(id string) (records.Product, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// NameByID resolves a product ID to its name, substituting the sentinel
// when the catalog has no match.
func (r *ProductResolver) NameByID(id string) string {
	if p, ok := r.byID[id]; ok {
		return p.Name
	}
	return UnknownProduct
}

// StockSummary aggregates a product's inventory lots across warehouses.
type StockSummary struct {
	Qty     float64
	Value   float64
	AvgCost float64
}

// Dataset is the joined and filtered view of one snapshot for one period.
// Sales, Expenses and Returns are date-filtered; inventory and the catalog
// indices are global.
type Dataset struct {
	Period   Period
	Resolver *ProductResolver

	Sales    []records.Sale
	Expenses []records.Expense
	Returns  []records.Return

	// Unfiltered views, kept for computations that use their own window
	// (forecasting, period comparison).
	AllSales    []records.Sale
	AllExpenses []records.Expense
	AllReturns  []records.Return

	Inventory     []records.InventoryLot
	Warehouses    []records.Warehouse
	Subscriptions []records.Subscription

	stockByProduct map[string]StockSummary
}

// BuildDataset filters the snapshot by the period and builds the lookup
// indices every report shares.
func BuildDataset(snap Snapshot, period Period) *Dataset {
	d := &Dataset{
		Period:        period,
		Resolver:      NewProductResolver(snap.Products),
		AllSales:      snap.CombinedSales(),
		AllExpenses:   snap.Expenses,
		AllReturns:    snap.Returns,
		Inventory:     snap.Inventory,
		Warehouses:    snap.Warehouses,
		Subscriptions: snap.Subscriptions,
	}

	d.Sales = filterSales(d.AllSales, period)
	for _, e := range snap.Expenses {
		if period.Contains(e.Date) {
			d.Expenses = append(d.Expenses, e)
		}
	}
	for _, ret := range snap.Returns {
		if period.Contains(ret.Date) {
			d.Returns = append(d.Returns, ret)
		}
	}

	d.stockByProduct = make(map[string]StockSummary)
	for _, lot := range snap.Inventory {
		s := d.stockByProduct[lot.ProductID]
		s.Qty += lot.QuantityOnHand
		s.Value += lot.QuantityOnHand * lot.CostPerUnit
		d.stockByProduct[lot.ProductID] = s
	}
	for id, s := range d.stockByProduct {
		s.AvgCost = safeDivide(s.Value, s.Qty, 0)
		d.stockByProduct[id] = s
	}
	return d
}

// StockFor returns the aggregated inventory position for a product ID.
// Products with no lots report a zero position.
func (d *Dataset) StockFor(productID string) StockSummary {
	return d.stockByProduct[productID]
}

// StockForName resolves a product name to its inventory position.
func (d *Dataset) StockForName(name string) StockSummary {
	p, ok := d.Resolver.ByName(name)
	if !ok {
		return StockSummary{}
	}
	return d.StockFor(p.ID)
}

// TotalInventoryValue sums qty*cost across every lot in every warehouse.
func (d *Dataset) TotalInventoryValue() float64 {
	var total float64
	for _, lot := range d.Inventory {
		total += lot.QuantityOnHand * lot.CostPerUnit
	}
	return total
}

func filterSales(sales []records.Sale, period Period) []records.Sale {
	var out []records.Sale
	for _, s := range sales {
		if period.Contains(s.Date) {
			out = append(out, s)
		}
	}
	return out
}
