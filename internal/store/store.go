package store

import (
	"fmt"
	"sync"

	"go-storefront-ws/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Store owns the in-memory product/order collections and the active
// persistence backend. It is constructed once at application start and
// injected into the services; there is no ambient singleton.
//
// Every mutation is applied to the collections first and then written
// through to the backend. When a backend write fails the store reloads the
// authoritative state wholesale, discarding the optimistic change. There is
// no retry queue and no conflict merge; this mirrors the original engine's
// optimistic-then-reload-on-failure policy.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	log     zerolog.Logger

	products []model.Product
	orders   []model.Order
	profile  *model.Profile
}

func New(backend Backend, log zerolog.Logger) *Store {
	return &Store{
		backend: backend,
		log:     log.With().Str("backend", backend.Name()).Logger(),
	}
}

// Load fetches the collections from the backend at startup.
func (s *Store) Load() error {
	products, err := s.backend.LoadProducts()
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}
	orders, err := s.backend.LoadOrders()
	if err != nil {
		return fmt.Errorf("load orders: %w", err)
	}
	profile, err := s.backend.LoadProfile()
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}

	s.mu.Lock()
	s.products = products
	s.orders = orders
	s.profile = profile
	s.mu.Unlock()

	s.log.Info().Int("products", len(products)).Int("orders", len(orders)).Msg("collections loaded")
	return nil
}

// reconcile replaces the in-memory collections with the backend's state
// after a failed write. The optimistic change is lost by design.
func (s *Store) reconcile(cause error) {
	s.log.Warn().Err(cause).Msg("write-through failed, reloading authoritative state")
	if err := s.Load(); err != nil {
		s.log.Error().Err(err).Msg("reconciliation reload failed")
	}
}

// Products returns a snapshot copy of the product collection.
func (s *Store) Products() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Product, len(s.products))
	for i, p := range s.products {
		out[i] = p.Clone()
	}
	return out
}

// Orders returns a snapshot copy of the order collection, newest first.
func (s *Store) Orders() []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Order(nil), s.orders...)
}

func (s *Store) Product(id uuid.UUID) (*model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.products {
		if s.products[i].ID == id {
			p := s.products[i].Clone()
			return &p, nil
		}
	}
	return nil, ErrProductNotFound
}

func (s *Store) Order(id uuid.UUID) (*model.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			o := s.orders[i]
			return &o, nil
		}
	}
	return nil, ErrOrderNotFound
}

// AddProduct prepends the product and writes it through.
func (s *Store) AddProduct(product *model.Product) error {
	s.mu.Lock()
	s.products = append([]model.Product{product.Clone()}, s.products...)
	s.mu.Unlock()

	if err := s.backend.SaveProduct(product); err != nil {
		s.reconcile(err)
		return fmt.Errorf("save product: %w", err)
	}
	return nil
}

// UpdateProduct replaces the product row and writes it through.
func (s *Store) UpdateProduct(product *model.Product) error {
	s.mu.Lock()
	found := false
	for i := range s.products {
		if s.products[i].ID == product.ID {
			s.products[i] = product.Clone()
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return ErrProductNotFound
	}

	if err := s.backend.SaveProduct(product); err != nil {
		s.reconcile(err)
		return fmt.Errorf("save product: %w", err)
	}
	return nil
}

func (s *Store) DeleteProduct(id uuid.UUID) error {
	s.mu.Lock()
	found := false
	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return ErrProductNotFound
	}

	if err := s.backend.DeleteProduct(id); err != nil {
		s.reconcile(err)
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// ApplyStockDelta applies a signed stock change to a product. A positive
// delta consumes stock (order creation), a negative delta restores it
// (cancellation); callers negate the order quantity on cancel. Stock never
// goes below zero: both the global figure and every resolved variant option
// are clamped at a floor of zero independently.
//
// Selections that resolve to no option leave the variant side untouched
// while the global figure still moves; not every product has variants.
func (s *Store) ApplyStockDelta(id uuid.UUID, delta int, sels model.VariantSelections) (*model.Product, error) {
	s.mu.Lock()
	idx := -1
	for i := range s.products {
		if s.products[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return nil, ErrProductNotFound
	}

	p := &s.products[idx]
	expected := p.Stock
	p.Stock = clampStock(p.Stock - delta)
	for _, sel := range sels {
		if gi, oi, ok := p.Variants.Option(sel); ok {
			opt := &p.Variants[gi].Options[oi]
			opt.Stock = clampStock(opt.Stock - delta)
		}
	}
	updated := p.Clone()
	s.mu.Unlock()

	if err := s.backend.UpdateProductStock(updated.ID, expected, &updated); err != nil {
		s.reconcile(err)
		return nil, fmt.Errorf("stock write-through: %w", err)
	}
	return &updated, nil
}

// InsertOrder prepends the order (newest-first display convention) and
// writes it through. On a failed write the optimistic append is rolled back
// by the reconciliation reload, so an order is never presented as placed
// without being durably recorded.
func (s *Store) InsertOrder(order *model.Order) error {
	s.mu.Lock()
	s.orders = append([]model.Order{*order}, s.orders...)
	s.mu.Unlock()

	if err := s.backend.SaveOrder(order); err != nil {
		s.reconcile(err)
		return fmt.Errorf("save order: %w", err)
	}
	return nil
}

// UpdateOrder replaces the order row and writes it through.
func (s *Store) UpdateOrder(order *model.Order) error {
	s.mu.Lock()
	found := false
	for i := range s.orders {
		if s.orders[i].ID == order.ID {
			s.orders[i] = *order
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return ErrOrderNotFound
	}

	if err := s.backend.UpdateOrder(order); err != nil {
		s.reconcile(err)
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

func (s *Store) Profile() *model.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil
	}
	p := *s.profile
	return &p
}

func (s *Store) SetProfile(profile *model.Profile) error {
	s.mu.Lock()
	p := *profile
	s.profile = &p
	s.mu.Unlock()

	if err := s.backend.SaveProfile(profile); err != nil {
		s.reconcile(err)
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func clampStock(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
