package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go-storefront-ws/internal/model"

	"github.com/google/uuid"
)

const (
	productsFile = "products.json"
	ordersFile   = "orders.json"
	profileFile  = "profile.json"
)

// localBackend is the device-resident fallback used when no remote store is
// configured: one JSON snapshot file per collection, read at startup and
// rewritten on every change. It keeps its own row view so a single mutated
// row can be folded into the snapshot without consulting the Store. The
// mutex serializes concurrent request handlers against the row view and the
// snapshot files; the Store does not hold its own lock across write-throughs.
type localBackend struct {
	mu       sync.Mutex
	dir      string
	products []model.Product
	orders   []model.Order
	profile  *model.Profile
}

func NewLocalBackend(dir string) (Backend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	b := &localBackend{dir: dir}
	if err := readSnapshot(b.path(productsFile), &b.products); err != nil {
		return nil, err
	}
	if err := readSnapshot(b.path(ordersFile), &b.orders); err != nil {
		return nil, err
	}
	if err := readSnapshot(b.path(profileFile), &b.profile); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *localBackend) Name() string { return "local" }

func (b *localBackend) path(name string) string {
	return filepath.Join(b.dir, name)
}

func readSnapshot(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read snapshot %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return nil
}

func writeSnapshot(path string, in interface{}) error {
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return os.Rename(tmp, path)
}

func (b *localBackend) LoadProducts() ([]model.Product, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Product, len(b.products))
	for i, p := range b.products {
		out[i] = p.Clone()
	}
	return out, nil
}

func (b *localBackend) LoadOrders() ([]model.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Order(nil), b.orders...), nil
}

func (b *localBackend) LoadProfile() (*model.Profile, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.profile == nil {
		return nil, nil
	}
	p := *b.profile
	return &p, nil
}

func (b *localBackend) SaveProduct(product *model.Product) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saveProductLocked(product)
}

func (b *localBackend) saveProductLocked(product *model.Product) error {
	for i := range b.products {
		if b.products[i].ID == product.ID {
			b.products[i] = product.Clone()
			return writeSnapshot(b.path(productsFile), b.products)
		}
	}
	b.products = append([]model.Product{product.Clone()}, b.products...)
	return writeSnapshot(b.path(productsFile), b.products)
}

// UpdateProductStock ignores expectedStock: the snapshot files have a single
// process writing them and the mutex serializes its handlers, so there is no
// racing client to guard against.
func (b *localBackend) UpdateProductStock(id uuid.UUID, expectedStock int, product *model.Product) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saveProductLocked(product)
}

func (b *localBackend) DeleteProduct(id uuid.UUID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.products {
		if b.products[i].ID == id {
			b.products = append(b.products[:i], b.products[i+1:]...)
			return writeSnapshot(b.path(productsFile), b.products)
		}
	}
	return nil
}

func (b *localBackend) SaveOrder(order *model.Order) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.orders = append([]model.Order{*order}, b.orders...)
	return writeSnapshot(b.path(ordersFile), b.orders)
}

func (b *localBackend) UpdateOrder(order *model.Order) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.orders {
		if b.orders[i].ID == order.ID {
			b.orders[i] = *order
			return writeSnapshot(b.path(ordersFile), b.orders)
		}
	}
	return ErrOrderNotFound
}

func (b *localBackend) SaveProfile(profile *model.Profile) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := *profile
	b.profile = &p
	return writeSnapshot(b.path(profileFile), b.profile)
}
