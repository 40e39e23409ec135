package store

import (
	"errors"

	"go-storefront-ws/internal/model"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
)

// Backend is the persistence side of the store. Two implementations exist:
// the remote table store (preferred) and a local JSON snapshot fallback.
// Which one is active is decided once at startup by a static configuration
// presence check.
//
// UpdateProductStock carries the stock figure the caller read so the remote
// implementation can reject racing writers (expected-stock-on-write). The
// local implementation has a single writer and ignores it.
type Backend interface {
	Name() string
	LoadProducts() ([]model.Product, error)
	LoadOrders() ([]model.Order, error)
	LoadProfile() (*model.Profile, error)
	SaveProduct(product *model.Product) error
	UpdateProductStock(id uuid.UUID, expectedStock int, product *model.Product) error
	DeleteProduct(id uuid.UUID) error
	SaveOrder(order *model.Order) error
	UpdateOrder(order *model.Order) error
	SaveProfile(profile *model.Profile) error
}
