package store

import (
	"errors"

	"go-storefront-ws/internal/model"
	"go-storefront-ws/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// remoteBackend persists to the hosted table store through the GORM
// repositories. When sellerID is non-empty every load is scoped to that
// owner's rows.
type remoteBackend struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	profiles repository.ProfileRepository
	sellerID string
}

func NewRemoteBackend(
	products repository.ProductRepository,
	orders repository.OrderRepository,
	profiles repository.ProfileRepository,
	sellerID string,
) Backend {
	return &remoteBackend{
		products: products,
		orders:   orders,
		profiles: profiles,
		sellerID: sellerID,
	}
}

func (b *remoteBackend) Name() string { return "remote" }

func (b *remoteBackend) LoadProducts() ([]model.Product, error) {
	return b.products.FindAll(b.sellerID)
}

func (b *remoteBackend) LoadOrders() ([]model.Order, error) {
	return b.orders.FindAll(b.sellerID)
}

func (b *remoteBackend) LoadProfile() (*model.Profile, error) {
	return b.profiles.First()
}

func (b *remoteBackend) SaveProduct(product *model.Product) error {
	existing, err := b.products.FindByID(product.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return b.products.Create(product)
		}
		return err
	}
	product.CreatedAt = existing.CreatedAt
	return b.products.Update(product)
}

func (b *remoteBackend) UpdateProductStock(id uuid.UUID, expectedStock int, product *model.Product) error {
	return b.products.UpdateStock(id, expectedStock, product)
}

func (b *remoteBackend) DeleteProduct(id uuid.UUID) error {
	return b.products.Delete(id)
}

func (b *remoteBackend) SaveOrder(order *model.Order) error {
	return b.orders.Create(order)
}

func (b *remoteBackend) UpdateOrder(order *model.Order) error {
	return b.orders.Update(order)
}

func (b *remoteBackend) SaveProfile(profile *model.Profile) error {
	return b.profiles.Save(profile)
}
