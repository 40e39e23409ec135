package repository

import (
	"errors"

	"go-storefront-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrStockConflict signals that a compare-and-swap stock write found a stock
// figure different from the one the caller read. Another client updated the
// row in between; the caller should reload and retry or give up.
var ErrStockConflict = errors.New("stock was modified by another writer")

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll(sellerID string) ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	Update(product *model.Product) error
	UpdateStock(id uuid.UUID, expectedStock int, product *model.Product) error
	Delete(id uuid.UUID) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll(sellerID string) ([]model.Product, error) {
	var products []model.Product
	query := r.db.Order("created_at DESC")
	if sellerID != "" {
		query = query.Where("user_id = ?", sellerID)
	}
	err := query.Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "id = ?", id).Error
	return &product, err
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

// UpdateStock writes the new global and variant stock figures guarded by the
// stock value the caller read (expected-stock-on-write). Zero affected rows
// means a racing writer changed the row first.
func (r *productRepo) UpdateStock(id uuid.UUID, expectedStock int, product *model.Product) error {
	res := r.db.Model(&model.Product{}).
		Where("id = ? AND stocks = ?", id, expectedStock).
		Updates(map[string]interface{}{
			"stocks":   product.Stock,
			"variants": product.Variants,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStockConflict
	}
	return nil
}

func (r *productRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Product{}, "id = ?", id).Error
}
