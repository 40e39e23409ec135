package repository

import (
	"go-storefront-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(order *model.Order) error
	FindAll(sellerID string) ([]model.Order, error)
	FindByID(id uuid.UUID) (*model.Order, error)
	Update(order *model.Order) error
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

func (r *orderRepo) Create(order *model.Order) error {
	return r.db.Create(order).Error
}

// FindAll returns orders newest first, matching the in-memory prepend order.
func (r *orderRepo) FindAll(sellerID string) ([]model.Order, error) {
	var orders []model.Order
	query := r.db.Order("created_at DESC")
	if sellerID != "" {
		query = query.Where("seller_id = ?", sellerID)
	}
	err := query.Find(&orders).Error
	return orders, err
}

func (r *orderRepo) FindByID(id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := r.db.First(&order, "id = ?", id).Error
	return &order, err
}

func (r *orderRepo) Update(order *model.Order) error {
	return r.db.Save(order).Error
}
