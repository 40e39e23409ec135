package service

import (
	"errors"
	"fmt"
	"strings"

	"go-storefront-ws/internal/model"
	"go-storefront-ws/internal/store"
	"go-storefront-ws/internal/ws"
	"go-storefront-ws/pkg/validator"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var ErrSKUExists = errors.New("SKU already exists")

type InventoryService interface {
	CreateProduct(req *model.Product, sellerID string) error
	UpdateProduct(id uuid.UUID, req *model.Product, sellerID string) (*model.Product, error)
	DeleteProduct(id uuid.UUID, sellerID string) error
	GetProducts() []model.Product
	GetProduct(id uuid.UUID) (*model.Product, error)
}

type inventoryService struct {
	store *store.Store
	hub   *ws.Hub
	log   zerolog.Logger
}

func NewInventoryService(st *store.Store, hub *ws.Hub, log zerolog.Logger) InventoryService {
	return &inventoryService{store: st, hub: hub, log: log}
}

func (s *inventoryService) CreateProduct(req *model.Product, sellerID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}
	if req.Stock < 0 {
		return errors.New("stock cannot be negative")
	}
	for _, group := range req.Variants {
		for _, opt := range group.Options {
			if opt.Stock < 0 {
				return fmt.Errorf("variant option '%s' stock cannot be negative", opt.Label)
			}
			if opt.PriceAddon < 0 {
				return fmt.Errorf("variant option '%s' price addon cannot be negative", opt.Label)
			}
		}
	}

	for _, existing := range s.store.Products() {
		if strings.EqualFold(existing.SKU, req.SKU) {
			return ErrSKUExists
		}
	}

	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if sellerID != "" {
		req.SellerID = &sellerID
	}

	if err := s.store.AddProduct(req); err != nil {
		return err
	}

	s.hub.Publish("product_created", req)
	s.log.Info().Stringer("product_id", req.ID).Str("sku", req.SKU).Msg("product created")
	return nil
}

// UpdateProduct replaces the editable fields, including global stock. Global
// stock and variant-option stocks are independent figures: an edit here may
// move one without the other, and nothing reconciles them afterwards.
func (s *inventoryService) UpdateProduct(id uuid.UUID, req *model.Product, sellerID string) (*model.Product, error) {
	existing, err := s.store.Product(id)
	if err != nil {
		return nil, err
	}
	if existing.SellerID != nil && sellerID != "" && *existing.SellerID != sellerID {
		return nil, ErrForbidden
	}

	existing.Name = req.Name
	existing.SKU = req.SKU
	existing.Category = req.Category
	existing.Brand = req.Brand
	existing.Description = req.Description
	existing.Price = req.Price
	existing.Stock = clampNonNegative(req.Stock)
	existing.Image = req.Image
	existing.Variants = req.Variants

	if errs := validator.ValidateStruct(existing); len(errs) > 0 {
		first := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}

	if err := s.store.UpdateProduct(existing); err != nil {
		return nil, err
	}

	s.hub.Publish("product_updated", existing)
	return existing, nil
}

func (s *inventoryService) DeleteProduct(id uuid.UUID, sellerID string) error {
	existing, err := s.store.Product(id)
	if err != nil {
		return err
	}
	if existing.SellerID != nil && sellerID != "" && *existing.SellerID != sellerID {
		return ErrForbidden
	}

	if err := s.store.DeleteProduct(id); err != nil {
		return err
	}

	s.hub.Publish("product_deleted", map[string]string{"id": id.String()})
	s.log.Info().Stringer("product_id", id).Msg("product deleted")
	return nil
}

func (s *inventoryService) GetProducts() []model.Product {
	return s.store.Products()
}

func (s *inventoryService) GetProduct(id uuid.UUID) (*model.Product, error) {
	return s.store.Product(id)
}

func clampNonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
