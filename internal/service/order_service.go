package service

import (
	"errors"
	"fmt"

	"go-storefront-ws/internal/model"
	"go-storefront-ws/internal/store"
	"go-storefront-ws/internal/ws"
	"go-storefront-ws/pkg/validator"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrOrderNotFound     = store.ErrOrderNotFound
	ErrProductNotFound   = store.ErrProductNotFound
	ErrForbidden         = errors.New("order belongs to another seller")
)

// Cancellation outcomes are soft results: the message is rendered verbatim
// to the end user by the chat assistant and the admin UI, so no separate
// error translation happens on that path.
type CancelResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

const (
	msgCancelNotFound  = "Pesanan tidak ditemukan di database."
	msgCancelForbidden = "Anda tidak memiliki akses ke pesanan ini."
	msgCancelSuccess   = "Pesanan berhasil dibatalkan dan stok produk telah dikembalikan."
	msgCancelFailed    = "Maaf, terjadi gangguan sistem saat membatalkan pesanan. Silakan coba lagi."
)

// CreateOrderRequest carries everything checkout knows about the purchase.
// Variant choices arrive as structured group/option pairs rather than a
// concatenated display string.
type CreateOrderRequest struct {
	ProductID     uuid.UUID               `json:"id_product" validate:"uuid_required"`
	Quantity      int                     `json:"quantity" validate:"required,gt=0"`
	BuyerName     string                  `json:"buyer_name" validate:"required"`
	BuyerPhone    string                  `json:"buyer_phone" validate:"required"`
	BuyerLocation string                  `json:"buyer_location" validate:"required"`
	PaymentMethod string                  `json:"payment_method" validate:"required"`
	Selections    model.VariantSelections `json:"selected_variants,omitempty"`
}

type OrderService interface {
	CreateOrder(req *CreateOrderRequest) (*model.Order, error)
	AdvanceStatus(orderID uuid.UUID, target model.OrderStatus, sellerID string) (*model.Order, error)
	CancelOrder(orderID uuid.UUID, sellerID, reason string) CancelResult
	GetOrders() []model.Order
	GetOrder(id uuid.UUID) (*model.Order, error)
}

type orderService struct {
	store *store.Store
	hub   *ws.Hub
	log   zerolog.Logger
}

func NewOrderService(st *store.Store, hub *ws.Hub, log zerolog.Logger) OrderService {
	return &orderService{store: st, hub: hub, log: log}
}

// CreateOrder builds the order from the request and the product's current
// name/price snapshot, deducts stock, and persists the row. Orders always
// start in Packaging. A failed order write surfaces to the caller after the
// reconciliation reload has rolled the optimistic append back.
func (s *orderService) CreateOrder(req *CreateOrderRequest) (*model.Order, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}

	product, err := s.store.Product(req.ProductID)
	if err != nil {
		return nil, err
	}

	unitPrice := product.UnitPrice(req.Selections)
	order := &model.Order{
		ProductID:        product.ID,
		SellerID:         product.SellerID,
		ProductName:      product.Name,
		ProductPrice:     unitPrice,
		Quantity:         req.Quantity,
		TotalPrice:       unitPrice * int64(req.Quantity),
		BuyerName:        req.BuyerName,
		BuyerPhone:       req.BuyerPhone,
		BuyerLocation:    req.BuyerLocation,
		PaymentMethod:    req.PaymentMethod,
		SelectedVariants: req.Selections.Label(),
		Status:           model.StatusPackaging,
	}
	order.ID = uuid.New()

	// Stock moves first; a write-through failure here is logged and
	// reconciled but does not block the order (fire-and-forget policy for
	// stock updates).
	stockDeducted := true
	if _, err := s.store.ApplyStockDelta(product.ID, req.Quantity, req.Selections); err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return nil, err
		}
		stockDeducted = false
		s.log.Warn().Err(err).Stringer("product_id", product.ID).Msg("stock deduction write failed")
	}

	if err := s.store.InsertOrder(order); err != nil {
		// the deduction was written through durably, so give it back: no
		// order may hold stock after a failed insert
		if stockDeducted {
			if _, rerr := s.store.ApplyStockDelta(product.ID, -req.Quantity, req.Selections); rerr != nil {
				s.log.Warn().Err(rerr).Stringer("product_id", product.ID).Msg("stock restore after failed order write failed")
			}
		}
		return nil, err
	}

	s.hub.Publish("order_created", order)
	s.log.Info().Stringer("order_id", order.ID).Int("quantity", order.Quantity).Msg("order created")
	return order, nil
}

// AdvanceStatus moves an order one step along the fixed forward path.
// Anything else, including jumps and moves out of a terminal state, is
// rejected. Stock is never touched here.
func (s *orderService) AdvanceStatus(orderID uuid.UUID, target model.OrderStatus, sellerID string) (*model.Order, error) {
	order, err := s.store.Order(orderID)
	if err != nil {
		return nil, err
	}
	if !order.OwnedBy(sellerID) {
		return nil, ErrForbidden
	}
	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, target)
	}
	if !order.Status.CanAdvanceTo(target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, target)
	}

	order.Status = target
	if err := s.store.UpdateOrder(order); err != nil {
		return nil, err
	}

	s.hub.Publish("order_status", order)
	s.log.Info().Stringer("order_id", order.ID).Str("status", string(target)).Msg("order advanced")
	return order, nil
}

// CancelOrder performs the gated cancellation: only orders still in
// Packaging can be canceled, a reason is recorded, and the deducted stock is
// restored. Cancellation is not idempotent; a second attempt on the same
// order fails because its status is no longer Packaging.
func (s *orderService) CancelOrder(orderID uuid.UUID, sellerID, reason string) CancelResult {
	order, err := s.store.Order(orderID)
	if err != nil {
		return CancelResult{Success: false, Message: msgCancelNotFound}
	}
	if !order.OwnedBy(sellerID) {
		return CancelResult{Success: false, Message: msgCancelForbidden}
	}
	if order.Status != model.StatusPackaging {
		return CancelResult{
			Success: false,
			Message: fmt.Sprintf("Maaf, pesanan statusnya sudah \"%s\" dan tidak dapat dibatalkan secara otomatis.", order.Status),
		}
	}

	order.Status = model.StatusCanceled
	order.CancelReason = reason
	if err := s.store.UpdateOrder(order); err != nil {
		s.log.Error().Err(err).Stringer("order_id", orderID).Msg("cancel write failed")
		return CancelResult{Success: false, Message: msgCancelFailed}
	}

	// Restore stock with the negated quantity. The floor clamp on the
	// consume side is not reversible: restoring adds back exactly the order
	// quantity even when the deduction bottomed out at zero.
	if _, err := s.store.ApplyStockDelta(order.ProductID, -order.Quantity, order.Selections()); err != nil {
		s.log.Warn().Err(err).Stringer("order_id", orderID).Msg("stock restore write failed")
	}

	s.hub.Publish("order_canceled", order)
	s.log.Info().Stringer("order_id", order.ID).Str("reason", reason).Msg("order canceled")
	return CancelResult{Success: true, Message: msgCancelSuccess}
}

func (s *orderService) GetOrders() []model.Order {
	return s.store.Orders()
}

func (s *orderService) GetOrder(id uuid.UUID) (*model.Order, error) {
	return s.store.Order(id)
}
