package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go-storefront-ws/internal/model"
	"go-storefront-ws/internal/store"
	"go-storefront-ws/pkg/ai"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AssistantService glues the chat assistant to the order engine. The AI
// collaborator emits ~~~-delimited JSON action blocks inside its reply; this
// service parses them and drives the lifecycle manager. The engine itself
// never sees AI output.
type AssistantService interface {
	Chat(ctx context.Context, messages []ai.Message) ChatReply
	ConfirmPayment(ctx context.Context, action *PaymentAction, method string) (*model.Order, error)
}

// PaymentAction is the structured order intent the assistant emits once the
// buyer has supplied name, phone, address and quantity. Order creation waits
// for a separate payment confirmation step.
type PaymentAction struct {
	Action   string `json:"action"`
	Product  string `json:"product"`
	Qty      int    `json:"qty"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Variants string `json:"variants,omitempty"`
}

type cancelAction struct {
	Action  string `json:"action"`
	OrderID string `json:"orderId"`
	Reason  string `json:"reason"`
}

type ChatReply struct {
	Reply          string         `json:"reply"`
	PendingPayment *PaymentAction `json:"pending_payment,omitempty"`
	CancelResult   *CancelResult  `json:"cancel_result,omitempty"`
}

type assistantService struct {
	store       *store.Store
	orders      OrderService
	completer   ai.Completer
	settleDelay time.Duration
	log         zerolog.Logger
}

func NewAssistantService(st *store.Store, orders OrderService, completer ai.Completer, settleDelay time.Duration, log zerolog.Logger) AssistantService {
	return &assistantService{
		store:       st,
		orders:      orders,
		completer:   completer,
		settleDelay: settleDelay,
		log:         log,
	}
}

// Chat forwards the conversation with a freshly built system prompt and
// dispatches any embedded action block. A failed completion degrades to the
// fixed apology reply; no action is ever executed on a failed call.
func (s *assistantService) Chat(ctx context.Context, messages []ai.Message) ChatReply {
	turns := append([]ai.Message{{Role: "system", Content: s.systemPrompt()}}, messages...)

	reply, err := s.completer.Complete(ctx, turns)
	if err != nil {
		s.log.Error().Err(err).Msg("completion call failed")
		return ChatReply{Reply: ai.FallbackReply}
	}

	// The action block is the segment between the first pair of ~~~
	// delimiters; the model may append pleasantries after the closing one.
	parts := strings.Split(reply, "~~~")
	out := ChatReply{Reply: strings.TrimSpace(parts[0])}
	if len(parts) < 2 {
		return out
	}
	actionBlock := strings.TrimSpace(parts[1])

	var probe struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal([]byte(actionBlock), &probe); err != nil {
		s.log.Warn().Err(err).Msg("unparseable action block, showing text only")
		return out
	}

	switch probe.Action {
	case "PAYMENT":
		var action PaymentAction
		if err := json.Unmarshal([]byte(actionBlock), &action); err == nil {
			out.PendingPayment = &action
		}
	case "CANCEL_ORDER":
		var action cancelAction
		if err := json.Unmarshal([]byte(actionBlock), &action); err != nil {
			return out
		}
		orderID, err := uuid.Parse(action.OrderID)
		if err != nil {
			out.CancelResult = &CancelResult{Success: false, Message: msgCancelNotFound}
			return out
		}
		result := s.orders.CancelOrder(orderID, "", action.Reason)
		out.CancelResult = &result
	}
	return out
}

// ConfirmPayment runs the simulated settlement delay and then places the
// order. There is no real gateway behind this; the delay stands in for one.
func (s *assistantService) ConfirmPayment(ctx context.Context, action *PaymentAction, method string) (*model.Order, error) {
	if action == nil || action.Qty <= 0 {
		return nil, fmt.Errorf("invalid payment action")
	}

	product, err := s.findProductByName(action.Product)
	if err != nil {
		return nil, err
	}

	select {
	case <-time.After(s.settleDelay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return s.orders.CreateOrder(&CreateOrderRequest{
		ProductID:     product.ID,
		Quantity:      action.Qty,
		BuyerName:     action.Name,
		BuyerPhone:    action.Phone,
		BuyerLocation: action.Location,
		PaymentMethod: method,
		Selections:    model.ParseVariantLabel(action.Variants),
	})
}

func (s *assistantService) findProductByName(name string) (*model.Product, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, store.ErrProductNotFound
	}
	for _, p := range s.store.Products() {
		if strings.Contains(strings.ToLower(p.Name), name) {
			product := p
			return &product, nil
		}
	}
	return nil, store.ErrProductNotFound
}

// systemPrompt embeds the live product and order context so the assistant
// can answer availability and status questions without extra round trips.
func (s *assistantService) systemPrompt() string {
	type productCtx struct {
		Name  string `json:"name"`
		Price int64  `json:"price"`
		Stock int    `json:"stock"`
	}
	type orderCtx struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Buyer  string `json:"buyer"`
		Item   string `json:"item"`
	}

	var productList []productCtx
	for _, p := range s.store.Products() {
		productList = append(productList, productCtx{Name: p.Name, Price: p.Price, Stock: p.Stock})
	}
	var orderList []orderCtx
	for _, o := range s.store.Orders() {
		orderList = append(orderList, orderCtx{ID: o.ID.String(), Status: string(o.Status), Buyer: o.BuyerName, Item: o.ProductName})
	}

	productsJSON, _ := json.Marshal(productList)
	ordersJSON, _ := json.Marshal(orderList)

	return fmt.Sprintf(`Kamu adalah asisten toko yang cerdas dan ramah.

DATA KONTEKS:
- Produk Tersedia: %s
- Database Pesanan: %s

TUGAS UTAMA:
1. Jawab pertanyaan produk dengan ramah menggunakan Markdown.
2. PEMESANAN: Jika user ingin membeli, minta Nama, No HP, Alamat Lengkap dan Jumlah Pesanan.
   SETELAH semua data lengkap, keluarkan JSON:
   ~~~{"action": "PAYMENT", "product": "nama_produk", "qty": 1, "name": "user", "phone": "08x", "location": "Alamat user...", "variants": "Warna: Merah"}~~~
   JANGAN memberikan instruksi transfer manual di teks.
3. PEMBATALAN: Cari ID pesanan. Jika statusnya Packaging, tanya alasan.
   SETELAH alasan diberikan, keluarkan JSON: ~~~{"action": "CANCEL_ORDER", "orderId": "...", "reason": "alasan"}~~~

Aturan: Gunakan Bahasa Indonesia. Bold bagian penting. Jangan bertele-tele saat data order sudah lengkap.`,
		productsJSON, ordersJSON)
}
