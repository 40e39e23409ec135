package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go-storefront-ws/internal/model"
	"go-storefront-ws/internal/service"
	"go-storefront-ws/pkg/ai"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	reply string
	err   error

	gotMessages []ai.Message
}

func (c *fakeCompleter) Complete(ctx context.Context, messages []ai.Message) (string, error) {
	c.gotMessages = messages
	return c.reply, c.err
}

func newAssistant(t *testing.T, backend *fakeBackend, completer ai.Completer) (service.AssistantService, service.OrderService) {
	t.Helper()
	st := newTestStore(t, backend)
	orders := service.NewOrderService(st, newTestHub(), zerolog.Nop())
	return service.NewAssistantService(st, orders, completer, 0, zerolog.Nop()), orders
}

func TestChatPlainReply(t *testing.T) {
	completer := &fakeCompleter{reply: "Halo! Ada yang bisa saya bantu?"}
	assistant, _ := newAssistant(t, &fakeBackend{}, completer)

	out := assistant.Chat(context.Background(), []ai.Message{{Role: "user", Content: "halo"}})
	assert.Equal(t, "Halo! Ada yang bisa saya bantu?", out.Reply)
	assert.Nil(t, out.PendingPayment)
	assert.Nil(t, out.CancelResult)

	// the conversation is prefixed with a system turn carrying store context
	require.NotEmpty(t, completer.gotMessages)
	assert.Equal(t, "system", completer.gotMessages[0].Role)
	assert.Equal(t, "user", completer.gotMessages[1].Role)
}

func TestChatCompletionFailure(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("upstream 502")}
	assistant, _ := newAssistant(t, &fakeBackend{}, completer)

	out := assistant.Chat(context.Background(), []ai.Message{{Role: "user", Content: "halo"}})
	assert.Equal(t, ai.FallbackReply, out.Reply)
}

func TestChatPaymentAction(t *testing.T) {
	completer := &fakeCompleter{
		reply: "Baik, pesanan siap diproses.\n~~~{\"action\": \"PAYMENT\", \"product\": \"Kemeja Flanel\", \"qty\": 2, \"name\": \"Budi\", \"phone\": \"0811\", \"location\": \"Bandung\", \"variants\": \"Size: L\"}~~~",
	}
	assistant, _ := newAssistant(t, &fakeBackend{}, completer)

	out := assistant.Chat(context.Background(), []ai.Message{{Role: "user", Content: "saya mau beli"}})
	assert.Equal(t, "Baik, pesanan siap diproses.", out.Reply)
	require.NotNil(t, out.PendingPayment)
	assert.Equal(t, "Kemeja Flanel", out.PendingPayment.Product)
	assert.Equal(t, 2, out.PendingPayment.Qty)
	assert.Equal(t, "Size: L", out.PendingPayment.Variants)
}

func TestChatCancelAction(t *testing.T) {
	product := testProduct(10, nil)
	order := model.Order{
		BaseModel: model.BaseModel{ID: uuid.New()},
		ProductID: product.ID,
		Quantity:  3,
		Status:    model.StatusPackaging,
	}
	backend := &fakeBackend{products: []model.Product{product}, orders: []model.Order{order}}

	completer := &fakeCompleter{
		reply: fmt.Sprintf("Baik, saya batalkan.\n~~~{\"action\": \"CANCEL_ORDER\", \"orderId\": \"%s\", \"reason\": \"berubah pikiran\"}~~~", order.ID),
	}
	assistant, orders := newAssistant(t, backend, completer)

	out := assistant.Chat(context.Background(), []ai.Message{{Role: "user", Content: "batalkan pesanan saya"}})
	require.NotNil(t, out.CancelResult)
	assert.True(t, out.CancelResult.Success)

	canceled, err := orders.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCanceled, canceled.Status)
	assert.Equal(t, "berubah pikiran", canceled.CancelReason)
}

func TestChatActionWithTrailingText(t *testing.T) {
	product := testProduct(10, nil)
	order := model.Order{
		BaseModel: model.BaseModel{ID: uuid.New()},
		ProductID: product.ID,
		Quantity:  3,
		Status:    model.StatusPackaging,
	}
	backend := &fakeBackend{products: []model.Product{product}, orders: []model.Order{order}}

	// the model often appends pleasantries after the closing delimiter
	completer := &fakeCompleter{
		reply: fmt.Sprintf("Baik.\n~~~{\"action\": \"CANCEL_ORDER\", \"orderId\": \"%s\", \"reason\": \"berubah pikiran\"}~~~ Terima kasih sudah menghubungi kami!", order.ID),
	}
	assistant, orders := newAssistant(t, backend, completer)

	out := assistant.Chat(context.Background(), []ai.Message{{Role: "user", Content: "batalkan"}})
	assert.Equal(t, "Baik.", out.Reply)
	require.NotNil(t, out.CancelResult)
	assert.True(t, out.CancelResult.Success)

	canceled, err := orders.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCanceled, canceled.Status)
}

func TestChatCancelActionBadOrderID(t *testing.T) {
	completer := &fakeCompleter{
		reply: "~~~{\"action\": \"CANCEL_ORDER\", \"orderId\": \"not-a-uuid\", \"reason\": \"x\"}~~~",
	}
	assistant, _ := newAssistant(t, &fakeBackend{}, completer)

	out := assistant.Chat(context.Background(), nil)
	require.NotNil(t, out.CancelResult)
	assert.False(t, out.CancelResult.Success)
	assert.Equal(t, "Pesanan tidak ditemukan di database.", out.CancelResult.Message)
}

func TestChatMalformedActionBlock(t *testing.T) {
	completer := &fakeCompleter{reply: "Oke.\n~~~{tidak valid}~~~"}
	assistant, _ := newAssistant(t, &fakeBackend{}, completer)

	out := assistant.Chat(context.Background(), nil)
	assert.Equal(t, "Oke.", out.Reply)
	assert.Nil(t, out.PendingPayment)
	assert.Nil(t, out.CancelResult)
}

func TestConfirmPaymentPlacesOrder(t *testing.T) {
	product := testProduct(10, nil)
	assistant, orders := newAssistant(t, &fakeBackend{products: []model.Product{product}}, &fakeCompleter{})

	action := &service.PaymentAction{
		Action:   "PAYMENT",
		Product:  "kemeja",
		Qty:      2,
		Name:     "Budi",
		Phone:    "0811",
		Location: "Bandung",
	}
	order, err := assistant.ConfirmPayment(context.Background(), action, "QRIS")
	require.NoError(t, err)
	assert.Equal(t, product.ID, order.ProductID)
	assert.Equal(t, "QRIS", order.PaymentMethod)
	assert.Equal(t, model.StatusPackaging, order.Status)

	listed := orders.GetOrders()
	require.Len(t, listed, 1)
	assert.Equal(t, order.ID, listed[0].ID)
}

func TestConfirmPaymentUnknownProduct(t *testing.T) {
	assistant, _ := newAssistant(t, &fakeBackend{}, &fakeCompleter{})

	action := &service.PaymentAction{Product: "tidak ada", Qty: 1, Name: "Budi", Phone: "0811", Location: "Bandung"}
	_, err := assistant.ConfirmPayment(context.Background(), action, "QRIS")
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}

func TestConfirmPaymentRejectsInvalidAction(t *testing.T) {
	assistant, _ := newAssistant(t, &fakeBackend{}, &fakeCompleter{})

	_, err := assistant.ConfirmPayment(context.Background(), nil, "QRIS")
	assert.Error(t, err)

	_, err = assistant.ConfirmPayment(context.Background(), &service.PaymentAction{Product: "x", Qty: 0}, "QRIS")
	assert.Error(t, err)
}
