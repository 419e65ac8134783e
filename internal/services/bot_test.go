package services

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonolocco/bot-wasap/internal/models"
	"github.com/simonolocco/bot-wasap/internal/storage"
)

// sentMessage records one outbound call on the fake messenger.
type sentMessage struct {
	kind    string // "text", "audio", "list", "buttons"
	to      string
	body    string
	buttons []ReplyButton
}

type fakeMessenger struct {
	sent    []sentMessage
	textErr error
}

func (f *fakeMessenger) SendText(to, body string) error {
	if f.textErr != nil {
		return f.textErr
	}
	f.sent = append(f.sent, sentMessage{kind: "text", to: to, body: body})
	return nil
}

func (f *fakeMessenger) SendAudio(to, audioURL string) error {
	f.sent = append(f.sent, sentMessage{kind: "audio", to: to, body: audioURL})
	return nil
}

func (f *fakeMessenger) SendListMenu(to, header, body, buttonLabel string, sections []MenuSection) error {
	f.sent = append(f.sent, sentMessage{kind: "list", to: to, body: body})
	return nil
}

func (f *fakeMessenger) SendButtons(to, body string, buttons []ReplyButton) error {
	f.sent = append(f.sent, sentMessage{kind: "buttons", to: to, body: body, buttons: buttons})
	return nil
}

func (f *fakeMessenger) kinds() []string {
	kinds := make([]string, 0, len(f.sent))
	for _, m := range f.sent {
		kinds = append(kinds, m.kind)
	}
	return kinds
}

func (f *fakeMessenger) reset() { f.sent = nil }

func testConfig() BotConfig {
	return BotConfig{
		DistributorName:     "Distribuidora Test",
		BotFriendlyName:     "TestBot",
		CatalogMayoristaURL: "https://example.com/mayorista.pdf",
		CatalogMinoristaURL: "https://example.com/minorista.pdf",
		ForwardOrderNumber:  "5493510000000",
		ForwardOrderDisplay: "+54 9 351 000-0000",
	}
}

func newTestBot() (*BotService, *fakeMessenger, storage.Store) {
	store := storage.NewMemoryStore()
	messenger := &fakeMessenger{}
	bot := NewBotService(store, messenger, NewSessionRegistry(), testConfig())
	return bot, messenger, store
}

// greetChat runs the first-contact exchange so later steps start from idle.
func greetChat(t *testing.T, bot *BotService, messenger *fakeMessenger, chatID, name string) {
	t.Helper()
	err := bot.HandleMessage(IncomingMessage{
		MessageID:   "greet-" + chatID,
		ChatID:      chatID,
		ProfileName: name,
		Text:        "hola",
	}, "http://localhost:4002")
	require.NoError(t, err)
	messenger.reset()
}

func TestFirstContactOnlyGreets(t *testing.T) {
	t.Parallel()

	bot, messenger, store := newTestBot()

	// Even a full order text on first contact gets the greeting and menu,
	// nothing else.
	err := bot.HandleMessage(IncomingMessage{
		MessageID:   "m1",
		ChatID:      "549351111",
		ProfileName: "Caro",
		Text:        "3 cajas de muzza y 2 hormas pategras",
	}, "http://localhost:4002")
	require.NoError(t, err)

	require.Equal(t, []string{"text", "list"}, messenger.kinds())
	assert.Contains(t, messenger.sent[0].body, "Caro")
	assert.Contains(t, messenger.sent[0].body, "TestBot")

	orders, err := store.ListOrders()
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestFirstContactWithoutProfileName(t *testing.T) {
	t.Parallel()

	bot, messenger, _ := newTestBot()

	err := bot.HandleMessage(IncomingMessage{
		MessageID: "m1",
		ChatID:    "549351111",
		Text:      "hola",
	}, "")
	require.NoError(t, err)

	require.NotEmpty(t, messenger.sent)
	assert.Contains(t, messenger.sent[0].body, "alli")
}

func TestIdleChatterIsIgnored(t *testing.T) {
	t.Parallel()

	bot, messenger, _ := newTestBot()
	greetChat(t, bot, messenger, "549351111", "Caro")

	err := bot.HandleMessage(IncomingMessage{
		MessageID: "m2",
		ChatID:    "549351111",
		Text:      "gracias, todo bien",
	}, "")
	require.NoError(t, err)
	assert.Empty(t, messenger.sent)
}

func TestNumberTextResolvesMenuOption(t *testing.T) {
	t.Parallel()

	bot, messenger, _ := newTestBot()
	greetChat(t, bot, messenger, "549351111", "Caro")

	err := bot.HandleMessage(IncomingMessage{
		MessageID: "m2",
		ChatID:    "549351111",
		Text:      "1",
	}, "")
	require.NoError(t, err)

	require.Equal(t, []string{"text", "list"}, messenger.kinds())
	assert.Contains(t, messenger.sent[0].body, "Nuestros Horarios")
}

func TestPriceListSendsAudio(t *testing.T) {
	t.Parallel()

	bot, messenger, _ := newTestBot()
	greetChat(t, bot, messenger, "549351111", "Caro")

	err := bot.HandleMessage(IncomingMessage{
		MessageID: "m2",
		ChatID:    "549351111",
		OptionID:  OptionListaPrecio,
	}, "http://bot.example.com")
	require.NoError(t, err)

	require.Equal(t, []string{"text", "audio", "list"}, messenger.kinds())
	assert.Contains(t, messenger.sent[0].body, "https://example.com/mayorista.pdf")
	assert.Equal(t, "http://bot.example.com/static/mensaje_bot.ogg", messenger.sent[1].body)
}

func TestOrderFlowConfirm(t *testing.T) {
	t.Parallel()

	bot, messenger, store := newTestBot()
	greetChat(t, bot, messenger, "549351111", "Caro")

	// Pick "Nuevo Pedido".
	err := bot.HandleMessage(IncomingMessage{
		MessageID: "m2",
		ChatID:    "549351111",
		OptionID:  OptionHacerPedido,
	}, "")
	require.NoError(t, err)
	require.Equal(t, []string{"text", "text"}, messenger.kinds())
	assert.Contains(t, messenger.sent[0].body, "Armemos tu pedido")
	messenger.reset()

	// Order text. The leading "3" must not be mistaken for a menu number.
	detail := "3 cajas de muzza, 2 hormas pategras"
	err = bot.HandleMessage(IncomingMessage{
		MessageID: "m3",
		ChatID:    "549351111",
		Text:      detail,
	}, "")
	require.NoError(t, err)

	require.Equal(t, []string{"text", "buttons"}, messenger.kinds())
	assert.Equal(t, "Pedido:\n"+detail, messenger.sent[0].body)
	require.Len(t, messenger.sent[1].buttons, 2)
	assert.Equal(t, ConfirmButtonID, messenger.sent[1].buttons[0].ID)
	assert.Equal(t, CancelButtonID, messenger.sent[1].buttons[1].ID)

	orders, err := store.ListOrders()
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, models.OrderStatusPendingCustomer, orders[0].Status)
	assert.Equal(t, detail, orders[0].Detail)
	messenger.reset()

	// Confirm.
	err = bot.HandleMessage(IncomingMessage{
		MessageID: "m4",
		ChatID:    "549351111",
		Text:      "Si",
		ButtonID:  ConfirmButtonID,
	}, "")
	require.NoError(t, err)

	require.Equal(t, []string{"text", "list"}, messenger.kinds())
	assert.Contains(t, messenger.sent[0].body, "pedido #1")
	wantLink := "https://wa.me/5493510000000?text=" +
		url.QueryEscape("Hola! Soy Caro y este es mi pedido:\n"+detail)
	assert.Contains(t, messenger.sent[0].body, wantLink)

	order, err := store.GetOrder(1)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusSubmitted, order.Status)
}

func TestOrderFlowDecline(t *testing.T) {
	t.Parallel()

	bot, messenger, store := newTestBot()
	greetChat(t, bot, messenger, "549351111", "Caro")

	require.NoError(t, bot.HandleMessage(IncomingMessage{
		MessageID: "m2", ChatID: "549351111", OptionID: OptionHacerPedido,
	}, ""))
	require.NoError(t, bot.HandleMessage(IncomingMessage{
		MessageID: "m3", ChatID: "549351111", Text: "5 uxb leche",
	}, ""))
	messenger.reset()

	err := bot.HandleMessage(IncomingMessage{
		MessageID: "m4",
		ChatID:    "549351111",
		Text:      "No",
		ButtonID:  CancelButtonID,
	}, "")
	require.NoError(t, err)

	require.Equal(t, []string{"text", "list"}, messenger.kinds())
	assert.Contains(t, messenger.sent[0].body, "cancelamos")

	order, err := store.GetOrder(1)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCanceled, order.Status)

	// The canceled order is closed for good.
	_, err = store.SubmitOrder(1)
	assert.ErrorIs(t, err, storage.ErrOrderClosed)
}

func TestEmptyOrderTextReprompts(t *testing.T) {
	t.Parallel()

	bot, messenger, store := newTestBot()
	greetChat(t, bot, messenger, "549351111", "Caro")

	require.NoError(t, bot.HandleMessage(IncomingMessage{
		MessageID: "m2", ChatID: "549351111", OptionID: OptionHacerPedido,
	}, ""))
	messenger.reset()

	err := bot.HandleMessage(IncomingMessage{
		MessageID: "m3",
		ChatID:    "549351111",
		Text:      "   ",
	}, "")
	require.NoError(t, err)

	require.Equal(t, []string{"text"}, messenger.kinds())
	assert.Contains(t, messenger.sent[0].body, "detalle del pedido")

	orders, err := store.ListOrders()
	require.NoError(t, err)
	assert.Empty(t, orders)

	// Still waiting for the order text: the next message is captured.
	messenger.reset()
	require.NoError(t, bot.HandleMessage(IncomingMessage{
		MessageID: "m4", ChatID: "549351111", Text: "2 latas tomate",
	}, ""))
	orders, err = store.ListOrders()
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "2 latas tomate", orders[0].Detail)
}

func TestUnknownReplyDuringConfirmationReprompts(t *testing.T) {
	t.Parallel()

	bot, messenger, store := newTestBot()
	greetChat(t, bot, messenger, "549351111", "Caro")

	require.NoError(t, bot.HandleMessage(IncomingMessage{
		MessageID: "m2", ChatID: "549351111", OptionID: OptionHacerPedido,
	}, ""))
	require.NoError(t, bot.HandleMessage(IncomingMessage{
		MessageID: "m3", ChatID: "549351111", Text: "1 horma danbo",
	}, ""))
	messenger.reset()

	// Free text instead of a button press.
	err := bot.HandleMessage(IncomingMessage{
		MessageID: "m4",
		ChatID:    "549351111",
		Text:      "dale si",
	}, "")
	require.NoError(t, err)

	require.Equal(t, []string{"text"}, messenger.kinds())
	assert.Contains(t, messenger.sent[0].body, "No entendi")

	// The order stays pending until a real button press arrives.
	order, err := store.GetOrder(1)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPendingCustomer, order.Status)

	messenger.reset()
	require.NoError(t, bot.HandleMessage(IncomingMessage{
		MessageID: "m5", ChatID: "549351111", ButtonID: ConfirmButtonID,
	}, ""))
	order, err = store.GetOrder(1)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusSubmitted, order.Status)
}

func TestMenuRowDuringConfirmationReprompts(t *testing.T) {
	t.Parallel()

	bot, messenger, store := newTestBot()
	greetChat(t, bot, messenger, "549351111", "Caro")

	require.NoError(t, bot.HandleMessage(IncomingMessage{
		MessageID: "m2", ChatID: "549351111", OptionID: OptionHacerPedido,
	}, ""))
	require.NoError(t, bot.HandleMessage(IncomingMessage{
		MessageID: "m3", ChatID: "549351111", Text: "2 barras queso",
	}, ""))
	messenger.reset()

	// A menu row picked mid-confirmation is not a yes or a no, so the bot
	// asks again instead of routing the selection.
	require.NoError(t, bot.HandleMessage(IncomingMessage{
		MessageID: "m4", ChatID: "549351111", OptionID: OptionHorarios,
	}, ""))
	require.Equal(t, []string{"text"}, messenger.kinds())
	assert.Contains(t, messenger.sent[0].body, "No entendi")

	order, err := store.GetOrder(1)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPendingCustomer, order.Status)
}

func TestStaleConfirmButtonIsIgnored(t *testing.T) {
	t.Parallel()

	bot, messenger, store := newTestBot()
	greetChat(t, bot, messenger, "549351111", "Caro")

	require.NoError(t, bot.HandleMessage(IncomingMessage{
		MessageID: "m2", ChatID: "549351111", OptionID: OptionHacerPedido,
	}, ""))
	require.NoError(t, bot.HandleMessage(IncomingMessage{
		MessageID: "m3", ChatID: "549351111", Text: "1 sachet mayonesa",
	}, ""))
	require.NoError(t, bot.HandleMessage(IncomingMessage{
		MessageID: "m4", ChatID: "549351111", ButtonID: ConfirmButtonID,
	}, ""))
	messenger.reset()

	// A second tap on the old confirm button arrives as a fresh event. The
	// flow already cleared, so nothing happens.
	require.NoError(t, bot.HandleMessage(IncomingMessage{
		MessageID: "m5", ChatID: "549351111", Text: "Si", ButtonID: ConfirmButtonID,
	}, ""))
	assert.Empty(t, messenger.sent)

	orders, err := store.ListOrders()
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, models.OrderStatusSubmitted, orders[0].Status)
}

func TestDuplicateMessageIDIsIgnored(t *testing.T) {
	t.Parallel()

	bot, messenger, store := newTestBot()
	greetChat(t, bot, messenger, "549351111", "Caro")

	require.NoError(t, bot.HandleMessage(IncomingMessage{
		MessageID: "m2", ChatID: "549351111", OptionID: OptionHacerPedido,
	}, ""))
	messenger.reset()

	msg := IncomingMessage{
		MessageID: "m3",
		ChatID:    "549351111",
		Text:      "3 cajas j.cocido",
	}
	require.NoError(t, bot.HandleMessage(msg, ""))

	// Meta redelivers the same webhook event; nothing should happen twice.
	require.NoError(t, bot.HandleMessage(msg, ""))

	orders, err := store.ListOrders()
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, []string{"text", "buttons"}, messenger.kinds())
}

func TestGreetingSendFailurePropagates(t *testing.T) {
	t.Parallel()

	bot, messenger, _ := newTestBot()
	messenger.textErr = errors.New("network down")

	err := bot.HandleMessage(IncomingMessage{
		MessageID:   "m1",
		ChatID:      "549351111",
		ProfileName: "Caro",
		Text:        "hola",
	}, "")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "send greeting"))
}

func TestSessionsAreIsolatedPerChat(t *testing.T) {
	t.Parallel()

	bot, messenger, store := newTestBot()
	greetChat(t, bot, messenger, "chat-a", "Ana")
	greetChat(t, bot, messenger, "chat-b", "Beto")

	require.NoError(t, bot.HandleMessage(IncomingMessage{
		MessageID: "a2", ChatID: "chat-a", OptionID: OptionHacerPedido,
	}, ""))
	messenger.reset()

	// chat-b is still idle, so its order-looking text is ignored.
	require.NoError(t, bot.HandleMessage(IncomingMessage{
		MessageID: "b2", ChatID: "chat-b", Text: "2 latas tomate",
	}, ""))
	assert.Empty(t, messenger.sent)

	// chat-a is mid-flow and captures its text as an order.
	require.NoError(t, bot.HandleMessage(IncomingMessage{
		MessageID: "a3", ChatID: "chat-a", Text: "1 bidon aceite",
	}, ""))

	orders, err := store.ListOrders()
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "chat-a", orders[0].ChatID)
	assert.Equal(t, 2, bot.Sessions().Count())
}
